package handler

import guestbookservice "golden-anniversary-server/internal/modules/guestbook/service"

type Handler struct {
	guestbookService *guestbookservice.Service
}

func New(guestbookService *guestbookservice.Service) *Handler {
	return &Handler{guestbookService: guestbookService}
}
