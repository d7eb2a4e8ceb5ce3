package guestbook

import (
	"golden-anniversary-server/internal/modules/guestbook/handler"
	"golden-anniversary-server/internal/modules/guestbook/repo"
	"golden-anniversary-server/internal/modules/guestbook/service"
	"golden-anniversary-server/internal/notify"
	platformservice "golden-anniversary-server/internal/platform/service"
)

type Module struct {
	Service *service.Service
	Handler *handler.Handler
}

func New(appService *platformservice.AppService, messageStore repo.MessageStore, notifier notify.Notifier) *Module {
	moduleService := service.New(appService, messageStore, notifier)
	moduleHandler := handler.New(moduleService)

	return &Module{
		Service: moduleService,
		Handler: moduleHandler,
	}
}
