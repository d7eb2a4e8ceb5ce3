package modules

import (
	"golden-anniversary-server/internal/modules/auth"
	authrepo "golden-anniversary-server/internal/modules/auth/repo"
	"golden-anniversary-server/internal/modules/gallery"
	galleryrepo "golden-anniversary-server/internal/modules/gallery/repo"
	"golden-anniversary-server/internal/modules/guestbook"
	guestbookrepo "golden-anniversary-server/internal/modules/guestbook/repo"
	"golden-anniversary-server/internal/notify"
	platformservice "golden-anniversary-server/internal/platform/service"
	"golden-anniversary-server/internal/storage"
)

type AppModules struct {
	Auth      *auth.Module
	Guestbook *guestbook.Module
	Gallery   *gallery.Module
}

func New(
	appService *platformservice.AppService,
	userStore authrepo.UserStore,
	messageStore guestbookrepo.MessageStore,
	photoStore galleryrepo.PhotoStore,
	objectStorage storage.ObjectStorage,
	notifier notify.Notifier,
) *AppModules {
	return &AppModules{
		Auth:      auth.New(appService, userStore),
		Guestbook: guestbook.New(appService, messageStore, notifier),
		Gallery:   gallery.New(appService, photoStore, objectStorage),
	}
}
