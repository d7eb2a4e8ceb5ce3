package service

import (
	"time"

	"golden-anniversary-server/internal/modules/gallery/repo"
	platformservice "golden-anniversary-server/internal/platform/service"
	"golden-anniversary-server/internal/storage"
)

type Service struct {
	*platformservice.AppService
	photoStore repo.PhotoStore
	storage    storage.ObjectStorage
	now        func() time.Time
}

func New(appService *platformservice.AppService, photoStore repo.PhotoStore, objectStorage storage.ObjectStorage) *Service {
	return &Service{
		AppService: appService,
		photoStore: photoStore,
		storage:    objectStorage,
		now:        func() time.Time { return time.Now().UTC() },
	}
}
