package gallery

import (
	"golden-anniversary-server/internal/modules/gallery/handler"
	"golden-anniversary-server/internal/modules/gallery/repo"
	"golden-anniversary-server/internal/modules/gallery/service"
	platformservice "golden-anniversary-server/internal/platform/service"
	"golden-anniversary-server/internal/storage"
)

type Module struct {
	Service *service.Service
	Handler *handler.Handler
}

func New(appService *platformservice.AppService, photoStore repo.PhotoStore, objectStorage storage.ObjectStorage) *Module {
	moduleService := service.New(appService, photoStore, objectStorage)
	moduleHandler := handler.New(moduleService)

	return &Module{
		Service: moduleService,
		Handler: moduleHandler,
	}
}
