package auth

import (
	"golden-anniversary-server/internal/modules/auth/handler"
	"golden-anniversary-server/internal/modules/auth/repo"
	"golden-anniversary-server/internal/modules/auth/service"
	platformservice "golden-anniversary-server/internal/platform/service"
)

type Module struct {
	Service *service.Service
	Handler *handler.Handler
}

func New(appService *platformservice.AppService, userStore repo.UserStore) *Module {
	moduleService := service.New(appService, userStore)
	moduleHandler := handler.New(moduleService)

	return &Module{
		Service: moduleService,
		Handler: moduleHandler,
	}
}
