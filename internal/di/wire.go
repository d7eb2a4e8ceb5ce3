//go:build wireinject
// +build wireinject

package di

import (
	"golden-anniversary-server/internal/modules"
	authrepo "golden-anniversary-server/internal/modules/auth/repo"
	galleryrepo "golden-anniversary-server/internal/modules/gallery/repo"
	guestbookrepo "golden-anniversary-server/internal/modules/guestbook/repo"
	"golden-anniversary-server/internal/notify"
	platformservice "golden-anniversary-server/internal/platform/service"
	"golden-anniversary-server/internal/realtime"
	"golden-anniversary-server/internal/router"
	"golden-anniversary-server/internal/storage"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var repositorySet = wire.NewSet(
	authrepo.NewUserRepository,
	wire.Bind(new(authrepo.UserStore), new(*authrepo.UserRepository)),
	guestbookrepo.NewMessageRepository,
	wire.Bind(new(guestbookrepo.MessageStore), new(*guestbookrepo.MessageRepository)),
	galleryrepo.NewPhotoRepository,
	wire.Bind(new(galleryrepo.PhotoStore), new(*galleryrepo.PhotoRepository)),
)

func InitializeApplication(
	gormDB *gorm.DB,
	appService *platformservice.AppService,
	objectStorage storage.ObjectStorage,
	notifier notify.Notifier,
	hub *realtime.Hub,
	redisClient *redis.Client,
) (*Application, error) {
	wire.Build(
		repositorySet,
		modules.New,
		router.NewRouter,
		NewApplication,
	)
	return nil, nil
}
