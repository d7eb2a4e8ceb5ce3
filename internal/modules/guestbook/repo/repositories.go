package repo

import (
	"context"
	"time"

	"golden-anniversary-server/internal/model"
)

type ListParams struct {
	Status string
	Offset int
	Limit  int
}

type MessageStore interface {
	Create(ctx context.Context, msg *model.Message) error
	List(ctx context.Context, params ListParams) ([]model.Message, int64, error)
	FindByID(ctx context.Context, id string) (*model.Message, error)
	// UpdateStatus 写入状态并把对应时间戳设为 at；没有匹配行时返回 gorm.ErrRecordNotFound
	UpdateStatus(ctx context.Context, id, status string, at time.Time) (*model.Message, error)
	Delete(ctx context.Context, id string) (int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}
