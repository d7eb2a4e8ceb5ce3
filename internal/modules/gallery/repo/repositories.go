package repo

import (
	"context"

	"golden-anniversary-server/internal/model"
)

type PhotoStore interface {
	// Create 写入并回读照片记录；没有写入任何行时返回 (nil, nil)
	Create(ctx context.Context, photo *model.Photo) (*model.Photo, error)
	// List 按 order 升序，order 相同按创建时间升序；category 为空表示全部
	List(ctx context.Context, category string) ([]model.Photo, error)
	NextOrder(ctx context.Context, category string) (int, error)
	FindByID(ctx context.Context, id string) (*model.Photo, error)
	UpdateTitle(ctx context.Context, id string, title *string) (*model.Photo, error)
	// Reorder 在一个事务中把 ids[i] 的 order 设为 i，不存在的 id 忽略
	Reorder(ctx context.Context, ids []string) error
	Delete(ctx context.Context, id string) (int64, error)
}
