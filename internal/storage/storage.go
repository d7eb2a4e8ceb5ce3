package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"golden-anniversary-server/internal/config"

	"github.com/google/uuid"
)

// Object 描述一次写入后对象存储返回的引用。
type Object struct {
	Key  string
	URL  string
	Size int64
}

// ObjectStorage 照片字节的外部存储。
type ObjectStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*Object, error)
	Delete(ctx context.Context, key string) error
}

// NewObjectKey 生成按日期分区的唯一对象名，例如 2026/05/01/<uuid>.jpg。
func NewObjectKey(now time.Time, ext string) string {
	return path.Join(now.Format("2006/01/02"), uuid.NewString()+ext)
}

// New 根据配置选择存储后端。
func New(cfg config.StorageConfig) (ObjectStorage, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStorage(cfg.Path, cfg.URLPrefix), nil
	case "minio", "s3":
		return NewMinioStorage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
