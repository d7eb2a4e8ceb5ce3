package service

import (
	"context"
	"fmt"
	"log/slog"

	"golden-anniversary-server/internal/cache"

	"github.com/go-playground/validator/v10"
)

// AppService 汇总各业务模块共享的基础设施：结构化日志、视图缓存与记录校验。
type AppService struct {
	Logger   *slog.Logger
	Views    *cache.ViewCache
	validate *validator.Validate
}

func NewAppService(logger *slog.Logger, views *cache.ViewCache) *AppService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AppService{
		Logger:   logger,
		Views:    views,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// CheckRecord 在存储边界校验读出的记录，外部数据不符合结构时尽早拒绝。
func (s *AppService) CheckRecord(record any) error {
	if err := s.validate.Struct(record); err != nil {
		return fmt.Errorf("malformed %T record: %w", record, err)
	}
	return nil
}

// CheckRecords 逐条校验，返回第一个错误。
func CheckRecords[T any](s *AppService, records []T) error {
	for i := range records {
		if err := s.CheckRecord(&records[i]); err != nil {
			return err
		}
	}
	return nil
}

// Invalidate 使给定视图标签失效。
func (s *AppService) Invalidate(ctx context.Context, tags ...string) {
	s.Views.Invalidate(ctx, tags...)
}
