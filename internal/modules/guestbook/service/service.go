package service

import (
	"fmt"
	"time"

	"golden-anniversary-server/internal/modules/guestbook/repo"
	"golden-anniversary-server/internal/notify"
	platformservice "golden-anniversary-server/internal/platform/service"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type Service struct {
	*platformservice.AppService
	messageStore repo.MessageStore
	notifier     notify.Notifier
	now          func() time.Time
}

func New(appService *platformservice.AppService, messageStore repo.MessageStore, notifier notify.Notifier) *Service {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &Service{
		AppService:   appService,
		messageStore: messageStore,
		notifier:     notifier,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// SetClock 替换时间源，测试中用于断言时间戳
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// normalizePage 缺省页码与页大小；页大小超过上限时报错而不是截断，保证 totalPages 与请求的 pageSize 一致
func normalizePage(page, pageSize int) (int, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		return 0, 0, fmt.Errorf("page_size must not exceed %d", maxPageSize)
	}
	return page, pageSize, nil
}

func totalPages(total int64, pageSize int) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
