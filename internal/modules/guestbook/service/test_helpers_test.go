package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"golden-anniversary-server/internal/cache"
	"golden-anniversary-server/internal/model"
	"golden-anniversary-server/internal/modules/guestbook/repo"
	platformservice "golden-anniversary-server/internal/platform/service"
	"golden-anniversary-server/internal/testutils"

	"github.com/neilotoole/slogt"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []model.Message
}

func (n *recordingNotifier) MessageSubmitted(_ context.Context, msg model.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
}

type fixture struct {
	svc         *Service
	notifier    *recordingNotifier
	invalidated [][]string
	clock       time.Time
}

// tick 推进测试时钟并返回新的时间
func (f *fixture) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := testutils.SetupDB(t)

	logger := slogt.New(t)
	views := cache.NewViewCache(cache.NewMemoryStore(), logger)
	f := &fixture{
		notifier: &recordingNotifier{},
		clock:    time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	views.OnInvalidate(func(tags []string) { f.invalidated = append(f.invalidated, tags) })

	f.svc = New(platformservice.NewAppService(logger, views), repo.NewMessageRepository(gdb), f.notifier)
	f.svc.SetClock(f.tick)
	return f
}
