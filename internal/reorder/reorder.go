// Package reorder 拖拽排序的本地状态与防抖持久化。
// 每次放下立即更新本地顺序；300ms 内没有新的拖拽才把最新的完整顺序发给后端，中间状态不会发送。
package reorder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

const DefaultDelay = 300 * time.Millisecond

var ErrClosed = errors.New("reorder controller closed")

// Persister 把完整顺序写回后端
type Persister func(ctx context.Context, ids []string) error

type Option func(*Controller)

func WithDelay(d time.Duration) Option {
	return func(c *Controller) { c.delay = d }
}

// WithOnError 持久化失败时回调。失败不会回滚本地顺序。
func WithOnError(fn func(ids []string, err error)) Option {
	return func(c *Controller) { c.onError = fn }
}

// WithOnChange 本地顺序或 reordering 标记变化时回调
func WithOnChange(fn func(ids []string)) Option {
	return func(c *Controller) { c.onChange = fn }
}

type Controller struct {
	persist  Persister
	delay    time.Duration
	onError  func(ids []string, err error)
	onChange func(ids []string)

	mu         sync.Mutex
	ids        []string
	moved      map[string]struct{} // 自上次持久化以来被拖动过的 id
	reordering map[string]struct{} // 正在持久化中的 id
	timer      *time.Timer
	dirty      bool
	closed     bool

	// 串行化持久化调用，保证后发出的顺序最后落库
	persistMu sync.Mutex
}

func New(ids []string, persist Persister, opts ...Option) *Controller {
	c := &Controller{
		persist:    persist,
		delay:      DefaultDelay,
		ids:        append([]string(nil), ids...),
		moved:      map[string]struct{}{},
		reordering: map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Move 返回把 from 位置的元素移到 to 位置后的新切片，不修改入参
func Move(ids []string, from, to int) ([]string, error) {
	if from < 0 || from >= len(ids) || to < 0 || to >= len(ids) {
		return nil, fmt.Errorf("move %d -> %d out of range [0,%d)", from, to, len(ids))
	}
	out := make([]string, 0, len(ids))
	out = append(out, ids[:from]...)
	out = append(out, ids[from+1:]...)
	moved := ids[from]
	out = append(out[:to], append([]string{moved}, out[to:]...)...)
	return out, nil
}

// IDs 当前本地顺序
func (c *Controller) IDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.ids...)
}

// Drop 拖拽放下：立即更新本地顺序并重新计时
func (c *Controller) Drop(from, to int) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	next, err := Move(c.ids, from, to)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	if from == to {
		c.mu.Unlock()
		return nil
	}
	c.moved[c.ids[from]] = struct{}{}
	c.ids = next
	c.dirty = true
	c.resetTimerLocked()
	snapshot := append([]string(nil), c.ids...)
	c.mu.Unlock()

	c.notify(snapshot)
	return nil
}

// Reordering 该 id 的新顺序是否正在写回后端
func (c *Controller) Reordering(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.reordering[id]
	return ok
}

// Pending 是否有尚未发出的顺序
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// Flush 取消计时并立即持久化尚未发出的顺序
func (c *Controller) Flush(ctx context.Context) error {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
	return c.persistLatest(ctx)
}

// Reset 用后端重新拉取的顺序替换本地状态，丢弃尚未发出的顺序
func (c *Controller) Reset(ids []string) {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.ids = append([]string(nil), ids...)
	c.moved = map[string]struct{}{}
	c.dirty = false
	snapshot := append([]string(nil), c.ids...)
	c.mu.Unlock()

	c.notify(snapshot)
}

// Close 取消等待中的计时，之后的 Drop 返回 ErrClosed。已经发出的请求不受影响。
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) resetTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.delay, func() {
		_ = c.persistLatest(context.Background())
	})
}

func (c *Controller) persistLatest(ctx context.Context) error {
	c.persistMu.Lock()
	defer c.persistMu.Unlock()

	c.mu.Lock()
	if !c.dirty {
		c.mu.Unlock()
		return nil
	}
	ids := append([]string(nil), c.ids...)
	inFlight := c.moved
	c.moved = map[string]struct{}{}
	c.dirty = false
	for id := range inFlight {
		c.reordering[id] = struct{}{}
	}
	c.mu.Unlock()
	c.notify(ids)

	err := c.persist(ctx, ids)

	c.mu.Lock()
	for id := range inFlight {
		delete(c.reordering, id)
	}
	snapshot := append([]string(nil), c.ids...)
	c.mu.Unlock()
	c.notify(snapshot)

	if err != nil && c.onError != nil {
		c.onError(ids, err)
	}
	return err
}

func (c *Controller) notify(ids []string) {
	if c.onChange != nil {
		c.onChange(ids)
	}
}
