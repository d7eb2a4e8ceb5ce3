package reorder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type recorder struct {
	mu      sync.Mutex
	calls   [][]string
	err     error
	gate    chan struct{} // 非 nil 时每次调用阻塞到 gate 关闭
	entered chan struct{}
}

func (r *recorder) persist(ctx context.Context, ids []string) error {
	if r.entered != nil {
		r.entered <- struct{}{}
	}
	if r.gate != nil {
		<-r.gate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, append([]string(nil), ids...))
	return r.err
}

func (r *recorder) snapshot() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.calls...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("等待条件超时")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestMove(t *testing.T) {
	cases := []struct {
		from, to int
		want     []string
	}{
		{0, 2, []string{"b", "c", "a"}},
		{2, 0, []string{"c", "a", "b"}},
		{1, 1, []string{"a", "b", "c"}},
		{1, 2, []string{"a", "c", "b"}},
	}
	in := []string{"a", "b", "c"}
	for _, tc := range cases {
		got, err := Move(in, tc.from, tc.to)
		if err != nil {
			t.Fatalf("Move(%d,%d): %v", tc.from, tc.to, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("Move(%d,%d) (-want +got):\n%s", tc.from, tc.to, diff)
		}
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, in); diff != "" {
		t.Fatalf("Move 不应修改入参")
	}
	if _, err := Move(in, 3, 0); err == nil {
		t.Fatalf("期望越界报错")
	}
}

// 测试内容：验证连续拖拽只持久化最后的完整顺序，本地顺序立即更新。
func TestDrop_DebouncesToLatestOrder(t *testing.T) {
	rec := &recorder{}
	c := New([]string{"p0", "p1", "p2"}, rec.persist, WithDelay(40*time.Millisecond))
	defer c.Close()

	if err := c.Drop(2, 0); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if diff := cmp.Diff([]string{"p2", "p0", "p1"}, c.IDs()); diff != "" {
		t.Fatalf("期望本地顺序立即更新 (-want +got):\n%s", diff)
	}
	if err := c.Drop(0, 1); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if len(rec.snapshot()) != 0 {
		t.Fatalf("防抖窗口内不应持久化")
	}

	waitFor(t, func() bool { return len(rec.snapshot()) == 1 })
	time.Sleep(80 * time.Millisecond)

	calls := rec.snapshot()
	if diff := cmp.Diff([][]string{{"p0", "p2", "p1"}}, calls); diff != "" {
		t.Fatalf("期望只持久化一次最新顺序 (-want +got):\n%s", diff)
	}
	if c.Pending() {
		t.Fatalf("持久化后不应还有待发送顺序")
	}
}

// 测试内容：验证持久化期间被拖动的 id 标记为 reordering，结束后清除。
func TestReordering_MarkedWhileInFlight(t *testing.T) {
	rec := &recorder{gate: make(chan struct{}), entered: make(chan struct{}, 1)}
	c := New([]string{"a", "b", "c"}, rec.persist, WithDelay(10*time.Millisecond))
	defer c.Close()

	_ = c.Drop(0, 2)
	if c.Reordering("a") {
		t.Fatalf("防抖等待期间不应标记 reordering")
	}

	<-rec.entered
	if !c.Reordering("a") {
		t.Fatalf("期望 a 在持久化期间标记为 reordering")
	}
	if c.Reordering("b") {
		t.Fatalf("未被拖动的 b 不应标记")
	}

	close(rec.gate)
	waitFor(t, func() bool { return !c.Reordering("a") })
}

// 测试内容：验证持久化失败保留本地顺序并回调 OnError。
func TestPersistFailure_KeepsOptimisticOrder(t *testing.T) {
	rec := &recorder{err: errors.New("network down")}
	var (
		mu       sync.Mutex
		reported []string
	)
	c := New([]string{"a", "b"}, rec.persist,
		WithDelay(time.Hour),
		WithOnError(func(ids []string, err error) {
			mu.Lock()
			defer mu.Unlock()
			reported = ids
		}),
	)
	defer c.Close()

	_ = c.Drop(1, 0)
	if err := c.Flush(context.Background()); err == nil {
		t.Fatalf("期望 Flush 返回持久化错误")
	}
	if diff := cmp.Diff([]string{"b", "a"}, c.IDs()); diff != "" {
		t.Fatalf("失败后应保留本地顺序 (-want +got):\n%s", diff)
	}
	mu.Lock()
	defer mu.Unlock()
	if diff := cmp.Diff([]string{"b", "a"}, reported); diff != "" {
		t.Fatalf("OnError 参数不符 (-want +got):\n%s", diff)
	}
	if c.Reordering("b") {
		t.Fatalf("失败后应清除 reordering 标记")
	}
}

// 测试内容：验证 Flush 在没有改动时不调用后端，Close 后待发送顺序被丢弃且不能再拖拽。
func TestFlushAndClose(t *testing.T) {
	rec := &recorder{}
	c := New([]string{"a", "b", "c"}, rec.persist, WithDelay(30*time.Millisecond))

	if err := c.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if len(rec.snapshot()) != 0 {
		t.Fatalf("没有改动时不应持久化")
	}

	_ = c.Drop(0, 1)
	c.Close()
	time.Sleep(60 * time.Millisecond)
	if len(rec.snapshot()) != 0 {
		t.Fatalf("Close 后计时器不应触发")
	}
	if err := c.Drop(0, 1); !errors.Is(err, ErrClosed) {
		t.Fatalf("期望 ErrClosed，实际为 %v", err)
	}
}

// 测试内容：验证 Reset 用后端顺序替换本地状态并丢弃待发送顺序。
func TestReset(t *testing.T) {
	rec := &recorder{}
	var changes [][]string
	c := New([]string{"a", "b"}, rec.persist,
		WithDelay(time.Hour),
		WithOnChange(func(ids []string) { changes = append(changes, ids) }),
	)
	defer c.Close()

	_ = c.Drop(0, 1)
	c.Reset([]string{"x", "y", "z"})
	if c.Pending() {
		t.Fatalf("Reset 后不应有待发送顺序")
	}
	if err := c.Flush(context.Background()); err != nil || len(rec.snapshot()) != 0 {
		t.Fatalf("Reset 后 Flush 不应持久化: err=%v calls=%v", err, rec.snapshot())
	}
	if diff := cmp.Diff([][]string{{"b", "a"}, {"x", "y", "z"}}, changes); diff != "" {
		t.Fatalf("OnChange 不符 (-want +got):\n%s", diff)
	}
}
