package moderation

import (
	"context"
	"errors"
	"fmt"

	"golden-anniversary-server/internal/model"

	"golang.org/x/sync/errgroup"
)

// 批量操作同时进行的请求数
const batchConcurrency = 4

var (
	ErrNothingSelected = errors.New("no messages selected")
	ErrUnknownAction   = errors.New("unknown moderation action")
	ErrDialogClosed    = errors.New("no batch action awaiting confirmation")
)

// Client 单条留言的后台操作
type Client interface {
	ApproveMessage(ctx context.Context, id string) error
	RejectMessage(ctx context.Context, id string) error
	DeleteMessage(ctx context.Context, id string) error
}

type Controller struct {
	store *Store
}

func NewController(store *Store) *Controller {
	if store == nil {
		store = NewStore()
	}
	return &Controller{store: store}
}

func (c *Controller) Store() *Store {
	return c.store
}

func (c *Controller) Toggle(id string) {
	c.store.Dispatch(Toggled{ID: id})
}

// SelectAll 只作用于当前过滤条件下可见的留言
func (c *Controller) SelectAll(items []model.Message) {
	visible := c.Visible(items)
	ids := make([]string, 0, len(visible))
	for _, m := range visible {
		ids = append(ids, m.ID)
	}
	c.store.Dispatch(SelectedAll{IDs: ids})
}

func (c *Controller) ClearSelection() {
	c.store.Dispatch(SelectionReset{})
}

func (c *Controller) SetFilter(f Filter) error {
	if !f.Valid() {
		return fmt.Errorf("unknown filter %q", f)
	}
	c.store.Dispatch(FilterChanged{Filter: f})
	return nil
}

// Visible 按当前过滤条件投影，保持原有顺序
func (c *Controller) Visible(items []model.Message) []model.Message {
	f := c.store.State().Filter
	if f == FilterAll {
		return items
	}
	out := make([]model.Message, 0, len(items))
	for _, m := range items {
		if m.Status == string(f) {
			out = append(out, m)
		}
	}
	return out
}

// OpenBatch 至少选中一条时打开确认框
func (c *Controller) OpenBatch(action Action) error {
	if !action.Valid() {
		return ErrUnknownAction
	}
	if len(c.store.State().Selected) == 0 {
		return ErrNothingSelected
	}
	c.store.Dispatch(DialogOpened{Action: action})
	return nil
}

// DialogCopy 确认框文案，随操作与选中数量变化
func (c *Controller) DialogCopy() string {
	s := c.store.State()
	if !s.Dialog.Open {
		return ""
	}
	n := len(s.Selected)
	noun := "messages"
	if n == 1 {
		noun = "message"
	}
	switch s.Dialog.Action {
	case ActionApprove:
		return fmt.Sprintf("Approve %d %s? They will appear on the public guestbook.", n, noun)
	case ActionReject:
		return fmt.Sprintf("Reject %d %s? They will be hidden from the public guestbook.", n, noun)
	case ActionDelete:
		return fmt.Sprintf("Permanently delete %d %s? This cannot be undone.", n, noun)
	}
	return ""
}

func (c *Controller) CancelBatch() {
	c.store.Dispatch(DialogClosed{})
}

// ConfirmBatch 对每个选中的 id 各发一次请求。
// 无论是否部分失败，结束后都清空选择并关闭确认框；返回失败 id 与原因。
func (c *Controller) ConfirmBatch(ctx context.Context, client Client) (map[string]error, error) {
	s := c.store.State()
	if !s.Dialog.Open {
		return nil, ErrDialogClosed
	}
	action := s.Dialog.Action
	ids := s.SelectedIDs()

	c.store.Dispatch(ActionStarted{IDs: ids, Action: action})

	errs := make([]error, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			errs[i] = run(gctx, client, action, id)
			c.store.Dispatch(ActionFinished{IDs: []string{id}})
			return nil
		})
	}
	_ = g.Wait()

	c.store.Dispatch(SelectionReset{})
	c.store.Dispatch(DialogClosed{})

	failed := map[string]error{}
	for i, err := range errs {
		if err != nil {
			failed[ids[i]] = err
		}
	}
	return failed, nil
}

// RunSingle 行内操作，执行期间该行处于 pending 状态
func (c *Controller) RunSingle(ctx context.Context, client Client, id string, action Action) error {
	if !action.Valid() {
		return ErrUnknownAction
	}
	if _, busy := c.store.State().PendingAction(id); busy {
		return fmt.Errorf("message %s already has an action in flight", id)
	}
	c.store.Dispatch(ActionStarted{IDs: []string{id}, Action: action})
	defer c.store.Dispatch(ActionFinished{IDs: []string{id}})
	return run(ctx, client, action, id)
}

func run(ctx context.Context, client Client, action Action, id string) error {
	switch action {
	case ActionApprove:
		return client.ApproveMessage(ctx, id)
	case ActionReject:
		return client.RejectMessage(ctx, id)
	case ActionDelete:
		return client.DeleteMessage(ctx, id)
	}
	return ErrUnknownAction
}
