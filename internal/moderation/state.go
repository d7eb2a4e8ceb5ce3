package moderation

import (
	"sort"

	"golden-anniversary-server/internal/consts"
)

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionDelete  Action = "delete"
)

func (a Action) Valid() bool {
	switch a {
	case ActionApprove, ActionReject, ActionDelete:
		return true
	}
	return false
}

type Filter string

const (
	FilterAll      Filter = "all"
	FilterPending  Filter = Filter(consts.MessageStatusPending)
	FilterApproved Filter = Filter(consts.MessageStatusApproved)
	FilterRejected Filter = Filter(consts.MessageStatusRejected)
)

func (f Filter) Valid() bool {
	switch f {
	case FilterAll, FilterPending, FilterApproved, FilterRejected:
		return true
	}
	return false
}

type Dialog struct {
	Open   bool
	Action Action
}

// State 后台审核视图的全部本地状态。
// 选择集与过滤条件相互独立：切换过滤条件不会清空选择。
type State struct {
	Selected map[string]struct{}
	Filter   Filter
	Pending  map[string]Action
	Dialog   Dialog
}

func NewState() State {
	return State{
		Selected: map[string]struct{}{},
		Filter:   FilterAll,
		Pending:  map[string]Action{},
	}
}

func (s State) IsSelected(id string) bool {
	_, ok := s.Selected[id]
	return ok
}

// SelectedIDs 按字典序返回，保证批量操作的顺序稳定
func (s State) SelectedIDs() []string {
	ids := make([]string, 0, len(s.Selected))
	for id := range s.Selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// PendingAction 返回该行正在进行的操作，没有时 ok=false
func (s State) PendingAction(id string) (Action, bool) {
	a, ok := s.Pending[id]
	return a, ok
}

func (s State) clone() State {
	out := State{
		Selected: make(map[string]struct{}, len(s.Selected)),
		Filter:   s.Filter,
		Pending:  make(map[string]Action, len(s.Pending)),
		Dialog:   s.Dialog,
	}
	for id := range s.Selected {
		out.Selected[id] = struct{}{}
	}
	for id, a := range s.Pending {
		out.Pending[id] = a
	}
	return out
}
