package moderation

// Event 描述一次状态变更，由 Reduce 纯函数应用
type Event interface {
	isEvent()
}

type (
	Toggled        struct{ ID string }
	SelectedAll    struct{ IDs []string }
	SelectionReset struct{}
	FilterChanged  struct{ Filter Filter }
	DialogOpened   struct{ Action Action }
	DialogClosed   struct{}
	ActionStarted  struct {
		IDs    []string
		Action Action
	}
	ActionFinished struct{ IDs []string }
)

func (Toggled) isEvent()        {}
func (SelectedAll) isEvent()    {}
func (SelectionReset) isEvent() {}
func (FilterChanged) isEvent()  {}
func (DialogOpened) isEvent()   {}
func (DialogClosed) isEvent()   {}
func (ActionStarted) isEvent()  {}
func (ActionFinished) isEvent() {}

// Reduce 返回新状态，不修改传入的 s
func Reduce(s State, e Event) State {
	next := s.clone()

	switch ev := e.(type) {
	case Toggled:
		if next.IsSelected(ev.ID) {
			delete(next.Selected, ev.ID)
		} else {
			next.Selected[ev.ID] = struct{}{}
		}

	case SelectedAll:
		// 可见行全部已选时取消这些行，否则全部选中；不可见行的选择保持不变
		all := len(ev.IDs) > 0
		for _, id := range ev.IDs {
			if !next.IsSelected(id) {
				all = false
				break
			}
		}
		for _, id := range ev.IDs {
			if all {
				delete(next.Selected, id)
			} else {
				next.Selected[id] = struct{}{}
			}
		}

	case SelectionReset:
		next.Selected = map[string]struct{}{}

	case FilterChanged:
		if ev.Filter.Valid() {
			next.Filter = ev.Filter
		}

	case DialogOpened:
		next.Dialog = Dialog{Open: true, Action: ev.Action}

	case DialogClosed:
		next.Dialog = Dialog{}

	case ActionStarted:
		for _, id := range ev.IDs {
			next.Pending[id] = ev.Action
		}

	case ActionFinished:
		for _, id := range ev.IDs {
			delete(next.Pending, id)
		}
	}

	return next
}
