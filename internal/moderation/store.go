package moderation

import "sync"

// Store 持有当前状态并向订阅者推送快照
type Store struct {
	mu      sync.Mutex
	state   State
	version uint64
	nextID  int
	subs    map[int]func(State)

	// notifyMu 串行化推送，delivered 之前的旧快照直接丢弃
	notifyMu  sync.Mutex
	delivered uint64
}

func NewStore() *Store {
	return &Store{
		state: NewState(),
		subs:  map[int]func(State){},
	}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Dispatch 应用事件后同步通知订阅者。
// 并发 Dispatch 时订阅者按版本顺序收到快照，最后一帧总是最新状态。
// 回调中不能再调用 Dispatch。
func (s *Store) Dispatch(e Event) State {
	s.mu.Lock()
	s.state = Reduce(s.state, e)
	s.version++
	version := s.version
	snapshot := s.state.clone()
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if version <= s.delivered {
		return snapshot
	}
	s.delivered = version
	for _, fn := range subs {
		fn(snapshot.clone())
	}
	return snapshot
}

// Subscribe 返回取消订阅函数
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}
