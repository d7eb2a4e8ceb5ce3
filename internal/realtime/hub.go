package realtime

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"
)

const MsgInvalidate = "invalidate"

// Event 推送给后台页面的消息，收到后按 tags 重新拉取对应视图
type Event struct {
	Type      string    `json:"type"`
	Tags      []string  `json:"tags"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub 维护在线的后台连接并广播失效事件
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run 处理注册、注销与广播，直到 ctx 结束
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			payload := mustMarshal(event)
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- payload:
				default:
					// 写不进去的慢连接直接踢掉，页面重连后会全量刷新
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// PublishInvalidation 广播视图失效。队列满时丢弃事件，不阻塞写请求。
func (h *Hub) PublishInvalidation(tags []string) {
	event := &Event{Type: MsgInvalidate, Tags: append([]string(nil), tags...), Timestamp: time.Now()}
	select {
	case h.broadcast <- event:
	default:
		log.Printf("⚠️ 实时推送队列已满，丢弃失效事件: %v", tags)
	}
}

// ClientCount 当前在线连接数
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func mustMarshal(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("❌ 序列化实时事件失败: %v", err)
		return []byte("{}")
	}
	return b
}
