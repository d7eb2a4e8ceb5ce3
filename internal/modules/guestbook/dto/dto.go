package dto

import (
	"time"

	"golden-anniversary-server/internal/model"
)

type CreateMessageRequest struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// ListQuery 后台列表参数，page 从 1 开始；status 为空或 all 表示不过滤
type ListQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Status   string `form:"status"`
}

type MessagePage struct {
	Items      []model.Message `json:"items"`
	Total      int64           `json:"total"`
	TotalPages int             `json:"total_pages"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
}

// PublicMessage 公开留言板展示的字段
type PublicMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type PublicMessagePage struct {
	Items      []PublicMessage `json:"items"`
	Total      int64           `json:"total"`
	TotalPages int             `json:"total_pages"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
}

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionDelete  = "delete"
)

type BatchRequest struct {
	Action string   `json:"action" binding:"required,oneof=approve reject delete"`
	IDs    []string `json:"ids" binding:"required,min=1"`
}

// BatchResult 每个 id 独立执行，失败的 id 附带错误信息
type BatchResult struct {
	Action    string            `json:"action"`
	Succeeded []string          `json:"succeeded"`
	Failed    map[string]string `json:"failed"`
}

type MessageStats struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Total    int64 `json:"total"`
}
