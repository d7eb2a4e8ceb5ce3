package model

import "time"

// Message 留言板条目，公开提交后始终处于 pending 状态，等待审核
type Message struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"required,uuid"`
	Name       string     `json:"name" gorm:"not null;size:100" validate:"required,max=100"`
	Message    string     `json:"message" gorm:"not null;size:500" validate:"required,max=500"`
	Status     string     `json:"status" gorm:"not null;index;size:16" validate:"oneof=pending approved rejected"`
	CreatedAt  time.Time  `json:"created_at" gorm:"not null;index"`
	ApprovedAt *time.Time `json:"approved_at"`
	RejectedAt *time.Time `json:"rejected_at"`
}
