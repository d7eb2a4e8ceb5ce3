package model

import "time"

type Photo struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"required,uuid"`
	Filename  string    `json:"filename" gorm:"not null;unique" validate:"required"`
	Title     *string   `json:"title"`
	URL       string    `json:"url" gorm:"not null" validate:"required"`
	FileID    string    `json:"file_id" gorm:"not null;unique" validate:"required"`
	Size      int64     `json:"size" gorm:"not null" validate:"gte=0"`
	Width     int       `json:"width" gorm:"not null"`
	Height    int       `json:"height" gorm:"not null"`
	Category  string    `json:"category" gorm:"not null;index;size:16" validate:"oneof=memory event"`
	Order     int       `json:"order" gorm:"column:sort_order;not null;default:0;index" validate:"gte=0"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
}
