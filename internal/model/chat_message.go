package model

import "time"

type ChatMessage struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Language  string    `json:"language" gorm:"not null"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	Reply     string    `json:"reply" gorm:"type:text;not null"`
	Provider  string    `json:"provider"`
	Fallback  bool      `json:"fallback"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}
