package model

import (
	"time"

	"gorm.io/gorm"
)

type Test struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Title       string         `json:"title" gorm:"not null;uniqueIndex"` // "ЕНТ Математика 1"
	Description string         `json:"description,omitempty"`
	Subject     string         `json:"subject" gorm:"not null;index"`
	Difficulty  string         `json:"difficulty" gorm:"not null;index"` // "easy", "medium", "hard"
	Language    string         `json:"language" gorm:"not null;default:'ru';index"`
	AuthorID    *uint          `json:"author_id,omitempty"`
	Questions   []Question     `json:"questions,omitempty" gorm:"foreignKey:TestID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
