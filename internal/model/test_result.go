package model

import (
	"time"

	"gorm.io/gorm"
)

type TestResult struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	UserID           uint           `json:"user_id" gorm:"not null;index"`
	TestID           *uint          `json:"test_id,omitempty" gorm:"index"`
	Test             *Test          `json:"test,omitempty" gorm:"foreignKey:TestID"`
	Subject          string         `json:"subject"`
	Difficulty       string         `json:"difficulty"`
	Score            int            `json:"score" gorm:"not null"`
	Total            int            `json:"total" gorm:"not null"`
	Percentage       int            `json:"percentage" gorm:"not null"`
	TimeSpentSeconds int            `json:"time_spent_seconds"`
	Skipped          int            `json:"skipped,omitempty"`
	Answers          []ResultAnswer `json:"answers,omitempty" gorm:"foreignKey:TestResultID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt        time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
