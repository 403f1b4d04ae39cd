package model

import (
	"time"
)

type ResultAnswer struct {
	ID                  uint      `gorm:"primarykey" json:"id"`
	TestResultID        uint      `json:"test_result_id" gorm:"not null;index"`
	QuestionID          string    `json:"question_id" gorm:"not null"`
	SelectedOptionIndex int       `json:"selected_option_index"` // -1 when unanswered
	Correct             bool      `json:"correct"`
	CreatedAt           time.Time `json:"created_at"`
}
