package quiz

import (
	"github.com/lshigami/Bilim/internal/apperror"
)

// Difficulty is the difficulty tier of a question.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Valid reports whether d is one of the known tiers.
func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard:
		return true
	}
	return false
}

// Question is a multiple-choice question. The index of an option is its
// choice identifier.
type Question struct {
	ID                 string
	Text               string
	Options            []string
	CorrectAnswerIndex int
	Subject            string
	Difficulty         Difficulty
}

// Validate checks the structural invariants of a question.
func (q Question) Validate() error {
	if q.Text == "" {
		return apperror.Validation("text", "question text is required")
	}
	if len(q.Options) < 2 {
		return apperror.Validation("options", "at least 2 options required, got %d", len(q.Options))
	}
	if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
		return apperror.Validation("correctAnswerIndex", "%d is out of range [0,%d)", q.CorrectAnswerIndex, len(q.Options))
	}
	if q.Difficulty != "" && !q.Difficulty.Valid() {
		return apperror.Validation("difficulty", "unknown difficulty %q", q.Difficulty)
	}
	return nil
}

// Answer is a committed choice for one question.
type Answer struct {
	QuestionID          string `json:"questionId"`
	SelectedOptionIndex int    `json:"selectedOptionIndex"`
}
