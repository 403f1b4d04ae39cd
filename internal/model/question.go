package model

import (
	"strconv"
	"time"

	"github.com/lshigami/Bilim/internal/quiz"
	"gorm.io/gorm"
)

type Question struct {
	ID                 uint           `gorm:"primarykey" json:"id"`
	TestID             uint           `json:"test_id" gorm:"not null;index"`
	Text               string         `json:"text" gorm:"type:text;not null"`
	Options            []string       `json:"options" gorm:"serializer:json;not null"`
	CorrectAnswerIndex int            `json:"correct_answer_index"`
	Subject            string         `json:"subject"`
	Difficulty         string         `json:"difficulty"`
	OrderInTest        int            `json:"order_in_test" gorm:"not null"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

// QuizID is the identifier answers refer to.
func (q *Question) QuizID() string {
	return strconv.FormatUint(uint64(q.ID), 10)
}

func (q *Question) ToQuiz() quiz.Question {
	return quiz.Question{
		ID:                 q.QuizID(),
		Text:               q.Text,
		Options:            q.Options,
		CorrectAnswerIndex: q.CorrectAnswerIndex,
		Subject:            q.Subject,
		Difficulty:         quiz.Difficulty(q.Difficulty),
	}
}

// ToQuizQuestions converts questions in order.
func ToQuizQuestions(questions []Question) []quiz.Question {
	out := make([]quiz.Question, len(questions))
	for i := range questions {
		out[i] = questions[i].ToQuiz()
	}
	return out
}
