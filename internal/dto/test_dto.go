package dto

import "time"

// QuestionResponseDTO is used for displaying question details. The correct
// answer is only filled in for authors.
type QuestionResponseDTO struct {
	ID                 uint     `json:"id"`
	TestID             uint     `json:"testId"`
	Text               string   `json:"text"`
	Options            []string `json:"options"`
	CorrectAnswerIndex *int     `json:"correctAnswerIndex,omitempty"`
	Subject            string   `json:"subject,omitempty"`
	Difficulty         string   `json:"difficulty,omitempty"`
	OrderInTest        int      `json:"orderInTest"`
}

// TestResponseDTO is used for displaying full test details.
type TestResponseDTO struct {
	ID          uint                  `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description,omitempty"`
	Subject     string                `json:"subject"`
	Difficulty  string                `json:"difficulty"`
	Language    string                `json:"language"`
	Questions   []QuestionResponseDTO `json:"questions,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
}

// TestSummaryDTO is used for listing tests.
type TestSummaryDTO struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Subject       string    `json:"subject"`
	Difficulty    string    `json:"difficulty"`
	Language      string    `json:"language"`
	QuestionCount int       `json:"questionCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// TestFilter narrows the catalogue listing.
type TestFilter struct {
	Subject    string `form:"subject"`
	Difficulty string `form:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	Language   string `form:"language" binding:"omitempty,oneof=ru kk"`
}

// SessionResponse is a server-held session as seen by its owner.
type SessionResponse struct {
	ID                   string               `json:"id"`
	TestID               uint                 `json:"testId"`
	Status               string               `json:"status"`
	CurrentIndex         int                  `json:"currentIndex"`
	TotalQuestions       int                  `json:"totalQuestions"`
	AnsweredCount        int                  `json:"answeredCount"`
	PendingOptionIndex   *int                 `json:"pendingOptionIndex,omitempty"`
	TimeRemainingSeconds int                  `json:"timeRemainingSeconds"`
	ElapsedSeconds       int                  `json:"elapsedSeconds"`
	Question             *QuestionResponseDTO `json:"question,omitempty"`
	Result               *SessionResultDTO    `json:"result,omitempty"`
	ResultID             *uint                `json:"resultId,omitempty"`
}

// SessionResultDTO is the locally computed outcome of a completed session.
type SessionResultDTO struct {
	Score            int               `json:"score"`
	Total            int               `json:"total"`
	Percentage       int               `json:"percentage"`
	TimeSpentSeconds int               `json:"timeSpentSeconds"`
	PerQuestion      []AnswerResultDTO `json:"perQuestion"`
}
