package dto

import "time"

type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"createdAt"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

type AnswerResultDTO struct {
	QuestionID          string `json:"questionId"`
	SelectedOptionIndex int    `json:"selectedOptionIndex"`
	Correct             bool   `json:"correct"`
}

type ResultResponse struct {
	ID               uint              `json:"id"`
	TestID           *uint             `json:"testId,omitempty"`
	Subject          string            `json:"subject,omitempty"`
	Difficulty       string            `json:"difficulty,omitempty"`
	Score            int               `json:"score"`
	Total            int               `json:"total"`
	Percentage       int               `json:"percentage"`
	TimeSpentSeconds int               `json:"timeSpentSeconds"`
	Skipped          int               `json:"skipped,omitempty"`
	Answers          []AnswerResultDTO `json:"answers,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
}

type StatsResponse struct {
	TotalTests            int                `json:"totalTests"`
	AverageScore          int                `json:"averageScore"`
	StudyStreak           int                `json:"studyStreak"`
	TotalStudyTimeMinutes int                `json:"totalStudyTimeMinutes"`
	Percentile            int                `json:"percentile"`
	SubjectBreakdown      []BreakdownDTO     `json:"subjectBreakdown"`
	DifficultyBreakdown   []BreakdownDTO     `json:"difficultyBreakdown"`
	ProgressTrend         []ProgressPointDTO `json:"progressTrend"`
}

type BreakdownDTO struct {
	Key              string `json:"key"`
	Count            int    `json:"count"`
	AverageScore     int    `json:"averageScore"`
	TotalTimeMinutes int    `json:"totalTimeMinutes"`
	Percentage       int    `json:"percentage"`
}

type ProgressPointDTO struct {
	Date    string `json:"date"`
	Score   int    `json:"score"`
	Subject string `json:"subject"`
}

type ChatResponse struct {
	Reply    string `json:"reply"`
	Provider string `json:"provider"`
	Fallback bool   `json:"fallback"`
}

type ChatMessageDTO struct {
	ID        uint      `json:"id"`
	Language  string    `json:"language"`
	Message   string    `json:"message"`
	Reply     string    `json:"reply"`
	Provider  string    `json:"provider"`
	Fallback  bool      `json:"fallback"`
	CreatedAt time.Time `json:"createdAt"`
}

type AssignmentResponse struct {
	Experiment string `json:"experiment"`
	VisitorID  string `json:"visitorId"`
	Variant    string `json:"variant"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
