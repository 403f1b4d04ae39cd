package dto

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Language string `json:"language" binding:"omitempty,oneof=ru kk"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AnswerDTO is one recorded answer.
type AnswerDTO struct {
	QuestionID          string `json:"questionId" binding:"required"`
	SelectedOptionIndex int    `json:"selectedOptionIndex" binding:"min=-1"`
}

// ResultSubmitRequest is a completed test sent for persistence. When TestID
// is set the server re-scores the answers itself; otherwise Score, Total and
// Percentage must all be present.
type ResultSubmitRequest struct {
	TestID           *uint       `json:"testId"`
	Answers          []AnswerDTO `json:"answers" binding:"required,dive"`
	Score            *int        `json:"score" binding:"omitempty,min=0"`
	Total            *int        `json:"total" binding:"omitempty,min=0"`
	Percentage       *int        `json:"percentage" binding:"omitempty,min=0,max=100"`
	TimeSpentSeconds *int        `json:"timeSpentSeconds" binding:"required,min=0"`
	Subject          string      `json:"subject"`
	Difficulty       string      `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
}

type StartSessionRequest struct {
	TestID uint `json:"testId" binding:"required"`
}

type SelectAnswerRequest struct {
	OptionIndex *int `json:"optionIndex" binding:"required,min=0"`
}

type ChatRequest struct {
	Message  string           `json:"message" binding:"required,max=4000"`
	Language string           `json:"language" binding:"required,oneof=ru kk"`
	History  []ChatHistoryDTO `json:"history" binding:"omitempty,max=20,dive"`
}

type ChatHistoryDTO struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

type AssignmentRequest struct {
	VisitorID string `json:"visitorId" binding:"required,max=128"`
}

type ExperimentEventRequest struct {
	VisitorID  string         `json:"visitorId" binding:"required,max=128"`
	Event      string         `json:"event" binding:"required,oneof=view convert"`
	Properties map[string]any `json:"properties"`
}
