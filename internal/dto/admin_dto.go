package dto

// QuestionCreateDTO is used within TestCreateDTO for admin test creation.
type QuestionCreateDTO struct {
	Text               string   `json:"text" binding:"required"`
	Options            []string `json:"options" binding:"required,min=2,dive,required"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex" binding:"min=0"`
	Subject            string   `json:"subject"`
	Difficulty         string   `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
}

// TestCreateDTO is for a teacher or admin to create a new test with all its questions.
type TestCreateDTO struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description,omitempty"`
	Subject     string              `json:"subject" binding:"required"`
	Difficulty  string              `json:"difficulty" binding:"required,oneof=easy medium hard"`
	Language    string              `json:"language" binding:"required,oneof=ru kk"`
	Questions   []QuestionCreateDTO `json:"questions" binding:"required,min=1,dive"`
}

// ImportResultDTO reports a spreadsheet import.
type ImportResultDTO struct {
	TestID   uint     `json:"testId"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// VariantStatsDTO is one arm of an experiment report.
type VariantStatsDTO struct {
	Variant        string  `json:"variant"`
	Views          int     `json:"views"`
	Conversions    int     `json:"conversions"`
	ConversionRate float64 `json:"conversionRate"`
}

// ExperimentStatsDTO is the admin report for an experiment.
type ExperimentStatsDTO struct {
	Experiment string            `json:"experiment"`
	Variants   []VariantStatsDTO `json:"variants"`
}
