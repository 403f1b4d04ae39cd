package excel

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lshigami/Bilim/internal/quiz"
	"github.com/xuri/excelize/v2"
)

// ImportConfig describes the sheet layout. Options occupy the columns from
// FirstOptionColumn to LastOptionColumn; blank option cells are ignored.
type ImportConfig struct {
	SheetName         string // Empty means the first sheet
	TextColumn        string
	FirstOptionColumn string
	LastOptionColumn  string
	CorrectColumn     string // Option letter (A, B, ...) or 1-based number
	SubjectColumn     string
	DifficultyColumn  string
	StartRow          int // 1-based, rows before it are headers
}

// DefaultImportConfig returns the default layout:
//
//	A: text | B-F: options | G: correct | H: subject | I: difficulty
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		TextColumn:        "A",
		FirstOptionColumn: "B",
		LastOptionColumn:  "F",
		CorrectColumn:     "G",
		SubjectColumn:     "H",
		DifficultyColumn:  "I",
		StartRow:          2,
	}
}

// ImportResult holds the parsed questions and per-row problems.
type ImportResult struct {
	Questions []quiz.Question
	Skipped   int
	Errors    []string
}

// ParseQuestions reads multiple-choice questions from an .xlsx workbook.
// Rows that fail validation are reported in Errors and skipped; blank rows
// are skipped silently.
func ParseQuestions(r io.Reader, config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := config.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	result := &ImportResult{Questions: make([]quiz.Question, 0), Errors: make([]string, 0)}
	for i, row := range rows {
		if i < config.StartRow-1 {
			continue
		}
		if isBlank(row) {
			continue
		}
		q, err := parseRow(row, config)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		result.Questions = append(result.Questions, q)
	}
	return result, nil
}

func parseRow(row []string, config ImportConfig) (quiz.Question, error) {
	q := quiz.Question{
		Text:       cell(row, config.TextColumn),
		Subject:    cell(row, config.SubjectColumn),
		Difficulty: quiz.Difficulty(strings.ToLower(cell(row, config.DifficultyColumn))),
	}

	first, last := columnToIndex(config.FirstOptionColumn), columnToIndex(config.LastOptionColumn)
	// Letters refer to the option columns, so remember where each kept option came from.
	positions := make(map[int]int)
	for col := first; col <= last; col++ {
		if col < len(row) && strings.TrimSpace(row[col]) != "" {
			positions[col-first] = len(q.Options)
			q.Options = append(q.Options, strings.TrimSpace(row[col]))
		}
	}

	slot, err := parseCorrect(cell(row, config.CorrectColumn))
	if err != nil {
		return quiz.Question{}, err
	}
	idx, ok := positions[slot]
	if !ok {
		return quiz.Question{}, fmt.Errorf("correct answer points at an empty option")
	}
	q.CorrectAnswerIndex = idx

	if err := q.Validate(); err != nil {
		return quiz.Question{}, err
	}
	return q, nil
}

// parseCorrect returns the 0-based option slot for "B" or "2".
func parseCorrect(v string) (int, error) {
	v = strings.ToUpper(strings.TrimSpace(v))
	if v == "" {
		return 0, fmt.Errorf("correct answer is empty")
	}
	if n, err := strconv.Atoi(v); err == nil {
		if n < 1 {
			return 0, fmt.Errorf("correct answer %d must be 1 or more", n)
		}
		return n - 1, nil
	}
	if len(v) == 1 && v[0] >= 'A' && v[0] <= 'Z' {
		return int(v[0] - 'A'), nil
	}
	return 0, fmt.Errorf("cannot read correct answer %q", v)
}

func cell(row []string, column string) string {
	if column == "" {
		return ""
	}
	if idx := columnToIndex(column); idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// columnToIndex converts an Excel column letter to a 0-based index.
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
