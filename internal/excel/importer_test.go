package excel

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lshigami/Bilim/internal/quiz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellName, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseQuestions(t *testing.T) {
	buf := workbook(t, [][]any{
		{"Text", "A", "B", "C", "D", "E", "Correct", "Subject", "Difficulty"},
		{"Столица Казахстана?", "Алматы", "Астана", "Шымкент", "", "", "B", "history", "easy"},
		{"2+2", "3", "4", "", "", "", 2, "math", "Medium"},
		{"", "", "", "", "", "", "", "", ""},
		{"Only one option", "x", "", "", "", "", "A", "math", "easy"},
		{"Bad tier", "x", "y", "", "", "", "A", "math", "extreme"},
		{"Points at blank", "x", "y", "", "", "", "D", "math", "easy"},
	})

	res, err := ParseQuestions(buf, DefaultImportConfig())
	require.NoError(t, err)

	require.Len(t, res.Questions, 2)
	assert.Equal(t, quiz.Question{
		Text: "Столица Казахстана?", Options: []string{"Алматы", "Астана", "Шымкент"},
		CorrectAnswerIndex: 1, Subject: "history", Difficulty: quiz.Easy,
	}, res.Questions[0])
	assert.Equal(t, 1, res.Questions[1].CorrectAnswerIndex)
	assert.Equal(t, quiz.Medium, res.Questions[1].Difficulty)

	assert.Equal(t, 3, res.Skipped)
	require.Len(t, res.Errors, 3)
	assert.True(t, strings.HasPrefix(res.Errors[0], "Row 5:"))
}

func TestParseQuestions_GapInOptions(t *testing.T) {
	buf := workbook(t, [][]any{
		{"header"},
		{"Q", "a", "", "c", "", "", "C", "", ""},
	})
	res, err := ParseQuestions(buf, DefaultImportConfig())
	require.NoError(t, err)
	require.Len(t, res.Questions, 1)
	assert.Equal(t, []string{"a", "c"}, res.Questions[0].Options)
	assert.Equal(t, 1, res.Questions[0].CorrectAnswerIndex)
}

func TestParseQuestions_NotAWorkbook(t *testing.T) {
	_, err := ParseQuestions(strings.NewReader("not xlsx"), DefaultImportConfig())
	assert.Error(t, err)
}

func TestParseCorrect(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"A", 0, false},
		{"c", 2, false},
		{"1", 0, false},
		{"4", 3, false},
		{"0", 0, true},
		{"", 0, true},
		{"AB", 0, true},
	}
	for _, tt := range tests {
		got, err := parseCorrect(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestColumnToIndex(t *testing.T) {
	assert.Equal(t, 0, columnToIndex("A"))
	assert.Equal(t, 6, columnToIndex("g"))
	assert.Equal(t, 26, columnToIndex("AA"))
}
