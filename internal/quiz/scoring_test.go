package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeQuestions() []Question {
	return []Question{
		{ID: "q1", Text: "2+2", Options: []string{"3", "4", "5"}, CorrectAnswerIndex: 1, Subject: "math", Difficulty: Easy},
		{ID: "q2", Text: "Capital of Kazakhstan", Options: []string{"Astana", "Almaty", "Shymkent"}, CorrectAnswerIndex: 0, Subject: "history", Difficulty: Medium},
		{ID: "q3", Text: "H2O is", Options: []string{"salt", "acid", "water"}, CorrectAnswerIndex: 2, Subject: "chemistry", Difficulty: Hard},
	}
}

func TestScore_EndToEndScenario(t *testing.T) {
	answers := []Answer{
		{QuestionID: "q1", SelectedOptionIndex: 1},
		{QuestionID: "q2", SelectedOptionIndex: 1},
		{QuestionID: "q3", SelectedOptionIndex: 2},
	}

	res := Score(threeQuestions(), answers)

	assert.Equal(t, 2, res.Score)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 67, res.Percentage)
	require.Len(t, res.PerQuestion, 3)
	assert.True(t, res.PerQuestion[0].Correct)
	assert.False(t, res.PerQuestion[1].Correct)
	assert.True(t, res.PerQuestion[2].Correct)
}

func TestScore_TotalAndScoreMatchAnswers(t *testing.T) {
	qs := threeQuestions()
	tests := []struct {
		name    string
		answers []Answer
		score   int
	}{
		{"none", nil, 0},
		{"one right", []Answer{{"q1", 1}}, 1},
		{"one wrong", []Answer{{"q1", 0}}, 0},
		{"all right", []Answer{{"q1", 1}, {"q2", 0}, {"q3", 2}}, 3},
		{"repeated question", []Answer{{"q1", 1}, {"q1", 2}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Score(qs, tt.answers)
			assert.Equal(t, len(tt.answers), res.Total)
			assert.Equal(t, tt.score, res.Score)
			assert.Len(t, res.PerQuestion, res.Total)

			correct := 0
			for _, pq := range res.PerQuestion {
				if pq.Correct {
					correct++
				}
			}
			assert.Equal(t, res.Score, correct)
		})
	}
}

func TestScore_Idempotent(t *testing.T) {
	answers := []Answer{{"q1", 1}, {"q2", 2}}
	first := Score(threeQuestions(), answers)
	second := Score(threeQuestions(), answers)
	assert.Equal(t, first, second)
}

func TestScore_UnknownQuestionExcluded(t *testing.T) {
	res := Score(threeQuestions(), []Answer{{"q1", 1}, {"gone", 0}})

	assert.Equal(t, 1, res.Total)
	assert.Equal(t, 1, res.Score)
	assert.Equal(t, 100, res.Percentage)
	assert.Equal(t, 1, res.Skipped)
}

func TestScore_EmptyIsZeroPercent(t *testing.T) {
	res := Score(threeQuestions(), nil)
	assert.Equal(t, 0, res.Percentage)
	assert.NotNil(t, res.PerQuestion)
}

func TestScoreWithPolicy_Wrong(t *testing.T) {
	res := ScoreWithPolicy(threeQuestions(), []Answer{{"q1", 1}}, UnansweredWrong)

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 1, res.Score)
	assert.Equal(t, 33, res.Percentage)
	assert.Equal(t, NotAnswered, res.PerQuestion[1].SelectedOptionIndex)
	assert.False(t, res.PerQuestion[2].Correct)
}

func TestScoreWithPolicy_SkipMatchesScore(t *testing.T) {
	answers := []Answer{{"q1", 1}}
	assert.Equal(t, Score(threeQuestions(), answers), ScoreWithPolicy(threeQuestions(), answers, UnansweredSkip))
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0, Percentage(0, 0))
	assert.Equal(t, 50, Percentage(1, 2))
	assert.Equal(t, 67, Percentage(2, 3))
	assert.Equal(t, 33, Percentage(1, 3))
	assert.Equal(t, 100, Percentage(4, 4))
}

func TestQuestionValidate(t *testing.T) {
	valid := threeQuestions()[0]
	require.NoError(t, valid.Validate())

	oneOption := valid
	oneOption.Options = []string{"only"}
	oneOption.CorrectAnswerIndex = 0
	assert.Error(t, oneOption.Validate())

	outOfRange := valid
	outOfRange.CorrectAnswerIndex = 3
	assert.Error(t, outOfRange.Validate())

	badTier := valid
	badTier.Difficulty = "extreme"
	assert.Error(t, badTier.Validate())
}
