package quiz

import "math"

// UnansweredPolicy decides how questions left unanswered at timer expiry are
// scored.
type UnansweredPolicy string

const (
	// UnansweredSkip leaves unanswered questions out of the denominator.
	UnansweredSkip UnansweredPolicy = "skip"
	// UnansweredWrong counts unanswered questions as incorrect.
	UnansweredWrong UnansweredPolicy = "wrong"
)

// NotAnswered is the selected index recorded for questions scored under
// UnansweredWrong.
const NotAnswered = -1

// QuestionResult is the outcome for a single answered question.
type QuestionResult struct {
	QuestionID          string `json:"questionId"`
	SelectedOptionIndex int    `json:"selectedOptionIndex"`
	Correct             bool   `json:"correct"`
}

// ScoredResult is the immutable outcome of a completed session.
type ScoredResult struct {
	Score            int              `json:"score"`
	Total            int              `json:"total"`
	Percentage       int              `json:"percentage"`
	PerQuestion      []QuestionResult `json:"perQuestion"`
	TimeSpentSeconds int              `json:"timeSpentSeconds"`
	// Skipped counts answers whose question id was not in the question set.
	Skipped int `json:"skipped,omitempty"`
}

// Percentage returns round(score / total * 100), or 0 when total is 0.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

// Score grades answers against questions. Answers referring to unknown
// questions are excluded from Total and counted in Skipped.
func Score(questions []Question, answers []Answer) ScoredResult {
	byID := make(map[string]Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	res := ScoredResult{PerQuestion: make([]QuestionResult, 0, len(answers))}
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			res.Skipped++
			continue
		}
		correct := a.SelectedOptionIndex == q.CorrectAnswerIndex
		if correct {
			res.Score++
		}
		res.PerQuestion = append(res.PerQuestion, QuestionResult{
			QuestionID:          a.QuestionID,
			SelectedOptionIndex: a.SelectedOptionIndex,
			Correct:             correct,
		})
	}
	res.Total = len(res.PerQuestion)
	res.Percentage = Percentage(res.Score, res.Total)
	return res
}

// ScoreWithPolicy scores answers and, under UnansweredWrong, appends every
// question without an answer as incorrect.
func ScoreWithPolicy(questions []Question, answers []Answer, policy UnansweredPolicy) ScoredResult {
	res := Score(questions, answers)
	if policy != UnansweredWrong {
		return res
	}

	answered := make(map[string]bool, len(answers))
	for _, a := range answers {
		answered[a.QuestionID] = true
	}
	for _, q := range questions {
		if answered[q.ID] {
			continue
		}
		res.PerQuestion = append(res.PerQuestion, QuestionResult{
			QuestionID:          q.ID,
			SelectedOptionIndex: NotAnswered,
		})
	}
	res.Total = len(res.PerQuestion)
	res.Percentage = Percentage(res.Score, res.Total)
	return res
}
