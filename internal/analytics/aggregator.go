// Package analytics computes a learner's statistics from result history.
package analytics

import (
	"math"
	"sort"
	"time"
)

const (
	// PassThreshold is the minimum percentage that keeps a study streak alive.
	PassThreshold = 60
	// TrendWindow bounds the progress trend to recent results.
	TrendWindow = 30 * 24 * time.Hour
	// NeutralPercentile is reported when nobody else can be compared against.
	NeutralPercentile = 50

	generalSubject        = "general"
	unspecifiedDifficulty = "unspecified"
)

// Entry is one historical result.
type Entry struct {
	Percentage       int
	Subject          string
	Difficulty       string
	TimeSpentSeconds int
	CreatedAt        time.Time
}

// Breakdown aggregates the results sharing a subject or difficulty.
type Breakdown struct {
	Key              string `json:"key"`
	Count            int    `json:"count"`
	AverageScore     int    `json:"averageScore"`
	TotalTimeMinutes int    `json:"totalTimeMinutes"`
	Percentage       int    `json:"percentage"`
}

// TrendPoint is a result reduced for charting.
type TrendPoint struct {
	Date    string `json:"date"`
	Score   int    `json:"score"`
	Subject string `json:"subject"`
}

// Summary is the full aggregate over a user's history.
type Summary struct {
	TotalTests            int          `json:"totalTests"`
	AverageScore          int          `json:"averageScore"`
	StudyStreak           int          `json:"studyStreak"`
	TotalStudyTimeMinutes int          `json:"totalStudyTimeMinutes"`
	SubjectBreakdown      []Breakdown  `json:"subjectBreakdown"`
	DifficultyBreakdown   []Breakdown  `json:"difficultyBreakdown"`
	ProgressTrend         []TrendPoint `json:"progressTrend"`
}

// Aggregate computes every statistic from history ordered newest first.
func Aggregate(history []Entry, now time.Time) Summary {
	totalSeconds := 0
	for _, e := range history {
		totalSeconds += e.TimeSpentSeconds
	}

	return Summary{
		TotalTests:            len(history),
		AverageScore:          Average(history),
		StudyStreak:           Streak(history),
		TotalStudyTimeMinutes: minutes(totalSeconds),
		SubjectBreakdown: breakdown(history, func(e Entry) string {
			if e.Subject == "" {
				return generalSubject
			}
			return e.Subject
		}),
		DifficultyBreakdown: breakdown(history, func(e Entry) string {
			if e.Difficulty == "" {
				return unspecifiedDifficulty
			}
			return e.Difficulty
		}),
		ProgressTrend: Trend(history, now),
	}
}

// Average is the rounded mean percentage, 0 for an empty history.
func Average(history []Entry) int {
	if len(history) == 0 {
		return 0
	}
	sum := 0
	for _, e := range history {
		sum += e.Percentage
	}
	return roundDiv(sum, len(history))
}

// Streak counts the most recent consecutive passing results in a newest-first
// history, stopping at the first failure.
func Streak(history []Entry) int {
	streak := 0
	for _, e := range history {
		if e.Percentage < PassThreshold {
			break
		}
		streak++
	}
	return streak
}

// Trend returns results of the last TrendWindow, oldest first.
func Trend(history []Entry, now time.Time) []TrendPoint {
	cutoff := now.Add(-TrendWindow)
	points := make([]TrendPoint, 0)
	for i := len(history) - 1; i >= 0; i-- {
		e := history[i]
		if e.CreatedAt.Before(cutoff) {
			continue
		}
		points = append(points, TrendPoint{
			Date:    e.CreatedAt.Format("2006-01-02"),
			Score:   e.Percentage,
			Subject: e.Subject,
		})
	}
	return points
}

// Totals is the running aggregate stored per user. It is folded forward one
// result at a time so it never needs the full history.
//
// AverageScore is a running mean re-rounded on every fold, so it can drift
// from Average over the same history: 50, 51, 50 folds to 51 where the
// exact mean is 50.
type Totals struct {
	TestsCompleted int
	AverageScore   int
	StudySeconds   int
	StudyStreak    int
}

// Add folds one result, newer than every result already folded, into t.
func (t Totals) Add(percentage, timeSpentSeconds int) Totals {
	t.AverageScore = roundDiv(t.AverageScore*t.TestsCompleted+percentage, t.TestsCompleted+1)
	t.TestsCompleted++
	t.StudySeconds += timeSpentSeconds
	if percentage >= PassThreshold {
		t.StudyStreak++
	} else {
		t.StudyStreak = 0
	}
	return t
}

// StudyMinutes is the total study time rounded to minutes.
func (t Totals) StudyMinutes() int {
	return minutes(t.StudySeconds)
}

// Percentile ranks userAverage against the averages of the other eligible
// users: round(lower / len(others) * 100), or NeutralPercentile when others
// is empty. All averages must come from the same rule, normally the stored
// Totals.AverageScore.
func Percentile(userAverage int, others []int) int {
	if len(others) == 0 {
		return NeutralPercentile
	}
	lower := 0
	for _, avg := range others {
		if avg < userAverage {
			lower++
		}
	}
	return roundDiv(lower*100, len(others))
}

func breakdown(history []Entry, key func(Entry) string) []Breakdown {
	type acc struct {
		count, sum, seconds int
	}
	groups := make(map[string]*acc)
	for _, e := range history {
		k := key(e)
		g, ok := groups[k]
		if !ok {
			g = &acc{}
			groups[k] = g
		}
		g.count++
		g.sum += e.Percentage
		g.seconds += e.TimeSpentSeconds
	}

	out := make([]Breakdown, 0, len(groups))
	for k, g := range groups {
		out = append(out, Breakdown{
			Key:              k,
			Count:            g.count,
			AverageScore:     roundDiv(g.sum, g.count),
			TotalTimeMinutes: minutes(g.seconds),
			Percentage:       roundDiv(g.count*100, len(history)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func minutes(seconds int) int {
	return int(math.Round(float64(seconds) / 60))
}

func roundDiv(num, den int) int {
	if den == 0 {
		return 0
	}
	return int(math.Round(float64(num) / float64(den)))
}
