package model

import (
	"time"

	"github.com/lshigami/Bilim/internal/analytics"
)

// UserStats is the per-user aggregate kept alongside result history.
// Version is bumped on every write; updates are conditional on it.
type UserStats struct {
	UserID                uint      `gorm:"primarykey;autoIncrement:false" json:"user_id"`
	TestsCompleted        int       `json:"tests_completed" gorm:"not null;default:0"`
	AverageScore          int       `json:"average_score" gorm:"not null;default:0"`
	StudyStreak           int       `json:"study_streak" gorm:"not null;default:0"`
	TotalStudyTimeMinutes int       `json:"total_study_time_minutes" gorm:"not null;default:0"`
	TotalStudySeconds     int       `json:"-" gorm:"not null;default:0"`
	Version               int       `json:"-" gorm:"not null;default:0"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func (s *UserStats) Totals() analytics.Totals {
	return analytics.Totals{
		TestsCompleted: s.TestsCompleted,
		AverageScore:   s.AverageScore,
		StudySeconds:   s.TotalStudySeconds,
		StudyStreak:    s.StudyStreak,
	}
}

// Apply copies t into the stored columns.
func (s *UserStats) Apply(t analytics.Totals) {
	s.TestsCompleted = t.TestsCompleted
	s.AverageScore = t.AverageScore
	s.TotalStudySeconds = t.StudySeconds
	s.StudyStreak = t.StudyStreak
	s.TotalStudyTimeMinutes = t.StudyMinutes()
}
