package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/lshigami/Bilim/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// maxStatsAttempts bounds the compare-and-swap loop in ApplyResult.
const maxStatsAttempts = 5

// ErrStatsConflict is returned when ApplyResult keeps losing the race for
// the user's stats row.
var ErrStatsConflict = errors.New("user stats update conflict")

type UserStatsRepository interface {
	WithTx(tx *gorm.DB) UserStatsRepository
	// FindByUserID returns zeroed stats for a user with no results.
	FindByUserID(ctx context.Context, userID uint) (*model.UserStats, error)
	// ApplyResult folds one result into the user's stats. The write is
	// conditional on the version read, so concurrent submissions never
	// overwrite each other.
	ApplyResult(ctx context.Context, userID uint, percentage, timeSpentSeconds int) (*model.UserStats, error)
	// OtherAverages returns the average score of every other user with at
	// least one completed test.
	OtherAverages(ctx context.Context, userID uint) ([]int, error)
}

type userStatsRepository struct {
	db *gorm.DB
}

func NewUserStatsRepository(db *gorm.DB) UserStatsRepository {
	return &userStatsRepository{db: db}
}

func (r *userStatsRepository) WithTx(tx *gorm.DB) UserStatsRepository {
	return &userStatsRepository{db: tx}
}

func (r *userStatsRepository) FindByUserID(ctx context.Context, userID uint) (*model.UserStats, error) {
	var stats model.UserStats
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.UserStats{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *userStatsRepository) ApplyResult(ctx context.Context, userID uint, percentage, timeSpentSeconds int) (*model.UserStats, error) {
	db := r.db.WithContext(ctx)

	// Make sure the row exists; losing this insert race is fine.
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.UserStats{UserID: userID}).Error; err != nil {
		return nil, fmt.Errorf("failed to initialise stats for user %d: %w", userID, err)
	}

	for attempt := 0; attempt < maxStatsAttempts; attempt++ {
		var current model.UserStats
		if err := db.Where("user_id = ?", userID).First(&current).Error; err != nil {
			return nil, fmt.Errorf("failed to read stats for user %d: %w", userID, err)
		}

		next := current
		next.Apply(current.Totals().Add(percentage, timeSpentSeconds))
		next.Version = current.Version + 1

		res := db.Model(&model.UserStats{}).
			Where("user_id = ? AND version = ?", userID, current.Version).
			Updates(map[string]any{
				"tests_completed":          next.TestsCompleted,
				"average_score":            next.AverageScore,
				"study_streak":             next.StudyStreak,
				"total_study_time_minutes": next.TotalStudyTimeMinutes,
				"total_study_seconds":      next.TotalStudySeconds,
				"version":                  next.Version,
			})
		if res.Error != nil {
			return nil, fmt.Errorf("failed to update stats for user %d: %w", userID, res.Error)
		}
		if res.RowsAffected == 1 {
			return &next, nil
		}
	}
	return nil, ErrStatsConflict
}

func (r *userStatsRepository) OtherAverages(ctx context.Context, userID uint) ([]int, error) {
	var averages []int
	err := r.db.WithContext(ctx).Model(&model.UserStats{}).
		Where("user_id <> ? AND tests_completed > 0", userID).
		Pluck("average_score", &averages).Error
	return averages, err
}
