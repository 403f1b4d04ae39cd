package repository

import (
	"context"

	"github.com/lshigami/Bilim/internal/model"
	"gorm.io/gorm"
)

type ResultRepository interface {
	// WithTx returns a repository bound to tx.
	WithTx(tx *gorm.DB) ResultRepository
	Create(ctx context.Context, result *model.TestResult) error
	FindByIDWithAnswers(ctx context.Context, id uint) (*model.TestResult, error)
	// FindAllByUser returns the user's results newest first.
	FindAllByUser(ctx context.Context, userID uint) ([]model.TestResult, error)
}

type resultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) WithTx(tx *gorm.DB) ResultRepository {
	return &resultRepository{db: tx}
}

func (r *resultRepository) Create(ctx context.Context, result *model.TestResult) error {
	// Answers in result.Answers are created with it.
	return r.db.WithContext(ctx).Create(result).Error
}

func (r *resultRepository) FindByIDWithAnswers(ctx context.Context, id uint) (*model.TestResult, error) {
	var result model.TestResult
	err := r.db.WithContext(ctx).
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("result_answers.id ASC")
		}).
		First(&result, id).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *resultRepository) FindAllByUser(ctx context.Context, userID uint) ([]model.TestResult, error) {
	var results []model.TestResult
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&results).Error
	return results, err
}
