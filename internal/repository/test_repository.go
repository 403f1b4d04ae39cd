package repository

import (
	"context"

	"github.com/lshigami/Bilim/internal/model"
	"gorm.io/gorm"
)

// TestFilter narrows FindAllWithQuestionCount. Empty fields match everything.
type TestFilter struct {
	Subject    string
	Difficulty string
	Language   string
}

// TestWithCount is a catalogue row.
type TestWithCount struct {
	model.Test
	QuestionCount int
}

type TestRepository interface {
	Create(ctx context.Context, test *model.Test) error
	FindByID(ctx context.Context, id uint) (*model.Test, error)
	FindByIDWithQuestions(ctx context.Context, id uint) (*model.Test, error)
	FindAllWithQuestionCount(ctx context.Context, filter TestFilter) ([]TestWithCount, error)
	// HasResults reports whether any stored result references the test.
	HasResults(ctx context.Context, id uint) (bool, error)
	Delete(ctx context.Context, id uint) error
}

type testRepository struct {
	db *gorm.DB
}

func NewTestRepository(db *gorm.DB) TestRepository {
	return &testRepository{db: db}
}

func (r *testRepository) Create(ctx context.Context, test *model.Test) error {
	// Questions in test.Questions are created with it.
	return r.db.WithContext(ctx).Create(test).Error
}

func (r *testRepository) FindByID(ctx context.Context, id uint) (*model.Test, error) {
	var test model.Test
	if err := r.db.WithContext(ctx).First(&test, id).Error; err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *testRepository) FindByIDWithQuestions(ctx context.Context, id uint) (*model.Test, error) {
	var test model.Test
	err := r.db.WithContext(ctx).Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.order_in_test ASC")
	}).First(&test, id).Error
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *testRepository) FindAllWithQuestionCount(ctx context.Context, filter TestFilter) ([]TestWithCount, error) {
	var results []TestWithCount
	query := r.db.WithContext(ctx).Model(&model.Test{}).
		Select("tests.*, (SELECT COUNT(*) FROM questions WHERE questions.test_id = tests.id AND questions.deleted_at IS NULL) as question_count").
		Where("tests.deleted_at IS NULL")
	if filter.Subject != "" {
		query = query.Where("tests.subject = ?", filter.Subject)
	}
	if filter.Difficulty != "" {
		query = query.Where("tests.difficulty = ?", filter.Difficulty)
	}
	if filter.Language != "" {
		query = query.Where("tests.language = ?", filter.Language)
	}
	err := query.Order("tests.created_at DESC").Scan(&results).Error
	return results, err
}

func (r *testRepository) HasResults(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.TestResult{}).Where("test_id = ?", id).Limit(1).Count(&count).Error
	return count > 0, err
}

func (r *testRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("test_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Test{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
