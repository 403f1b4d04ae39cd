package repository

import (
	"context"
	"database/sql"

	"github.com/lshigami/Bilim/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	CreateBatch(ctx context.Context, questions []model.Question) error
	FindByTestID(ctx context.Context, testID uint) ([]model.Question, error)
	// NextOrder is the order_in_test a question appended to the test gets.
	NextOrder(ctx context.Context, testID uint) (int, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) CreateBatch(ctx context.Context, questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(questions, 100).Error
}

func (r *questionRepository) FindByTestID(ctx context.Context, testID uint) ([]model.Question, error) {
	var questions []model.Question
	if err := r.db.WithContext(ctx).Where("test_id = ?", testID).Order("order_in_test ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) NextOrder(ctx context.Context, testID uint) (int, error) {
	var maxOrder sql.NullInt64
	err := r.db.WithContext(ctx).Model(&model.Question{}).
		Where("test_id = ?", testID).
		Select("MAX(order_in_test)").
		Row().Scan(&maxOrder)
	if err != nil {
		return 0, err
	}
	return int(maxOrder.Int64) + 1, nil
}
