package service

import (
	"context"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Bilim/internal/apperror"
	"github.com/lshigami/Bilim/internal/dto"
	"github.com/lshigami/Bilim/internal/model"
	"github.com/lshigami/Bilim/internal/quiz"
	"github.com/lshigami/Bilim/internal/repository"
	"github.com/rs/zerolog/log"
)

type UserTestService interface {
	GetAllTests(ctx context.Context, filter dto.TestFilter) ([]dto.TestSummaryDTO, error)
	// GetTestDetails returns the test with its questions. Correct answers are
	// only included when reveal is true.
	GetTestDetails(ctx context.Context, testID uint, reveal bool) (*dto.TestResponseDTO, error)
	// QuizForTest loads the ordered question sequence a session runs over.
	QuizForTest(ctx context.Context, testID uint) ([]quiz.Question, *model.Test, error)
}

type userTestService struct {
	testRepo repository.TestRepository
}

func NewUserTestService(testRepo repository.TestRepository) UserTestService {
	return &userTestService{testRepo: testRepo}
}

func (s *userTestService) GetAllTests(ctx context.Context, filter dto.TestFilter) ([]dto.TestSummaryDTO, error) {
	testsWithCount, err := s.testRepo.FindAllWithQuestionCount(ctx, repository.TestFilter{
		Subject:    filter.Subject,
		Difficulty: filter.Difficulty,
		Language:   filter.Language,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to get all tests with question count from repository")
		return nil, fmt.Errorf("error fetching tests: %w", err)
	}

	dtos := make([]dto.TestSummaryDTO, 0, len(testsWithCount))
	for _, twc := range testsWithCount {
		dtos = append(dtos, dto.TestSummaryDTO{
			ID:            twc.Test.ID,
			Title:         twc.Test.Title,
			Description:   twc.Test.Description,
			Subject:       twc.Test.Subject,
			Difficulty:    twc.Test.Difficulty,
			Language:      twc.Test.Language,
			QuestionCount: twc.QuestionCount,
			CreatedAt:     twc.Test.CreatedAt,
		})
	}
	return dtos, nil
}

func (s *userTestService) GetTestDetails(ctx context.Context, testID uint, reveal bool) (*dto.TestResponseDTO, error) {
	test, err := s.testRepo.FindByIDWithQuestions(ctx, testID)
	if err != nil {
		log.Error().Err(err).Uint("testID", testID).Msg("Failed to get test details from repository")
		return nil, notFoundOr(err, "test", testID, "error fetching test")
	}
	return toTestResponse(test, reveal)
}

func (s *userTestService) QuizForTest(ctx context.Context, testID uint) ([]quiz.Question, *model.Test, error) {
	test, err := s.testRepo.FindByIDWithQuestions(ctx, testID)
	if err != nil {
		return nil, nil, notFoundOr(err, "test", testID, "error fetching test")
	}
	if len(test.Questions) == 0 {
		return nil, nil, apperror.Validation("testId", "test %d has no questions", testID)
	}
	return model.ToQuizQuestions(test.Questions), test, nil
}

func toTestResponse(test *model.Test, reveal bool) (*dto.TestResponseDTO, error) {
	header := *test
	header.Questions = nil

	var resp dto.TestResponseDTO
	if err := copier.Copy(&resp, &header); err != nil {
		log.Error().Err(err).Msg("Failed to copy Test model to TestResponseDTO")
		return nil, fmt.Errorf("error preparing test details response: %w", err)
	}
	resp.Questions = make([]dto.QuestionResponseDTO, 0, len(test.Questions))
	for i := range test.Questions {
		resp.Questions = append(resp.Questions, toQuestionResponse(&test.Questions[i], reveal))
	}
	return &resp, nil
}

func toQuestionResponse(q *model.Question, reveal bool) dto.QuestionResponseDTO {
	out := dto.QuestionResponseDTO{
		ID:          q.ID,
		TestID:      q.TestID,
		Text:        q.Text,
		Options:     q.Options,
		Subject:     q.Subject,
		Difficulty:  q.Difficulty,
		OrderInTest: q.OrderInTest,
	}
	if reveal {
		idx := q.CorrectAnswerIndex
		out.CorrectAnswerIndex = &idx
	}
	return out
}
