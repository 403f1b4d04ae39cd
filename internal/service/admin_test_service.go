package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Bilim/internal/apperror"
	"github.com/lshigami/Bilim/internal/dto"
	"github.com/lshigami/Bilim/internal/model"
	"github.com/lshigami/Bilim/internal/quiz"
	"github.com/lshigami/Bilim/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AdminTestService interface {
	CreateTest(ctx context.Context, authorID uint, req dto.TestCreateDTO) (*dto.TestResponseDTO, error)
	// DeleteTest refuses tests that stored results already reference or that
	// a live session is running.
	DeleteTest(ctx context.Context, testID uint) error
}

type adminTestService struct {
	testRepo repository.TestRepository
	sessions SessionService
}

func NewAdminTestService(testRepo repository.TestRepository, sessions SessionService) AdminTestService {
	return &adminTestService{testRepo: testRepo, sessions: sessions}
}

func (s *adminTestService) CreateTest(ctx context.Context, authorID uint, req dto.TestCreateDTO) (*dto.TestResponseDTO, error) {
	questions := make([]model.Question, 0, len(req.Questions))
	for i, qDto := range req.Questions {
		var questionModel model.Question
		if err := copier.Copy(&questionModel, &qDto); err != nil {
			return nil, fmt.Errorf("error preparing question %d: %w", i+1, err)
		}
		if questionModel.Subject == "" {
			questionModel.Subject = req.Subject
		}
		if questionModel.Difficulty == "" {
			questionModel.Difficulty = req.Difficulty
		}
		questionModel.OrderInTest = i + 1

		if err := questionModel.ToQuiz().Validate(); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		questions = append(questions, questionModel)
	}

	testModel := model.Test{
		Title:       req.Title,
		Description: req.Description,
		Subject:     req.Subject,
		Difficulty:  req.Difficulty,
		Language:    req.Language,
		AuthorID:    &authorID,
		Questions:   questions,
	}
	if !quiz.Difficulty(testModel.Difficulty).Valid() {
		return nil, apperror.Validation("difficulty", "unknown difficulty %q", testModel.Difficulty)
	}

	if err := s.testRepo.Create(ctx, &testModel); err != nil {
		log.Error().Err(err).Msg("Failed to create test in database")
		return nil, fmt.Errorf("database error creating test: %w", err)
	}
	log.Info().Uint("testID", testModel.ID).Uint("authorID", authorID).Int("questions", len(questions)).Msg("Test created")

	created, err := s.testRepo.FindByIDWithQuestions(ctx, testModel.ID)
	if err != nil {
		log.Error().Err(err).Uint("testID", testModel.ID).Msg("Failed to retrieve newly created test with questions for response")
		return toTestResponse(&testModel, true)
	}
	return toTestResponse(created, true)
}

func (s *adminTestService) DeleteTest(ctx context.Context, testID uint) error {
	if s.sessions.HasActiveSession(testID) {
		return apperror.Validation("testId", "test %d is being taken in a live session and cannot be deleted", testID)
	}
	has, err := s.testRepo.HasResults(ctx, testID)
	if err != nil {
		return fmt.Errorf("failed to check results for test %d: %w", testID, err)
	}
	if has {
		return apperror.Validation("testId", "test %d has stored results and cannot be deleted", testID)
	}
	if err := s.testRepo.Delete(ctx, testID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("test", testID)
		}
		log.Error().Err(err).Uint("testID", testID).Msg("Failed to delete test")
		return fmt.Errorf("database error deleting test: %w", err)
	}
	log.Info().Uint("testID", testID).Msg("Test deleted")
	return nil
}
