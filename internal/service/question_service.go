package service

import (
	"context"
	"fmt"
	"io"

	"github.com/lshigami/Bilim/internal/apperror"
	"github.com/lshigami/Bilim/internal/dto"
	"github.com/lshigami/Bilim/internal/excel"
	"github.com/lshigami/Bilim/internal/model"
	"github.com/lshigami/Bilim/internal/repository"
	"github.com/rs/zerolog/log"
)

type QuestionService interface {
	// ImportQuestions appends the questions of an .xlsx workbook to a test.
	// Rows that fail validation are reported and skipped.
	ImportQuestions(ctx context.Context, testID uint, r io.Reader) (*dto.ImportResultDTO, error)
	GetQuestions(ctx context.Context, testID uint, reveal bool) ([]dto.QuestionResponseDTO, error)
}

type questionService struct {
	repo     repository.QuestionRepository
	testRepo repository.TestRepository
}

func NewQuestionService(repo repository.QuestionRepository, testRepo repository.TestRepository) QuestionService {
	return &questionService{repo: repo, testRepo: testRepo}
}

func (s *questionService) ImportQuestions(ctx context.Context, testID uint, r io.Reader) (*dto.ImportResultDTO, error) {
	test, err := s.testRepo.FindByID(ctx, testID)
	if err != nil {
		return nil, notFoundOr(err, "test", testID, "error fetching test")
	}
	has, err := s.testRepo.HasResults(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("failed to check results for test %d: %w", testID, err)
	}
	if has {
		return nil, apperror.Validation("testId", "test %d has stored results, its questions are frozen", testID)
	}

	parsed, err := excel.ParseQuestions(r, excel.DefaultImportConfig())
	if err != nil {
		return nil, apperror.Validation("file", "%v", err)
	}

	next, err := s.repo.NextOrder(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("failed to read question order: %w", err)
	}
	questions := make([]model.Question, 0, len(parsed.Questions))
	for i, q := range parsed.Questions {
		m := model.Question{
			TestID:             testID,
			Text:               q.Text,
			Options:            q.Options,
			CorrectAnswerIndex: q.CorrectAnswerIndex,
			Subject:            q.Subject,
			Difficulty:         string(q.Difficulty),
			OrderInTest:        next + i,
		}
		if m.Subject == "" {
			m.Subject = test.Subject
		}
		if m.Difficulty == "" {
			m.Difficulty = test.Difficulty
		}
		questions = append(questions, m)
	}

	if err := s.repo.CreateBatch(ctx, questions); err != nil {
		log.Error().Err(err).Uint("testID", testID).Msg("Failed to store imported questions")
		return nil, fmt.Errorf("database error importing questions: %w", err)
	}
	log.Info().Uint("testID", testID).Int("imported", len(questions)).Int("skipped", parsed.Skipped).Msg("Questions imported")
	return &dto.ImportResultDTO{
		TestID:   testID,
		Imported: len(questions),
		Skipped:  parsed.Skipped,
		Errors:   parsed.Errors,
	}, nil
}

func (s *questionService) GetQuestions(ctx context.Context, testID uint, reveal bool) ([]dto.QuestionResponseDTO, error) {
	if _, err := s.testRepo.FindByID(ctx, testID); err != nil {
		return nil, notFoundOr(err, "test", testID, "error fetching test")
	}
	questions, err := s.repo.FindByTestID(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("error fetching questions: %w", err)
	}
	out := make([]dto.QuestionResponseDTO, 0, len(questions))
	for i := range questions {
		out = append(out, toQuestionResponse(&questions[i], reveal))
	}
	return out, nil
}
