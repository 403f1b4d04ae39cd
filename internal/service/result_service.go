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

// ResultService persists completed tests and keeps the user's stats row in
// step with them.
type ResultService interface {
	quiz.ResultSubmitter
	// SubmitRequest stores a result sent over HTTP. When the request names a
	// test the answers are re-scored against it.
	SubmitRequest(ctx context.Context, userID uint, req dto.ResultSubmitRequest) (*dto.ResultResponse, error)
	GetResult(ctx context.Context, userID, resultID uint) (*dto.ResultResponse, error)
	ListResults(ctx context.Context, userID uint) ([]dto.ResultResponse, error)
}

type resultService struct {
	testRepo   repository.TestRepository
	resultRepo repository.ResultRepository
	statsRepo  repository.UserStatsRepository
	db         *gorm.DB
}

func NewResultService(
	testRepo repository.TestRepository,
	resultRepo repository.ResultRepository,
	statsRepo repository.UserStatsRepository,
	db *gorm.DB,
) ResultService {
	return &resultService{
		testRepo:   testRepo,
		resultRepo: resultRepo,
		statsRepo:  statsRepo,
		db:         db,
	}
}

func (s *resultService) Submit(ctx context.Context, sub quiz.Submission) (*quiz.Record, error) {
	result, err := s.persist(ctx, sub)
	if err != nil {
		return nil, err
	}
	return &quiz.Record{ID: result.ID, CreatedAt: result.CreatedAt}, nil
}

func (s *resultService) SubmitRequest(ctx context.Context, userID uint, req dto.ResultSubmitRequest) (*dto.ResultResponse, error) {
	if req.TimeSpentSeconds == nil {
		return nil, apperror.Validation("timeSpentSeconds", "is required")
	}
	answers := make([]quiz.Answer, len(req.Answers))
	for i, a := range req.Answers {
		answers[i] = quiz.Answer{QuestionID: a.QuestionID, SelectedOptionIndex: a.SelectedOptionIndex}
	}

	sub := quiz.Submission{
		UserID:     userID,
		TestID:     req.TestID,
		Subject:    req.Subject,
		Difficulty: req.Difficulty,
	}

	if req.TestID != nil {
		test, err := s.testRepo.FindByIDWithQuestions(ctx, *req.TestID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Validation("testId", "test %d does not exist", *req.TestID)
		}
		if err != nil {
			return nil, fmt.Errorf("error fetching test: %w", err)
		}
		sub.Result = quiz.Score(model.ToQuizQuestions(test.Questions), answers)
		if sub.Result.Total == 0 {
			return nil, apperror.Validation("answers", "no answer refers to a question of test %d", test.ID)
		}
		if sub.Subject == "" {
			sub.Subject = test.Subject
		}
		if sub.Difficulty == "" {
			sub.Difficulty = test.Difficulty
		}
		if (req.Score != nil && *req.Score != sub.Result.Score) || (req.Total != nil && *req.Total != sub.Result.Total) {
			log.Warn().Uint("userID", userID).Uint("testID", test.ID).
				Int("score", sub.Result.Score).
				Msg("Submitted score differs from server scoring, storing server result")
		}
	} else {
		if err := checkClientResult(req); err != nil {
			return nil, err
		}
		perQuestion := make([]quiz.QuestionResult, len(answers))
		for i, a := range answers {
			perQuestion[i] = quiz.QuestionResult{QuestionID: a.QuestionID, SelectedOptionIndex: a.SelectedOptionIndex}
		}
		sub.Result = quiz.ScoredResult{
			Score:       *req.Score,
			Total:       *req.Total,
			Percentage:  *req.Percentage,
			PerQuestion: perQuestion,
		}
	}
	sub.Result.TimeSpentSeconds = *req.TimeSpentSeconds

	result, err := s.persist(ctx, sub)
	if err != nil {
		return nil, err
	}
	return toResultResponse(result)
}

// checkClientResult validates the numbers of a result scored by the client.
// Nothing is defaulted: a missing field is a validation error.
func checkClientResult(req dto.ResultSubmitRequest) error {
	switch {
	case req.Score == nil:
		return apperror.Validation("score", "is required without testId")
	case req.Total == nil:
		return apperror.Validation("total", "is required without testId")
	case req.Percentage == nil:
		return apperror.Validation("percentage", "is required without testId")
	}
	score, total, percentage := *req.Score, *req.Total, *req.Percentage
	if total < 1 {
		return apperror.Validation("total", "must be at least 1")
	}
	if score > total {
		return apperror.Validation("score", "score %d exceeds total %d", score, total)
	}
	if len(req.Answers) != total {
		return apperror.Validation("answers", "got %d answers for total %d", len(req.Answers), total)
	}
	if want := quiz.Percentage(score, total); percentage != want {
		return apperror.Validation("percentage", "expected %d, got %d", want, percentage)
	}
	return nil
}

// persist writes the result, its answers and the stats update in one
// transaction.
func (s *resultService) persist(ctx context.Context, sub quiz.Submission) (*model.TestResult, error) {
	result := &model.TestResult{
		UserID:           sub.UserID,
		TestID:           sub.TestID,
		Subject:          sub.Subject,
		Difficulty:       sub.Difficulty,
		Score:            sub.Result.Score,
		Total:            sub.Result.Total,
		Percentage:       sub.Result.Percentage,
		TimeSpentSeconds: sub.Result.TimeSpentSeconds,
		Skipped:          sub.Result.Skipped,
	}
	for _, pq := range sub.Result.PerQuestion {
		result.Answers = append(result.Answers, model.ResultAnswer{
			QuestionID:          pq.QuestionID,
			SelectedOptionIndex: pq.SelectedOptionIndex,
			Correct:             pq.Correct,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.resultRepo.WithTx(tx).Create(ctx, result); err != nil {
			return fmt.Errorf("failed to create result record: %w", err)
		}
		if _, err := s.statsRepo.WithTx(tx).ApplyResult(ctx, sub.UserID, result.Percentage, result.TimeSpentSeconds); err != nil {
			return fmt.Errorf("failed to update user stats: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Uint("userID", sub.UserID).Msg("Transaction failed for storing test result")
		return nil, err
	}

	log.Info().Uint("userID", sub.UserID).Uint("resultID", result.ID).
		Int("score", result.Score).Int("total", result.Total).Msg("Test result stored")
	return result, nil
}

func (s *resultService) GetResult(ctx context.Context, userID, resultID uint) (*dto.ResultResponse, error) {
	result, err := s.resultRepo.FindByIDWithAnswers(ctx, resultID)
	if err != nil {
		return nil, notFoundOr(err, "result", resultID, "error fetching result")
	}
	if result.UserID != userID {
		return nil, apperror.Forbidden("result belongs to another user")
	}
	return toResultResponse(result)
}

func (s *resultService) ListResults(ctx context.Context, userID uint) ([]dto.ResultResponse, error) {
	results, err := s.resultRepo.FindAllByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Failed to list results")
		return nil, fmt.Errorf("error fetching results: %w", err)
	}
	out := make([]dto.ResultResponse, 0, len(results))
	for i := range results {
		resp, err := toResultResponse(&results[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

func toResultResponse(result *model.TestResult) (*dto.ResultResponse, error) {
	var resp dto.ResultResponse
	if err := copier.Copy(&resp, result); err != nil {
		log.Error().Err(err).Msg("Failed to copy TestResult model to ResultResponse")
		return nil, fmt.Errorf("error preparing result response: %w", err)
	}
	return &resp, nil
}
