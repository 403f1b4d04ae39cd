package service

import (
	"context"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Bilim/internal/analytics"
	"github.com/lshigami/Bilim/internal/apperror"
	"github.com/lshigami/Bilim/internal/dto"
	"github.com/lshigami/Bilim/internal/repository"
	"github.com/rs/zerolog/log"
)

type StatsService interface {
	// GetStats aggregates the user's whole history. A failing store is an
	// UpstreamServiceError; stats are never guessed.
	GetStats(ctx context.Context, userID uint) (*dto.StatsResponse, error)
}

type statsService struct {
	resultRepo repository.ResultRepository
	statsRepo  repository.UserStatsRepository
	now        func() time.Time
}

func NewStatsService(resultRepo repository.ResultRepository, statsRepo repository.UserStatsRepository) StatsService {
	return &statsService{resultRepo: resultRepo, statsRepo: statsRepo, now: time.Now}
}

func (s *statsService) GetStats(ctx context.Context, userID uint) (*dto.StatsResponse, error) {
	results, err := s.resultRepo.FindAllByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Failed to load result history")
		return nil, apperror.Upstream("result store", err)
	}

	history := make([]analytics.Entry, len(results))
	for i, r := range results {
		history[i] = analytics.Entry{
			Percentage:       r.Percentage,
			Subject:          r.Subject,
			Difficulty:       r.Difficulty,
			TimeSpentSeconds: r.TimeSpentSeconds,
			CreatedAt:        r.CreatedAt,
		}
	}
	summary := analytics.Aggregate(history, s.now())

	own, err := s.statsRepo.FindByUserID(ctx, userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Failed to load user stats")
		return nil, apperror.Upstream("stats store", err)
	}
	others, err := s.statsRepo.OtherAverages(ctx, userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Failed to load peer averages")
		return nil, apperror.Upstream("stats store", err)
	}

	var resp dto.StatsResponse
	if err := copier.Copy(&resp, &summary); err != nil {
		log.Error().Err(err).Msg("Failed to copy analytics summary to StatsResponse")
		return nil, err
	}
	// Empty lists are rendered as [] rather than null.
	if resp.SubjectBreakdown == nil {
		resp.SubjectBreakdown = []dto.BreakdownDTO{}
	}
	if resp.DifficultyBreakdown == nil {
		resp.DifficultyBreakdown = []dto.BreakdownDTO{}
	}
	if resp.ProgressTrend == nil {
		resp.ProgressTrend = []dto.ProgressPointDTO{}
	}
	// Ranked on stored running averages, the same figure OtherAverages reads.
	resp.Percentile = analytics.Percentile(own.AverageScore, others)
	return &resp, nil
}
