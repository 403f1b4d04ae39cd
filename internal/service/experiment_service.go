package service

import (
	"context"
	"fmt"
	"math"

	"github.com/lshigami/Bilim/internal/apperror"
	"github.com/lshigami/Bilim/internal/dto"
	"github.com/lshigami/Bilim/internal/experiment"
	"github.com/lshigami/Bilim/internal/model"
	"github.com/lshigami/Bilim/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

type ExperimentService interface {
	Assign(ctx context.Context, experimentName, visitorID string) (*dto.AssignmentResponse, error)
	// RecordEvent logs a view or conversion against the visitor's variant,
	// assigning one first if the visitor has none yet.
	RecordEvent(ctx context.Context, experimentName string, req dto.ExperimentEventRequest) error
	Stats(ctx context.Context, experimentName string) (*dto.ExperimentStatsDTO, error)
}

type experimentService struct {
	assigner *experiment.Assigner
	repo     repository.ExperimentRepository
}

func NewExperimentService(assigner *experiment.Assigner, repo repository.ExperimentRepository) ExperimentService {
	return &experimentService{assigner: assigner, repo: repo}
}

func (s *experimentService) Assign(ctx context.Context, experimentName, visitorID string) (*dto.AssignmentResponse, error) {
	a, err := s.assigner.Assign(ctx, visitorID, experimentName)
	if err != nil {
		return nil, err
	}
	if !a.Cached {
		log.Debug().Str("experiment", a.Experiment).Str("visitorID", a.VisitorID).Str("variant", a.Variant).Msg("Visitor assigned")
	}
	return &dto.AssignmentResponse{Experiment: a.Experiment, VisitorID: a.VisitorID, Variant: a.Variant}, nil
}

func (s *experimentService) RecordEvent(ctx context.Context, experimentName string, req dto.ExperimentEventRequest) error {
	if req.Event != model.EventView && req.Event != model.EventConvert {
		return apperror.Validation("event", "unknown event %q", req.Event)
	}
	a, err := s.assigner.Assign(ctx, req.VisitorID, experimentName)
	if err != nil {
		return err
	}

	event := &model.ExperimentEvent{
		Experiment: a.Experiment,
		VisitorID:  a.VisitorID,
		Variant:    a.Variant,
		EventType:  req.Event,
	}
	if len(req.Properties) > 0 {
		event.Properties = datatypes.JSONMap(req.Properties)
	}
	if err := s.repo.CreateEvent(ctx, event); err != nil {
		log.Error().Err(err).Str("experiment", experimentName).Msg("Failed to store experiment event")
		return fmt.Errorf("database error storing event: %w", err)
	}
	return nil
}

func (s *experimentService) Stats(ctx context.Context, experimentName string) (*dto.ExperimentStatsDTO, error) {
	exp, ok := s.assigner.Experiment(experimentName)
	if !ok {
		return nil, apperror.NotFound("experiment", experimentName)
	}
	rows, err := s.repo.VariantStats(ctx, experimentName)
	if err != nil {
		return nil, fmt.Errorf("error fetching experiment stats: %w", err)
	}
	byVariant := make(map[string]model.VariantStats, len(rows))
	for _, r := range rows {
		byVariant[r.Variant] = r
	}

	// Every declared variant is reported, in declared order, even without events.
	resp := &dto.ExperimentStatsDTO{Experiment: exp.Name, Variants: make([]dto.VariantStatsDTO, 0, len(exp.Variants))}
	for _, v := range exp.Variants {
		r := byVariant[v.Name]
		resp.Variants = append(resp.Variants, dto.VariantStatsDTO{
			Variant:        v.Name,
			Views:          r.Views,
			Conversions:    r.Conversions,
			ConversionRate: conversionRate(r.Conversions, r.Views),
		})
	}
	return resp, nil
}

// conversionRate is conversions/views as a percentage with two decimals.
func conversionRate(conversions, views int) float64 {
	if views == 0 {
		return 0
	}
	return math.Round(float64(conversions)/float64(views)*10000) / 100
}
