package repository

import (
	"context"
	"errors"

	"github.com/lshigami/Bilim/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ExperimentRepository is the durable experiment.Store plus event log.
type ExperimentRepository interface {
	GetAssignment(ctx context.Context, experiment, visitorID string) (string, bool, error)
	SaveAssignment(ctx context.Context, experiment, visitorID, variant string) error
	CreateEvent(ctx context.Context, event *model.ExperimentEvent) error
	VariantStats(ctx context.Context, experiment string) ([]model.VariantStats, error)
}

type experimentRepository struct {
	db *gorm.DB
}

func NewExperimentRepository(db *gorm.DB) ExperimentRepository {
	return &experimentRepository{db: db}
}

func (r *experimentRepository) GetAssignment(ctx context.Context, experiment, visitorID string) (string, bool, error) {
	var a model.ExperimentAssignment
	err := r.db.WithContext(ctx).
		Where("experiment = ? AND visitor_id = ?", experiment, visitorID).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return a.Variant, true, nil
}

// SaveAssignment keeps the first stored variant if two requests race.
func (r *experimentRepository) SaveAssignment(ctx context.Context, experiment, visitorID, variant string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.ExperimentAssignment{Experiment: experiment, VisitorID: visitorID, Variant: variant}).Error
}

func (r *experimentRepository) CreateEvent(ctx context.Context, event *model.ExperimentEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *experimentRepository) VariantStats(ctx context.Context, experiment string) ([]model.VariantStats, error) {
	var stats []model.VariantStats
	err := r.db.WithContext(ctx).Model(&model.ExperimentEvent{}).
		Select("variant, "+
			"SUM(CASE WHEN event_type = ? THEN 1 ELSE 0 END) AS views, "+
			"SUM(CASE WHEN event_type = ? THEN 1 ELSE 0 END) AS conversions", model.EventView, model.EventConvert).
		Where("experiment = ?", experiment).
		Group("variant").
		Order("variant ASC").
		Scan(&stats).Error
	return stats, err
}
