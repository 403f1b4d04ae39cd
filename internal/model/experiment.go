package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	EventView    = "view"
	EventConvert = "convert"
)

type ExperimentAssignment struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	Experiment string    `json:"experiment" gorm:"not null;uniqueIndex:idx_experiment_visitor"`
	VisitorID  string    `json:"visitor_id" gorm:"not null;uniqueIndex:idx_experiment_visitor"`
	Variant    string    `json:"variant" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
}

type ExperimentEvent struct {
	ID         uint              `gorm:"primarykey" json:"id"`
	Experiment string            `json:"experiment" gorm:"not null;index"`
	VisitorID  string            `json:"visitor_id" gorm:"not null;index"`
	Variant    string            `json:"variant" gorm:"not null"`
	EventType  string            `json:"event_type" gorm:"not null"` // "view" or "convert"
	Properties datatypes.JSONMap `json:"properties,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

type VariantStats struct {
	Variant     string `json:"variant"`
	Views       int    `json:"views"`
	Conversions int    `json:"conversions"`
}
