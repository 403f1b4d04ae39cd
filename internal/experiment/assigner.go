package experiment

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/lshigami/Bilim/internal/apperror"
)

// Store is the durable cache of assignments, keyed by experiment and visitor.
type Store interface {
	// GetAssignment returns the stored variant, or ok == false when the
	// visitor has not been assigned yet.
	GetAssignment(ctx context.Context, experiment, visitorID string) (variant string, ok bool, err error)
	SaveAssignment(ctx context.Context, experiment, visitorID, variant string) error
}

// Assignment is the outcome of Assign.
type Assignment struct {
	Experiment string `json:"experiment"`
	VisitorID  string `json:"visitorId"`
	Variant    string `json:"variant"`
	Cached     bool   `json:"-"`
}

// Assigner buckets visitors into the configured experiments.
type Assigner struct {
	store       Store
	experiments map[string]Experiment
}

// NewAssigner validates every experiment up front.
func NewAssigner(store Store, experiments []Experiment) (*Assigner, error) {
	if store == nil {
		return nil, fmt.Errorf("experiment store is required")
	}
	table := make(map[string]Experiment, len(experiments))
	for _, e := range experiments {
		if err := e.Validate(); err != nil {
			return nil, err
		}
		table[e.Name] = e
	}
	return &Assigner{store: store, experiments: table}, nil
}

// Experiment looks up a configured experiment by name.
func (a *Assigner) Experiment(name string) (Experiment, bool) {
	e, ok := a.experiments[name]
	return e, ok
}

// Assign returns the visitor's variant. A stored assignment always wins, so
// a visitor keeps their variant even if the weights later change.
func (a *Assigner) Assign(ctx context.Context, visitorID, name string) (Assignment, error) {
	visitorID = strings.TrimSpace(visitorID)
	if visitorID == "" {
		return Assignment{}, apperror.Validation("visitorId", "is required")
	}
	exp, ok := a.experiments[name]
	if !ok {
		return Assignment{}, apperror.NotFound("experiment", name)
	}

	variant, found, err := a.store.GetAssignment(ctx, name, visitorID)
	if err != nil {
		return Assignment{}, fmt.Errorf("failed to read assignment: %w", err)
	}
	if found {
		return Assignment{Experiment: name, VisitorID: visitorID, Variant: variant, Cached: true}, nil
	}

	variant = exp.Pick(Bucket(visitorID, name))
	if err := a.store.SaveAssignment(ctx, name, visitorID, variant); err != nil {
		return Assignment{}, fmt.Errorf("failed to save assignment: %w", err)
	}
	return Assignment{Experiment: name, VisitorID: visitorID, Variant: variant}, nil
}

type storeKey struct {
	experiment, visitor string
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu          sync.RWMutex
	assignments map[storeKey]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{assignments: make(map[storeKey]string)}
}

func (m *MemoryStore) GetAssignment(_ context.Context, experiment, visitorID string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.assignments[storeKey{experiment, visitorID}]
	return v, ok, nil
}

func (m *MemoryStore) SaveAssignment(_ context.Context, experiment, visitorID, variant string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments[storeKey{experiment, visitorID}] = variant
	return nil
}
