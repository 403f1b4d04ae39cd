// Package scheduler runs periodic housekeeping for the API server.
package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"
)

// DefaultReapInterval is how often abandoned sessions are looked for.
const DefaultReapInterval = time.Minute

// Reaper drops sessions nobody has touched for too long.
type Reaper interface {
	ReapIdle(now time.Time) int
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	reaper    Reaper
	every     time.Duration
	now       func() time.Time
}

func New(reaper Reaper, every time.Duration) *Scheduler {
	if every <= 0 {
		every = DefaultReapInterval
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		reaper:    reaper,
		every:     every,
		now:       time.Now,
	}
}

// Start registers the jobs and runs them in the background. The first run
// happens immediately.
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(s.every).Do(s.reapSessions); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	log.Info().Dur("every", s.every).Msg("Session reaper scheduled")
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) reapSessions() {
	if n := s.reaper.ReapIdle(s.now()); n > 0 {
		log.Info().Int("count", n).Msg("Reaped idle sessions")
	}
}
