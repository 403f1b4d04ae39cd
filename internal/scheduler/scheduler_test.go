package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReaper struct {
	calls atomic.Int32
}

func (r *countingReaper) ReapIdle(time.Time) int {
	r.calls.Add(1)
	return 2
}

func TestScheduler_RunsReaperOnStart(t *testing.T) {
	reaper := &countingReaper{}
	s := New(reaper, time.Hour)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return reaper.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestNew_DefaultInterval(t *testing.T) {
	s := New(&countingReaper{}, 0)
	assert.Equal(t, DefaultReapInterval, s.every)
}
