package quiz

import (
	"context"
	"time"
)

// RunTimer calls tick once per interval until ctx is cancelled or tick
// returns false. It blocks; callers run it in its own goroutine and cancel
// ctx when the session leaves StatusInProgress.
func RunTimer(ctx context.Context, interval time.Duration, tick func() bool) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !tick() {
				return
			}
		}
	}
}
