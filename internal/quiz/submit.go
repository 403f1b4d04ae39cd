package quiz

import (
	"context"
	"time"
)

// Submission is a completed result handed to a ResultSubmitter.
type Submission struct {
	UserID     uint
	TestID     *uint
	Subject    string
	Difficulty string
	Result     ScoredResult
}

// Record is the durable copy of a submission.
type Record struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// ResultSubmitter persists scored results. Callers submit at most once per
// completed session and do not retry on failure.
type ResultSubmitter interface {
	Submit(ctx context.Context, sub Submission) (*Record, error)
}
