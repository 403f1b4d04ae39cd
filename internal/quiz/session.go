package quiz

import (
	"github.com/lshigami/Bilim/internal/apperror"
)

// Status is the lifecycle state of a test session.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// DefaultSecondsPerQuestion is the countdown budget per question.
const DefaultSecondsPerQuestion = 60

// Config controls timing and scoring of a session.
type Config struct {
	// SecondsPerQuestion sizes the countdown. Zero disables the countdown;
	// Tick then only accumulates elapsed time.
	SecondsPerQuestion int
	UnansweredPolicy   UnansweredPolicy
}

// DefaultConfig returns the standard session configuration.
func DefaultConfig() Config {
	return Config{
		SecondsPerQuestion: DefaultSecondsPerQuestion,
		UnansweredPolicy:   UnansweredSkip,
	}
}

// Session is one attempt at a fixed question sequence. It is owned by a
// single caller and is not safe for concurrent use.
type Session struct {
	cfg Config

	questions     []Question
	currentIndex  int
	answers       []Answer
	pending       *int
	timeRemaining int
	elapsed       int
	status        Status
	result        *ScoredResult
}

// NewSession returns a session in StatusNotStarted.
func NewSession(cfg Config) *Session {
	if cfg.UnansweredPolicy == "" {
		cfg.UnansweredPolicy = UnansweredSkip
	}
	return &Session{cfg: cfg, status: StatusNotStarted}
}

// Start begins the session over questions, resetting pointer, answers and
// timer.
func (s *Session) Start(questions []Question) error {
	if len(questions) == 0 {
		return apperror.Validation("questions", "cannot start a test without questions")
	}
	qs := make([]Question, len(questions))
	copy(qs, questions)

	s.questions = qs
	s.reset()
	s.status = StatusInProgress
	return nil
}

// Restart reinitialises every field and starts again over the same questions.
func (s *Session) Restart() error {
	if len(s.questions) == 0 {
		return apperror.Validation("questions", "session was never started")
	}
	s.reset()
	s.status = StatusInProgress
	return nil
}

func (s *Session) reset() {
	s.currentIndex = 0
	s.answers = nil
	s.pending = nil
	s.elapsed = 0
	s.result = nil
	s.timeRemaining = len(s.questions) * s.cfg.SecondsPerQuestion
}

// SelectAnswer stores optionIndex as the pending choice for the current
// question. It does not advance.
func (s *Session) SelectAnswer(optionIndex int) error {
	if s.status != StatusInProgress {
		return apperror.Validation("status", "cannot select an answer while %s", s.status)
	}
	q := s.questions[s.currentIndex]
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return apperror.Validation("optionIndex", "%d is out of range [0,%d)", optionIndex, len(q.Options))
	}
	idx := optionIndex
	s.pending = &idx
	return nil
}

// Advance commits the pending choice and moves to the next question. It
// reports whether the session completed.
func (s *Session) Advance() (bool, error) {
	if s.status != StatusInProgress {
		return false, apperror.Validation("status", "cannot advance while %s", s.status)
	}
	if s.pending == nil {
		return false, apperror.Validation("", "no answer selected")
	}

	s.answers = append(s.answers, Answer{
		QuestionID:          s.questions[s.currentIndex].ID,
		SelectedOptionIndex: *s.pending,
	})
	s.pending = nil

	if s.currentIndex == len(s.questions)-1 {
		s.complete()
		return true, nil
	}
	s.currentIndex++
	return false, nil
}

// Tick accounts for one elapsed second. When the countdown reaches zero the
// session completes with the answers recorded so far. Ticking a session that
// is not in progress is a no-op. It reports whether this tick completed the
// session.
func (s *Session) Tick() bool {
	if s.status != StatusInProgress {
		return false
	}
	s.elapsed++
	if s.cfg.SecondsPerQuestion <= 0 {
		return false
	}
	if s.timeRemaining > 0 {
		s.timeRemaining--
	}
	if s.timeRemaining == 0 {
		s.pending = nil
		s.complete()
		return true
	}
	return false
}

// Cancel discards all session state and returns to StatusNotStarted.
func (s *Session) Cancel() error {
	if s.status != StatusInProgress {
		return apperror.Validation("status", "cannot cancel while %s", s.status)
	}
	s.questions = nil
	s.currentIndex = 0
	s.answers = nil
	s.pending = nil
	s.timeRemaining = 0
	s.elapsed = 0
	s.result = nil
	s.status = StatusNotStarted
	return nil
}

func (s *Session) complete() {
	res := ScoreWithPolicy(s.questions, s.answers, s.cfg.UnansweredPolicy)
	res.TimeSpentSeconds = s.elapsed
	s.result = &res
	s.status = StatusCompleted
}

// Status returns the current state.
func (s *Session) Status() Status { return s.status }

// Result returns the scored result once the session is completed.
func (s *Session) Result() (ScoredResult, bool) {
	if s.result == nil {
		return ScoredResult{}, false
	}
	return *s.result, true
}

// Answers returns a copy of the committed answers.
func (s *Session) Answers() []Answer {
	out := make([]Answer, len(s.answers))
	copy(out, s.answers)
	return out
}

// Questions returns the question sequence of the session.
func (s *Session) Questions() []Question { return s.questions }

// Snapshot is a read-only view of a session.
type Snapshot struct {
	Status               Status        `json:"status"`
	CurrentIndex         int           `json:"currentIndex"`
	TotalQuestions       int           `json:"totalQuestions"`
	AnsweredCount        int           `json:"answeredCount"`
	PendingOptionIndex   *int          `json:"pendingOptionIndex,omitempty"`
	TimeRemainingSeconds int           `json:"timeRemainingSeconds"`
	ElapsedSeconds       int           `json:"elapsedSeconds"`
	Current              *Question     `json:"-"`
	Result               *ScoredResult `json:"result,omitempty"`
}

// Snapshot captures the observable state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Status:               s.status,
		CurrentIndex:         s.currentIndex,
		TotalQuestions:       len(s.questions),
		AnsweredCount:        len(s.answers),
		TimeRemainingSeconds: s.timeRemaining,
		ElapsedSeconds:       s.elapsed,
	}
	if s.pending != nil {
		p := *s.pending
		snap.PendingOptionIndex = &p
	}
	if s.status == StatusInProgress {
		q := s.questions[s.currentIndex]
		snap.Current = &q
	}
	if s.result != nil {
		r := *s.result
		snap.Result = &r
	}
	return snap
}
