package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lshigami/Bilim/config"
	"github.com/lshigami/Bilim/internal/apperror"
	"github.com/lshigami/Bilim/internal/dto"
	"github.com/lshigami/Bilim/internal/model"
	"github.com/lshigami/Bilim/internal/quiz"
	"github.com/rs/zerolog/log"
)

const (
	submitTimeout    = 10 * time.Second
	subscriberBuffer = 8
)

// SessionService runs test sessions on the server. Each session has its own
// countdown goroutine; a completed session is submitted exactly once.
type SessionService interface {
	Start(ctx context.Context, userID, testID uint) (*dto.SessionResponse, error)
	Get(ctx context.Context, userID uint, id string) (*dto.SessionResponse, error)
	SelectAnswer(ctx context.Context, userID uint, id string, optionIndex int) (*dto.SessionResponse, error)
	Advance(ctx context.Context, userID uint, id string) (*dto.SessionResponse, error)
	Restart(ctx context.Context, userID uint, id string) (*dto.SessionResponse, error)
	// Cancel stops the session and forgets it.
	Cancel(ctx context.Context, userID uint, id string) error
	// Subscribe streams a snapshot after every change, starting with the
	// current one. The channel is closed when the session goes away.
	Subscribe(userID uint, id string) (<-chan dto.SessionResponse, func(), error)
	// ReapIdle drops sessions untouched for longer than the idle timeout.
	ReapIdle(now time.Time) int
	// HasActiveSession reports whether a live session, running or finished
	// but still restartable, holds testID.
	HasActiveSession(testID uint) bool
	Shutdown()
}

type liveSession struct {
	mu sync.Mutex

	id         string
	userID     uint
	test       *model.Test
	session    *quiz.Session
	generation int
	stopTimer  context.CancelFunc
	lastActive time.Time
	submitted  bool
	resultID   *uint

	subscribers map[int]chan dto.SessionResponse
	nextSub     int
}

type sessionService struct {
	tests       UserTestService
	submitter   quiz.ResultSubmitter
	cfg         quiz.Config
	idleTimeout time.Duration
	interval    time.Duration
	now         func() time.Time

	mu       sync.RWMutex
	sessions map[string]*liveSession
}

func NewSessionService(tests UserTestService, submitter ResultService, cfg *config.Config) SessionService {
	return newSessionService(tests, submitter, cfg.Quiz.SessionConfig(), cfg.Quiz.SessionIdleTimeout, time.Second)
}

func newSessionService(tests UserTestService, submitter quiz.ResultSubmitter, cfg quiz.Config, idle, interval time.Duration) *sessionService {
	return &sessionService{
		tests:       tests,
		submitter:   submitter,
		cfg:         cfg,
		idleTimeout: idle,
		interval:    interval,
		now:         time.Now,
		sessions:    make(map[string]*liveSession),
	}
}

func (m *sessionService) Start(ctx context.Context, userID, testID uint) (*dto.SessionResponse, error) {
	questions, test, err := m.tests.QuizForTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	sess := quiz.NewSession(m.cfg)
	if err := sess.Start(questions); err != nil {
		return nil, err
	}

	ls := &liveSession{
		id:          uuid.NewString(),
		userID:      userID,
		test:        test,
		session:     sess,
		lastActive:  m.now(),
		subscribers: make(map[int]chan dto.SessionResponse),
	}
	ls.mu.Lock()
	m.startTimerLocked(ls)
	resp := m.responseLocked(ls)
	ls.mu.Unlock()

	m.mu.Lock()
	m.sessions[ls.id] = ls
	m.mu.Unlock()

	log.Info().Str("sessionID", ls.id).Uint("userID", userID).Uint("testID", testID).Msg("Session started")
	return &resp, nil
}

func (m *sessionService) Get(_ context.Context, userID uint, id string) (*dto.SessionResponse, error) {
	ls, err := m.lookup(userID, id)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	resp := m.responseLocked(ls)
	return &resp, nil
}

func (m *sessionService) SelectAnswer(_ context.Context, userID uint, id string, optionIndex int) (*dto.SessionResponse, error) {
	ls, err := m.lookup(userID, id)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.lastActive = m.now()
	if err := ls.session.SelectAnswer(optionIndex); err != nil {
		return nil, err
	}
	resp := m.responseLocked(ls)
	m.broadcastLocked(ls, resp)
	return &resp, nil
}

func (m *sessionService) Advance(ctx context.Context, userID uint, id string) (*dto.SessionResponse, error) {
	ls, err := m.lookup(userID, id)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	ls.lastActive = m.now()
	completed, err := ls.session.Advance()
	if err != nil {
		ls.mu.Unlock()
		return nil, err
	}
	resp := m.responseLocked(ls)
	m.broadcastLocked(ls, resp)
	var submit func()
	if completed {
		submit = m.finishLocked(ls)
	}
	ls.mu.Unlock()

	if submit != nil {
		submit()
		return m.Get(ctx, userID, id)
	}
	return &resp, nil
}

func (m *sessionService) Restart(_ context.Context, userID uint, id string) (*dto.SessionResponse, error) {
	ls, err := m.lookup(userID, id)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.lastActive = m.now()
	if err := ls.session.Restart(); err != nil {
		return nil, err
	}
	ls.submitted = false
	ls.resultID = nil
	m.startTimerLocked(ls)

	resp := m.responseLocked(ls)
	m.broadcastLocked(ls, resp)
	return &resp, nil
}

func (m *sessionService) Cancel(_ context.Context, userID uint, id string) error {
	ls, err := m.lookup(userID, id)
	if err != nil {
		return err
	}
	ls.mu.Lock()
	if ls.session.Status() == quiz.StatusInProgress {
		if err := ls.session.Cancel(); err != nil {
			ls.mu.Unlock()
			return err
		}
	}
	ls.mu.Unlock()

	m.remove(ls)
	log.Info().Str("sessionID", id).Uint("userID", userID).Msg("Session cancelled")
	return nil
}

func (m *sessionService) Subscribe(userID uint, id string) (<-chan dto.SessionResponse, func(), error) {
	ls, err := m.lookup(userID, id)
	if err != nil {
		return nil, nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()

	ch := make(chan dto.SessionResponse, subscriberBuffer)
	key := ls.nextSub
	ls.nextSub++
	ls.subscribers[key] = ch
	ch <- m.responseLocked(ls)

	unsubscribe := func() {
		ls.mu.Lock()
		defer ls.mu.Unlock()
		if c, ok := ls.subscribers[key]; ok {
			delete(ls.subscribers, key)
			close(c)
		}
	}
	return ch, unsubscribe, nil
}

func (m *sessionService) ReapIdle(now time.Time) int {
	if m.idleTimeout <= 0 {
		return 0
	}
	m.mu.RLock()
	var idle []*liveSession
	for _, ls := range m.sessions {
		ls.mu.Lock()
		if now.Sub(ls.lastActive) > m.idleTimeout {
			idle = append(idle, ls)
		}
		ls.mu.Unlock()
	}
	m.mu.RUnlock()

	for _, ls := range idle {
		m.remove(ls)
	}
	if len(idle) > 0 {
		log.Info().Int("reaped", len(idle)).Msg("Idle sessions removed")
	}
	return len(idle)
}

func (m *sessionService) HasActiveSession(testID uint) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, ls := range m.sessions {
		if ls.test.ID == testID {
			return true
		}
	}
	return false
}

func (m *sessionService) Shutdown() {
	m.mu.RLock()
	all := make([]*liveSession, 0, len(m.sessions))
	for _, ls := range m.sessions {
		all = append(all, ls)
	}
	m.mu.RUnlock()
	for _, ls := range all {
		m.remove(ls)
	}
}

func (m *sessionService) lookup(userID uint, id string) (*liveSession, error) {
	m.mu.RLock()
	ls, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, apperror.NotFound("session", id)
	}
	if ls.userID != userID {
		return nil, apperror.Forbidden("session belongs to another user")
	}
	return ls, nil
}

func (m *sessionService) remove(ls *liveSession) {
	m.mu.Lock()
	delete(m.sessions, ls.id)
	m.mu.Unlock()

	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.stopTimer != nil {
		ls.stopTimer()
		ls.stopTimer = nil
	}
	for key, ch := range ls.subscribers {
		delete(ls.subscribers, key)
		close(ch)
	}
}

// startTimerLocked replaces the countdown goroutine. Ticks from an older
// generation are ignored.
func (m *sessionService) startTimerLocked(ls *liveSession) {
	if ls.stopTimer != nil {
		ls.stopTimer()
	}
	ls.generation++
	gen := ls.generation
	ctx, cancel := context.WithCancel(context.Background())
	ls.stopTimer = cancel
	go quiz.RunTimer(ctx, m.interval, func() bool { return m.tick(ls, gen) })
}

func (m *sessionService) tick(ls *liveSession, gen int) bool {
	ls.mu.Lock()
	if ls.generation != gen {
		ls.mu.Unlock()
		return false
	}
	completed := ls.session.Tick()
	running := ls.session.Status() == quiz.StatusInProgress
	m.broadcastLocked(ls, m.responseLocked(ls))
	var submit func()
	if completed {
		log.Info().Str("sessionID", ls.id).Msg("Session time expired")
		submit = m.finishLocked(ls)
	}
	ls.mu.Unlock()

	if submit != nil {
		submit()
	}
	return running
}

// finishLocked claims the result of a completed session and returns the call
// that stores it, or nil when there is nothing left to submit. It must run in
// the critical section that completed the session; the returned func runs
// without ls.mu held. A failed submission is logged and not retried, and the
// local result stays available.
func (m *sessionService) finishLocked(ls *liveSession) func() {
	result, ok := ls.session.Result()
	if !ok || ls.submitted {
		return nil
	}
	ls.submitted = true
	if ls.stopTimer != nil {
		ls.stopTimer()
		ls.stopTimer = nil
	}
	gen := ls.generation
	testID := ls.test.ID
	sub := quiz.Submission{
		UserID:     ls.userID,
		TestID:     &testID,
		Subject:    ls.test.Subject,
		Difficulty: ls.test.Difficulty,
		Result:     result,
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		rec, err := m.submitter.Submit(ctx, sub)
		if err != nil {
			log.Error().Err(err).Str("sessionID", ls.id).Uint("userID", sub.UserID).Msg("Failed to submit session result")
			return
		}

		ls.mu.Lock()
		defer ls.mu.Unlock()
		// A restarted run must not show the previous run's result.
		if ls.generation != gen {
			return
		}
		id := rec.ID
		ls.resultID = &id
		m.broadcastLocked(ls, m.responseLocked(ls))
	}
}

// broadcastLocked never blocks; a slow subscriber misses intermediate
// snapshots.
func (m *sessionService) broadcastLocked(ls *liveSession, resp dto.SessionResponse) {
	for _, ch := range ls.subscribers {
		select {
		case ch <- resp:
		default:
		}
	}
}

func (m *sessionService) responseLocked(ls *liveSession) dto.SessionResponse {
	snap := ls.session.Snapshot()
	resp := dto.SessionResponse{
		ID:                   ls.id,
		TestID:               ls.test.ID,
		Status:               string(snap.Status),
		CurrentIndex:         snap.CurrentIndex,
		TotalQuestions:       snap.TotalQuestions,
		AnsweredCount:        snap.AnsweredCount,
		PendingOptionIndex:   snap.PendingOptionIndex,
		TimeRemainingSeconds: snap.TimeRemainingSeconds,
		ElapsedSeconds:       snap.ElapsedSeconds,
	}
	if ls.resultID != nil {
		id := *ls.resultID
		resp.ResultID = &id
	}
	if snap.Current != nil && snap.CurrentIndex < len(ls.test.Questions) {
		q := toQuestionResponse(&ls.test.Questions[snap.CurrentIndex], false)
		resp.Question = &q
	}
	if snap.Result != nil {
		r := &dto.SessionResultDTO{
			Score:            snap.Result.Score,
			Total:            snap.Result.Total,
			Percentage:       snap.Result.Percentage,
			TimeSpentSeconds: snap.Result.TimeSpentSeconds,
			PerQuestion:      make([]dto.AnswerResultDTO, len(snap.Result.PerQuestion)),
		}
		for i, pq := range snap.Result.PerQuestion {
			r.PerQuestion[i] = dto.AnswerResultDTO{
				QuestionID:          pq.QuestionID,
				SelectedOptionIndex: pq.SelectedOptionIndex,
				Correct:             pq.Correct,
			}
		}
		resp.Result = r
	}
	return resp
}
