package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lshigami/Bilim/internal/apperror"
	"github.com/lshigami/Bilim/internal/quiz"
	"github.com/lshigami/Bilim/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSubmitter struct {
	mu     sync.Mutex
	subs   []quiz.Submission
	err    error
	nextID uint
}

func (r *recordingSubmitter) Submit(_ context.Context, sub quiz.Submission) (*quiz.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, sub)
	if r.err != nil {
		return nil, r.err
	}
	r.nextID++
	return &quiz.Record{ID: r.nextID, CreatedAt: time.Now()}, nil
}

func (r *recordingSubmitter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

func newTestSessions(t *testing.T, submitter quiz.ResultSubmitter, cfg quiz.Config, interval time.Duration) (*sessionService, uint) {
	t.Helper()
	db := newDB(t)
	test := seedMathTest(t, db)
	m := newSessionService(NewUserTestService(repository.NewTestRepository(db)), submitter, cfg, time.Minute, interval)
	t.Cleanup(m.Shutdown)
	return m, test.ID
}

func TestSessionService_AnswerAllQuestions(t *testing.T) {
	sub := &recordingSubmitter{}
	// No countdown, so only explicit calls change the session.
	m, testID := newTestSessions(t, sub, quiz.Config{SecondsPerQuestion: 0}, time.Hour)
	ctx := context.Background()

	s, err := m.Start(ctx, 1, testID)
	require.NoError(t, err)
	assert.Equal(t, string(quiz.StatusInProgress), s.Status)
	assert.Equal(t, 3, s.TotalQuestions)
	require.NotNil(t, s.Question)
	assert.Equal(t, "2+2", s.Question.Text)
	assert.Nil(t, s.Question.CorrectAnswerIndex)

	_, err = m.Advance(ctx, 1, s.ID)
	assert.True(t, apperror.IsValidation(err), "advance without a selection")

	_, err = m.SelectAnswer(ctx, 1, s.ID, 7)
	assert.True(t, apperror.IsValidation(err))

	for _, choice := range []int{1, 1, 2} {
		got, err := m.SelectAnswer(ctx, 1, s.ID, choice)
		require.NoError(t, err)
		require.NotNil(t, got.PendingOptionIndex)
		_, err = m.Advance(ctx, 1, s.ID)
		require.NoError(t, err)
	}

	done, err := m.Get(ctx, 1, s.ID)
	require.NoError(t, err)
	assert.Equal(t, string(quiz.StatusCompleted), done.Status)
	assert.Nil(t, done.Question)
	require.NotNil(t, done.Result)
	assert.Equal(t, 2, done.Result.Score)
	assert.Equal(t, 3, done.Result.Total)
	assert.Equal(t, 67, done.Result.Percentage)
	require.NotNil(t, done.ResultID)

	require.Equal(t, 1, sub.count())
	assert.Equal(t, "math", sub.subs[0].Subject)
	assert.Equal(t, testID, *sub.subs[0].TestID)

	// Calls after completion fail without submitting again.
	_, err = m.Advance(ctx, 1, s.ID)
	assert.Error(t, err)
	assert.Equal(t, 1, sub.count())
}

func TestSessionService_TimerExpirySubmitsOnce(t *testing.T) {
	sub := &recordingSubmitter{}
	m, testID := newTestSessions(t, sub, quiz.Config{SecondsPerQuestion: 1, UnansweredPolicy: quiz.UnansweredWrong}, 5*time.Millisecond)
	ctx := context.Background()

	s, err := m.Start(ctx, 1, testID)
	require.NoError(t, err)
	assert.Equal(t, 3, s.TimeRemainingSeconds)

	assert.Eventually(t, func() bool { return sub.count() == 1 }, 2*time.Second, 5*time.Millisecond)

	got, err := m.Get(ctx, 1, s.ID)
	require.NoError(t, err)
	assert.Equal(t, string(quiz.StatusCompleted), got.Status)
	assert.Equal(t, 0, got.TimeRemainingSeconds)
	require.NotNil(t, got.Result)
	assert.Equal(t, 3, got.Result.Total)
	assert.Equal(t, 0, got.Result.Score)

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, sub.count())
}

func TestSessionService_FailedSubmitKeepsLocalResult(t *testing.T) {
	sub := &recordingSubmitter{err: errors.New("db down")}
	m, testID := newTestSessions(t, sub, quiz.Config{}, time.Hour)
	ctx := context.Background()

	s, err := m.Start(ctx, 1, testID)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = m.SelectAnswer(ctx, 1, s.ID, 0)
		require.NoError(t, err)
		_, err = m.Advance(ctx, 1, s.ID)
		require.NoError(t, err)
	}

	got, err := m.Get(ctx, 1, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Result)
	assert.Equal(t, 1, got.Result.Score)
	assert.Nil(t, got.ResultID)
	assert.Equal(t, 1, sub.count())
}

func TestSessionService_RestartAndCancel(t *testing.T) {
	sub := &recordingSubmitter{}
	m, testID := newTestSessions(t, sub, quiz.Config{SecondsPerQuestion: 60}, time.Hour)
	ctx := context.Background()

	s, err := m.Start(ctx, 1, testID)
	require.NoError(t, err)
	_, err = m.SelectAnswer(ctx, 1, s.ID, 1)
	require.NoError(t, err)
	_, err = m.Advance(ctx, 1, s.ID)
	require.NoError(t, err)

	restarted, err := m.Restart(ctx, 1, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, restarted.CurrentIndex)
	assert.Equal(t, 0, restarted.AnsweredCount)
	assert.Equal(t, 180, restarted.TimeRemainingSeconds)

	require.NoError(t, m.Cancel(ctx, 1, s.ID))
	_, err = m.Get(ctx, 1, s.ID)
	assert.True(t, apperror.IsNotFound(err))
	assert.Zero(t, sub.count())
}

func TestSessionService_RestartRightAfterCompletionStillSubmits(t *testing.T) {
	sub := &recordingSubmitter{}
	m, testID := newTestSessions(t, sub, quiz.Config{}, time.Hour)
	ctx := context.Background()

	s, err := m.Start(ctx, 1, testID)
	require.NoError(t, err)
	ls, err := m.lookup(1, s.ID)
	require.NoError(t, err)

	// Complete the run and claim its result, then let a restart in before
	// the store is called.
	ls.mu.Lock()
	for i := 0; i < 3; i++ {
		require.NoError(t, ls.session.SelectAnswer(1))
		_, err = ls.session.Advance()
		require.NoError(t, err)
	}
	submit := m.finishLocked(ls)
	ls.mu.Unlock()
	require.NotNil(t, submit)

	restarted, err := m.Restart(ctx, 1, s.ID)
	require.NoError(t, err)
	assert.Equal(t, string(quiz.StatusInProgress), restarted.Status)

	submit()
	require.Equal(t, 1, sub.count())
	assert.Equal(t, 3, sub.subs[0].Result.Total)

	got, err := m.Get(ctx, 1, s.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ResultID, "the new run must not carry the old result")
}

func TestSessionService_ConcurrentRestartOnCompletion(t *testing.T) {
	sub := &recordingSubmitter{}
	m, testID := newTestSessions(t, sub, quiz.Config{}, time.Hour)
	ctx := context.Background()

	const runs = 25
	for run := 1; run <= runs; run++ {
		s, err := m.Start(ctx, 1, testID)
		require.NoError(t, err)
		ch, unsubscribe, err := m.Subscribe(1, s.ID)
		require.NoError(t, err)

		restarted := make(chan struct{})
		go func() {
			defer close(restarted)
			for snap := range ch {
				if snap.Status == string(quiz.StatusCompleted) {
					_, _ = m.Restart(ctx, 1, s.ID)
					return
				}
			}
		}()

		for i := 0; i < 3; i++ {
			_, err = m.SelectAnswer(ctx, 1, s.ID, 1)
			require.NoError(t, err)
			_, err = m.Advance(ctx, 1, s.ID)
			require.NoError(t, err)
		}
		<-restarted
		unsubscribe()
		require.NoError(t, m.Cancel(ctx, 1, s.ID))

		assert.Equal(t, run, sub.count(), "run %d", run)
	}
}

func TestSessionService_Ownership(t *testing.T) {
	m, testID := newTestSessions(t, &recordingSubmitter{}, quiz.Config{}, time.Hour)
	ctx := context.Background()

	s, err := m.Start(ctx, 1, testID)
	require.NoError(t, err)

	_, err = m.Get(ctx, 2, s.ID)
	assert.Equal(t, 403, apperror.HTTPStatus(err))
	_, err = m.Get(ctx, 1, "missing")
	assert.True(t, apperror.IsNotFound(err))

	_, err = m.Start(ctx, 1, 999)
	assert.True(t, apperror.IsNotFound(err))
}

func TestSessionService_SubscribeAndReap(t *testing.T) {
	m, testID := newTestSessions(t, &recordingSubmitter{}, quiz.Config{}, time.Hour)
	ctx := context.Background()

	s, err := m.Start(ctx, 1, testID)
	require.NoError(t, err)

	updates, unsubscribe, err := m.Subscribe(1, s.ID)
	require.NoError(t, err)
	defer unsubscribe()

	first := <-updates
	assert.Equal(t, s.ID, first.ID)

	_, err = m.SelectAnswer(ctx, 1, s.ID, 2)
	require.NoError(t, err)
	next := <-updates
	require.NotNil(t, next.PendingOptionIndex)
	assert.Equal(t, 2, *next.PendingOptionIndex)

	assert.Zero(t, m.ReapIdle(time.Now()))
	assert.Equal(t, 1, m.ReapIdle(time.Now().Add(2*time.Minute)))

	_, open := <-updates
	assert.False(t, open, "channel closes when the session is reaped")
	_, err = m.Get(ctx, 1, s.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestSessionService_StoresThroughResultService(t *testing.T) {
	db := newDB(t)
	test := seedMathTest(t, db)
	results := newResultService(db)
	m := newSessionService(NewUserTestService(repository.NewTestRepository(db)), results, quiz.Config{}, time.Minute, time.Hour)
	defer m.Shutdown()
	ctx := context.Background()

	s, err := m.Start(ctx, 4, test.ID)
	require.NoError(t, err)
	for _, choice := range []int{1, 0, 2} {
		_, err = m.SelectAnswer(ctx, 4, s.ID, choice)
		require.NoError(t, err)
		_, err = m.Advance(ctx, 4, s.ID)
		require.NoError(t, err)
	}

	got, err := m.Get(ctx, 4, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ResultID)

	stored, err := results.GetResult(ctx, 4, *got.ResultID)
	require.NoError(t, err)
	assert.Equal(t, 100, stored.Percentage)
	assert.Len(t, stored.Answers, 3)
}
