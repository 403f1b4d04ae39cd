package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/lshigami/Bilim/database"
	"github.com/lshigami/Bilim/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewInMemory()
	require.NoError(t, err)
	return db
}

func seedTest(t *testing.T, db *gorm.DB, title, subject, lang string) *model.Test {
	t.Helper()
	test := &model.Test{
		Title: title, Subject: subject, Difficulty: "easy", Language: lang,
		Questions: []model.Question{
			{Text: "2+2", Options: []string{"3", "4"}, CorrectAnswerIndex: 1, OrderInTest: 2},
			{Text: "1+1", Options: []string{"2", "5"}, CorrectAnswerIndex: 0, OrderInTest: 1},
		},
	}
	require.NoError(t, NewTestRepository(db).Create(context.Background(), test))
	return test
}

func TestTestRepository_CatalogueAndQuestions(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	repo := NewTestRepository(db)

	math := seedTest(t, db, "Math RU", "math", "ru")
	seedTest(t, db, "History KK", "history", "kk")

	all, err := repo.FindAllWithQuestionCount(ctx, TestFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	kk, err := repo.FindAllWithQuestionCount(ctx, TestFilter{Language: "kk"})
	require.NoError(t, err)
	require.Len(t, kk, 1)
	assert.Equal(t, "History KK", kk[0].Title)
	assert.Equal(t, 2, kk[0].QuestionCount)

	full, err := repo.FindByIDWithQuestions(ctx, math.ID)
	require.NoError(t, err)
	require.Len(t, full.Questions, 2)
	assert.Equal(t, "1+1", full.Questions[0].Text)
	assert.Equal(t, []string{"2", "5"}, full.Questions[0].Options)

	next, err := NewQuestionRepository(db).NextOrder(ctx, math.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, next)

	empty, err := NewQuestionRepository(db).NextOrder(ctx, 999)
	require.NoError(t, err)
	assert.Equal(t, 1, empty)
}

func TestTestRepository_DeleteAndHasResults(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	repo := NewTestRepository(db)
	test := seedTest(t, db, "T", "math", "ru")

	has, err := repo.HasResults(ctx, test.ID)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, NewResultRepository(db).Create(ctx, &model.TestResult{UserID: 1, TestID: &test.ID, Score: 1, Total: 2, Percentage: 50}))
	has, err = repo.HasResults(ctx, test.ID)
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, repo.Delete(ctx, test.ID))
	_, err = repo.FindByID(ctx, test.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, test.ID), gorm.ErrRecordNotFound)
}

func TestResultRepository_NewestFirstWithAnswers(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	repo := NewResultRepository(db)

	first := &model.TestResult{UserID: 7, Score: 1, Total: 1, Percentage: 100, Answers: []model.ResultAnswer{
		{QuestionID: "1", SelectedOptionIndex: 0, Correct: true},
	}}
	second := &model.TestResult{UserID: 7, Score: 0, Total: 1, Percentage: 0}
	other := &model.TestResult{UserID: 8, Score: 0, Total: 1, Percentage: 0}
	for _, r := range []*model.TestResult{first, second, other} {
		require.NoError(t, repo.Create(ctx, r))
	}

	results, err := repo.FindAllByUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, second.ID, results[0].ID)

	loaded, err := repo.FindByIDWithAnswers(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Answers, 1)
	assert.True(t, loaded.Answers[0].Correct)
}

func TestUserStatsRepository_ApplyResult(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	repo := NewUserStatsRepository(db)

	empty, err := repo.FindByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, empty.TestsCompleted)

	_, err = repo.ApplyResult(ctx, 1, 80, 120)
	require.NoError(t, err)
	stats, err := repo.ApplyResult(ctx, 1, 50, 60)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TestsCompleted)
	assert.Equal(t, 65, stats.AverageScore)
	assert.Equal(t, 0, stats.StudyStreak)
	assert.Equal(t, 3, stats.TotalStudyTimeMinutes)
	assert.Equal(t, 2, stats.Version)

	stored, err := repo.FindByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, stats.TestsCompleted, stored.TestsCompleted)
	assert.Equal(t, stats.Version, stored.Version)
}

func TestUserStatsRepository_RunningAverage(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	repo := NewUserStatsRepository(db)

	for _, pct := range []int{50, 51, 50} {
		_, err := repo.ApplyResult(ctx, 5, pct, 0)
		require.NoError(t, err)
	}

	stored, err := repo.FindByUserID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.TestsCompleted)
	assert.Equal(t, 51, stored.AverageScore)

	others, err := repo.OtherAverages(ctx, 6)
	require.NoError(t, err)
	assert.Equal(t, []int{51}, others)
}

func TestUserStatsRepository_ConcurrentApplyLosesNothing(t *testing.T) {
	db := newDB(t)
	repo := NewUserStatsRepository(db)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- db.Transaction(func(tx *gorm.DB) error {
				_, err := repo.WithTx(tx).ApplyResult(context.Background(), 3, 100, 60)
				return err
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	stats, err := repo.FindByUserID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, n, stats.TestsCompleted)
	assert.Equal(t, n, stats.StudyStreak)
	assert.Equal(t, n, stats.TotalStudyTimeMinutes)
}

func TestUserStatsRepository_OtherAverages(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	repo := NewUserStatsRepository(db)

	for user, pct := range map[uint]int{1: 90, 2: 40, 3: 70} {
		_, err := repo.ApplyResult(ctx, user, pct, 0)
		require.NoError(t, err)
	}
	require.NoError(t, db.Create(&model.UserStats{UserID: 4}).Error)

	others, err := repo.OtherAverages(ctx, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{40, 70}, others)
}

func TestExperimentRepository(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	repo := NewExperimentRepository(db)

	_, ok, err := repo.GetAssignment(ctx, "landing", "v1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.SaveAssignment(ctx, "landing", "v1", "B"))
	require.NoError(t, repo.SaveAssignment(ctx, "landing", "v1", "C"))
	variant, ok, err := repo.GetAssignment(ctx, "landing", "v1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "B", variant)

	events := []model.ExperimentEvent{
		{Experiment: "landing", VisitorID: "v1", Variant: "B", EventType: model.EventView},
		{Experiment: "landing", VisitorID: "v1", Variant: "B", EventType: model.EventConvert, Properties: datatypes.JSONMap{"cta": "signup"}},
		{Experiment: "landing", VisitorID: "v2", Variant: "control", EventType: model.EventView},
		{Experiment: "other", VisitorID: "v2", Variant: "x", EventType: model.EventView},
	}
	for i := range events {
		require.NoError(t, repo.CreateEvent(ctx, &events[i]))
	}

	stats, err := repo.VariantStats(ctx, "landing")
	require.NoError(t, err)
	assert.Equal(t, []model.VariantStats{
		{Variant: "B", Views: 1, Conversions: 1},
		{Variant: "control", Views: 1, Conversions: 0},
	}, stats)
}

func TestChatRepository_RecentOldestFirst(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	repo := NewChatRepository(db)

	for _, m := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Create(ctx, &model.ChatMessage{UserID: 1, Language: "ru", Message: m, Reply: "r"}))
	}
	msgs, err := repo.FindRecentByUser(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "b", msgs[0].Message)
	assert.Equal(t, "c", msgs[1].Message)
}

func TestUserRepository_EmailNormalised(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	u := &model.User{Email: " Aigerim@Example.kz ", PasswordHash: "x", Role: model.RoleStudent}
	require.NoError(t, repo.Create(ctx, u))
	found, err := repo.FindByEmail(ctx, "aigerim@example.KZ")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	assert.Error(t, repo.Create(ctx, &model.User{Email: "aigerim@example.kz", PasswordHash: "y"}))
}
