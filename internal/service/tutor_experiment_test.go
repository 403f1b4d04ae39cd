package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lshigami/Bilim/internal/apperror"
	"github.com/lshigami/Bilim/internal/dto"
	"github.com/lshigami/Bilim/internal/experiment"
	"github.com/lshigami/Bilim/internal/llm"
	"github.com/lshigami/Bilim/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTutorService_Chat(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	primary := llm.NewMockProvider("gemini", llm.MockResponse{Err: &llm.ErrRateLimit{RetryAfter: time.Second}})
	secondary := llm.NewMockProvider("deepseek", llm.MockResponse{Text: "Квадрат гипотенузы равен сумме квадратов катетов."})
	svc := NewTutorService(llm.NewChain(time.Second, primary, secondary), repository.NewChatRepository(db))

	resp, err := svc.Chat(ctx, 1, dto.ChatRequest{
		Message:  "Что такое теорема Пифагора?",
		Language: "ru",
		History:  []dto.ChatHistoryDTO{{Role: "user", Content: "Привет"}, {Role: "assistant", Content: "Здравствуйте!"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "deepseek", resp.Provider)
	assert.False(t, resp.Fallback)

	require.Len(t, secondary.Calls, 1)
	call := secondary.Calls[0]
	assert.Contains(t, call.System, "русском")
	require.Len(t, call.Messages, 3)
	assert.Equal(t, llm.RoleAssistant, call.Messages[1].Role)
	assert.Equal(t, "Что такое теорема Пифагора?", call.Messages[2].Content)

	history, err := svc.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "deepseek", history[0].Provider)
}

func TestTutorService_FallbackInRequestedLanguage(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	down := llm.NewMockProvider("gemini", llm.MockResponse{Err: errors.New("boom")})
	svc := NewTutorService(llm.NewChain(time.Second, down), repository.NewChatRepository(db))

	msg := "Абай туралы айтып бер"
	resp, err := svc.Chat(ctx, 2, dto.ChatRequest{Message: msg, Language: "kk"})
	require.NoError(t, err)
	assert.True(t, resp.Fallback)
	assert.Equal(t, "fallback", resp.Provider)
	assert.Equal(t, llm.FallbackReply(llm.Kazakh, msg), resp.Reply)

	history, err := svc.History(ctx, 2)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Fallback)
}

func TestTutorService_Validation(t *testing.T) {
	svc := NewTutorService(llm.NewChain(time.Second), repository.NewChatRepository(newDB(t)))

	_, err := svc.Chat(context.Background(), 1, dto.ChatRequest{Message: "hi", Language: "en"})
	assert.True(t, apperror.IsValidation(err))
	_, err = svc.Chat(context.Background(), 1, dto.ChatRequest{Message: "   ", Language: "ru"})
	assert.True(t, apperror.IsValidation(err))
}

func TestExperimentService(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	repo := repository.NewExperimentRepository(db)
	exps, err := experiment.ParseTable(experiment.DefaultTable)
	require.NoError(t, err)
	assigner, err := experiment.NewAssigner(repo, exps)
	require.NoError(t, err)
	svc := NewExperimentService(assigner, repo)

	first, err := svc.Assign(ctx, "landing", "visitor-1")
	require.NoError(t, err)
	again, err := svc.Assign(ctx, "landing", "visitor-1")
	require.NoError(t, err)
	assert.Equal(t, first.Variant, again.Variant)

	_, err = svc.Assign(ctx, "unknown", "visitor-1")
	assert.True(t, apperror.IsNotFound(err))

	require.NoError(t, svc.RecordEvent(ctx, "landing", dto.ExperimentEventRequest{VisitorID: "visitor-1", Event: "view"}))
	require.NoError(t, svc.RecordEvent(ctx, "landing", dto.ExperimentEventRequest{VisitorID: "visitor-1", Event: "view"}))
	require.NoError(t, svc.RecordEvent(ctx, "landing", dto.ExperimentEventRequest{
		VisitorID: "visitor-1", Event: "convert", Properties: map[string]any{"cta": "register"},
	}))
	assert.True(t, apperror.IsValidation(svc.RecordEvent(ctx, "landing", dto.ExperimentEventRequest{VisitorID: "visitor-1", Event: "click"})))

	stats, err := svc.Stats(ctx, "landing")
	require.NoError(t, err)
	require.Len(t, stats.Variants, 3)
	for _, v := range stats.Variants {
		if v.Variant == first.Variant {
			assert.Equal(t, 2, v.Views)
			assert.Equal(t, 1, v.Conversions)
			assert.Equal(t, 50.0, v.ConversionRate)
			continue
		}
		assert.Zero(t, v.Views)
		assert.Zero(t, v.ConversionRate)
	}

	_, err = svc.Stats(ctx, "unknown")
	assert.True(t, apperror.IsNotFound(err))
}

func TestConversionRate(t *testing.T) {
	assert.Equal(t, 0.0, conversionRate(3, 0))
	assert.Equal(t, 33.33, conversionRate(1, 3))
	assert.Equal(t, 100.0, conversionRate(2, 2))
}
