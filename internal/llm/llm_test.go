package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ask(text string) Request {
	return Request{Messages: []Message{{Role: RoleUser, Content: text}}}
}

func TestMockProvider_FIFO(t *testing.T) {
	mock := NewMockProvider("", MockResponse{Text: "first"}, MockResponse{Text: "second"})

	r1, err := mock.Generate(context.Background(), ask("a"))
	require.NoError(t, err)
	r2, err := mock.Generate(context.Background(), ask("b"))
	require.NoError(t, err)
	assert.Equal(t, "first", r1.Text)
	assert.Equal(t, "second", r2.Text)

	_, err = mock.Generate(context.Background(), ask("c"))
	var unavailable *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavailable)
	assert.Equal(t, 3, mock.CallCount())
	assert.Equal(t, "mock", mock.Name())
}

func TestChain_FirstProviderAnswers(t *testing.T) {
	gemini := NewMockProvider("gemini", MockResponse{Text: "Ответ"})
	deepseek := NewMockProvider("deepseek", MockResponse{Text: "unused"})

	reply, err := NewChain(time.Second, gemini, deepseek).Ask(context.Background(), ask("вопрос"), Russian)

	require.NoError(t, err)
	assert.Equal(t, Reply{Text: "Ответ", Provider: "gemini"}, reply)
	assert.Zero(t, deepseek.CallCount())
}

func TestChain_FallsThroughInOrder(t *testing.T) {
	gemini := NewMockProvider("gemini", MockResponse{Err: &ErrRateLimit{Err: errors.New("429")}})
	deepseek := NewMockProvider("deepseek", MockResponse{Err: errors.New("boom")})
	openrouter := NewMockProvider("openrouter", MockResponse{Text: "ok"})

	chain := NewChain(time.Second, gemini, deepseek, openrouter)
	assert.Equal(t, []string{"gemini", "deepseek", "openrouter"}, chain.Providers())

	reply, err := chain.Ask(context.Background(), ask("q"), Kazakh)
	require.NoError(t, err)
	assert.Equal(t, "openrouter", reply.Provider)
	assert.False(t, reply.Fallback)
	assert.Equal(t, 1, gemini.CallCount())
	assert.Equal(t, 1, deepseek.CallCount())
}

func TestChain_TimeoutMovesToNextProvider(t *testing.T) {
	slow := NewMockProvider("gemini", MockResponse{Text: "late", Delay: time.Second})
	fast := NewMockProvider("deepseek", MockResponse{Text: "fast"})

	reply, err := NewChain(10*time.Millisecond, slow, fast).Ask(context.Background(), ask("q"), Russian)

	require.NoError(t, err)
	assert.Equal(t, "deepseek", reply.Provider)
}

func TestChain_AllFailReturnsFallback(t *testing.T) {
	boom := errors.New("boom")
	p := NewMockProvider("gemini", MockResponse{Err: boom})

	reply, err := NewChain(time.Second, p).Ask(context.Background(), ask("сәлем"), Kazakh)

	assert.ErrorIs(t, err, boom)
	assert.True(t, reply.Fallback)
	assert.Equal(t, "fallback", reply.Provider)
	assert.Contains(t, fallbackPhrases[Kazakh], reply.Text)
}

func TestChain_NoProviders(t *testing.T) {
	reply, err := NewChain(0).Ask(context.Background(), ask("hi"), Russian)
	assert.Error(t, err)
	assert.True(t, reply.Fallback)
	assert.Contains(t, fallbackPhrases[Russian], reply.Text)
}

func TestFallbackReply(t *testing.T) {
	assert.Equal(t, FallbackReply(Russian, "abc"), FallbackReply(Russian, "abc"))
	assert.Contains(t, fallbackPhrases[Russian], FallbackReply("en", "abc"))
	assert.NotEqual(t, FallbackReply(Russian, "a"), FallbackReply(Kazakh, "a"))
}

func TestLanguageValid(t *testing.T) {
	assert.True(t, Russian.Valid())
	assert.True(t, Kazakh.Valid())
	assert.False(t, Language("en").Valid())
}

func TestParseProviderList(t *testing.T) {
	assert.Equal(t, []string{"gemini", "deepseek"}, ParseProviderList(" Gemini, ,deepseek"))
	assert.Nil(t, ParseProviderList(""))
}

func TestNewChainFromConfig_SkipsUnconfigured(t *testing.T) {
	chain, err := NewChainFromConfig(context.Background(), Config{
		Providers: []string{"deepseek", "openrouter", "mock"},
		Timeout:   time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"mock"}, chain.Providers())

	_, err = NewChainFromConfig(context.Background(), Config{Providers: []string{"claude"}})
	assert.Error(t, err)
}

func TestOpenAIProviders_RequireKey(t *testing.T) {
	_, err := NewDeepSeekProvider(OpenAIConfig{})
	assert.Error(t, err)

	p, err := NewOpenRouterProvider(OpenAIConfig{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "openrouter", p.Name())
	assert.Equal(t, defaultOpenRouterModel, p.model)
}

func TestBuildOpenAIMessages(t *testing.T) {
	msgs := buildOpenAIMessages(Request{
		System: "sys",
		Messages: []Message{
			{Role: RoleUser, Content: "u"},
			{Role: RoleAssistant, Content: "a"},
		},
	})
	require.Len(t, msgs, 3)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, "user", msgs[1].Role)
	assert.Equal(t, "assistant", msgs[2].Role)
}

func TestBuildGeminiHistory(t *testing.T) {
	h := buildGeminiHistory([]Message{{Role: RoleUser, Content: "u"}, {Role: RoleAssistant, Content: "a"}})
	require.Len(t, h, 2)
	assert.Equal(t, "user", h[0].Role)
	assert.Equal(t, "model", h[1].Role)
}
