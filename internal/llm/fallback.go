package llm

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

// Language is a tutor reply language.
type Language string

const (
	Russian Language = "ru"
	Kazakh  Language = "kk"
)

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	return l == Russian || l == Kazakh
}

var fallbackPhrases = map[Language][]string{
	Russian: {
		"Сейчас я не могу связаться с ИИ-наставником. Попробуйте задать вопрос чуть позже.",
		"Наставник временно недоступен. А пока повторите тему и решите ещё один тест.",
		"Не удалось получить ответ. Попробуйте переформулировать вопрос через минуту.",
	},
	Kazakh: {
		"Қазір ЖИ-тәлімгерге қосыла алмадым. Сұрағыңызды сәл кейінірек қойып көріңіз.",
		"Тәлімгер уақытша қолжетімсіз. Әзірге тақырыпты қайталап, тағы бір тест тапсырыңыз.",
		"Жауап алу мүмкін болмады. Бір минуттан соң сұрақты басқаша қойып көріңіз.",
	},
}

// FallbackReply returns a canned phrase in lang. The same prompt always maps
// to the same phrase. Unknown languages get Russian.
func FallbackReply(lang Language, prompt string) string {
	phrases, ok := fallbackPhrases[lang]
	if !ok {
		phrases = fallbackPhrases[Russian]
	}
	return phrases[len([]rune(prompt))%len(phrases)]
}

// Reply is the outcome of a Chain call.
type Reply struct {
	Text     string
	Provider string
	Fallback bool
}

// Chain tries providers in order, each under its own timeout, and falls back
// to a canned phrase when all of them fail.
type Chain struct {
	providers []Provider
	timeout   time.Duration
}

// NewChain builds a chain. A non-positive timeout uses DefaultTimeout.
func NewChain(timeout time.Duration, providers ...Provider) *Chain {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Chain{providers: providers, timeout: timeout}
}

// Providers returns the provider names in the order they are tried.
func (c *Chain) Providers() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return names
}

// Ask always returns a usable Reply. When every provider fails the Reply is
// a fallback phrase and the error joins the provider errors.
func (c *Chain) Ask(ctx context.Context, req Request, lang Language) (Reply, error) {
	var errs []error
	for _, p := range c.providers {
		resp, err := c.try(ctx, p, req)
		if err == nil {
			return Reply{Text: resp.Text, Provider: p.Name()}, nil
		}
		log.Warn().Err(err).Str("provider", p.Name()).Msg("LLM provider failed, trying next")
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}

	prompt := ""
	if n := len(req.Messages); n > 0 {
		prompt = req.Messages[n-1].Content
	}
	if len(errs) == 0 {
		errs = append(errs, &ErrProviderUnavailable{Provider: "none", Err: errors.New("no providers configured")})
	}
	return Reply{Text: FallbackReply(lang, prompt), Provider: "fallback", Fallback: true}, errors.Join(errs...)
}

func (c *Chain) try(ctx context.Context, p Provider, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return p.Generate(ctx, req)
}
