package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// NewProvider creates a single named provider from configuration.
func NewProvider(ctx context.Context, name string, cfg Config) (Provider, error) {
	switch name {
	case "gemini":
		return NewGeminiProvider(ctx, cfg.Gemini)
	case "deepseek":
		return NewDeepSeekProvider(cfg.DeepSeek)
	case "openrouter":
		return NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider("mock"), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", name)
	}
}

// NewChainFromConfig builds the provider chain in configured order. Providers
// that cannot be initialised, usually for a missing API key, are skipped so
// the tutor degrades to the fallback phrases instead of refusing to start.
func NewChainFromConfig(ctx context.Context, cfg Config) (*Chain, error) {
	var providers []Provider
	for _, name := range cfg.Providers {
		p, err := NewProvider(ctx, name, cfg)
		if err != nil {
			if _, known := knownProviders[name]; !known {
				return nil, err
			}
			log.Warn().Err(err).Str("provider", name).Msg("LLM provider disabled")
			continue
		}
		providers = append(providers, p)
	}
	if len(providers) == 0 {
		log.Warn().Msg("No LLM provider configured. The tutor will answer with fallback phrases only.")
	}
	return NewChain(cfg.Timeout, providers...), nil
}

var knownProviders = map[string]struct{}{
	"gemini":     {},
	"deepseek":   {},
	"openrouter": {},
	"mock":       {},
}
