package llm

import (
	"strings"
	"time"
)

// DefaultTimeout bounds a single provider call.
const DefaultTimeout = 20 * time.Second

// Config holds the tutor provider chain configuration.
type Config struct {
	// Providers lists provider names in the order they are tried.
	// Values: "gemini", "deepseek", "openrouter", "mock".
	Providers []string

	// Timeout is the deadline given to each provider in turn.
	Timeout time.Duration

	Gemini     GeminiConfig
	DeepSeek   OpenAIConfig
	OpenRouter OpenAIConfig
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-1.5-flash"
}

// OpenAIConfig configures an OpenAI-compatible endpoint.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // Optional, each provider has its own default.
}

// ParseProviderList splits a comma separated provider list, dropping blanks
// and normalising case.
func ParseProviderList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
