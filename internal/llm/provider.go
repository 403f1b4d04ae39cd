// Package llm is the tutor's gateway to chat-completion providers.
package llm

import "context"

// Provider is a single chat-completion backend.
type Provider interface {
	// Generate sends the conversation and returns the model's reply.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Name identifies the provider in logs and API responses.
	Name() string
}

// Request describes what to send to the model.
type Request struct {
	// System sets the tutor persona and the reply language.
	System string

	// Messages is the conversation, oldest first, ending with the user turn.
	Messages []Message

	MaxTokens   int
	Temperature float64
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Response holds the model output.
type Response struct {
	Text  string
	Model string
}
