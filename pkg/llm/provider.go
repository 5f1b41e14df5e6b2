package llm

import (
	"context"
	"errors"
)

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	// ErrNoAPIKey is returned when a provider is invoked without credentials.
	ErrNoAPIKey = errors.New("llm: api key not configured")
	// ErrQuotaExceeded is returned on rate-limit or quota upstream responses.
	ErrQuotaExceeded = errors.New("llm: quota or rate limit exceeded")
	// ErrEmptyCompletion is returned when the model produced no text.
	ErrEmptyCompletion = errors.New("llm: empty completion")
)

// Provider is the completion backend capability. Implementations make
// exactly one attempt per call; callers own fallback policy.
type Provider interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request describes one completion call.
type Request struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// Response is a completed model reply with token accounting.
type Response struct {
	Content      string
	Model        string
	InputTokens  int
	OutputTokens int
}
