package ai

import (
	"context"
	"errors"
)

// Model is the chat-completion provider: ordered messages in, one text out.
// Implementations are built once at startup and are safe for concurrent use.
type Model interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Message is the provider-neutral dialogue unit.
type Message struct {
	Role string // "system" | "user" | "assistant"
	Text string
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrEmptyCompletion means the provider answered without any choice or
// candidate. An empty text in a returned choice is a valid completion.
var ErrEmptyCompletion = errors.New("model returned an empty completion")
