// Package llm provides a language-model client and an adapter that
// mounts completions as chain actions.
//
// The engine treats concrete actions as opaque callables; this package
// is one such collaborator, kept separate from the dispatcher core.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Client is the completion interface chain actions consume.
type Client interface {
	// Complete performs one completion call.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// CompletionRequest configures an LLM completion call.
type CompletionRequest struct {
	SystemPrompt string    `json:"system_prompt,omitempty"`
	Messages     []Message `json:"messages"`

	Model       string  `json:"model,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// Message is a conversation turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Role identifies the message sender.
type Role string

// Standard message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// CompletionResponse is the output of a completion call.
type CompletionResponse struct {
	Content  string        `json:"content"`
	Usage    TokenUsage    `json:"usage"`
	Model    string        `json:"model"`
	Duration time.Duration `json:"duration"`
}

// TokenUsage tracks token consumption.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Add accumulates usage from another call.
func (u *TokenUsage) Add(other TokenUsage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.TotalTokens += other.TotalTokens
}

// Error wraps a client failure with retryability information.
type Error struct {
	// Op is the operation that failed ("complete").
	Op string
	// Err is the underlying error.
	Err error
	// Retryable reports whether retrying the call may help.
	Retryable bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("llm %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a client error.
func NewError(op string, err error, retryable bool) *Error {
	return &Error{Op: op, Err: err, Retryable: retryable}
}

// IsRetryable reports whether an error is worth retrying. Suitable as an
// action.WithRetryOn filter for LLM-backed actions.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}

// isRetryableMessage recognizes transient failure text from CLI stderr.
func isRetryableMessage(msg string) bool {
	msg = strings.ToLower(msg)
	for _, marker := range []string{
		"rate limit",
		"overloaded",
		"timeout",
		"timed out",
		"connection reset",
		"temporarily unavailable",
		"429",
		"503",
		"529",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
