package llm

import (
	"context"
	"fmt"

	"github.com/randalmurphal/eventchain/pkg/eventchain/action"
)

// PromptFunc builds a completion request from the incoming event
// payload.
type PromptFunc func(data any) (CompletionRequest, error)

// TextPrompt builds a single-turn user prompt from the payload's string
// form, with an optional system prompt.
func TextPrompt(systemPrompt string) PromptFunc {
	return func(data any) (CompletionRequest, error) {
		return CompletionRequest{
			SystemPrompt: systemPrompt,
			Messages: []Message{
				{Role: RoleUser, Content: fmt.Sprint(data)},
			},
		}, nil
	}
}

// NewAction mounts an LLM completion as a chain action. The action's
// output is the completion text, so downstream subscribers on the
// action's name receive the model's reply as their payload.
//
// By default client failures are retried only when the client marks
// them retryable; override with action.WithRetryOn.
//
// Panics on empty or reserved names, like action.New.
func NewAction(name string, client Client, prompt PromptFunc, opts ...action.Option) *action.Base {
	if client == nil {
		panic("eventchain: llm client cannot be nil")
	}
	if prompt == nil {
		panic("eventchain: llm prompt func cannot be nil")
	}

	core := func(ctx context.Context, data any) (any, error) {
		req, err := prompt(data)
		if err != nil {
			return nil, err
		}
		resp, err := client.Complete(ctx, req)
		if err != nil {
			return nil, err
		}
		return resp.Content, nil
	}

	defaults := []action.Option{action.WithRetryOn(IsRetryable)}
	return action.New(name, core, append(defaults, opts...)...)
}
