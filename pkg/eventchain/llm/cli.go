package llm

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// CLI implements Client using a local LLM command-line binary that
// prints the completion to stdout (e.g., the Claude CLI).
type CLI struct {
	path    string
	model   string
	workdir string
	timeout time.Duration
}

// CLIOption configures a CLI client.
type CLIOption func(*CLI)

// NewCLI creates a CLI-backed client.
// Assumes "claude" is available in PATH unless overridden with WithPath.
func NewCLI(opts ...CLIOption) *CLI {
	c := &CLI{
		path:    "claude",
		timeout: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithPath sets the path to the LLM binary.
func WithPath(path string) CLIOption {
	return func(c *CLI) { c.path = path }
}

// WithModel sets the default model.
func WithModel(model string) CLIOption {
	return func(c *CLI) { c.model = model }
}

// WithWorkdir sets the working directory for commands.
func WithWorkdir(dir string) CLIOption {
	return func(c *CLI) { c.workdir = dir }
}

// WithTimeout sets the default timeout for commands.
func WithTimeout(d time.Duration) CLIOption {
	return func(c *CLI) { c.timeout = d }
}

// Complete implements Client.
func (c *CLI) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	start := time.Now()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.path, c.buildArgs(req)...)
	if c.workdir != "" {
		cmd.Dir = c.workdir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// Check for context cancellation first
		if ctx.Err() != nil {
			return nil, NewError("complete", ctx.Err(), false)
		}

		errMsg := stderr.String()
		return nil, NewError("complete", fmt.Errorf("%w: %s", err, errMsg), isRetryableMessage(errMsg))
	}

	return &CompletionResponse{
		Content:  strings.TrimSpace(stdout.String()),
		Model:    c.model,
		Duration: time.Since(start),
	}, nil
}

// buildArgs constructs CLI arguments from a request.
func (c *CLI) buildArgs(req CompletionRequest) []string {
	args := []string{"--print"}

	if req.SystemPrompt != "" {
		args = append(args, "--system-prompt", req.SystemPrompt)
	}

	// Model priority: request > client default
	model := c.model
	if req.Model != "" {
		model = req.Model
	}
	if model != "" {
		args = append(args, "--model", model)
	}

	if req.MaxTokens > 0 {
		args = append(args, "--max-tokens", fmt.Sprintf("%d", req.MaxTokens))
	}

	// The CLI expects a single prompt; concatenate the conversation.
	var prompt strings.Builder
	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleUser:
			prompt.WriteString(msg.Content)
			prompt.WriteString("\n")
		case RoleAssistant:
			if prompt.Len() > 0 {
				prompt.WriteString("\nAssistant: ")
				prompt.WriteString(msg.Content)
				prompt.WriteString("\n\nUser: ")
			}
		}
	}

	if p := strings.TrimSpace(prompt.String()); p != "" {
		args = append(args, "-p", p)
	}

	return args
}
