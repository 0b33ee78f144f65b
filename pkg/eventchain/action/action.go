// Package action defines the unit of work the dispatcher chains together.
//
// An action couples a name, a piece of core logic, a result parser, and a
// retry policy. The name doubles as the action's outgoing event address:
// when a dispatcher runs an action, the action's output is republished
// under an event carrying the action's own name.
//
// Actions know nothing about the dispatcher. The contract they expose is
// the Action interface; Base is the standard implementation returned by
// New and the variant constructors.
package action

import (
	"context"
	"time"
)

// Reserved action names. They mark conventional leaf blocks and cannot be
// taken by user-defined actions.
const (
	// TerminationName is the fixed name of the Termination variant.
	TerminationName = "Termination"

	// SaveName is reserved for persistence blocks.
	SaveName = "Save"
)

// Action is the invocation contract the dispatcher depends on.
//
// Name identifies the action within one dispatcher instance and is also
// the event name its output republishes under. Invoke runs the action's
// core logic plus result parsing under the action's retry policy.
type Action interface {
	Name() string
	Invoke(ctx context.Context, data any) (any, error)
}

// Splitter is the fan-out capability. An action implementing Splitter
// tells the dispatcher to republish one event per element of its output
// instead of one event carrying the whole output.
type Splitter interface {
	Action

	// SplitResult expands an invocation result into independent per-event
	// payloads. It fails if the result is not a sequence.
	SplitResult(result any) ([]any, error)
}

// Func is the core logic of an action. A nil Func passes data through
// unchanged.
type Func func(ctx context.Context, data any) (any, error)

// Parser post-processes an invocation result before it is returned.
// Parser errors count as invocation failures and are retried like core
// logic errors.
type Parser func(result any) (any, error)

// Base is the standard Action implementation. Construct it with New or
// one of the variant constructors; a zero-value Base fails every Invoke
// with ErrNotInitialized.
//
// Base is immutable after construction and safe for concurrent Invoke.
type Base struct {
	name        string
	core        Func
	parser      Parser
	retryCount  int
	retryDelay  time.Duration
	retryOn     func(error) bool
	initialized bool
}

// Option configures an action at construction time.
type Option func(*Base)

// WithParser sets the result parser. Default: identity.
func WithParser(p Parser) Option {
	return func(b *Base) { b.parser = p }
}

// WithRetryCount sets the number of protected attempts before the final
// unguarded one. Default: 0.
//
// Panics if n is negative.
func WithRetryCount(n int) Option {
	if n < 0 {
		panic("eventchain: retry count cannot be negative")
	}
	return func(b *Base) { b.retryCount = n }
}

// WithRetryDelay sets the pause between protected attempts. The delay
// suspends only the retrying invocation, not other in-flight work.
// Default: 0.
//
// Panics if d is negative.
func WithRetryDelay(d time.Duration) Option {
	if d < 0 {
		panic("eventchain: retry delay cannot be negative")
	}
	return func(b *Base) { b.retryDelay = d }
}

// WithRetryOn sets the retryable-error filter. An error rejected by the
// filter propagates immediately, aborting all remaining attempts.
// Default: all errors are retryable.
func WithRetryOn(fn func(error) bool) Option {
	return func(b *Base) { b.retryOn = fn }
}

// New creates an action with the given name and core logic.
// A nil core passes input through unchanged.
//
// Panics if:
//   - name is empty
//   - name is one of the reserved names ("Termination", "Save")
func New(name string, core Func, opts ...Option) *Base {
	mustValidName(name)
	return newBase(name, core, opts...)
}

// newBase skips name validation so variant constructors can claim
// reserved names.
func newBase(name string, core Func, opts ...Option) *Base {
	b := &Base{
		name:   name,
		core:   core,
		parser: identity,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.initialized = true
	return b
}

func mustValidName(name string) {
	if name == "" {
		panic("eventchain: action name cannot be empty")
	}
	if name == TerminationName || name == SaveName {
		panic("eventchain: action name '" + name + "' is reserved")
	}
}

func identity(result any) (any, error) { return result, nil }

// Name returns the action's identity, which is also its outgoing event
// name.
func (b *Base) Name() string {
	return b.name
}

// Invoke runs the core logic and parser under the retry policy.
//
// The first retryCount attempts are protected: a failure is retried after
// the retry delay unless the retryable-error filter rejects it, in which
// case the error propagates immediately. When every protected attempt has
// failed, one extra unguarded attempt runs and its error, if any,
// propagates. Net effect: at most retryCount+1 attempts.
//
// The delay between attempts respects ctx cancellation.
func (b *Base) Invoke(ctx context.Context, data any) (any, error) {
	if !b.initialized {
		return nil, &NotInitializedError{Name: b.name}
	}

	for i := 0; i < b.retryCount; i++ {
		result, op, err := b.attempt(ctx, data)
		if err == nil {
			return result, nil
		}
		if b.retryOn != nil && !b.retryOn(err) {
			return nil, &Error{Name: b.name, Op: op, Err: err}
		}
		if err := b.waitRetryDelay(ctx); err != nil {
			return nil, err
		}
	}

	// Final attempt, unprotected by the filter and delay.
	result, op, err := b.attempt(ctx, data)
	if err != nil {
		return nil, &Error{Name: b.name, Op: op, Err: err}
	}
	return result, nil
}

// attempt runs one core-plus-parse sequence. The returned op names the
// phase that failed.
func (b *Base) attempt(ctx context.Context, data any) (any, string, error) {
	result := data
	if b.core != nil {
		var err error
		result, err = b.core(ctx, data)
		if err != nil {
			return nil, "invoke", err
		}
	}

	parsed, err := b.parser(result)
	if err != nil {
		return nil, "parse", err
	}
	return parsed, "", nil
}

func (b *Base) waitRetryDelay(ctx context.Context) error {
	if b.retryDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(b.retryDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
