package action

import (
	"errors"
	"fmt"
)

// Sentinel errors for action invocation.
var (
	// ErrNotInitialized indicates an action was invoked without being
	// constructed through New or a variant constructor.
	ErrNotInitialized = errors.New("action not initialized")

	// ErrNotSequence indicates a Split action produced a value that is
	// not a sequence.
	ErrNotSequence = errors.New("split result is not a sequence")
)

// Error wraps a core logic or parse failure with the action's name.
type Error struct {
	// Name is the action that failed.
	Name string
	// Op is the phase that failed ("invoke" or "parse").
	Op string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("action %s: %s: %v", e.Name, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// NotInitializedError reports an invocation of an improperly constructed
// action.
type NotInitializedError struct {
	// Name is the action's name, if it carries one.
	Name string
}

// Error implements the error interface.
func (e *NotInitializedError) Error() string {
	if e.Name == "" {
		return "action has not been initialized properly, construct it with New"
	}
	return fmt.Sprintf("action %s has not been initialized properly, construct it with New", e.Name)
}

// Unwrap returns ErrNotInitialized for errors.Is support.
func (e *NotInitializedError) Unwrap() error {
	return ErrNotInitialized
}

// TypeMismatchError reports a Split action whose output was not a
// sequence.
type TypeMismatchError struct {
	// Name is the Split action's name.
	Name string
	// Value is the offending result.
	Value any
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("split action %s expects sequence data, got %T", e.Name, e.Value)
}

// Unwrap returns ErrNotSequence for errors.Is support.
func (e *TypeMismatchError) Unwrap() error {
	return ErrNotSequence
}
