package eventchain

import (
	"errors"
	"fmt"
)

// Sentinel errors for subscription management.
var (
	// ErrDuplicateName indicates a different action already owns the name.
	ErrDuplicateName = errors.New("action name already registered")

	// ErrAlreadySubscribed indicates the exact action is already
	// subscribed to the exact event.
	ErrAlreadySubscribed = errors.New("action already subscribed to event")

	// ErrUnknownAction indicates the name was never registered.
	ErrUnknownAction = errors.New("action not registered")
)

// Sentinel errors for dispatch.
var (
	// ErrNilContext indicates Dispatch was called with a nil context.
	ErrNilContext = errors.New("context cannot be nil")
)

// DuplicateNameError reports a Subscribe call where a different action
// instance already owns the name.
type DuplicateNameError struct {
	// Name is the contested action name.
	Name string
}

// Error implements the error interface.
func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("action %q already exists: rename the action, use AddSubscription for the existing one, or remove and subscribe it again", e.Name)
}

// Unwrap returns ErrDuplicateName for errors.Is support.
func (e *DuplicateNameError) Unwrap() error {
	return ErrDuplicateName
}

// AlreadySubscribedError reports a Subscribe call for an action instance
// that is already wired to the event.
type AlreadySubscribedError struct {
	// Event is the event name.
	Event string
	// Name is the action name.
	Name string
}

// Error implements the error interface.
func (e *AlreadySubscribedError) Error() string {
	return fmt.Sprintf("action %q already exists and is subscribed to %q", e.Name, e.Event)
}

// Unwrap returns ErrAlreadySubscribed for errors.Is support.
func (e *AlreadySubscribedError) Unwrap() error {
	return ErrAlreadySubscribed
}

// UnknownActionError reports an operation on an action name that was
// never registered.
type UnknownActionError struct {
	// Name is the unregistered action name.
	Name string
}

// Error implements the error interface.
func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("action %q does not exist, subscribe it first", e.Name)
}

// Unwrap returns ErrUnknownAction for errors.Is support.
func (e *UnknownActionError) Unwrap() error {
	return ErrUnknownAction
}
