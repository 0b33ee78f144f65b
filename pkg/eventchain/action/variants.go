package action

import (
	"context"
	"reflect"
)

// Split is an action whose output fans out: the dispatcher republishes
// one event per element of the result instead of one event carrying the
// whole result. Its core logic passes input through, and its result must
// be a sequence (any Go slice or array).
//
// Split implements the Splitter capability the dispatcher checks for.
type Split struct {
	Base
}

// Compile-time capability check.
var _ Splitter = (*Split)(nil)

// NewSplit creates a fan-out action. The retry and parse options behave
// exactly as they do for New.
//
// Panics on empty or reserved names, like New.
func NewSplit(name string, opts ...Option) *Split {
	mustValidName(name)
	return &Split{Base: *newBase(name, nil, opts...)}
}

// Invoke runs the shared retry/parse contract, then validates that the
// final output is a sequence.
func (s *Split) Invoke(ctx context.Context, data any) (any, error) {
	result, err := s.Base.Invoke(ctx, data)
	if err != nil {
		return nil, err
	}
	if _, err := s.SplitResult(result); err != nil {
		return nil, err
	}
	return result, nil
}

// SplitResult expands a result into one payload per element.
// Returns a TypeMismatchError if the result is not a slice or array.
func (s *Split) SplitResult(result any) ([]any, error) {
	v := reflect.ValueOf(result)
	if result == nil || (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) {
		return nil, &TypeMismatchError{Name: s.Name(), Value: result}
	}
	elems := make([]any, v.Len())
	for i := range elems {
		elems[i] = v.Index(i).Interface()
	}
	return elems, nil
}

// NewCondition creates an action whose core logic runs only when cond
// accepts the input; otherwise the input passes through unchanged.
// The dispatcher gives it no special treatment.
//
// Panics if cond is nil, and on empty or reserved names, like New.
func NewCondition(name string, cond func(data any) bool, core Func, opts ...Option) *Base {
	if cond == nil {
		panic("eventchain: condition predicate cannot be nil")
	}
	gated := func(ctx context.Context, data any) (any, error) {
		if !cond(data) {
			return data, nil
		}
		if core == nil {
			return data, nil
		}
		return core(ctx, data)
	}
	return New(name, gated, opts...)
}

// NewTermination creates the conventional leaf action. Its name is the
// reserved "Termination" and its result is always nil, so recursion stops
// there as long as nothing subscribes to the "Termination" event.
func NewTermination() *Base {
	return newBase(TerminationName, func(context.Context, any) (any, error) {
		return nil, nil
	})
}
