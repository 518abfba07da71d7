package core

import (
	"errors"
	"fmt"
)

// ErrExecutorClosed is returned by Submit when the executor has been
// stopped or was never started.
var ErrExecutorClosed = errors.New("executor is closed")

// =============================================================================
// PanicError: captured panic payload from a capture boundary
// =============================================================================

// PanicError carries the payload recovered at a capture boundary together
// with the stack trace taken at recovery time. It is created once per
// failed execution and never mutated afterwards.
type PanicError struct {
	// Value is the raw value the unit panicked with.
	Value any

	// Stack is the stack trace captured at the recover site.
	Stack []byte
}

// Error returns the "panic: <message>" form of the failure.
func (e *PanicError) Error() string {
	return "panic: " + e.Message()
}

// Message converts the captured payload to text.
//
// The conversion is a closed fallback chain over the payload shapes a Go
// panic actually produces: a string payload is used verbatim, an error
// payload contributes its Error() text, anything else is formatted with %v.
func (e *PanicError) Message() string {
	switch v := e.Value.(type) {
	case string:
		return v
	case error:
		return v.Error()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// =============================================================================
// JoinError: failure reported by an executor task boundary
// =============================================================================

// JoinKind classifies how an executor task boundary failed.
type JoinKind int

const (
	// JoinPanicked means the unit itself terminated abnormally.
	JoinPanicked JoinKind = iota

	// JoinCancelled means the executor was torn down before the task ran
	// to completion. The unit may never have started.
	JoinCancelled
)

// JoinError is the failure surfaced on a Handle when a task submitted to
// an executor does not complete normally. It distinguishes a panicking
// unit from a cancelled task; both collapse to a single string through
// Error for the stringification path.
type JoinError struct {
	Kind JoinKind

	// Cause is the captured panic. Non-nil iff Kind == JoinPanicked.
	Cause *PanicError
}

// Error returns the textual form of the join failure.
func (e *JoinError) Error() string {
	if e.Kind == JoinCancelled {
		return "task was cancelled"
	}
	return "task " + e.Cause.Error()
}

// Unwrap exposes the underlying PanicError, if any.
func (e *JoinError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return nil
}

// Message returns the text handed to error handlers: the panic payload
// text for a panicked task, the cancellation text otherwise.
func (e *JoinError) Message() string {
	if e.Kind == JoinCancelled {
		return "task was cancelled"
	}
	return e.Cause.Message()
}

// =============================================================================
// Failure stringification
// =============================================================================

// FailureMessage stringifies a failure produced by a capture boundary for
// delivery to a Handler. PanicError and JoinError contribute their panic
// payload text; any other error contributes its Error() text.
func FailureMessage(err error) string {
	var je *JoinError
	if errors.As(err, &je) {
		return je.Message()
	}
	var pe *PanicError
	if errors.As(err, &pe) {
		return pe.Message()
	}
	return err.Error()
}

// IsPanic reports whether err carries a captured panic.
func IsPanic(err error) bool {
	var pe *PanicError
	return errors.As(err, &pe)
}

// IsCancelled reports whether err is a join failure caused by executor
// teardown rather than by the unit itself.
func IsCancelled(err error) bool {
	var je *JoinError
	return errors.As(err, &je) && je.Kind == JoinCancelled
}
