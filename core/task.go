package core

import (
	"context"
)

// Unit is the unit of work handed to a spawn operation (Closure).
// A Unit is invoked at most once per spawn and must not be re-entered
// after it completes or panics. Closures handed to a spawn must own
// everything they capture; they may run on a different goroutine than
// the caller.
//
// The context is the seam for future cancellation. Today it is cancelled
// only when the executor running the unit is force-stopped.
type Unit func(ctx context.Context)

// Handler receives the stringified failure of a unit that panicked.
// It is invoked at most once per failed execution, after the unit has
// fully unwound.
type Handler func(ctx context.Context, errMsg string)

// Finalizer runs unconditionally after the unit (and the handler, if it
// was invoked) in the catch-finally composition. Same shape as Unit.
type Finalizer = Unit

// =============================================================================
// Context Helper
// =============================================================================

type executorKeyType struct{}

var executorKey executorKeyType

// ExecutorFromContext returns the Executor a task is running on, or nil
// when the context does not originate from an executor task boundary.
func ExecutorFromContext(ctx context.Context) *Executor {
	if v := ctx.Value(executorKey); v != nil {
		return v.(*Executor)
	}
	return nil
}
