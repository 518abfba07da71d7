package recoverspawn

import (
	"context"

	"github.com/driftworks/go-recoverspawn/core"
)

// =============================================================================
// Thread family: one fresh goroutine per spawn
// =============================================================================

// Spawn runs the unit on a new goroutine in a recoverable manner. If the
// unit panics, the panic is captured and the goroutine terminates without
// crashing the program. The handle carries the unit's result.
func Spawn(unit Unit) *Handle {
	return core.SpawnThread(unit, nil, nil)
}

// SpawnCatch is Spawn plus an error handler: when the unit panics, the
// handler is invoked exactly once with the stringified panic payload,
// itself inside a capture boundary. A handler that panics is captured and
// dropped; the handle still reports the unit's failure.
func SpawnCatch(unit Unit, handler Handler) *Handle {
	return core.SpawnThread(unit, handler, nil)
}

// SpawnCatchFinally is SpawnCatch plus a finalizer that runs exactly once
// after the unit and (if invoked) the handler, whether either succeeded,
// failed, or panicked. The finalizer's own panic is captured and does not
// change the handle's result.
func SpawnCatchFinally(unit Unit, handler Handler, finalizer Finalizer) *Handle {
	return core.SpawnThread(unit, handler, finalizer)
}

// =============================================================================
// Task family: shared executor, bridged from synchronous call sites
// =============================================================================

// SpawnTask runs the unit through the shared executor's task boundary.
// The bridge goroutine, not the caller, blocks driving the task; the
// returned handle carries the join result, which distinguishes a
// panicking unit from a task cancelled by executor teardown.
//
// If the shared executor cannot be constructed, the handle completes
// immediately with the construction error.
func SpawnTask(unit Unit) *Handle {
	return spawnTask(unit, nil, nil)
}

// SpawnTaskCatch is SpawnTask with an error handler, run through the same
// task boundary as the unit.
func SpawnTaskCatch(unit Unit, handler Handler) *Handle {
	return spawnTask(unit, handler, nil)
}

// SpawnTaskCatchFinally is SpawnTaskCatch with a guaranteed finalizer.
func SpawnTaskCatchFinally(unit Unit, handler Handler, finalizer Finalizer) *Handle {
	return spawnTask(unit, handler, finalizer)
}

func spawnTask(unit Unit, handler Handler, finalizer Finalizer) *Handle {
	exec, err := SharedExecutor()
	if err != nil {
		return core.CompletedHandle(err)
	}
	return core.SpawnOn(exec, unit, handler, finalizer)
}

// =============================================================================
// Inline family: call sites already inside a task boundary
// =============================================================================

// RunTask runs the unit at the call site inside a capture boundary and
// returns its result directly. Use this from code that already runs on an
// executor worker or on a goroutine of its own; it does not bridge
// through the shared executor.
func RunTask(ctx context.Context, unit Unit) error {
	return core.RunInline(ctx, unit, nil, nil)
}

// RunTaskCatch is RunTask plus an error handler.
func RunTaskCatch(ctx context.Context, unit Unit, handler Handler) error {
	return core.RunInline(ctx, unit, handler, nil)
}

// RunTaskCatchFinally is RunTaskCatch plus a guaranteed finalizer.
func RunTaskCatchFinally(ctx context.Context, unit Unit, handler Handler, finalizer Finalizer) error {
	return core.RunInline(ctx, unit, handler, finalizer)
}
