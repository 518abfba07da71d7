// Package recoverspawn provides panic-safe spawn primitives for Go.
//
// A unit of work launched through this library runs on a fresh goroutine
// or on a shared executor, and a panic inside the unit is intercepted at
// a capture boundary, converted into a typed failure value, and never
// crashes the caller or the process.
//
// # Quick Start
//
//	handle := recoverspawn.SpawnCatch(
//		func(ctx context.Context) {
//			panic("boom")
//		},
//		func(ctx context.Context, errMsg string) {
//			log.Printf("captured: %s", errMsg)
//		},
//	)
//	_ = handle.Join() // Failure carrying the captured panic
//
// # Key Concepts
//
// Capture boundary: the guarded region every unit, handler, and finalizer
// runs through. A panic raised inside it becomes a *core.PanicError on the
// spawn's handle instead of propagating.
//
// Compositions: Spawn captures only; SpawnCatch additionally invokes an
// error handler with the stringified failure; SpawnCatchFinally adds a
// finalizer that runs exactly once after the unit and handler, regardless
// of either's outcome. A handler or finalizer that itself panics is
// captured and dropped; the handle always reports the unit's result.
//
// Families: the thread family (Spawn, SpawnCatch, SpawnCatchFinally) runs
// each spawn on its own goroutine. The task family (SpawnTask, ...) drives
// the unit through the shared executor's task boundary, which additionally
// distinguishes a panicking unit from a task cancelled by executor
// teardown. Call sites already running inside a task boundary use RunTask
// and friends to get the result directly.
//
// # Shared Executor
//
// The task family's executor is process-wide and constructed lazily on
// first use; it lives until ShutdownSharedExecutor or process exit.
// Construction is retried with bounded exponential backoff and the
// terminal error is surfaced to the caller:
//
//	recoverspawn.InitSharedExecutor(4) // optional explicit sizing
//	defer recoverspawn.ShutdownSharedExecutor()
//
// # Observability
//
// Panic reporting is silent unless a reporter is installed before first
// use (core.InstallReporter). Spawn metrics are pluggable via
// core.SetMetrics; the observability/prometheus subpackage exports them
// as Prometheus collectors.
package recoverspawn
