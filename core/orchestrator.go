package core

import (
	"context"
	"time"
)

// strategy is the execution boundary a spawn's callables run through.
// Implementing the compositions once against this interface keeps the
// thread and task families from drifting apart.
type strategy interface {
	// run drives one callable through the boundary and reports its
	// capture result. It must not let a panic propagate.
	run(ctx context.Context, stage Stage, fn Unit) error
}

// threadStrategy runs the callable directly on the calling goroutine,
// which is the capture boundary itself.
type threadStrategy struct{}

func (threadStrategy) run(ctx context.Context, stage Stage, fn Unit) error {
	return capture(ctx, stage, fn)
}

// executorStrategy hands each callable to an executor task boundary and
// awaits its join result.
type executorStrategy struct {
	exec *Executor
}

func (s executorStrategy) run(ctx context.Context, stage Stage, fn Unit) error {
	h, err := s.exec.submit(fn, stage)
	if err != nil {
		return err
	}
	return h.Join()
}

// orchestrate sequences one spawn: unit, then handler iff the unit
// failed, then finalizer. Each callable runs through the strategy's
// capture boundary to its own completion before the next starts.
//
// The returned result is always the unit's. A panicking handler or
// finalizer is captured and dropped; it cannot alter the verdict or
// prevent the finalizer from running.
func orchestrate(ctx context.Context, strat strategy, kind string, unit Unit, handler Handler, finalizer Finalizer) error {
	m := currentMetrics()
	m.RecordSpawn(kind)

	start := time.Now()
	err := strat.run(ctx, StageUnit, unit)
	m.RecordSpawnDuration(kind, time.Since(start))

	if err != nil && handler != nil {
		errMsg := FailureMessage(err)
		_ = strat.run(ctx, StageHandler, func(hctx context.Context) {
			handler(hctx, errMsg)
		})
	}

	if finalizer != nil {
		_ = strat.run(ctx, StageFinalizer, finalizer)
	}

	return err
}

// SpawnThread launches the composition on a fresh goroutine. The unit
// runs under a direct capture boundary, so the spawned goroutine never
// crashes the process; the handle carries the unit's result.
//
// handler and finalizer may be nil. With both nil the composition
// degrades to a plain recoverable run.
func SpawnThread(unit Unit, handler Handler, finalizer Finalizer) *Handle {
	h := newHandle()
	go func() {
		h.complete(orchestrate(context.Background(), threadStrategy{}, SpawnKindThread, unit, handler, finalizer))
	}()
	return h
}

// SpawnOn launches the composition against an executor from a
// synchronous call site: a fresh goroutine blocks driving each callable
// through the executor's task boundary, so the caller never does.
func SpawnOn(exec *Executor, unit Unit, handler Handler, finalizer Finalizer) *Handle {
	h := newHandle()
	go func() {
		h.complete(orchestrate(context.Background(), executorStrategy{exec: exec}, SpawnKindTask, unit, handler, finalizer))
	}()
	return h
}

// RunInline runs the composition at the call site and returns the unit's
// result directly. Call sites that already sit inside a task boundary
// (an executor worker, or any goroutine of their own) use this instead
// of bridging through an executor.
func RunInline(ctx context.Context, unit Unit, handler Handler, finalizer Finalizer) error {
	return orchestrate(ctx, threadStrategy{}, SpawnKindTask, unit, handler, finalizer)
}
