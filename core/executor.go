package core

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// task pairs a submitted unit with the handle its join result is
// delivered on.
type task struct {
	unit   Unit
	stage  Stage
	handle *Handle
}

// ExecutorConfig holds configuration options for an Executor.
// All fields are optional.
type ExecutorConfig struct {
	// QueueSize bounds the submission queue. Submit blocks while the
	// queue is full. Defaults to 64.
	QueueSize int

	// Logger receives executor lifecycle logs. Defaults to NoOpLogger.
	Logger Logger
}

// Executor manages a set of worker goroutines that pull submitted units
// from a queue and run each one inside a capture boundary. It is the task
// boundary of the asynchronous spawn family: a unit that panics surfaces
// as a JoinError on its handle, never as a crash.
//
// One process-wide instance is usually enough; see the root package's
// SharedExecutor.
type Executor struct {
	name    string
	workers int
	queue   chan *task
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	logger  Logger

	runningMu sync.RWMutex
	running   bool

	active atomic.Int64
}

// NewExecutor creates an Executor with the given number of workers.
// The executor does not run tasks until Start is called.
func NewExecutor(name string, workers int, config *ExecutorConfig) (*Executor, error) {
	if workers <= 0 {
		return nil, fmt.Errorf("executor %q: workers must be positive, got %d", name, workers)
	}

	queueSize := 64
	var logger Logger = NewNoOpLogger()
	if config != nil {
		if config.QueueSize > 0 {
			queueSize = config.QueueSize
		}
		if config.Logger != nil {
			logger = config.Logger
		}
	}

	return &Executor{
		name:    name,
		workers: workers,
		queue:   make(chan *task, queueSize),
		logger:  logger,
	}, nil
}

// Start launches the worker goroutines. Repeated calls are no-ops.
func (e *Executor) Start(ctx context.Context) {
	e.runningMu.Lock()
	defer e.runningMu.Unlock()

	if e.running {
		return
	}

	e.ctx, e.cancel = context.WithCancel(ctx)
	e.running = true

	for i := 0; i < e.workers; i++ {
		e.wg.Add(1)
		go e.workerLoop(i)
	}

	e.logger.Info("executor started",
		F("executor", e.name),
		F("workers", e.workers),
	)
}

// Submit hands a unit to the task boundary and returns the handle its
// join result will be delivered on. The handle completes strictly after
// the unit's own completion.
//
// Submit blocks while the queue is full. It returns ErrExecutorClosed if
// the executor is stopped, was never started, or shuts down while the
// submission is waiting for queue space.
func (e *Executor) Submit(unit Unit) (*Handle, error) {
	return e.submit(unit, StageUnit)
}

// submit is Submit with an explicit stage so the orchestrator can run
// handlers and finalizers through the same task boundary.
func (e *Executor) submit(unit Unit, stage Stage) (*Handle, error) {
	e.runningMu.RLock()
	defer e.runningMu.RUnlock()

	if !e.running {
		return nil, ErrExecutorClosed
	}

	t := &task{unit: unit, stage: stage, handle: newHandle()}
	select {
	case e.queue <- t:
		currentMetrics().RecordQueueDepth(len(e.queue))
		return t.handle, nil
	case <-e.ctx.Done():
		return nil, ErrExecutorClosed
	}
}

// workerLoop is the main loop for each worker.
func (e *Executor) workerLoop(id int) {
	defer e.wg.Done()

	for {
		select {
		case <-e.ctx.Done():
			return
		case t := <-e.queue:
			e.runTask(id, t)
		}
	}
}

// runTask drives one submitted unit through the capture boundary and
// fixes its handle with the join result.
func (e *Executor) runTask(id int, t *task) {
	// A task dequeued after Stop has begun is cancelled, not run.
	select {
	case <-e.ctx.Done():
		t.handle.complete(&JoinError{Kind: JoinCancelled})
		return
	default:
	}

	e.active.Add(1)
	defer e.active.Add(-1)

	// The task context carries the executor so units can reach their
	// ambient boundary; it is cancelled only by a forced Stop.
	ctx := context.WithValue(e.ctx, executorKey, e)

	err := capture(ctx, t.stage, t.unit)
	if err != nil {
		pe := err.(*PanicError)
		e.logger.Debug("task panicked",
			F("executor", e.name),
			F("worker", id),
			F("panic", pe.Message()),
		)
		t.handle.complete(&JoinError{Kind: JoinPanicked, Cause: pe})
		return
	}
	t.handle.complete(nil)
}

// Stop stops the executor. The currently running tasks have their context
// cancelled but still run to their own completion or panic; tasks that
// were queued but never started complete their handles with a cancelled
// JoinError.
func (e *Executor) Stop() {
	e.runningMu.Lock()
	if !e.running {
		e.runningMu.Unlock()
		return
	}
	e.running = false
	cancel := e.cancel
	e.runningMu.Unlock()

	cancel()
	e.wg.Wait()
	e.drainCancelled()

	e.logger.Info("executor stopped", F("executor", e.name))
}

// StopGraceful waits for queued and active tasks to finish before
// stopping. Returns an error if the queue does not drain within the
// timeout; the executor is stopped either way.
func (e *Executor) StopGraceful(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	idleErr := e.WaitIdle(ctx)
	e.Stop()

	if idleErr != nil {
		return fmt.Errorf("executor %q: queue did not drain within %s", e.name, timeout)
	}
	return nil
}

// drainCancelled completes the handles of tasks the workers never picked
// up. Runs after the workers have exited, so nothing else reads the queue.
func (e *Executor) drainCancelled() {
	for {
		select {
		case t := <-e.queue:
			t.handle.complete(&JoinError{Kind: JoinCancelled})
		default:
			return
		}
	}
}

// WaitIdle blocks until the executor has no queued and no active tasks,
// or ctx is done. Tasks submitted after WaitIdle returns are not covered.
func (e *Executor) WaitIdle(ctx context.Context) error {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()

	for {
		if len(e.queue) == 0 && e.active.Load() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Name returns the executor name.
func (e *Executor) Name() string { return e.name }

// WorkerCount returns the number of workers.
func (e *Executor) WorkerCount() int { return e.workers }

// QueuedTaskCount returns the number of tasks waiting for a worker.
func (e *Executor) QueuedTaskCount() int { return len(e.queue) }

// ActiveTaskCount returns the number of tasks currently running.
func (e *Executor) ActiveTaskCount() int { return int(e.active.Load()) }

// IsRunning returns whether the executor is accepting submissions.
func (e *Executor) IsRunning() bool {
	e.runningMu.RLock()
	defer e.runningMu.RUnlock()
	return e.running
}

// Stats returns a point-in-time snapshot of the executor state.
func (e *Executor) Stats() ExecutorStats {
	return ExecutorStats{
		Name:    e.name,
		Workers: e.workers,
		Queued:  e.QueuedTaskCount(),
		Active:  e.ActiveTaskCount(),
		Running: e.IsRunning(),
	}
}
