package recoverspawn

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/driftworks/go-recoverspawn/core"
)

// =============================================================================
// Shared Executor (Singleton)
// =============================================================================

const sharedExecutorName = "shared-executor"

// sharedMaxTries bounds executor construction retries. Construction
// failure is an environment condition, so a handful of backed-off
// attempts is enough before surfacing it.
const sharedMaxTries = 5

var (
	sharedMu    sync.Mutex
	sharedExec  *core.Executor
	sharedErr   error
	sharedBuilt bool
)

// SharedExecutor returns the process-wide executor, constructing and
// starting it on first use. Construction is retried with bounded
// exponential backoff; the terminal error is cached and returned to
// every caller until ShutdownSharedExecutor resets the slot.
//
// The executor lives until ShutdownSharedExecutor or process exit. All
// task-family spawns borrow it; none owns it.
func SharedExecutor() (*core.Executor, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedBuilt {
		return sharedExec, sharedErr
	}

	sharedExec, sharedErr = buildSharedExecutor(runtime.NumCPU())
	sharedBuilt = true
	return sharedExec, sharedErr
}

// InitSharedExecutor constructs the shared executor with an explicit
// worker count. It is a no-op if the executor already exists; call it at
// application startup, before any task-family spawn.
func InitSharedExecutor(workers int) error {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedBuilt && sharedErr == nil {
		return nil
	}

	sharedExec, sharedErr = buildSharedExecutor(workers)
	sharedBuilt = true
	return sharedErr
}

// ShutdownSharedExecutor stops the shared executor and clears the slot so
// a later spawn constructs a fresh one. Intended for process teardown and
// tests; mid-flight task-family spawns observe cancelled join results.
func ShutdownSharedExecutor() {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedExec != nil {
		sharedExec.Stop()
	}
	sharedExec = nil
	sharedErr = nil
	sharedBuilt = false
}

func buildSharedExecutor(workers int) (*core.Executor, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 10 * time.Millisecond
	bo.MaxInterval = 500 * time.Millisecond

	exec, err := backoff.Retry(
		context.Background(),
		func() (*core.Executor, error) {
			return core.NewExecutor(sharedExecutorName, workers, nil)
		},
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(sharedMaxTries),
	)
	if err != nil {
		return nil, err
	}

	exec.Start(context.Background())
	return exec, nil
}
