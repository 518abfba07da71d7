package core

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

// eventLog records composition stages in execution order.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(ev string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.events))
	copy(out, l.events)
	return out
}

// TestSpawnThread_CatchInvokesHandlerWithMessage verifies the catch contract
// Given: A unit that panics with the string "test" and a handler
// When: The catch composition runs on a fresh goroutine
// Then: The handler runs exactly once with exactly "test" and the result is failure
func TestSpawnThread_CatchInvokesHandlerWithMessage(t *testing.T) {
	// Arrange
	var mu sync.Mutex
	var messages []string

	// Act
	h := SpawnThread(
		func(ctx context.Context) {
			panic("test")
		},
		func(ctx context.Context, errMsg string) {
			mu.Lock()
			messages = append(messages, errMsg)
			mu.Unlock()
		},
		nil,
	)
	err := h.Join()

	// Assert
	if err == nil {
		t.Fatal("Join() = nil, want failure")
	}
	mu.Lock()
	defer mu.Unlock()
	if len(messages) != 1 {
		t.Fatalf("handler ran %d times, want 1", len(messages))
	}
	if messages[0] != "test" {
		t.Fatalf("handler message = %q, want %q", messages[0], "test")
	}
}

// TestSpawnThread_SuccessSkipsHandler verifies handlers only see failures
// Given: A unit that completes normally and a handler
// When: The catch composition runs
// Then: The handler is never invoked and the result is success
func TestSpawnThread_SuccessSkipsHandler(t *testing.T) {
	handlerRan := false

	h := SpawnThread(
		func(ctx context.Context) {},
		func(ctx context.Context, errMsg string) {
			handlerRan = true
		},
		nil,
	)

	if err := h.Join(); err != nil {
		t.Fatalf("Join() = %v, want nil", err)
	}
	if handlerRan {
		t.Fatal("handler ran for a successful unit")
	}
}

// TestSpawnThread_FinalizerAlwaysRuns verifies the finally contract
// Given: Catch-finally spawns whose unit succeeds and fails
// When: Both spawns complete
// Then: The finalizer ran exactly once in each case
func TestSpawnThread_FinalizerAlwaysRuns(t *testing.T) {
	for _, tc := range []struct {
		name  string
		unit  Unit
		fails bool
	}{
		{"unit succeeds", func(ctx context.Context) {}, false},
		{"unit fails", func(ctx context.Context) { panic("boom") }, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var mu sync.Mutex
			finalizerRuns := 0

			h := SpawnThread(tc.unit, nil, func(ctx context.Context) {
				mu.Lock()
				finalizerRuns++
				mu.Unlock()
			})
			err := h.Join()

			if tc.fails && err == nil {
				t.Fatal("Join() = nil, want failure")
			}
			if !tc.fails && err != nil {
				t.Fatalf("Join() = %v, want nil", err)
			}
			mu.Lock()
			defer mu.Unlock()
			if finalizerRuns != 1 {
				t.Fatalf("finalizer ran %d times, want 1", finalizerRuns)
			}
		})
	}
}

// TestSpawnThread_PanickingHandlerDoesNotStopFinalizer verifies containment
// Given: A panicking unit, a panicking handler, and a finalizer
// When: The catch-finally composition completes
// Then: The finalizer still ran exactly once and the result is the unit's failure
func TestSpawnThread_PanickingHandlerDoesNotStopFinalizer(t *testing.T) {
	// Arrange
	log := &eventLog{}

	// Act
	h := SpawnThread(
		func(ctx context.Context) {
			log.add("unit")
			panic("test")
		},
		func(ctx context.Context, errMsg string) {
			log.add("handler:" + errMsg)
			panic(errMsg)
		},
		func(ctx context.Context) {
			log.add("finalizer")
		},
	)
	err := h.Join()

	// Assert
	if FailureMessage(err) != "test" {
		t.Fatalf("Join() = %v, want the unit's failure %q", err, "test")
	}
	want := []string{"unit", "handler:test", "finalizer"}
	got := log.snapshot()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
}

// TestSpawnThread_StrictSequencing verifies unit, handler, finalizer order
// Given: A failing unit, a handler, and a finalizer that all log entry
// When: The catch-finally composition completes
// Then: Each stage fully completed before the next started
func TestSpawnThread_StrictSequencing(t *testing.T) {
	log := &eventLog{}

	h := SpawnThread(
		func(ctx context.Context) {
			log.add("unit-start")
			log.add("unit-end-by-panic")
			panic("sequencing")
		},
		func(ctx context.Context, errMsg string) {
			log.add("handler")
		},
		func(ctx context.Context) {
			log.add("finalizer")
		},
	)
	_ = h.Join()

	got := log.snapshot()
	want := []string{"unit-start", "unit-end-by-panic", "handler", "finalizer"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
}

// TestSpawnThread_ConcurrentSpawnsNoCrossTalk verifies spawn independence
// Given: Eight concurrent catch spawns, each panicking with its own message
// When: All spawns complete
// Then: Each handler ran exactly once with its own message
func TestSpawnThread_ConcurrentSpawnsNoCrossTalk(t *testing.T) {
	// Arrange
	const n = 8
	var mu sync.Mutex
	received := make(map[string]int)

	// Act
	handles := make([]*Handle, 0, n)
	for i := range n {
		msg := fmt.Sprintf("failure-%d", i)
		handles = append(handles, SpawnThread(
			func(ctx context.Context) {
				panic(msg)
			},
			func(ctx context.Context, errMsg string) {
				mu.Lock()
				received[errMsg]++
				mu.Unlock()
			},
			nil,
		))
	}
	for _, h := range handles {
		if err := h.Join(); err == nil {
			t.Fatal("Join() = nil, want failure")
		}
	}

	// Assert
	mu.Lock()
	defer mu.Unlock()
	if len(received) != n {
		t.Fatalf("distinct messages = %d, want %d", len(received), n)
	}
	for i := range n {
		msg := fmt.Sprintf("failure-%d", i)
		if received[msg] != 1 {
			t.Fatalf("handler for %q ran %d times, want 1", msg, received[msg])
		}
	}
}

// TestSpawnOn_CatchFinallyThroughTaskBoundary verifies the executor family
// Given: A running executor and a failing catch-finally spawn bridged onto it
// When: The spawn completes
// Then: The handler saw the panic text, the finalizer ran, and the join
//       result is a panicked JoinError
func TestSpawnOn_CatchFinallyThroughTaskBoundary(t *testing.T) {
	// Arrange
	exec := newTestExecutor(t, 2)
	defer exec.Stop()
	log := &eventLog{}

	// Act
	h := SpawnOn(exec,
		func(ctx context.Context) {
			panic("test")
		},
		func(ctx context.Context, errMsg string) {
			log.add("handler:" + errMsg)
		},
		func(ctx context.Context) {
			log.add("finalizer")
		},
	)
	err := h.Join()

	// Assert
	if !IsPanic(err) {
		t.Fatalf("Join() = %v, want panicked join failure", err)
	}
	got := log.snapshot()
	want := []string{"handler:test", "finalizer"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
}

// TestSpawnOn_StoppedExecutor verifies a dead boundary cannot crash a spawn
// Given: A stopped executor
// When: A spawn is bridged onto it
// Then: The handle reports ErrExecutorClosed instead of running the unit
func TestSpawnOn_StoppedExecutor(t *testing.T) {
	exec := newTestExecutor(t, 1)
	exec.Stop()

	ran := false
	h := SpawnOn(exec, func(ctx context.Context) {
		ran = true
	}, nil, nil)

	if err := h.Join(); err != ErrExecutorClosed {
		t.Fatalf("Join() = %v, want ErrExecutorClosed", err)
	}
	if ran {
		t.Fatal("unit ran on a stopped executor")
	}
}

// TestRunInline_MatchesBridgedClassification verifies bridge equivalence
// Given: The same panicking unit run inline and bridged through an executor
// When: Both results are stringified
// Then: Both are failures with the same message
func TestRunInline_MatchesBridgedClassification(t *testing.T) {
	// Arrange
	exec := newTestExecutor(t, 1)
	defer exec.Stop()
	unit := func(ctx context.Context) {
		panic("test")
	}

	// Act
	inlineErr := RunInline(context.Background(), unit, nil, nil)
	bridgedErr := SpawnOn(exec, unit, nil, nil).Join()

	// Assert
	if inlineErr == nil || bridgedErr == nil {
		t.Fatalf("inline = %v, bridged = %v, want both failures", inlineErr, bridgedErr)
	}
	if FailureMessage(inlineErr) != FailureMessage(bridgedErr) {
		t.Fatalf("inline message %q != bridged message %q",
			FailureMessage(inlineErr), FailureMessage(bridgedErr))
	}
}

// TestRunInline_Success verifies the inline family returns results directly
// Given: A successful unit with handler and finalizer
// When: RunInline executes the composition at the call site
// Then: The result is nil, the handler never ran, the finalizer ran once
func TestRunInline_Success(t *testing.T) {
	handlerRan := false
	finalizerRuns := 0

	err := RunInline(context.Background(),
		func(ctx context.Context) {},
		func(ctx context.Context, errMsg string) { handlerRan = true },
		func(ctx context.Context) { finalizerRuns++ },
	)

	if err != nil {
		t.Fatalf("RunInline() = %v, want nil", err)
	}
	if handlerRan {
		t.Fatal("handler ran for a successful unit")
	}
	if finalizerRuns != 1 {
		t.Fatalf("finalizer ran %d times, want 1", finalizerRuns)
	}
}
