package core

import (
	"context"
	"sync"
)

// Handle represents the eventual completion of one spawn. The result is
// fixed exactly once, at the moment the unit succeeds or fails; the
// handler and finalizer stages of a composition never alter it.
//
// A Handle is handed to exactly one spawn; waiting on it from multiple
// goroutines is safe.
type Handle struct {
	done chan struct{}
	once sync.Once
	err  error
}

func newHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

// CompletedHandle returns a handle that is already done with the given
// result. Used when a spawn cannot be launched at all, e.g. because the
// shared executor failed to construct.
func CompletedHandle(err error) *Handle {
	h := newHandle()
	h.complete(err)
	return h
}

// complete fixes the result. Later calls are ignored.
func (h *Handle) complete(err error) {
	h.once.Do(func() {
		h.err = err
		close(h.done)
	})
}

// Done returns a channel that is closed once the spawn has completed.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Join blocks until the spawn completes and returns its result: nil on
// success, the captured failure otherwise.
func (h *Handle) Join() error {
	<-h.done
	return h.err
}

// Wait blocks until the spawn completes or ctx is done. A ctx error does
// not cancel the spawn; the unit keeps running to its own completion.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the result if the spawn has completed, nil otherwise.
// Use Done to distinguish "still running" from "succeeded".
func (h *Handle) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}
