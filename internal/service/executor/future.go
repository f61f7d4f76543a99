package executor

import (
	"context"

	"github.com/sandevgo/cmdgate/internal/core"
)

// Future is completed exactly once with the outcome of a dispatched request.
type Future struct {
	done    chan struct{}
	outcome core.Outcome
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) complete(out core.Outcome) {
	f.outcome = out
	close(f.done)
}

// Done is closed once the outcome is available.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Outcome returns the outcome without blocking; ok is false while pending.
func (f *Future) Outcome() (out core.Outcome, ok bool) {
	select {
	case <-f.done:
		return f.outcome, true
	default:
		return core.Outcome{}, false
	}
}

// Wait blocks until the outcome is available or ctx is done.
func (f *Future) Wait(ctx context.Context) (core.Outcome, error) {
	select {
	case <-f.done:
		return f.outcome, nil
	case <-ctx.Done():
		return core.Outcome{}, ctx.Err()
	}
}
