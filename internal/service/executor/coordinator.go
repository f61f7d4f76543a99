// Package executor runs resolved commands off the caller's goroutine on a
// bounded pool.
package executor

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandevgo/cmdgate/internal/core"
	"github.com/sandevgo/cmdgate/pkg/log"
	"golang.org/x/sync/semaphore"
)

const (
	DefaultWorkers     = 8
	DefaultGracePeriod = 5 * time.Second
)

// ErrStopped is the outcome of requests dispatched after shutdown or still
// waiting for a worker when shutdown began.
var ErrStopped = errors.New("executor stopped")

// OutcomeFunc receives every outcome produced while the coordinator is running.
type OutcomeFunc func(ctx context.Context, out core.Outcome)

type Config struct {
	Workers     int64
	GracePeriod time.Duration
	OnOutcome   OutcomeFunc
}

// Coordinator gives no ordering guarantee between requests, even from the
// same sender. Handlers are never cancelled once started.
type Coordinator struct {
	sem       *semaphore.Weighted
	grace     time.Duration
	onOutcome OutcomeFunc

	queue  context.Context
	cancel context.CancelFunc

	mu       sync.RWMutex
	stopping atomic.Bool
	wg       sync.WaitGroup
	running  atomic.Int64
}

func NewCoordinator(cfg Config) *Coordinator {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.GracePeriod <= 0 {
		cfg.GracePeriod = DefaultGracePeriod
	}

	queue, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		sem:       semaphore.NewWeighted(cfg.Workers),
		grace:     cfg.GracePeriod,
		onOutcome: cfg.OnOutcome,
		queue:     queue,
		cancel:    cancel,
	}
}

// Dispatch schedules req and returns at once. The handler receives ctx
// detached from its cancellation.
func (c *Coordinator) Dispatch(ctx context.Context, req *core.Request) *Future {
	f := newFuture()

	c.mu.RLock()
	if c.stopping.Load() {
		c.mu.RUnlock()
		f.complete(core.Outcome{Request: req, Err: ErrStopped})
		return f
	}
	c.wg.Add(1)
	c.mu.RUnlock()

	ctx = context.WithoutCancel(ctx)
	go func() {
		defer c.wg.Done()

		if err := c.sem.Acquire(c.queue, 1); err != nil {
			f.complete(core.Outcome{Request: req, Err: ErrStopped})
			return
		}
		c.running.Add(1)
		out := c.run(ctx, req)
		c.running.Add(-1)
		c.sem.Release(1)

		f.complete(out)

		if c.stopping.Load() {
			log.FromCtx(ctx).Debug().Str("input", req.Input).Msg("outcome discarded, executor stopping")
			return
		}
		if c.onOutcome != nil {
			c.onOutcome(ctx, out)
		}
	}()

	return f
}

func (c *Coordinator) run(ctx context.Context, req *core.Request) (out core.Outcome) {
	out.Request = req
	defer func() {
		if r := recover(); r != nil {
			log.FromCtx(ctx).Error().Str("input", req.Input).Bytes("stack", debug.Stack()).Msgf("handler panic: %v", r)
			out.Result = ""
			out.Err = &core.ExecutionError{Input: req.Input, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	result, err := req.Command.Handler(ctx, req)
	if err != nil {
		out.Err = &core.ExecutionError{Input: req.Input, Err: err}
		return out
	}
	out.Result = result
	return out
}

// Running is the number of handlers currently executing.
func (c *Coordinator) Running() int64 {
	return c.running.Load()
}

// Shutdown stops accepting requests, drops the ones still queued and waits
// up to the grace period for running handlers. Their outcomes are discarded.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	c.stopping.Store(true)
	c.mu.Unlock()
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(c.grace)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		return fmt.Errorf("executor: %d handlers still running after %s", c.running.Load(), c.grace)
	case <-ctx.Done():
		return ctx.Err()
	}
}
