package retry

import (
	"context"
	"errors"
	"time"

	goretry "github.com/sethvargo/go-retry"
)

// Operation is retried until it succeeds, returns a Permanent error or the
// attempts run out.
type Operation = func(ctx context.Context) error

type Config struct {
	MaxRetries   uint64
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Jitter       time.Duration
}

func NewDefaultConfig() *Config {
	return &Config{
		MaxRetries:   5,
		InitialDelay: 300 * time.Millisecond,
		MaxDelay:     20 * time.Second,
		Jitter:       50 * time.Millisecond,
	}
}

type Retrier struct {
	config *Config
}

func NewRetrier(config *Config) *Retrier {
	return &Retrier{
		config: config,
	}
}

func NewDefaultRetrier() *Retrier {
	return NewRetrier(NewDefaultConfig())
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

func (r *Retrier) backoff() goretry.Backoff {
	b := goretry.NewExponential(r.config.InitialDelay)
	if r.config.Jitter > 0 {
		b = goretry.WithJitter(r.config.Jitter, b)
	}
	if r.config.MaxDelay > 0 {
		b = goretry.WithCappedDuration(r.config.MaxDelay, b)
	}
	return goretry.WithMaxRetries(r.config.MaxRetries, b)
}

// Do runs op with exponential backoff. The last error is returned unwrapped.
func (r *Retrier) Do(ctx context.Context, op Operation) error {
	return goretry.Do(ctx, r.backoff(), func(ctx context.Context) error {
		err := op(ctx)
		if err == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		return goretry.RetryableError(err)
	})
}
