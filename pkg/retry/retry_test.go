package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fastConfig(maxRetries uint64) *Config {
	return &Config{
		MaxRetries:   maxRetries,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
	}
}

func TestRetrier_Do(t *testing.T) {
	temporary := errors.New("temporary error")
	fatal := errors.New("bad request")

	tests := []struct {
		name         string
		maxRetries   uint64
		failures     int
		failWith     error
		wantErr      error
		wantAttempts int
	}{
		{
			name:         "success_first_try",
			maxRetries:   3,
			wantAttempts: 1,
		},
		{
			name:         "success_after_retries",
			maxRetries:   3,
			failures:     2,
			failWith:     temporary,
			wantAttempts: 3,
		},
		{
			name:         "max_retries_exceeded",
			maxRetries:   2,
			failures:     10,
			failWith:     temporary,
			wantErr:      temporary,
			wantAttempts: 3,
		},
		{
			name:         "permanent_stops_immediately",
			maxRetries:   5,
			failures:     10,
			failWith:     Permanent(fatal),
			wantErr:      fatal,
			wantAttempts: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			err := NewRetrier(fastConfig(tt.maxRetries)).Do(context.Background(), func(context.Context) error {
				attempts++
				if attempts <= tt.failures {
					return tt.failWith
				}
				return nil
			})

			assert.Equal(t, tt.wantAttempts, attempts)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRetrier_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastConfig(100)
	cfg.InitialDelay = 50 * time.Millisecond
	cfg.MaxDelay = time.Second

	attempts := 0
	err := NewRetrier(cfg).Do(ctx, func(context.Context) error {
		attempts++
		cancel()
		return errors.New("temporary")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestPermanent_Nil(t *testing.T) {
	assert.NoError(t, Permanent(nil))
}
