// Package retry runs a call with bounded exponential backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Config bounds a retry loop. Attempts counts the first call.
type Config struct {
	Attempts int
	Delay    time.Duration
	MaxDelay time.Duration
}

// permanent marks an error that must not be retried.
type permanent struct {
	err error
}

func (p *permanent) Error() string { return p.err.Error() }
func (p *permanent) Unwrap() error { return p.err }

// Permanent wraps err so Do returns it without further attempts.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanent{err: err}
}

// IsPermanent reports whether err was wrapped with Permanent.
func IsPermanent(err error) bool {
	var p *permanent
	return errors.As(err, &p)
}

// Do calls fn until it succeeds, returns a permanent error, the attempts are
// exhausted or ctx is done. The delay doubles after every failed attempt.
func Do[T any](ctx context.Context, cfg Config, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	attempts := max(cfg.Attempts, 1)
	delay := cfg.Delay

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return zero, fmt.Errorf("%w (last error: %v)", ctx.Err(), lastErr)
			}
			delay *= 2
			if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}

		var p *permanent
		if errors.As(err, &p) {
			return zero, p.err
		}
		lastErr = err
	}

	if attempts == 1 {
		return zero, lastErr
	}
	return zero, fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}
