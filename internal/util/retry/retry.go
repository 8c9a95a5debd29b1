// Package retry provides exponential-backoff retries for transient failures.
//
// Retries are opt-in: the zero attempt count means an operation runs exactly
// once. Environmental failures (source downloads, image namespace access)
// may be retried by configuring attempts; logical failures are marked with
// Fatal and are never retried.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Config holds retry behavior.
type Config struct {
	Attempts     int           // retries after the first attempt
	InitialDelay time.Duration // delay before the first retry
	MaxDelay     time.Duration // cap on the backoff delay
	Multiplier   float64       // backoff growth factor
}

// Option adjusts the retry configuration.
type Option func(*Config)

// Attempts sets the number of retries after the first attempt.
func Attempts(n int) Option {
	return func(c *Config) { c.Attempts = n }
}

// InitialDelay sets the delay before the first retry.
func InitialDelay(d time.Duration) Option {
	return func(c *Config) { c.InitialDelay = d }
}

// MaxDelay caps the backoff delay.
func MaxDelay(d time.Duration) Option {
	return func(c *Config) { c.MaxDelay = d }
}

// Do runs op, retrying with exponential backoff on failure.
//
// By default no retries are performed; pass Attempts to enable them.
// Errors marked with Fatal stop the retry loop immediately, and context
// cancellation is honored between attempts.
func Do(ctx context.Context, op func() error, opts ...Option) error {
	cfg := &Config{
		Attempts:     0,
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 0; attempt <= cfg.Attempts; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		lastErr = err

		if IsFatal(err) {
			return err
		}
		if attempt == cfg.Attempts {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("cancelled after %d attempts: %w", attempt+1, ctx.Err())
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	if cfg.Attempts > 0 {
		return fmt.Errorf("failed after %d attempts: %w", cfg.Attempts+1, lastErr)
	}
	return lastErr
}

// fatalError marks an error as non-retryable.
type fatalError struct {
	err error
}

func (e *fatalError) Error() string { return e.err.Error() }

func (e *fatalError) Unwrap() error { return e.err }

// Fatal marks err as non-retryable. Do stops immediately when it sees one.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &fatalError{err: err}
}

// IsFatal reports whether err was marked with Fatal.
func IsFatal(err error) bool {
	var fe *fatalError
	return errors.As(err, &fe)
}
