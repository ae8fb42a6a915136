package retry

import (
	"context"
	"fmt"
	"time"
)

// Config holds retry configuration
type Config struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffFactor   float64
	MaxTotalTimeout time.Duration
}

// AttemptFunc is notified after each failed attempt that will be retried
type AttemptFunc func(attempt int, err error, nextDelay time.Duration)

// DefaultConfig returns the connection retry policy used for Redis, Typesense and PostgreSQL
func DefaultConfig() Config {
	return Config{
		MaxAttempts:     10,
		InitialDelay:    100 * time.Millisecond,
		MaxDelay:        10 * time.Second,
		BackoffFactor:   2.0,
		MaxTotalTimeout: 60 * time.Second,
	}
}

// Do executes fn with exponential backoff
func Do(ctx context.Context, cfg Config, fn func() error) error {
	return DoWithLog(ctx, cfg, "", fn, nil)
}

// DoWithLog executes fn with exponential backoff, reporting failed attempts to onAttempt.
// serviceName prefixes returned errors when set.
func DoWithLog(ctx context.Context, cfg Config, serviceName string, fn func() error, onAttempt AttemptFunc) error {
	if cfg.MaxTotalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.MaxTotalTimeout)
		defer cancel()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return wrap(serviceName, abortError(attempt-1, err, lastErr))
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == cfg.MaxAttempts {
			break
		}

		if onAttempt != nil {
			onAttempt(attempt, err, delay)
		}

		select {
		case <-ctx.Done():
			return wrap(serviceName, abortError(attempt, ctx.Err(), lastErr))
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * cfg.BackoffFactor)
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return wrap(serviceName, fmt.Errorf("max retry attempts (%d) exceeded: %w", cfg.MaxAttempts, lastErr))
}

func abortError(attempts int, ctxErr, lastErr error) error {
	if lastErr != nil {
		return fmt.Errorf("retry aborted after %d attempts: %w (last error: %v)", attempts, ctxErr, lastErr)
	}
	return fmt.Errorf("retry aborted: %w", ctxErr)
}

func wrap(serviceName string, err error) error {
	if serviceName == "" {
		return err
	}
	return fmt.Errorf("%s: %w", serviceName, err)
}
