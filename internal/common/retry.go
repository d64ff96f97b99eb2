package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

var (
	// ErrRateLimit marks a third-party rate limit response. The next attempt
	// waits the full MaxDelay.
	ErrRateLimit = errors.New("rate limit exceeded")
	// ErrMaxRetries is returned, wrapping the last failure, once every
	// attempt has failed.
	ErrMaxRetries = errors.New("max retries exceeded")
)

// RetryOptions configures WithRetry. Zero fields take the defaults of
// 3 attempts, 100ms initial delay, 30s cap and a 2x multiplier.
type RetryOptions struct {
	Logger       *slog.Logger
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

func (o RetryOptions) withDefaults() RetryOptions {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.InitialDelay <= 0 {
		o.InitialDelay = 100 * time.Millisecond
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = 30 * time.Second
	}
	if o.Multiplier <= 0 {
		o.Multiplier = 2.0
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// next returns the wait after a failed attempt that waited current.
func (o RetryOptions) next(current time.Duration, err error) time.Duration {
	if errors.Is(err, ErrRateLimit) {
		return o.MaxDelay
	}
	return min(time.Duration(float64(current)*o.Multiplier), o.MaxDelay)
}

// RetryableError tells WithRetry whether a failure is worth another attempt.
// Errors that are not wrapped in one are retried.
type RetryableError struct {
	Err       error
	Retryable bool
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// WithRetry runs operation until it succeeds, fails permanently or runs out
// of attempts, backing off exponentially in between. Only third-party calls
// such as Google Sheets go through it; HikeSafe API calls are never retried.
func WithRetry(ctx context.Context, operation func() error, opts RetryOptions) error {
	opts = opts.withDefaults()

	var err error
	wait := opts.InitialDelay
	for attempt := 1; ; attempt++ {
		if err = operation(); err == nil {
			return nil
		}

		var re *RetryableError
		if errors.As(err, &re) && !re.Retryable {
			return err
		}
		if attempt >= opts.MaxAttempts {
			return fmt.Errorf("%w after %d attempts: %w", ErrMaxRetries, attempt, err)
		}

		if errors.Is(err, ErrRateLimit) {
			wait = opts.MaxDelay
		}
		opts.Logger.Warn("Operation failed, retrying",
			"attempt", attempt,
			"max_attempts", opts.MaxAttempts,
			"delay", wait,
			"error", err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		wait = opts.next(wait, err)
	}
}
