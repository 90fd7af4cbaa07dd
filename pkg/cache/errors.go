package cache

import (
	"context"
	"errors"
	"time"
)

// ErrBackend marks a transient backend failure such as a timeout or a
// dropped connection. RedisCache wraps these with Retryable.
var ErrBackend = errors.New("cache backend unavailable")

// RetryableError marks an error that RetryWithBackoff may retry.
type RetryableError struct{ Err error }

// Retryable wraps err as a RetryableError. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err carries a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// retryAttempts bounds RetryWithBackoff.
const retryAttempts = 3

// RetryWithBackoff calls fn until it succeeds, returns a non-retryable
// error, or has run retryAttempts times. The delay starts at 100ms and
// doubles; a render should not stall long on a flaky cache.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return retry(ctx, 100*time.Millisecond, fn)
}

func retry(ctx context.Context, delay time.Duration, fn func() error) error {
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) || attempt == retryAttempts {
			return err
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}
