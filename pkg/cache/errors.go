package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable wraps failures to reach a shared backend such as Redis. The
// CLI logs it and renders without a cache.
var ErrUnavailable = errors.New("cache backend unavailable")

// RetryableError marks a backend failure as transient.
type RetryableError struct{ Err error }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err was marked with Retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Connection attempts; the delay doubles after each failure. Tests shorten
// retryDelay.
const retryAttempts = 3

var retryDelay = time.Second

// RetryWithBackoff calls fn until it succeeds, fails with an error not marked
// Retryable, or has been tried retryAttempts times. The last error is
// returned; a cancelled ctx ends the wait early.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryDelay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt == retryAttempts {
			return err
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
