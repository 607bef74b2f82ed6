// Package retry runs backend connection attempts with exponential backoff.
//
// The serve command uses it so that Redis and MongoDB may come up after the
// server does. Only errors marked with [Transient] are retried:
//
//	err := retry.Do(ctx, 5, time.Second, func() error {
//	    c, err := cache.NewRedisCache(ctx, addr)
//	    if err != nil {
//	        return retry.Transient(err)
//	    }
//	    rc = c
//	    return nil
//	})
package retry

import (
	"context"
	"errors"
	"time"
)

// Defaults used by [WithBackoff].
const (
	DefaultAttempts = 5
	DefaultDelay    = 500 * time.Millisecond
	maxDelay        = 8 * time.Second
)

// transientError marks an error worth another attempt.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Transient marks err as retryable. A nil err stays nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err, or anything it wraps, was marked with
// [Transient].
func IsTransient(err error) bool {
	var t *transientError
	return errors.As(err, &t)
}

// cause returns the error that was marked with [Transient] somewhere in
// err's chain.
func cause(err error) error {
	var t *transientError
	if errors.As(err, &t) {
		return t.err
	}
	return err
}

// Do calls fn up to attempts times. The delay doubles after each failure
// up to a cap. Errors not marked transient end the loop at once. The last
// error is returned unwrapped, or ctx.Err() if ctx ends while waiting.
func Do(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var last error

	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}
		last = cause(err)

		if i < attempts-1 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
			delay = min(delay*2, maxDelay)
		}
	}
	return last
}

// WithBackoff is [Do] with DefaultAttempts and DefaultDelay.
func WithBackoff(ctx context.Context, fn func() error) error {
	return Do(ctx, DefaultAttempts, DefaultDelay, fn)
}
