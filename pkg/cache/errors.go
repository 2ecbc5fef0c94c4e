package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned when a remote backend cannot be reached.
var ErrUnavailable = errors.New("cache backend unavailable")

// transientError marks a backend failure worth another attempt.
type transientError struct{ err error }

func (e transientError) Error() string { return e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

// Transient marks err as a temporary backend failure. Nil stays nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return transientError{err: err}
}

// IsTransient reports whether err was marked by [Transient].
func IsTransient(err error) bool {
	return errors.As(err, new(transientError))
}

// Backoff between attempts; package vars so tests can shrink them.
var (
	retryAttempts = 3
	retryDelay    = 100 * time.Millisecond
)

// Retry runs op until it succeeds, fails permanently, or the attempts run out.
// The wait doubles after each transient failure.
func Retry(ctx context.Context, op func() error) error {
	wait := retryDelay
	err := op()
	for n := 1; n < retryAttempts && IsTransient(err); n++ {
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		wait *= 2
		err = op()
	}
	return err
}
