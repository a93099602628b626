package httputil

import (
	"context"
	"errors"
)

// RetryFunc decides whether a failed attempt is repeated. It is called
// synchronously with the 1-based number of the attempt that just failed and
// its error. Any delay before the next attempt is the callback's job: it
// should sleep (honoring ctx) before returning true.
type RetryFunc func(ctx context.Context, attempt int, err error) bool

// Retry runs fn until it succeeds or the retry policy gives up.
//
// The first call is attempt 1. An error wrapped with [Permanent] ends the
// loop at once and is returned unwrapped; retry is not consulted. After a failure, fn is run again only if
// retry is non-nil, the attempt number does not exceed maxRetries, ctx is
// still live, and retry returns true. With a callback that always agrees,
// fn therefore runs at most maxRetries+1 times. The last error is returned
// unchanged.
func Retry(ctx context.Context, maxRetries int, retry RetryFunc, fn func(attempt int) error) error {
	for attempt := 1; ; attempt++ {
		err := fn(attempt)
		if err == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if retry == nil || attempt > maxRetries || ctx.Err() != nil {
			return err
		}
		if !retry(ctx, attempt, err) {
			return err
		}
	}
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth another attempt.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}
