package integrations

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/matzehuels/bottlenose/pkg/httputil"
)

// RetryContext describes a failed attempt to the error handler.
type RetryContext struct {
	Err          error  // Failure of the attempt
	RequestURL   string // URL that was requested, including any signature
	CacheKey     string // Stable cache key of the query
	Provider     string
	Operation    string
	Attempt      int    // 1-based number of the failed attempt
	InvocationID string // Shared by all attempts of one Invoke
}

// ErrorHandler decides whether to retry after a failed attempt. It runs
// synchronously and owns any delay before the next attempt; returning true
// retries, false returns the error to the caller.
type ErrorHandler func(ctx context.Context, rc RetryContext) bool

// DefaultBackOff returns the exponential schedule used by the CLI and
// gateway: 1s doubling to at most 30s, with jitter.
func DefaultBackOff() backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = time.Second
	exp.Multiplier = 2
	exp.MaxInterval = 30 * time.Second
	exp.MaxElapsedTime = 0
	return exp
}

// RetryWithBackoff returns a handler that sleeps according to a backoff
// schedule and then retries. A fresh schedule from newBackOff is advanced
// to the failed attempt's position on every call. The handler gives up when
// the schedule returns backoff.Stop or ctx ends. A longer Retry-After from
// the server replaces the scheduled delay.
func RetryWithBackoff(newBackOff func() backoff.BackOff) ErrorHandler {
	return func(ctx context.Context, rc RetryContext) bool {
		b := newBackOff()
		b.Reset()

		var wait time.Duration
		for i := 0; i < rc.Attempt; i++ {
			wait = b.NextBackOff()
			if wait == backoff.Stop {
				return false
			}
		}
		if te, ok := httputil.AsTransportError(rc.Err); ok && te.RetryAfter > wait {
			wait = te.RetryAfter
		}
		return sleep(ctx, wait)
	}
}

// RetryTransient delegates to next only for failures worth repeating:
// network errors, timeouts, 429 and 5xx responses. Everything else,
// including 4xx responses and undecodable bodies, is returned at once.
func RetryTransient(next ErrorHandler) ErrorHandler {
	return func(ctx context.Context, rc RetryContext) bool {
		var te *httputil.TransportError
		if !errors.As(rc.Err, &te) || !te.Transient() {
			return false
		}
		return next(ctx, rc)
	}
}

// RetryAlways retries every failure immediately. It is mostly useful in
// tests; the attempt count is still bounded by WithMaxRetries.
func RetryAlways(context.Context, RetryContext) bool { return true }

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
