// Package ratelimit throttles outbound requests to a maximum rate.
//
// A [Limiter] is created once per root client and shared by pointer with
// every call derived from it, so the minimum spacing holds across all
// operations issued through that client, sequential or concurrent.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter enforces a minimum interval of 1/maxQPS between executed
// requests. A nil Limiter, or one built with maxQPS <= 0, never waits.
type Limiter struct {
	limiter  *rate.Limiter
	interval time.Duration

	mu   sync.Mutex
	last time.Time
}

// New creates a limiter allowing at most maxQPS requests per second.
// Fractional rates are allowed (0.5 means one request every two seconds).
func New(maxQPS float64) *Limiter {
	if maxQPS <= 0 {
		return &Limiter{}
	}
	return &Limiter{
		limiter:  rate.NewLimiter(rate.Limit(maxQPS), 1),
		interval: time.Duration(float64(time.Second) / maxQPS),
	}
}

// Enabled reports whether the limiter ever delays requests.
func (l *Limiter) Enabled() bool {
	return l != nil && l.limiter != nil
}

// Interval returns the minimum spacing between requests, or 0 if disabled.
func (l *Limiter) Interval() time.Duration {
	if l == nil {
		return 0
	}
	return l.interval
}

// LastRequest returns when the most recent request was let through.
// The zero time means no request has been issued yet.
func (l *Limiter) LastRequest() time.Time {
	if l == nil {
		return time.Time{}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last
}

// Wait blocks until the next request may be issued and records it as the
// most recent one. It returns how long it waited. If ctx ends first, the
// reserved slot is released and ctx.Err() is returned.
func (l *Limiter) Wait(ctx context.Context) (time.Duration, error) {
	if !l.Enabled() {
		return 0, nil
	}

	r := l.limiter.Reserve()
	delay := r.Delay()
	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			r.Cancel()
			return 0, ctx.Err()
		case <-timer.C:
		}
	}

	l.mu.Lock()
	l.last = time.Now()
	l.mu.Unlock()
	return delay, nil
}
