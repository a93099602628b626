package integrations

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/matzehuels/bottlenose/pkg/httputil"
)

func TestRetryTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"server error", &httputil.TransportError{StatusCode: http.StatusServiceUnavailable}, true},
		{"too many requests", &httputil.TransportError{StatusCode: http.StatusTooManyRequests}, true},
		{"network", &httputil.TransportError{Err: errors.New("connection reset")}, true},
		{"not found", &httputil.TransportError{StatusCode: http.StatusNotFound}, false},
		{"canceled", &httputil.TransportError{Err: context.Canceled}, false},
		{"not transport", errors.New("bad gzip"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			h := RetryTransient(func(context.Context, RetryContext) bool {
				called = true
				return true
			})
			got := h(context.Background(), RetryContext{Err: tt.err, Attempt: 1})
			if got != tt.want {
				t.Errorf("RetryTransient() = %v, want %v", got, tt.want)
			}
			if called != tt.want {
				t.Errorf("next called = %v, want %v", called, tt.want)
			}
		})
	}
}

func TestRetryWithBackoffSchedule(t *testing.T) {
	newBackOff := func() backoff.BackOff {
		return backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), 2)
	}
	h := RetryWithBackoff(newBackOff)

	for attempt, want := range map[int]bool{1: true, 2: true, 3: false} {
		got := h(context.Background(), RetryContext{Err: errors.New("x"), Attempt: attempt})
		if got != want {
			t.Errorf("attempt %d: retry = %v, want %v", attempt, got, want)
		}
	}
}

func TestRetryWithBackoffHonorsRetryAfter(t *testing.T) {
	h := RetryWithBackoff(func() backoff.BackOff { return &backoff.ZeroBackOff{} })

	start := time.Now()
	ok := h(context.Background(), RetryContext{
		Attempt: 1,
		Err:     &httputil.TransportError{StatusCode: http.StatusTooManyRequests, RetryAfter: 50 * time.Millisecond},
	})
	if !ok {
		t.Fatal("handler should retry")
	}
	if elapsed := time.Since(start); elapsed < 45*time.Millisecond {
		t.Errorf("waited %v, want at least the Retry-After delay", elapsed)
	}
}

func TestRetryWithBackoffCanceled(t *testing.T) {
	h := RetryWithBackoff(func() backoff.BackOff { return backoff.NewConstantBackOff(time.Hour) })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if h(ctx, RetryContext{Attempt: 1, Err: errors.New("x")}) {
		t.Error("handler should give up when ctx ends")
	}
}

func TestDefaultBackOff(t *testing.T) {
	b := DefaultBackOff()
	b.Reset()
	first := b.NextBackOff()
	if first < 500*time.Millisecond || first > 1500*time.Millisecond {
		t.Errorf("first interval = %v, want about 1s", first)
	}
	for i := 0; i < 20; i++ {
		if d := b.NextBackOff(); d == backoff.Stop {
			t.Fatal("DefaultBackOff should never stop on its own")
		}
	}
}
