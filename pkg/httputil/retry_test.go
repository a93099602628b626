package httputil

import (
	"context"
	"errors"
	"testing"
)

var errBoom = errors.New("boom")

func TestRetryAttemptBound(t *testing.T) {
	tests := []struct {
		name       string
		maxRetries int
		retry      RetryFunc
		want       int
	}{
		{"no handler", 3, nil, 1},
		{"handler declines", 3, func(context.Context, int, error) bool { return false }, 1},
		{"handler always agrees", 3, func(context.Context, int, error) bool { return true }, 4},
		{"zero retries", 0, func(context.Context, int, error) bool { return true }, 1},
		{"one retry", 1, func(context.Context, int, error) bool { return true }, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), tt.maxRetries, tt.retry, func(int) error {
				calls++
				return errBoom
			})
			if !errors.Is(err, errBoom) {
				t.Errorf("Retry() error = %v, want %v", err, errBoom)
			}
			if calls != tt.want {
				t.Errorf("attempts = %d, want %d", calls, tt.want)
			}
		})
	}
}

func TestRetryAttemptNumbers(t *testing.T) {
	var seen []int
	var handled []int
	_ = Retry(context.Background(), 2, func(_ context.Context, attempt int, _ error) bool {
		handled = append(handled, attempt)
		return true
	}, func(attempt int) error {
		seen = append(seen, attempt)
		return errBoom
	})

	if len(seen) != 3 || seen[0] != 1 || seen[2] != 3 {
		t.Errorf("attempts = %v, want [1 2 3]", seen)
	}
	if len(handled) != 2 || handled[0] != 1 || handled[1] != 2 {
		t.Errorf("handler saw %v, want [1 2]", handled)
	}
}

func TestRetryStopsOnSuccess(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 5, func(context.Context, int, error) bool { return true }, func(int) error {
		calls++
		if calls < 3 {
			return errBoom
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("attempts = %d, want 3", calls)
	}
}

func TestRetryCanceledContextSkipsHandler(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	handlerCalls := 0
	err := Retry(ctx, 3, func(context.Context, int, error) bool {
		handlerCalls++
		return true
	}, func(int) error { return errBoom })

	if !errors.Is(err, errBoom) {
		t.Errorf("Retry() error = %v, want %v", err, errBoom)
	}
	if handlerCalls != 0 {
		t.Errorf("handler called %d times after cancellation", handlerCalls)
	}
}

func TestRetryPermanentStops(t *testing.T) {
	calls, consulted := 0, 0
	err := Retry(context.Background(), 5, func(context.Context, int, error) bool {
		consulted++
		return true
	}, func(int) error {
		calls++
		return Permanent(errBoom)
	})

	if err != errBoom {
		t.Errorf("Retry() error = %v, want the unwrapped cause", err)
	}
	if calls != 1 || consulted != 0 {
		t.Errorf("attempts = %d, handler calls = %d, want 1 and 0", calls, consulted)
	}
	if Permanent(nil) != nil {
		t.Error("Permanent(nil) should be nil")
	}
}
