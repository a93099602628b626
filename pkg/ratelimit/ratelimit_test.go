package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestLimiter_Disabled(t *testing.T) {
	tests := []struct {
		name string
		l    *Limiter
	}{
		{"nil", nil},
		{"zero qps", New(0)},
		{"negative qps", New(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.l.Enabled() {
				t.Error("Enabled() = true, want false")
			}
			start := time.Now()
			for i := 0; i < 5; i++ {
				waited, err := tt.l.Wait(context.Background())
				if err != nil {
					t.Fatalf("Wait() error: %v", err)
				}
				if waited != 0 {
					t.Errorf("Wait() waited %v, want 0", waited)
				}
			}
			if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
				t.Errorf("disabled limiter took %v", elapsed)
			}
		})
	}
}

func TestLimiter_Interval(t *testing.T) {
	if got := New(2).Interval(); got != 500*time.Millisecond {
		t.Errorf("Interval() = %v, want 500ms", got)
	}
	if got := New(0.5).Interval(); got != 2*time.Second {
		t.Errorf("Interval() = %v, want 2s", got)
	}
}

func TestLimiter_SpacesRequests(t *testing.T) {
	l := New(10) // 100ms
	ctx := context.Background()

	start := time.Now()
	if _, err := l.Wait(ctx); err != nil {
		t.Fatalf("first Wait() error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("first request should not wait, took %v", elapsed)
	}
	first := l.LastRequest()

	if _, err := l.Wait(ctx); err != nil {
		t.Fatalf("second Wait() error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 95*time.Millisecond {
		t.Errorf("second request dispatched after %v, want >= 100ms", elapsed)
	}
	if !l.LastRequest().After(first) {
		t.Error("LastRequest() should advance after each Wait")
	}
}

func TestLimiter_NoWaitAfterIdle(t *testing.T) {
	l := New(20) // 50ms
	ctx := context.Background()

	if _, err := l.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	time.Sleep(60 * time.Millisecond)

	waited, err := l.Wait(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if waited > 5*time.Millisecond {
		t.Errorf("Wait() after idle waited %v, want ~0", waited)
	}
}

func TestLimiter_SharedAcrossGoroutines(t *testing.T) {
	l := New(20) // 50ms
	ctx := context.Background()

	const n = 4
	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Wait(ctx); err != nil {
				t.Errorf("Wait() error: %v", err)
			}
		}()
	}
	wg.Wait()

	// n requests need n-1 full intervals.
	if elapsed := time.Since(start); elapsed < 140*time.Millisecond {
		t.Errorf("%d concurrent requests finished in %v, want >= 150ms", n, elapsed)
	}
}

func TestLimiter_ContextCancel(t *testing.T) {
	l := New(1)
	if _, err := l.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := l.Wait(ctx); err != context.DeadlineExceeded {
		t.Errorf("Wait() error = %v, want context.DeadlineExceeded", err)
	}
}
