// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about API calls, cache lookups, throttling and retries.
//
// Hooks are registered by main, never by libraries. A Prometheus
// implementation lives in the prometheus subpackage.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetCallHooks(&myCallHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Call().OnThrottle(ctx, "amazon", wait)
//	observability.Call().OnRetry(ctx, "amazon", "ItemLookup", attempt, err)
package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// CallHooks receives events from bound API calls.
type CallHooks interface {
	// OnInvokeComplete records the end of an invocation, successful or not.
	// cached is true when the result was served from the cache read hook.
	OnInvokeComplete(ctx context.Context, provider, operation string, cached bool, duration time.Duration, err error)

	// OnThrottle records time spent waiting on the shared rate limiter.
	OnThrottle(ctx context.Context, provider string, wait time.Duration)

	// OnRetry records that the error handler approved another attempt.
	OnRetry(ctx context.Context, provider, operation string, attempt int, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, provider string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, provider string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, provider string, size int)
}

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopCallHooks is a no-op implementation of CallHooks.
type NoopCallHooks struct{}

func (NoopCallHooks) OnInvokeComplete(context.Context, string, string, bool, time.Duration, error) {
}
func (NoopCallHooks) OnThrottle(context.Context, string, time.Duration)   {}
func (NoopCallHooks) OnRetry(context.Context, string, string, int, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// registry is replaced wholesale on every Set so readers never lock.
type registry struct {
	call  CallHooks
	cache CacheHooks
	http  HTTPHooks
}

var (
	current atomic.Pointer[registry]
	writeMu sync.Mutex
)

func init() { Reset() }

func update(fn func(r *registry)) {
	writeMu.Lock()
	defer writeMu.Unlock()
	next := *current.Load()
	fn(&next)
	current.Store(&next)
}

// SetCallHooks registers call hooks. A nil h is ignored.
func SetCallHooks(h CallHooks) {
	if h != nil {
		update(func(r *registry) { r.call = h })
	}
}

// SetCacheHooks registers cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetHTTPHooks registers HTTP hooks. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(r *registry) { r.http = h })
	}
}

// Call returns the registered call hooks.
func Call() CallHooks { return current.Load().call }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return current.Load().cache }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return current.Load().http }

// Reset restores the no-op hooks. Tests use it to undo registrations.
func Reset() {
	writeMu.Lock()
	defer writeMu.Unlock()
	current.Store(&registry{call: NoopCallHooks{}, cache: NoopCacheHooks{}, http: NoopHTTPHooks{}})
}
