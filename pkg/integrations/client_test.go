package integrations

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/bottlenose/pkg/cache"
	bnerrors "github.com/matzehuels/bottlenose/pkg/errors"
	"github.com/matzehuels/bottlenose/pkg/httputil"
	"github.com/matzehuels/bottlenose/pkg/query"
)

// fakeProvider points every operation at a test server. Each QueryURL call
// gets a new "ts" parameter so request URLs differ while cache keys do not.
type fakeProvider struct {
	base     string
	urlCalls atomic.Int32
	rejected string
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Validate(op string, params query.Params) error {
	if p.rejected != "" && params.Has(p.rejected) {
		return bnerrors.New(bnerrors.ErrCodeInvalidParameter, "the %q parameter is not supported", p.rejected)
	}
	return nil
}

func (p *fakeProvider) QueryURL(op string, params query.Params) (string, error) {
	n := p.urlCalls.Add(1)
	return p.base + "/" + op + "?" + query.Encode(params.With("ts", strconv.Itoa(int(n)))), nil
}

func (p *fakeProvider) CacheKey(op string, params query.Params) (string, error) {
	return p.base + "/" + op + "?" + query.Encode(params), nil
}

type recorder struct {
	mu     sync.Mutex
	reads  []string
	writes map[string][]byte
	hits   map[string][]byte
}

func newRecorder() *recorder {
	return &recorder{writes: map[string][]byte{}, hits: map[string][]byte{}}
}

func (r *recorder) read(ctx context.Context, key string) ([]byte, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads = append(r.reads, key)
	body, ok := r.hits[key]
	return body, ok, nil
}

func (r *recorder) write(ctx context.Context, key string, body []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes[key] = body
	return nil
}

func countingServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func okHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(body)) }
}

func TestNewClientRequiresProviderAndParser(t *testing.T) {
	if _, err := NewRawClient(nil); !bnerrors.Is(err, bnerrors.ErrCodeInvalidConfig) {
		t.Errorf("NewRawClient(nil) error = %v, want INVALID_CONFIG", err)
	}
	if _, err := NewClient[string](&fakeProvider{}, nil); !bnerrors.Is(err, bnerrors.ErrCodeInvalidConfig) {
		t.Errorf("NewClient(nil parser) error = %v, want INVALID_CONFIG", err)
	}
}

func TestInvokeFetchesAndWritesCache(t *testing.T) {
	srv, hits := countingServer(t, okHandler("<ok/>"))
	p := &fakeProvider{base: srv.URL}
	rec := newRecorder()

	client, err := NewRawClient(p,
		WithHTTPClient(srv.Client()),
		WithCacheReader(rec.read),
		WithCacheWriter(rec.write),
	)
	if err != nil {
		t.Fatal(err)
	}

	params := query.Params{"ItemId": "123"}
	body, err := client.ForOperation("ItemLookup").Invoke(context.Background(), params)
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if string(body) != "<ok/>" {
		t.Errorf("Invoke() = %q, want <ok/>", body)
	}
	if hits.Load() != 1 {
		t.Errorf("network calls = %d, want 1", hits.Load())
	}

	key, _ := p.CacheKey("ItemLookup", params)
	if string(rec.writes[key]) != "<ok/>" {
		t.Errorf("cache write under %q = %q, want <ok/>", key, rec.writes[key])
	}
	if len(rec.reads) != 1 || rec.reads[0] != key {
		t.Errorf("cache reads = %v, want [%s]", rec.reads, key)
	}
}

func TestInvokeCacheHitShortCircuits(t *testing.T) {
	srv, hits := countingServer(t, okHandler("fresh"))
	p := &fakeProvider{base: srv.URL}
	rec := newRecorder()

	params := query.Params{"ItemId": "123"}
	key, _ := p.CacheKey("ItemLookup", params)
	rec.hits[key] = []byte("cached")

	client, _ := NewRawClient(p,
		WithHTTPClient(srv.Client()),
		WithMaxQPS(0.001), // a throttled request would block for 1000s
		WithCacheReader(rec.read),
		WithCacheWriter(rec.write),
	)

	call := client.ForOperation("ItemLookup")
	for i := 0; i < 3; i++ {
		body, err := call.Invoke(context.Background(), params)
		if err != nil {
			t.Fatalf("Invoke() error = %v", err)
		}
		if string(body) != "cached" {
			t.Errorf("Invoke() = %q, want cached", body)
		}
	}

	if hits.Load() != 0 {
		t.Errorf("network calls = %d, want 0", hits.Load())
	}
	if len(rec.writes) != 0 {
		t.Errorf("cache writes = %d, want 0", len(rec.writes))
	}
	if p.urlCalls.Load() != 0 {
		t.Errorf("QueryURL calls = %d, want 0", p.urlCalls.Load())
	}
	if !client.Limiter().LastRequest().IsZero() {
		t.Error("cache hits must not touch the rate limiter")
	}
}

func TestInvokeEmptyCachedBodyIsHit(t *testing.T) {
	srv, hits := countingServer(t, okHandler("fresh"))
	p := &fakeProvider{base: srv.URL}

	client, _ := NewRawClient(p,
		WithHTTPClient(srv.Client()),
		WithCacheReader(func(context.Context, string) ([]byte, bool, error) {
			return []byte{}, true, nil
		}),
	)

	body, err := client.ForOperation("Op").Invoke(context.Background(), nil)
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if len(body) != 0 {
		t.Errorf("Invoke() = %q, want empty body", body)
	}
	if hits.Load() != 0 {
		t.Errorf("network calls = %d, want 0", hits.Load())
	}
}

func TestInvokeValidationBeforeIO(t *testing.T) {
	srv, hits := countingServer(t, okHandler("fresh"))
	p := &fakeProvider{base: srv.URL, rejected: "Style"}
	rec := newRecorder()

	client, _ := NewRawClient(p,
		WithHTTPClient(srv.Client()),
		WithCacheReader(rec.read),
		WithCacheWriter(rec.write),
	)

	tests := []struct {
		name   string
		op     string
		params query.Params
	}{
		{"disallowed parameter", "ItemLookup", query.Params{"Style": "xml"}},
		{"bad operation", "../etc", nil},
		{"bad key", "ItemLookup", query.Params{"a&b": "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.ForOperation(tt.op).Invoke(context.Background(), tt.params)
			if !bnerrors.IsValidation(err) {
				t.Fatalf("Invoke() error = %v, want validation error", err)
			}
		})
	}

	if len(rec.reads) != 0 || len(rec.writes) != 0 {
		t.Errorf("cache touched: %d reads, %d writes", len(rec.reads), len(rec.writes))
	}
	if hits.Load() != 0 || p.urlCalls.Load() != 0 {
		t.Errorf("network touched: %d hits, %d urls", hits.Load(), p.urlCalls.Load())
	}
}

func TestInvokeRetryBound(t *testing.T) {
	srv, hits := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	p := &fakeProvider{base: srv.URL}

	var seen []RetryContext
	client, _ := NewRawClient(p,
		WithHTTPClient(srv.Client()),
		WithMaxRetries(3),
		WithErrorHandler(func(ctx context.Context, rc RetryContext) bool {
			seen = append(seen, rc)
			return true
		}),
	)

	_, err := client.ForOperation("Op").Invoke(context.Background(), query.Params{"q": "x"})
	te, ok := httputil.AsTransportError(err)
	if !ok {
		t.Fatalf("Invoke() error = %v, want *TransportError", err)
	}
	if te.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", te.StatusCode)
	}
	if hits.Load() != 4 {
		t.Errorf("attempts = %d, want 4", hits.Load())
	}
	if len(seen) != 3 {
		t.Fatalf("handler calls = %d, want 3", len(seen))
	}

	key, _ := p.CacheKey("Op", query.Params{"q": "x"})
	for i, rc := range seen {
		if rc.Attempt != i+1 {
			t.Errorf("seen[%d].Attempt = %d", i, rc.Attempt)
		}
		if rc.CacheKey != key {
			t.Errorf("seen[%d].CacheKey = %q, want %q", i, rc.CacheKey, key)
		}
		if rc.RequestURL != te.URL {
			t.Errorf("seen[%d].RequestURL = %q, want %q", i, rc.RequestURL, te.URL)
		}
		if rc.InvocationID == "" || rc.InvocationID != seen[0].InvocationID {
			t.Errorf("seen[%d].InvocationID = %q", i, rc.InvocationID)
		}
		if rc.Provider != "fake" || rc.Operation != "Op" {
			t.Errorf("seen[%d] provider/op = %s/%s", i, rc.Provider, rc.Operation)
		}
	}
}

func TestInvokeNoHandlerFailsFast(t *testing.T) {
	srv, hits := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	rec := newRecorder()
	client, _ := NewRawClient(&fakeProvider{base: srv.URL},
		WithHTTPClient(srv.Client()),
		WithMaxRetries(3),
		WithCacheWriter(rec.write),
	)

	_, err := client.ForOperation("Op").Invoke(context.Background(), nil)
	if _, ok := httputil.AsTransportError(err); !ok {
		t.Fatalf("Invoke() error = %v, want *TransportError", err)
	}
	if hits.Load() != 1 {
		t.Errorf("attempts = %d, want 1", hits.Load())
	}
	if len(rec.writes) != 0 {
		t.Error("failed invocation must not write the cache")
	}
}

func TestInvokeHandlerDeclines(t *testing.T) {
	srv, hits := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	client, _ := NewRawClient(&fakeProvider{base: srv.URL},
		WithHTTPClient(srv.Client()),
		WithErrorHandler(RetryTransient(RetryAlways)),
	)

	_, err := client.ForOperation("Op").Invoke(context.Background(), nil)
	te, ok := httputil.AsTransportError(err)
	if !ok || te.Code() != bnerrors.ErrCodeNotFound {
		t.Fatalf("Invoke() error = %v, want NOT_FOUND transport error", err)
	}
	if hits.Load() != 1 {
		t.Errorf("attempts = %d, want 1 (404 is not transient)", hits.Load())
	}
}

func TestInvokeDecodeFailureIsTerminal(t *testing.T) {
	srv, hits := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write([]byte("not gzip"))
	})
	rec := newRecorder()
	var handlerCalls atomic.Int32
	client, _ := NewRawClient(&fakeProvider{base: srv.URL},
		WithHTTPClient(srv.Client()),
		WithMaxRetries(3),
		WithCacheWriter(rec.write),
		WithErrorHandler(func(ctx context.Context, rc RetryContext) bool {
			handlerCalls.Add(1)
			return true
		}),
	)

	_, err := client.ForOperation("Op").Invoke(context.Background(), nil)
	if !bnerrors.Is(err, bnerrors.ErrCodeDecode) {
		t.Fatalf("Invoke() error = %v, want DECODE_ERROR", err)
	}
	if hits.Load() != 1 {
		t.Errorf("attempts = %d, want 1", hits.Load())
	}
	if handlerCalls.Load() != 0 {
		t.Errorf("handler calls = %d, want 0", handlerCalls.Load())
	}
	if len(rec.writes) != 0 {
		t.Error("undecodable response must not be cached")
	}
}

func TestInvokeRateLimitShared(t *testing.T) {
	var mu sync.Mutex
	var stamps []time.Time
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		stamps = append(stamps, time.Now())
		mu.Unlock()
		_, _ = w.Write([]byte("ok"))
	})

	client, _ := NewRawClient(&fakeProvider{base: srv.URL},
		WithHTTPClient(srv.Client()),
		WithMaxQPS(2),
	)

	ctx := context.Background()
	if _, err := client.ForOperation("First").Invoke(ctx, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := client.ForOperation("Second").Invoke(ctx, nil); err != nil {
		t.Fatal(err)
	}

	if len(stamps) != 2 {
		t.Fatalf("requests = %d, want 2", len(stamps))
	}
	if gap := stamps[1].Sub(stamps[0]); gap < 480*time.Millisecond {
		t.Errorf("second dispatch after %v, want >= 500ms", gap)
	}
}

func TestInvokeParser(t *testing.T) {
	srv, _ := countingServer(t, okHandler("42"))

	client, err := NewClient(&fakeProvider{base: srv.URL}, func(b []byte) (int, error) {
		return strconv.Atoi(string(b))
	}, WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatal(err)
	}

	n, err := client.ForOperation("Op").Invoke(context.Background(), nil)
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if n != 42 {
		t.Errorf("Invoke() = %d, want 42", n)
	}
}

func TestInvokeParserError(t *testing.T) {
	srv, _ := countingServer(t, okHandler("not a number"))
	rec := newRecorder()

	client, _ := NewClient(&fakeProvider{base: srv.URL}, func(b []byte) (int, error) {
		return strconv.Atoi(string(b))
	}, WithHTTPClient(srv.Client()), WithCacheWriter(rec.write))

	_, err := client.ForOperation("Op").Invoke(context.Background(), nil)
	if !bnerrors.Is(err, bnerrors.ErrCodeParse) {
		t.Errorf("Invoke() error = %v, want PARSE_ERROR", err)
	}
	if len(rec.writes) != 1 {
		t.Error("raw body is cached before parsing")
	}
}

func TestInvokeCacheHookErrorsPropagate(t *testing.T) {
	srv, hits := countingServer(t, okHandler("ok"))
	boom := errors.New("disk full")

	client, _ := NewRawClient(&fakeProvider{base: srv.URL},
		WithHTTPClient(srv.Client()),
		WithCacheReader(func(context.Context, string) ([]byte, bool, error) { return nil, false, boom }),
	)
	if _, err := client.ForOperation("Op").Invoke(context.Background(), nil); !errors.Is(err, boom) {
		t.Errorf("reader error = %v, want %v", err, boom)
	}
	if hits.Load() != 0 {
		t.Error("reader failure must stop before the network")
	}

	client, _ = NewRawClient(&fakeProvider{base: srv.URL},
		WithHTTPClient(srv.Client()),
		WithCacheWriter(func(context.Context, string, []byte) error { return boom }),
	)
	if _, err := client.ForOperation("Op").Invoke(context.Background(), nil); !errors.Is(err, boom) {
		t.Errorf("writer error = %v, want %v", err, boom)
	}
}

func TestWithCacheBackend(t *testing.T) {
	srv, hits := countingServer(t, okHandler("body"))
	store := cache.NewMemoryCache()

	client, _ := NewRawClient(&fakeProvider{base: srv.URL},
		WithHTTPClient(srv.Client()),
		WithCache(store, time.Hour),
	)

	call := client.ForOperation("Op")
	for i := 0; i < 2; i++ {
		body, err := call.Invoke(context.Background(), query.Params{"a": 1})
		if err != nil {
			t.Fatal(err)
		}
		if string(body) != "body" {
			t.Errorf("Invoke() = %q", body)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("network calls = %d, want 1", hits.Load())
	}
	if store.Len() != 1 {
		t.Errorf("stored entries = %d, want 1", store.Len())
	}
}

func TestCallURLs(t *testing.T) {
	p := &fakeProvider{base: "https://api.example.com", rejected: "Style"}
	client, _ := NewRawClient(p)
	call := client.ForOperation("Op")

	if call.Operation() != "Op" {
		t.Errorf("Operation() = %q", call.Operation())
	}

	k1, _ := call.CacheKey(query.Params{"b": 2, "a": 1})
	k2, _ := call.CacheKey(query.Params{"a": 1, "b": 2})
	if k1 != k2 || k1 != "https://api.example.com/Op?a=1&b=2" {
		t.Errorf("CacheKey() = %q / %q", k1, k2)
	}

	u1, _ := call.QueryURL(query.Params{"a": 1})
	u2, _ := call.QueryURL(query.Params{"a": 1})
	if u1 == u2 {
		t.Error("QueryURL() should differ between calls")
	}

	if _, err := call.QueryURL(query.Params{"Style": "x"}); !bnerrors.IsValidation(err) {
		t.Errorf("QueryURL() error = %v, want validation error", err)
	}
}
