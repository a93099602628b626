// Package prometheus implements the observability hooks with Prometheus
// metrics.
//
//	m := prometheus.New(reg)
//	m.Install()
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package prometheus

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/bottlenose/pkg/errors"
	"github.com/matzehuels/bottlenose/pkg/httputil"
	"github.com/matzehuels/bottlenose/pkg/observability"
)

const namespace = "bottlenose"

// Metrics collects call, cache and HTTP events. It is safe for concurrent
// use.
type Metrics struct {
	invocations      *prometheus.CounterVec
	invokeDuration   *prometheus.HistogramVec
	throttleDuration *prometheus.HistogramVec
	retries          *prometheus.CounterVec

	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
	cacheBytes  *prometheus.CounterVec

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestErrors   *prometheus.CounterVec
}

// New registers the collectors on reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		invocations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invocations_total",
			Help:      "Completed invocations by provider, operation, source and result code.",
		}, []string{"provider", "operation", "source", "code"}),
		invokeDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "invocation_duration_seconds",
			Help:      "Wall time of invocations, including throttling and retries.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider", "source"}),
		throttleDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "throttle_wait_seconds",
			Help:      "Time spent waiting on the shared rate limiter.",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2, 5, 10},
		}, []string{"provider"}),
		retries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retries_total",
			Help:      "Retries approved by the error handler.",
		}, []string{"provider", "operation", "code"}),
		cacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Cache reader hits.",
		}, []string{"provider"}),
		cacheMisses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Cache reader misses.",
		}, []string{"provider"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes handed to the cache writer.",
		}, []string{"provider"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Upstream HTTP responses by host and status.",
		}, []string{"host", "status_code"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Upstream HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"host"}),
		requestErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_request_errors_total",
			Help:      "Upstream requests that failed without a response.",
		}, []string{"host"}),
	}
}

// Install registers m as the global call, cache and HTTP hooks.
func (m *Metrics) Install() {
	observability.SetCallHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// OnInvokeComplete implements observability.CallHooks.
func (m *Metrics) OnInvokeComplete(_ context.Context, provider, operation string, cached bool, d time.Duration, err error) {
	source := "network"
	if cached {
		source = "cache"
	}
	m.invocations.WithLabelValues(provider, operation, source, codeOf(err)).Inc()
	m.invokeDuration.WithLabelValues(provider, source).Observe(d.Seconds())
}

// OnThrottle implements observability.CallHooks.
func (m *Metrics) OnThrottle(_ context.Context, provider string, wait time.Duration) {
	m.throttleDuration.WithLabelValues(provider).Observe(wait.Seconds())
}

// OnRetry implements observability.CallHooks.
func (m *Metrics) OnRetry(_ context.Context, provider, operation string, _ int, err error) {
	m.retries.WithLabelValues(provider, operation, codeOf(err)).Inc()
}

// OnCacheHit implements observability.CacheHooks.
func (m *Metrics) OnCacheHit(_ context.Context, provider string) {
	m.cacheHits.WithLabelValues(provider).Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (m *Metrics) OnCacheMiss(_ context.Context, provider string) {
	m.cacheMisses.WithLabelValues(provider).Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (m *Metrics) OnCacheSet(_ context.Context, provider string, size int) {
	m.cacheBytes.WithLabelValues(provider).Add(float64(size))
}

// OnRequest implements observability.HTTPHooks.
func (m *Metrics) OnRequest(context.Context, string, string, string) {}

// OnResponse implements observability.HTTPHooks.
func (m *Metrics) OnResponse(_ context.Context, _, host, _ string, status int, d time.Duration) {
	m.requests.WithLabelValues(host, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(host).Observe(d.Seconds())
}

// OnError implements observability.HTTPHooks.
func (m *Metrics) OnError(_ context.Context, _, host, _ string, _ error) {
	m.requestErrors.WithLabelValues(host).Inc()
}

func codeOf(err error) string {
	if err == nil {
		return "OK"
	}
	if te, ok := httputil.AsTransportError(err); ok {
		return string(te.Code())
	}
	if code := errors.GetCode(err); code != "" {
		return string(code)
	}
	return string(errors.ErrCodeInternal)
}

var (
	_ observability.CallHooks  = (*Metrics)(nil)
	_ observability.CacheHooks = (*Metrics)(nil)
	_ observability.HTTPHooks  = (*Metrics)(nil)
)
