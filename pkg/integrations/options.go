package integrations

import (
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bottlenose/pkg/cache"
	"github.com/matzehuels/bottlenose/pkg/ratelimit"
)

// Defaults applied by NewClient.
const (
	DefaultTimeout    = 10 * time.Second
	DefaultMaxRetries = 5
)

type config struct {
	timeout      time.Duration
	maxQPS       float64
	maxRetries   int
	cacheRead    CacheReader
	cacheWrite   CacheWriter
	store        cache.Cache
	storeTTL     time.Duration
	keyer        cache.Keyer
	errorHandler ErrorHandler
	logger       *log.Logger
	httpClient   *http.Client
	limiter      *ratelimit.Limiter
}

func defaultConfig() config {
	return config{
		timeout:    DefaultTimeout,
		maxRetries: DefaultMaxRetries,
	}
}

// Option configures a Client.
type Option func(*config)

// WithTimeout bounds each request attempt. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

// WithMaxQPS limits executed requests to qps per second across every Call
// derived from the client. Zero or less disables throttling.
func WithMaxQPS(qps float64) Option {
	return func(c *config) { c.maxQPS = qps }
}

// WithMaxRetries sets how many times a failed request may be repeated when
// the error handler agrees.
func WithMaxRetries(n int) Option {
	return func(c *config) {
		if n < 0 {
			n = 0
		}
		c.maxRetries = n
	}
}

// WithCacheReader installs the cache lookup hook.
func WithCacheReader(fn CacheReader) Option {
	return func(c *config) { c.cacheRead = fn }
}

// WithCacheWriter installs the cache store hook.
func WithCacheWriter(fn CacheWriter) Option {
	return func(c *config) { c.cacheWrite = fn }
}

// WithCache installs both cache hooks backed by store. Keys are derived with
// the client's keyer (see WithCacheKeyer). Hooks set explicitly with
// WithCacheReader or WithCacheWriter take precedence.
func WithCache(store cache.Cache, ttl time.Duration) Option {
	return func(c *config) {
		c.store = store
		c.storeTTL = ttl
	}
}

// WithCacheKeyer overrides how WithCache maps cache keys to storage keys.
func WithCacheKeyer(k cache.Keyer) Option {
	return func(c *config) { c.keyer = k }
}

// WithErrorHandler installs the retry policy. Without one, the first failed
// attempt is returned to the caller.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *config) { c.errorHandler = h }
}

// WithLogger sets the logger used for debug output. The default discards.
func WithLogger(l *log.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) { c.httpClient = hc }
}

// WithLimiter shares an existing limiter instead of creating one from
// WithMaxQPS. Clients built with the same limiter are throttled together.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(c *config) { c.limiter = l }
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
