package integrations

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/bottlenose/pkg/errors"
	"github.com/matzehuels/bottlenose/pkg/httputil"
	"github.com/matzehuels/bottlenose/pkg/observability"
	"github.com/matzehuels/bottlenose/pkg/query"
	"github.com/matzehuels/bottlenose/pkg/ratelimit"
)

// Parser turns a raw response body into a result.
type Parser[T any] func(body []byte) (T, error)

// Client is the root client for one provider. It owns the configuration and
// the rate limiter shared by every Call derived from it. A Client is safe
// for concurrent use.
type Client[T any] struct {
	provider Provider
	parse    Parser[T]
	cfg      config
	limiter  *ratelimit.Limiter
	executor *httputil.Executor
}

// NewClient creates a client for provider. parse is applied to every body,
// cached or fresh; it must not be nil.
func NewClient[T any](provider Provider, parse Parser[T], opts ...Option) (*Client[T], error) {
	if provider == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "provider is required")
	}
	if parse == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "parser is required")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = discardLogger()
	}
	if cfg.store != nil {
		read, write := CacheHooks(cfg.store, cfg.storeTTL, cfg.keyer, provider.Name())
		if cfg.cacheRead == nil {
			cfg.cacheRead = read
		}
		if cfg.cacheWrite == nil {
			cfg.cacheWrite = write
		}
	}

	limiter := cfg.limiter
	if limiter == nil {
		limiter = ratelimit.New(cfg.maxQPS)
	}

	return &Client[T]{
		provider: provider,
		parse:    parse,
		cfg:      cfg,
		limiter:  limiter,
		executor: httputil.NewExecutor(cfg.httpClient),
	}, nil
}

// NewRawClient creates a client that returns response bodies unparsed.
func NewRawClient(provider Provider, opts ...Option) (*Client[[]byte], error) {
	return NewClient(provider, RawBody, opts...)
}

// RawBody is the identity parser.
func RawBody(body []byte) ([]byte, error) { return body, nil }

// Provider returns the client's provider.
func (c *Client[T]) Provider() Provider { return c.provider }

// Limiter returns the rate limiter shared by the client's calls.
func (c *Client[T]) Limiter() *ratelimit.Limiter { return c.limiter }

// ForOperation returns a call bound to operation. The name is validated
// when the call is invoked.
func (c *Client[T]) ForOperation(operation string) *Call[T] {
	return &Call[T]{client: c, operation: operation}
}

// Call is a Client bound to one operation. Calls are immutable and cheap;
// all calls from one Client share its rate limiter.
type Call[T any] struct {
	client    *Client[T]
	operation string
}

// Operation returns the bound operation name.
func (c *Call[T]) Operation() string { return c.operation }

// CacheKey validates params and returns the cache key Invoke would use.
func (c *Call[T]) CacheKey(params query.Params) (string, error) {
	if err := c.validate(params); err != nil {
		return "", err
	}
	return c.client.provider.CacheKey(c.operation, params)
}

// QueryURL validates params and returns a request URL without sending it.
// For signed providers every call yields a fresh signature.
func (c *Call[T]) QueryURL(params query.Params) (string, error) {
	if err := c.validate(params); err != nil {
		return "", err
	}
	return c.client.provider.QueryURL(c.operation, params)
}

// Invoke runs the query and returns the parsed result.
//
// Validation failures are returned before any cache or network activity.
// Transport failures that exhaust the retry policy are returned unchanged as
// *httputil.TransportError. Cache hook errors are returned as they are.
func (c *Call[T]) Invoke(ctx context.Context, params query.Params) (result T, err error) {
	cl := c.client
	name := cl.provider.Name()
	id := uuid.NewString()
	logger := cl.cfg.logger.With("provider", name, "op", c.operation, "id", id[:8])

	start := time.Now()
	cached := false
	defer func() {
		observability.Call().OnInvokeComplete(ctx, name, c.operation, cached, time.Since(start), err)
	}()

	if err := c.validate(params); err != nil {
		return result, err
	}

	key, err := cl.provider.CacheKey(c.operation, params)
	if err != nil {
		return result, err
	}

	if cl.cfg.cacheRead != nil {
		body, ok, err := cl.cfg.cacheRead(ctx, key)
		if err != nil {
			return result, err
		}
		if ok {
			cached = true
			observability.Cache().OnCacheHit(ctx, name)
			logger.Debug("cache hit", "key", key, "bytes", len(body))
			return c.parse(body)
		}
		observability.Cache().OnCacheMiss(ctx, name)
	}

	wait, err := cl.limiter.Wait(ctx)
	if err != nil {
		return result, err
	}
	if wait > 0 {
		observability.Call().OnThrottle(ctx, name, wait)
		logger.Debug("throttled", "wait", wait)
	}

	requestURL, err := cl.provider.QueryURL(c.operation, params)
	if err != nil {
		return result, err
	}
	logger.Debug("request", "url", requestURL)

	body, err := cl.executor.Execute(ctx, requestURL, cl.cfg.timeout, cl.cfg.maxRetries,
		c.retryFunc(logger, RetryContext{
			RequestURL:   requestURL,
			CacheKey:     key,
			Provider:     name,
			Operation:    c.operation,
			InvocationID: id,
		}))
	if err != nil {
		logger.Debug("request failed", "err", err)
		return result, err
	}

	if cl.cfg.cacheWrite != nil {
		if err := cl.cfg.cacheWrite(ctx, key, body); err != nil {
			return result, err
		}
		observability.Cache().OnCacheSet(ctx, name, len(body))
	}

	return c.parse(body)
}

func (c *Call[T]) validate(params query.Params) error {
	if err := errors.ValidateOperation(c.operation); err != nil {
		return err
	}
	for key := range params {
		if err := errors.ValidateParamKey(key); err != nil {
			return err
		}
	}
	return c.client.provider.Validate(c.operation, params)
}

func (c *Call[T]) parse(body []byte) (T, error) {
	v, err := c.client.parse(body)
	if err != nil {
		var zero T
		if errors.GetCode(err) != "" {
			return zero, err
		}
		return zero, errors.Wrap(errors.ErrCodeParse, err, "parse %s response", c.client.provider.Name())
	}
	return v, nil
}

func (c *Call[T]) retryFunc(logger *log.Logger, base RetryContext) httputil.RetryFunc {
	handler := c.client.cfg.errorHandler
	if handler == nil {
		return nil
	}
	return func(ctx context.Context, attempt int, err error) bool {
		rc := base
		rc.Err = err
		rc.Attempt = attempt
		if !handler(ctx, rc) {
			return false
		}
		logger.Warn("retrying", "attempt", attempt, "err", err)
		observability.Call().OnRetry(ctx, rc.Provider, rc.Operation, attempt, err)
		return true
	}
}
