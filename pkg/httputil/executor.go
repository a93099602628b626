package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	bnerrors "github.com/matzehuels/bottlenose/pkg/errors"
	"github.com/matzehuels/bottlenose/pkg/observability"
)

// MaxBodySize caps how much of a response body is read.
const MaxBodySize = 32 << 20

// Executor performs GET requests against provider endpoints.
// It is safe for concurrent use.
type Executor struct {
	client    *http.Client
	userAgent func() string
}

// NewExecutor returns an Executor sending requests through client.
// A nil client selects a fresh http.Client without a global timeout; the
// per-attempt timeout passed to Execute bounds each request instead.
func NewExecutor(client *http.Client) *Executor {
	if client == nil {
		client = &http.Client{}
	}
	return &Executor{client: client, userAgent: RandomDesktopUserAgent}
}

// SetUserAgent replaces the User-Agent source. Used by tests and by callers
// that must present a fixed identity.
func (e *Executor) SetUserAgent(fn func() string) {
	if fn != nil {
		e.userAgent = fn
	}
}

// Execute fetches rawURL, retrying failed attempts as described by [Retry].
// Each attempt is bounded by timeout when timeout is positive. Only the
// transfer is retried: the body is gzip-decoded once the loop has a
// response, and a decode failure is returned to the caller directly.
func (e *Executor) Execute(ctx context.Context, rawURL string, timeout time.Duration, maxRetries int, retry RetryFunc) ([]byte, error) {
	var (
		raw    []byte
		header http.Header
	)
	err := Retry(ctx, maxRetries, retry, func(attempt int) error {
		b, h, err := e.fetch(ctx, rawURL, timeout, attempt)
		if err != nil {
			return err
		}
		raw, header = b, h
		return nil
	})
	if err != nil {
		return nil, err
	}
	return Decode(header, raw)
}

// fetch performs a single attempt and returns the undecoded body. Transfer
// failures are *TransportError; an oversized body is a permanent
// RESPONSE_TOO_LARGE error.
func (e *Executor) fetch(ctx context.Context, rawURL string, timeout time.Duration, attempt int) ([]byte, http.Header, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, nil, &TransportError{URL: rawURL, Attempt: attempt, Err: err}
	}
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("User-Agent", e.userAgent())

	host, path := hostPath(req.URL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, http.MethodGet, host, path)
	start := time.Now()

	resp, err := e.client.Do(req)
	if err != nil {
		hooks.OnError(ctx, http.MethodGet, host, path, err)
		return nil, nil, &TransportError{URL: rawURL, Attempt: attempt, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		hooks.OnError(ctx, http.MethodGet, host, path, err)
		return nil, nil, &TransportError{URL: rawURL, Attempt: attempt, Err: err}
	}
	hooks.OnResponse(ctx, http.MethodGet, host, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, &TransportError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Attempt:    attempt,
			RetryAfter: retryAfter(resp),
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}
	if len(raw) > MaxBodySize {
		return nil, nil, Permanent(errBodyTooLarge(host + path))
	}
	return raw, resp.Header, nil
}

func errBodyTooLarge(target string) error {
	return bnerrors.New(bnerrors.ErrCodeBodyTooLarge, "response from %s exceeds %d bytes", target, MaxBodySize)
}

func hostPath(u *url.URL) (string, string) {
	if u == nil {
		return "", ""
	}
	return u.Host, u.Path
}
