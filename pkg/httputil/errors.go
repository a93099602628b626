package httputil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	bnerrors "github.com/matzehuels/bottlenose/pkg/errors"
)

// TransportError describes a failed request attempt: a network failure, a
// timeout, or a non-2xx response. It always carries the URL that was
// requested so callers can diagnose the failure.
//
// When retries are exhausted the executor returns the last TransportError
// as-is; use errors.As to inspect it.
type TransportError struct {
	URL        string        // Request URL, including any signature
	StatusCode int           // HTTP status, 0 if no response was received
	Attempt    int           // 1-based attempt number that produced the error
	RetryAfter time.Duration // Parsed Retry-After header, if any
	Err        error         // Underlying cause
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("GET %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the attempt ran out of time.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// Transient reports whether the failure is worth retrying: network errors,
// timeouts, 429 and 5xx responses.
func (e *TransportError) Transient() bool {
	switch {
	case e.StatusCode == 0:
		return !errors.Is(e.Err, context.Canceled)
	case e.StatusCode == http.StatusTooManyRequests:
		return true
	case e.StatusCode >= 500:
		return true
	}
	return false
}

// Code maps the failure onto the bottlenose error taxonomy.
func (e *TransportError) Code() bnerrors.Code {
	switch {
	case e.Timeout():
		return bnerrors.ErrCodeTimeout
	case e.StatusCode == http.StatusNotFound:
		return bnerrors.ErrCodeNotFound
	case e.StatusCode == http.StatusUnauthorized:
		return bnerrors.ErrCodeUnauthorized
	case e.StatusCode == http.StatusForbidden:
		return bnerrors.ErrCodeForbidden
	case e.StatusCode == http.StatusTooManyRequests:
		return bnerrors.ErrCodeRateLimited
	}
	return bnerrors.ErrCodeNetwork
}

// AsTransportError returns the TransportError in err's chain, if any.
func AsTransportError(err error) (*TransportError, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

func retryAfter(resp *http.Response) time.Duration {
	if resp == nil || resp.Header == nil {
		return 0
	}

	value := resp.Header.Get("Retry-After")
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if parsed, err := http.ParseTime(value); err == nil {
		if wait := time.Until(parsed); wait > 0 {
			return wait
		}
	}
	return 0
}
