// Package httputil issues the GET requests behind every bottlenose call.
//
// # Overview
//
// This package provides the request execution stage shared by all providers:
//
//   - [Executor]: one GET per attempt, with gzip negotiation and a
//     randomized desktop User-Agent
//   - [Retry]: a bounded retry loop driven by a caller supplied [RetryFunc]
//   - [Decode]: gzip decompression keyed on Content-Encoding
//   - [TransportError]: the error produced by a failed attempt
//
// # Attempts
//
// Every attempt sends Accept-Encoding: gzip. Go's transport only
// decompresses transparently when it chose the encoding, so [Executor]
// decodes the body itself, once, after the retry loop has a response.
// Network failures, per-attempt timeouts and non-2xx statuses all surface
// as [*TransportError], which carries the request URL. Decode failures and
// bodies over [MaxBodySize] are coded errors and are never retried.
//
// # Retry
//
// [Retry] has no built-in backoff. The [RetryFunc] decides both whether to
// try again and how long to wait first:
//
//	body, err := exec.Execute(ctx, url, 10*time.Second, 3,
//	    func(ctx context.Context, attempt int, err error) bool {
//	        time.Sleep(time.Second)
//	        return true
//	    })
//
// With a callback that always agrees and maxRetries of 3, the request is
// attempted exactly four times before the last error is returned.
package httputil
