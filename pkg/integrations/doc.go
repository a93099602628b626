// Package integrations binds remote API providers to the shared request
// engine.
//
// # Overview
//
// A [Provider] knows how to turn an operation name and [query.Params] into
// two strings: the request URL (with any fresh timestamp and signature) and
// a stable cache key. Everything else is shared and lives here:
//
//   - [Client]: the root client holding configuration and the rate limiter
//   - [Call]: a client bound to one operation, created by [Client.ForOperation]
//   - [CacheReader] and [CacheWriter]: optional cache hooks
//   - [ErrorHandler]: optional retry policy
//
// Providers live in subpackages:
//
//   - [amazon]: Product Advertising API, HMAC-SHA256 signed
//   - [goodreads]: Goodreads API, API key in the query
//   - [scraper]: arbitrary URLs, unauthenticated
//
// # Invocation
//
// [Call.Invoke] always runs the same steps, in order:
//
//  1. Validate the operation and parameters (no I/O)
//  2. Derive the cache key
//  3. Consult the cache reader; a hit is parsed and returned immediately
//  4. Wait on the shared rate limiter
//  5. Build the request URL
//  6. Execute the GET, retrying as the error handler allows
//  7. Store the decoded body through the cache writer
//  8. Parse the body and return
//
// A cache hit skips rate limiting, network I/O and the cache writer.
//
// # Usage
//
//	p, err := amazon.New(amazon.Config{Region: "US"})
//	client, err := integrations.NewRawClient(p,
//	    integrations.WithMaxQPS(1),
//	    integrations.WithMaxRetries(3),
//	    integrations.WithErrorHandler(integrations.RetryTransient(
//	        integrations.RetryWithBackoff(integrations.DefaultBackOff))),
//	)
//	body, err := client.ForOperation("ItemLookup").Invoke(ctx, query.Params{"ItemId": "0679722769"})
//
// Every Call derived from one Client shares its rate limiter, so sequential
// operations on the same client are throttled together.
//
// [amazon]: github.com/matzehuels/bottlenose/pkg/integrations/amazon
// [goodreads]: github.com/matzehuels/bottlenose/pkg/integrations/goodreads
// [scraper]: github.com/matzehuels/bottlenose/pkg/integrations/scraper
package integrations
