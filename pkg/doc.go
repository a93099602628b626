// Package pkg provides the core libraries for bottlenose, a client for
// rate-limited, cache-friendly HTTP APIs.
//
// # Overview
//
// A call flows through a fixed pipeline: validate the parameters, derive
// the cache key, consult the cache reader, wait on the shared rate limiter,
// build (and sign) the request URL, execute it with retries, store the
// body through the cache writer, and parse it.
//
// The pkg directory is organized into these areas:
//
//  1. [integrations] - The dispatcher (Client, Call) and the Amazon,
//     Goodreads and scraper providers
//  2. [query] and [signing] - Canonical query strings and HMAC-SHA256
//     request signatures
//  3. [httputil] - The request executor: gzip, user agents, retries,
//     transport errors
//  4. [ratelimit] - The per-client minimum-interval limiter
//  5. [cache] - Response cache backends (file, memory, badger, redis, mongo)
//  6. [errors] and [observability] - Coded errors and instrumentation hooks
//
// # Quick Start
//
//	p, _ := amazon.New(amazon.Config{Region: "US"})
//	store, _ := cache.NewFileCache("")
//	client, _ := integrations.NewRawClient(p,
//	    integrations.WithMaxQPS(1),
//	    integrations.WithCache(store, 24*time.Hour),
//	    integrations.WithErrorHandler(integrations.RetryTransient(
//	        integrations.RetryWithBackoff(integrations.DefaultBackOff))),
//	)
//	body, err := client.ForOperation("ItemLookup").Invoke(ctx, query.Params{
//	    "ItemId": "0679722769",
//	})
//
// [integrations]: https://pkg.go.dev/github.com/matzehuels/bottlenose/pkg/integrations
// [query]: https://pkg.go.dev/github.com/matzehuels/bottlenose/pkg/query
// [signing]: https://pkg.go.dev/github.com/matzehuels/bottlenose/pkg/signing
// [httputil]: https://pkg.go.dev/github.com/matzehuels/bottlenose/pkg/httputil
// [ratelimit]: https://pkg.go.dev/github.com/matzehuels/bottlenose/pkg/ratelimit
// [cache]: https://pkg.go.dev/github.com/matzehuels/bottlenose/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/bottlenose/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/bottlenose/pkg/observability
package pkg
