package integrations

import "github.com/matzehuels/bottlenose/pkg/query"

// Provider builds URLs for one remote API.
//
// CacheKey must return the same string for the same operation and
// parameters no matter when it is called. QueryURL may embed a fresh
// timestamp and signature and is never used as a cache key.
type Provider interface {
	// Name identifies the provider in logs, metrics and cache keys.
	Name() string

	// Validate rejects parameters the provider does not accept. It runs
	// before any cache lookup or network activity.
	Validate(operation string, params query.Params) error

	// QueryURL returns the URL to request.
	QueryURL(operation string, params query.Params) (string, error)

	// CacheKey returns a stable, URL-shaped key for the query.
	CacheKey(operation string, params query.Params) (string, error)
}
