package integrations

import (
	"context"
	"time"

	"github.com/matzehuels/bottlenose/pkg/cache"
)

// CacheReader looks up a cached body by cache key. ok=false is a miss; a hit
// may carry an empty body. A non-nil error aborts the invocation.
type CacheReader func(ctx context.Context, key string) (body []byte, ok bool, err error)

// CacheWriter stores a freshly fetched body under its cache key. A non-nil
// error is returned to the caller of Invoke.
type CacheWriter func(ctx context.Context, key string, body []byte) error

// CacheHooks adapts a cache backend into reader and writer hooks for one
// provider. A nil keyer selects cache.DefaultKeyer.
func CacheHooks(store cache.Cache, ttl time.Duration, keyer cache.Keyer, provider string) (CacheReader, CacheWriter) {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	read := func(ctx context.Context, key string) ([]byte, bool, error) {
		return store.Get(ctx, keyer.ResponseKey(provider, key))
	}
	write := func(ctx context.Context, key string, body []byte) error {
		return store.Set(ctx, keyer.ResponseKey(provider, key), body, ttl)
	}
	return read, write
}
