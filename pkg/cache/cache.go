// Package cache provides storage backends for API responses.
//
// The dispatcher in package integrations only knows a pair of read/write
// hooks. Any [Cache] can be turned into those hooks with
// integrations.WithCache, so the backend is chosen by the host application:
//
//   - [FileCache]: JSON entries on local disk, used by the CLI
//   - [MemoryCache]: sharded in-process maps
//   - [BadgerCache]: embedded Badger key-value store
//   - [RedisCache]: shared Redis instance, for gateways
//   - [MongoCache]: MongoDB collection with a TTL index
//   - [NullCache]: never stores anything
//
// Keys are opaque strings. [ResponseKey] derives fixed-length keys from a
// provider name and its URL-shaped cache key.
package cache

import (
	"context"
	"time"
)

// Cache stores raw response bodies by key.
//
// Get reports a miss with ok=false and a nil error. A stored empty body is a
// hit. A ttl of zero or less means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}
