package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// The gateway uses it to keep responses fetched with different credentials
// apart when they share one backend.
//
// Example usage:
//
//	// Per-account keys for Amazon partner tags
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "tag:mytag-20:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ResponseKey generates a prefixed key for response caching.
func (k *ScopedKeyer) ResponseKey(provider, cacheKey string) string {
	return k.prefix + k.inner.ResponseKey(provider, cacheKey)
}
