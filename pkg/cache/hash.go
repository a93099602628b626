package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Keyer turns a provider's URL-shaped cache key into a storage key.
type Keyer interface {
	ResponseKey(provider, cacheKey string) string
}

// DefaultKeyer produces keys of the form "resp:<provider>:<sha256(cacheKey)>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ResponseKey implements Keyer.
func (DefaultKeyer) ResponseKey(provider, cacheKey string) string {
	return "resp:" + provider + ":" + Hash([]byte(cacheKey))
}

// ResponseKey is shorthand for DefaultKeyer.ResponseKey.
func ResponseKey(provider, cacheKey string) string {
	return DefaultKeyer{}.ResponseKey(provider, cacheKey)
}
