package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching web search responses.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// QueryKey generates a cache key from a search query.
func QueryKey(query string) string {
	hash := sha256.Sum256([]byte(query))
	return "veridex:v1:" + hex.EncodeToString(hash[:])
}
