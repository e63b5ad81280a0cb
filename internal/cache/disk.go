package cache

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DiskCache persists entries as files under a directory, one file per
// key. Each file starts with an 8-byte big-endian unix-nano expiry
// followed by the raw payload. Expired entries are removed on read.
type DiskCache struct {
	dir string
	ttl time.Duration
}

// NewDiskCache creates a disk cache rooted at dir. ttl is the default
// lifetime applied when Set is called with a zero TTL.
func NewDiskCache(dir string, ttl time.Duration) *DiskCache {
	return &DiskCache{dir: dir, ttl: ttl}
}

// Get retrieves a value, reporting false for missing, corrupt, or
// expired entries.
func (c *DiskCache) Get(key string) ([]byte, bool) {
	raw, err := os.ReadFile(c.path(key))
	if err != nil || len(raw) < 8 {
		return nil, false
	}

	expiresAt := time.Unix(0, int64(binary.BigEndian.Uint64(raw[:8])))
	if time.Now().After(expiresAt) {
		_ = os.Remove(c.path(key))
		return nil, false
	}

	return raw[8:], true
}

// Set stores a value. A zero ttl falls back to the cache default.
func (c *DiskCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.ttl
	}

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	var buf bytes.Buffer
	var header [8]byte
	binary.BigEndian.PutUint64(header[:], uint64(time.Now().Add(ttl).UnixNano()))
	buf.Write(header[:])
	buf.Write(value)

	if err := os.WriteFile(c.path(key), buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	return nil
}

// Delete removes a single entry.
func (c *DiskCache) Delete(key string) error {
	return os.Remove(c.path(key))
}

// Clear removes the whole cache directory.
func (c *DiskCache) Clear() error {
	return os.RemoveAll(c.dir)
}

func (c *DiskCache) path(key string) string {
	return filepath.Join(c.dir, key+".cache")
}
