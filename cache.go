package simpleorm

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Cache is the interface for caching fetched records. Users may
// implement it with their preferred backend (e.g. Redis, Memcached);
// MemoryCache is a ready-to-use in-process implementation.
//
// Cached entries are msgpack-encoded record sets keyed per table, so
// write operations can invalidate a whole table with DeletePrefix.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns nil, nil if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with an optional TTL.
	// If ttl is 0, the value does not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes all values with the given prefix.
	DeletePrefix(ctx context.Context, prefix string) error

	// Clear removes all values from the cache.
	Clear(ctx context.Context) error
}

// CacheKey identifies one cached statement result.
type CacheKey struct {
	Table     string
	Operation string
	Statement string
	Args      []any
}

// String returns the string representation of the cache key. The table
// leads so write-path invalidation can target a table prefix.
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%s:%s|%v", k.Table, k.Operation, k.Statement, k.Args)
}

// encodeRecords serializes records for cache storage.
func encodeRecords(recs []Record) ([]byte, error) {
	return msgpack.Marshal(recs)
}

// decodeRecords deserializes cached records. Numeric values come back
// as the widest msgpack representation, matching driver behavior of
// untyped scans.
func decodeRecords(data []byte) ([]Record, error) {
	var recs []Record
	if err := msgpack.Unmarshal(data, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

type memEntry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// MemoryCache is an in-process Cache with per-entry TTL. Safe for
// concurrent use.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memEntry
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memEntry)}
}

// Get retrieves a value, expiring it lazily.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, nil
	}
	return e.value, nil
}

// Set stores a value with the given TTL.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := memEntry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

// Delete removes a single entry.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// DeletePrefix removes every entry whose key has the given prefix.
func (c *MemoryCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
	return nil
}

// Clear removes all entries.
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]memEntry)
	c.mu.Unlock()
	return nil
}

var _ Cache = (*MemoryCache)(nil)
