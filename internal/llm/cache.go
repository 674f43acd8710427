package llm

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// DefaultCacheTTL is how long a memoized oracle response stays fresh.
const DefaultCacheTTL = 30 * time.Minute

type cacheEntry struct {
	data      string
	createdAt time.Time
	expiresAt time.Time
}

// Cache memoizes oracle responses keyed by a hash of stage plus serialized
// inputs. Eviction is lazy: an expired entry is removed the next time it is
// looked up. The map is mutex-guarded so the cache may be shared across
// goroutines.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time // override in tests
}

// NewCache creates a cache with the given TTL; ttl <= 0 uses the default.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Key derives a stable cache key from a stage name and its inputs.
func Key(stage string, inputs ...string) string {
	h := sha256.New()
	h.Write([]byte(stage))
	for _, in := range inputs {
		h.Write([]byte{0})
		h.Write([]byte(in))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached value for key if present and fresh. An expired
// entry is removed before reporting a miss.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}

	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; another goroutine may have
		// refreshed the entry.
		if cur, ok := c.entries[key]; ok && c.now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return "", false
	}

	return entry.data, true
}

// Put stores a value under key with the cache's TTL.
func (c *Cache) Put(key, data string) {
	now := c.now()
	c.mu.Lock()
	c.entries[key] = cacheEntry{data: data, createdAt: now, expiresAt: now.Add(c.ttl)}
	c.mu.Unlock()
}

// Purge drops every entry. Used by tests and request-scoped lifecycles.
func (c *Cache) Purge() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Len returns the number of entries currently held, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
