package cache

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
)

type entry struct {
	data      json.RawMessage
	timestamp time.Time
	ttl       time.Duration
}

// Cache is an in-memory TTL cache for upstream responses. Values are
// stored as JSON so callers get their own copy back, never a shared
// pointer into the cache.
type Cache struct {
	entries map[string]entry
	mu      sync.RWMutex
}

func New() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

// Get unmarshals the cached value for key into target. Returns false when
// the key is absent or expired.
func (c *Cache) Get(key string, target interface{}) (bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return false, nil
	}

	if e.ttl > 0 && time.Since(e.timestamp) > e.ttl {
		c.mu.Lock()
		// Re-check under the write lock before deleting.
		if cur, exists := c.entries[key]; exists && cur.ttl > 0 && time.Since(cur.timestamp) > cur.ttl {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return false, nil
	}

	if err := json.Unmarshal(e.data, target); err != nil {
		return false, fmt.Errorf("unmarshal cache entry: %w", err)
	}
	return true, nil
}

// Put stores value under key for ttl. A ttl of 0 never expires.
func (c *Cache) Put(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}

	c.mu.Lock()
	c.entries[key] = entry{data: data, timestamp: time.Now(), ttl: ttl}
	c.mu.Unlock()
	return nil
}

// Remove deletes a specific cache entry.
func (c *Cache) Remove(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear removes all cache entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Len returns the number of entries currently held, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// BuildKey creates semantic cache keys.
func BuildKey(parts ...string) string {
	return strings.Join(parts, "|")
}

// SearchKey is the key for one catalog search page.
func SearchKey(keyword string, priceTo int) string {
	return BuildKey("search", keyword, fmt.Sprintf("%d", priceTo))
}
