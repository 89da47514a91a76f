package cache

import (
	"strings"
	"sync"
	"time"
)

const DefaultTTL = 5 * time.Minute

type entry struct {
	value    interface{}
	storedAt time.Time
}

// Cache is a process-local key/value store with a fixed TTL. Expired
// entries are evicted lazily on access; there is no background sweeper.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached value for key, or (nil, false) when the key is
// absent or its entry has outlived the TTL. An expired entry is removed.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(item.storedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return item.value, true
}

// Set stores value under key. A concurrent Set on the same key wins by
// arrival order: last writer wins.
func (c *Cache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, storedAt: c.now()}
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// ClearByPattern removes every key containing pattern as a substring.
// This is plain substring matching, not glob or regexp.
func (c *Cache) ClearByPattern(pattern string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.Contains(key, pattern) {
			delete(c.entries, key)
		}
	}
}

type Stats struct {
	Size int      `json:"size"`
	Keys []string `json:"keys"`
}

func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	return Stats{Size: len(c.entries), Keys: keys}
}
