package locator

import (
	"sync"
	"time"
)

// cacheEntry is one locator cache row: fingerprint ->
// (element marker, tag, bounding box, last_seen).
type cacheEntry struct {
	marker   string
	tag      string
	x, y, w, h float64
	lastSeen time.Time
}

// Cache is a per-Locator-instance TTL cache keyed by Target fingerprint.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

const defaultTTL = 5 * time.Second

func NewCache() *Cache {
	return &Cache{ttl: defaultTTL, entries: map[string]cacheEntry{}}
}

func (c *Cache) get(fingerprint string) (cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[fingerprint]
	if !ok {
		return cacheEntry{}, false
	}
	if time.Since(e.lastSeen) > c.ttl {
		delete(c.entries, fingerprint)
		return cacheEntry{}, false
	}
	return e, true
}

func (c *Cache) put(fingerprint string, e cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e.lastSeen = time.Now()
	c.entries[fingerprint] = e
}

// Invalidate drops every cached entry, used when the session observes
// a navigation event.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]cacheEntry{}
}

// Len reports the number of stored entries, including expired ones
// that no lookup has removed yet.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
