package verify

import (
	"fmt"
	"sync"
	"time"

	"rainbowbrowser/internal/action"
)

type cacheKey struct {
	actionID string
	kind     action.Kind
}

func (k cacheKey) String() string { return fmt.Sprintf("%s:%d", k.actionID, k.kind) }

type cacheEntry struct {
	result   action.VerificationResult
	lastSeen time.Time
}

const (
	verifyCacheTTL = 10 * time.Second
	verifyCacheCap = 100
)

// Cache is the verification result cache: keyed by (action_id,
// action_kind), 10s TTL, evicting the oldest entries once the count
// exceeds verifyCacheCap, which trims it back down to the cap.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey]cacheEntry
}

func NewCache() *Cache {
	return &Cache{entries: map[cacheKey]cacheEntry{}}
}

func (c *Cache) get(k cacheKey) (action.VerificationResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[k]
	if !ok {
		return action.VerificationResult{}, false
	}
	if time.Since(e.lastSeen) > verifyCacheTTL {
		delete(c.entries, k)
		return action.VerificationResult{}, false
	}
	return e.result, true
}

func (c *Cache) put(k cacheKey, result action.VerificationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[k] = cacheEntry{result: result, lastSeen: time.Now()}
	c.evictOldestPastCap()
}

// evictOldestPastCap drops the oldest (size-cap) entries once the cache
// grows past verifyCacheCap, leaving exactly verifyCacheCap entries.
func (c *Cache) evictOldestPastCap() {
	over := len(c.entries) - verifyCacheCap
	if over <= 0 {
		return
	}
	type aged struct {
		key  cacheKey
		seen time.Time
	}
	all := make([]aged, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, aged{k, e.lastSeen})
	}
	for i := 0; i < over; i++ {
		oldestIdx := 0
		for j := 1; j < len(all); j++ {
			if all[j].seen.Before(all[oldestIdx].seen) {
				oldestIdx = j
			}
		}
		delete(c.entries, all[oldestIdx].key)
		all = append(all[:oldestIdx], all[oldestIdx+1:]...)
	}
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[cacheKey]cacheEntry{}
}
