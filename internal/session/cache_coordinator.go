package session

import (
	"strings"
	"sync"
)

// Invalidator is satisfied by locator.Cache and verify.Cache: wipe
// everything on a broad invalidation trigger.
type Invalidator interface {
	Invalidate()
}

// ToolResultCache is a generic string-keyed cache partition for
// higher-level tool results (extract_*, analyze_*, element_*, page_*
// lookups) that the cache coordinator can invalidate selectively by
// key predicate, per "selective invalidation is by a
// caller-supplied predicate" rule.
type ToolResultCache struct {
	mu      sync.Mutex
	entries map[string]any
}

func NewToolResultCache() *ToolResultCache {
	return &ToolResultCache{entries: map[string]any{}}
}

func (c *ToolResultCache) Put(key string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = v
}

func (c *ToolResultCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *ToolResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// InvalidateMatching drops every entry whose key satisfies predicate.
// A "*" wildcard predicate clears the entire partition.
func (c *ToolResultCache) InvalidateMatching(predicate func(key string) bool) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var removed []string
	for k := range c.entries {
		if predicate(k) {
			removed = append(removed, k)
			delete(c.entries, k)
		}
	}
	return removed
}

func wildcard(string) bool { return true }

func substringPredicate(substrs ...string) func(string) bool {
	return func(key string) bool {
		for _, s := range substrs {
			if strings.Contains(key, s) {
				return true
			}
		}
		return false
	}
}

// CacheCoordinator subscribes to the event bus and applies spec
// invalidation rules: NavigationCompleted wipes the
// perception-element and screenshot caches outright and selectively
// clears tool-result keys containing "element_"/"page_";
// PageContentChanged wipes perception-elements and selectively clears
// "extract_"/"analyze_" tool-result keys.
type CacheCoordinator struct {
	bus             *Bus
	sessionID       string
	perceptionCache Invalidator
	screenshotCache Invalidator
	toolResults     *ToolResultCache
	stop            chan struct{}
}

// NewCacheCoordinator builds a coordinator scoped to one session: it
// only reacts to events carrying that session's id, so one session's
// navigation never invalidates another session's caches.
func NewCacheCoordinator(bus *Bus, sessionID string, perceptionCache, screenshotCache Invalidator, toolResults *ToolResultCache) *CacheCoordinator {
	return &CacheCoordinator{
		bus:             bus,
		sessionID:       sessionID,
		perceptionCache: perceptionCache,
		screenshotCache: screenshotCache,
		toolResults:     toolResults,
		stop:            make(chan struct{}),
	}
}

// Run drains the bus's navigation/content-change/session-closed
// subscriptions until Stop is called. Intended to be launched in its
// own goroutine.
func (c *CacheCoordinator) Run() {
	navCh := c.bus.Subscribe(EventNavigationCompleted)
	contentCh := c.bus.Subscribe(EventPageContentChanged)
	closedCh := c.bus.Subscribe(EventSessionClosed)
	for {
		select {
		case <-c.stop:
			return
		case e := <-navCh:
			if e.SessionID == c.sessionID {
				c.onNavigationCompleted(e)
			}
		case e := <-contentCh:
			if e.SessionID == c.sessionID {
				c.onPageContentChanged(e)
			}
		case e := <-closedCh:
			if e.SessionID == c.sessionID {
				c.onSessionClosed(e)
			}
		}
	}
}

func (c *CacheCoordinator) Stop() { close(c.stop) }

func (c *CacheCoordinator) onNavigationCompleted(e Event) {
	if c.perceptionCache != nil {
		c.perceptionCache.Invalidate()
	}
	if c.screenshotCache != nil {
		c.screenshotCache.Invalidate()
	}
	keys := c.toolResults.InvalidateMatching(substringPredicate("element_", "page_"))
	c.bus.Emit(Event{Type: EventCacheInvalidated, SessionID: e.SessionID, CacheType: "perception-elements", Reason: "navigation", Keys: keys})
}

func (c *CacheCoordinator) onPageContentChanged(e Event) {
	if c.perceptionCache != nil {
		c.perceptionCache.Invalidate()
	}
	keys := c.toolResults.InvalidateMatching(substringPredicate("extract_", "analyze_"))
	c.bus.Emit(Event{Type: EventCacheInvalidated, SessionID: e.SessionID, CacheType: "perception-elements", Reason: "content_changed", Keys: keys})
}

// onSessionClosed applies the wildcard "*" rule: a closed session's
// tool-result partition is cleared outright rather than by substring,
// since nothing scoped to that session is worth keeping around.
func (c *CacheCoordinator) onSessionClosed(e Event) {
	if c.perceptionCache != nil {
		c.perceptionCache.Invalidate()
	}
	if c.screenshotCache != nil {
		c.screenshotCache.Invalidate()
	}
	keys := c.toolResults.InvalidateMatching(wildcard)
	c.bus.Emit(Event{Type: EventCacheInvalidated, SessionID: e.SessionID, CacheType: "all", Reason: "session_closed", Keys: keys})
}
