package engine

import (
	"sync"

	"go.uber.org/zap"

	"rainbowbrowser/internal/locator"
	"rainbowbrowser/internal/page"
	"rainbowbrowser/internal/session"
	"rainbowbrowser/internal/verify"
)

// perception bundles the per-session Locator/Verifier pair plus the
// element-ref registry and cache coordinator goroutine that keep this
// one session's caches isolated from every other session's — no
// element handle is ever shared across sessions.
type perception struct {
	locator     *locator.Locator
	verifier    *verify.Verifier
	coordinator *session.CacheCoordinator

	mu          sync.Mutex
	elementRefs map[string]page.Element // originating action id -> resolved handle
}

func newPerception(bus *session.Bus, sessionID string, toolResults *session.ToolResultCache, log *zap.SugaredLogger) *perception {
	loc := locator.New(log)
	ver := verify.New(log)
	coord := session.NewCacheCoordinator(bus, sessionID, loc, ver, toolResults)
	go coord.Run()
	return &perception{
		locator:     loc,
		verifier:    ver,
		coordinator: coord,
		elementRefs: map[string]page.Element{},
	}
}

func (p *perception) rememberElement(actionID string, el page.Element) {
	if el == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.elementRefs[actionID] = el
}

func (p *perception) elementByRef(actionID string) (page.Element, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	el, ok := p.elementRefs[actionID]
	return el, ok
}

func (p *perception) close() {
	p.coordinator.Stop()
}

// cachedElementCount reports the live locator-cache size, for the
// session stats' "cached_elements" field.
func (p *perception) cachedElementCount() int {
	return p.locator.CacheLen()
}
