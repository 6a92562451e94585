// Package session implements the Session, Event Bus, and Cache
// Coordinator: browser-page leases with bounded history, a closed
// event taxonomy, and cache-invalidation wiring .
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"rainbowbrowser/internal/action"
	"rainbowbrowser/internal/page"
)

const historyCapacity = 100

// Session is a lease of one browser page plus its history and
// workflow state; the engine keeps the session's caches. The engine's locator/verify/retry modules hold an id
// into the manager's registry rather than an owning pointer back to
// the session, avoiding the cyclic-reference shape flags.
type Session struct {
	mu sync.Mutex

	// pageMu serializes every browser round-trip made on this
	// session's Page: concurrent batch groups may be scheduled
	// together, but only one operation touches a given session's page
	// at a time.
	pageMu sync.Mutex

	ID        string
	Page      page.Page
	CreatedAt time.Time
	lastTouch time.Time

	history       []action.ActionResult
	workflowState map[string]any
}

// LockPage/UnlockPage bound one browser round-trip against this
// session's page. Callers running several actions concurrently (the
// concurrent controller's groups) still only ever have one in flight
// per session.
func (s *Session) LockPage()   { s.pageMu.Lock() }
func (s *Session) UnlockPage() { s.pageMu.Unlock() }

func newSession(p page.Page) *Session {
	now := time.Now()
	return &Session{
		ID:            uuid.NewString(),
		Page:          p,
		CreatedAt:     now,
		lastTouch:     now,
		workflowState: map[string]any{},
	}
}

// Touch updates last_activity; called by every session operation.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTouch = time.Now()
}

func (s *Session) idleSince() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastTouch)
}

// RecordResult appends to the bounded execution-history ring buffer,
// dropping the oldest entry once it holds historyCapacity results.
func (s *Session) RecordResult(r action.ActionResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, r)
	if len(s.history) > historyCapacity {
		s.history = s.history[len(s.history)-historyCapacity:]
	}
}

func (s *Session) History() []action.ActionResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]action.ActionResult, len(s.history))
	copy(out, s.history)
	return out
}

// SetWorkflowState / WorkflowState give callers a scratch map for
// cross-action state within a chain (e.g. a form wizard's step index).
func (s *Session) SetWorkflowState(key string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workflowState[key] = v
}

func (s *Session) WorkflowState(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.workflowState[key]
	return v, ok
}

// Stats is get_session_stats(session_id) payload.
type Stats struct {
	SuccessRate   float64
	CachedElements int
	LastActivity  time.Time
}

func (s *Session) Stats(cachedElements int) Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := Stats{LastActivity: s.lastTouch, CachedElements: cachedElements}
	if len(s.history) == 0 {
		return out
	}
	ok := 0
	for _, r := range s.history {
		if r.Success {
			ok++
		}
	}
	out.SuccessRate = float64(ok) / float64(len(s.history))
	return out
}
