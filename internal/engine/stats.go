package engine

import (
	"fmt"

	"rainbowbrowser/internal/concurrency"
	"rainbowbrowser/internal/executor"
	"rainbowbrowser/internal/retry"
	"rainbowbrowser/internal/session"
)

// PerformanceStats returns the executor's per-kind complexity/latency
// counters.
func (e *Engine) PerformanceStats() executor.Stats { return e.executor.Monitor().Stats() }

// ConcurrencyStats returns the controller's batch/partitioning counters.
func (e *Engine) ConcurrencyStats() concurrency.Stats { return e.controller.Stats() }

// RetryStatistics returns the failure analyzer's EMA-smoothed attempt
// statistics.
func (e *Engine) RetryStatistics() retry.Stats { return e.retryer.Analyzer().Stats() }

// SessionStats returns one session's history/success-rate/cache stats.
func (e *Engine) SessionStats(sessionID string) (session.Stats, error) {
	s, ok := e.sessions.Get(sessionID)
	if !ok {
		return session.Stats{}, fmt.Errorf("ResourceError: unknown session %q", sessionID)
	}
	e.mu.Lock()
	p, ok := e.perceptions[sessionID]
	e.mu.Unlock()
	cached := 0
	if ok {
		cached = p.cachedElementCount()
	}
	return s.Stats(cached), nil
}

// EventBusStats returns the event bus's per-type subscriber/drop counts.
func (e *Engine) EventBusStats() session.BusStats { return e.sessions.Bus().Stats() }
