// Package verify implements the Verification Engine: a catalog of
// DOM-inspecting checks run after an action, aggregated into one
// confidence-scored result and cached.
package verify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"rainbowbrowser/internal/action"
	"rainbowbrowser/internal/page"
)

// Verifier decides whether an action succeeded against the live DOM.
// It never mutates it.
type Verifier struct {
	cache *Cache
	log   *zap.SugaredLogger
}

func New(log *zap.SugaredLogger) *Verifier {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Verifier{cache: NewCache(), log: log}
}

func (v *Verifier) Invalidate() { v.cache.Invalidate() }

// Verify runs every applicable verifier for a, caching the aggregate
// result per (action id, kind) for the cache's 10s TTL.
func (v *Verifier) Verify(ctx context.Context, p page.Page, a action.Action, el page.Element, pre, post *action.ElementInfo) action.VerificationResult {
	key := cacheKey{actionID: a.ID, kind: a.ActionKind.Kind}
	if cached, ok := v.cache.get(key); ok {
		return cached
	}

	start := time.Now()
	var checks []action.VerificationCheck
	for _, vf := range catalog() {
		if !vf.canVerify(a.ActionKind.Kind) {
			continue
		}
		checks = append(checks, vf.run(ctx, p, a, el, pre, post))
	}

	result := aggregate(checks, pre, post, time.Since(start))
	v.cache.put(key, result)
	return result
}

func aggregate(checks []action.VerificationCheck, pre, post *action.ElementInfo, elapsed time.Duration) action.VerificationResult {
	if len(checks) == 0 {
		return action.VerificationResult{Success: true, Confidence: 1, Duration: elapsed, PreState: pre, PostState: post}
	}
	allPassed := true
	var sum float64
	for _, c := range checks {
		if !c.Passed {
			allPassed = false
		}
		sum += c.Confidence
	}
	result := action.VerificationResult{
		Success:    allPassed,
		Confidence: sum / float64(len(checks)),
		Duration:   elapsed,
		Checks:     checks,
		PreState:   pre,
		PostState:  post,
	}
	if !allPassed {
		result.Error = ErrVerificationFailed.Error()
	}
	return result
}
