// Package locator implements the Element Locator: multi-strategy
// resolution from an abstract Target to a live element handle, with a
// TTL cache and intelligent fallback.
package locator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"rainbowbrowser/internal/action"
	"rainbowbrowser/internal/page"
)

// Locator resolves Targets against a Page, consulting its own cache
// before running the strategy ladder.
type Locator struct {
	cache *Cache
	log   *zap.SugaredLogger
}

func New(log *zap.SugaredLogger) *Locator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Locator{cache: NewCache(), log: log}
}

// Invalidate drops the locator's cache; called by the session/cache
// coordinator on navigation .
func (l *Locator) Invalidate() { l.cache.Invalidate() }

// CacheLen reports the locator cache's current entry count, for spec
// get_session_stats() "cached_elements" field.
func (l *Locator) CacheLen() int { return l.cache.Len() }

// Locate resolves a single element for Target, preferring a warm cache
// entry that still attaches.
func (l *Locator) Locate(ctx context.Context, p page.Page, t action.Target) (page.Element, error) {
	fp := Fingerprint(t)
	if entry, ok := l.cache.get(fp); ok {
		if el, err := p.FindElement(ctx, markerSelector(entry.marker)); err == nil {
			return el, nil
		}
		l.log.Debugw("locator cache hit failed to reattach", "fingerprint", fp)
	}

	el, strategyName, err := l.runLadder(ctx, p, t)
	if err != nil {
		el, strategyName, err = l.runIntelligentFallback(ctx, p, t)
		if err != nil {
			return nil, err
		}
	}

	l.stampAndCache(ctx, p, t, el, strategyName)
	return el, nil
}

// LocateAll resolves every element matching Target, for callers that
// need to disambiguate via BestOf themselves.
func (l *Locator) LocateAll(ctx context.Context, p page.Page, t action.Target) ([]page.Element, error) {
	if t.Kind != action.TargetSelector {
		el, err := l.Locate(ctx, p, t)
		if err != nil {
			return nil, err
		}
		return []page.Element{el}, nil
	}
	els, err := p.FindElements(ctx, t.Value)
	if err != nil || len(els) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrElementNotFound, err)
	}
	return els, nil
}

func (l *Locator) runLadder(ctx context.Context, p page.Page, t action.Target) (page.Element, string, error) {
	for _, s := range ladder() {
		if !s.canHandle(t) {
			continue
		}
		el, err := s.locate(ctx, p, t)
		if err == nil {
			return el, s.name, nil
		}
	}
	return nil, "", fmt.Errorf("%w: all strategies exhausted for target", ErrElementNotFound)
}

// runIntelligentFallback implements "if all strategies
// fail" escape hatch: broader attribute variants for Text targets,
// `:visible` and `:enabled` variants for Selector targets. No
// case-insensitive variant of a selector is tried.
func (l *Locator) runIntelligentFallback(ctx context.Context, p page.Page, t action.Target) (page.Element, string, error) {
	switch t.Kind {
	case action.TargetText:
		for _, attr := range []string{"aria-label", "title", "placeholder", "alt"} {
			sel := fmt.Sprintf(`[%s*="%s"]`, attr, t.Value)
			if el, err := p.FindElement(ctx, sel); err == nil {
				return el, "IntelligentFallback:" + attr, nil
			}
		}
	case action.TargetSelector:
		for _, variant := range selectorVariants(t.Value) {
			if el, err := p.FindElement(ctx, variant); err == nil {
				return el, "IntelligentFallback:variant", nil
			}
		}
	}
	return nil, "", fmt.Errorf("%w: intelligent fallback exhausted", ErrElementNotFound)
}

func selectorVariants(selector string) []string {
	return []string{
		selector + ":visible",
		selector + ":enabled",
	}
}

func (l *Locator) stampAndCache(ctx context.Context, p page.Page, t action.Target, el page.Element, strategyName string) {
	tag, _ := el.TagName(ctx)
	box := boundingBox(ctx, el)
	l.cache.put(Fingerprint(t), cacheEntry{
		marker: el.Marker(),
		tag:    tag,
		x:      box.X, y: box.Y, w: box.W, h: box.H,
	})
	l.log.Debugw("located element", "strategy", strategyName, "tag", tag)
}

type rect struct{ X, Y, W, H float64 }

func boundingBox(ctx context.Context, el page.Element) rect {
	v, err := el.Eval(ctx, `() => {
		const r = this.getBoundingClientRect();
		return { x: r.x, y: r.y, width: r.width, height: r.height };
	}`)
	if err != nil || v == nil {
		return rect{}
	}
	m := v.Map()
	return rect{X: parseFloatOr(m["x"], 0), Y: parseFloatOr(m["y"], 0), W: parseFloatOr(m["width"], 0), H: parseFloatOr(m["height"], 0)}
}

func parseFloatOr(s string, def float64) float64 {
	var f float64
	if _, err := fmt.Sscanf(s, "%g", &f); err != nil {
		return def
	}
	return f
}

// BestOf ranks candidates per scoring table and returns the
// winner: visibility 50, enabled 30, area in (100,100000) 10, y-position
// in (100,800) 10; ties favor the first-encountered candidate.
func BestOf(ctx context.Context, candidates []page.Element, infos []action.ElementInfo) page.Element {
	if len(candidates) == 0 {
		return nil
	}
	bestIdx := 0
	bestScore := -1.0
	for i, info := range infos {
		score := 0.0
		if info.Visible {
			score += 50
		}
		if info.Enabled {
			score += 30
		}
		area := info.W * info.H
		if area > 100 && area < 100000 {
			score += 10
		}
		if info.Y > 100 && info.Y < 800 {
			score += 10
		}
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx >= len(candidates) {
		return candidates[0]
	}
	return candidates[bestIdx]
}
