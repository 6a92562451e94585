package locator

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"rainbowbrowser/internal/action"
	"rainbowbrowser/internal/page"
)

// strategy is one named algorithm in the fixed ladder. The set of
// strategies is closed and small, so a slice-of-structs models it
// fine without a trait-object-style interface hierarchy.
type strategy struct {
	name      string
	canHandle func(action.Target) bool
	locate    func(ctx context.Context, p page.Page, t action.Target) (page.Element, error)
}

// ladder is consulted in this fixed order; the first strategy that
// CanHandle and returns an element wins.
func ladder() []strategy {
	return []strategy{
		{"Selector", isKind(action.TargetSelector), locateSelector},
		{"XPath", isKind(action.TargetXPath), locateXPath},
		{"TextContent", isKind(action.TargetText), locateTextContent},
		{"Attribute", isAttributeTarget, locateAttribute},
		{"Semantic", isSemanticTarget, locateSemantic},
		{"Visual", isKind(action.TargetCoordinate), locateVisual},
		{"FuzzyMatch", isKind(action.TargetText), locateFuzzy},
	}
}

func isKind(k action.TargetKind) func(action.Target) bool {
	return func(t action.Target) bool { return t.Kind == k }
}

func isAttributeTarget(t action.Target) bool {
	switch t.Kind {
	case action.TargetID, action.TargetClass, action.TargetName,
		action.TargetPlaceholder, action.TargetValue, action.TargetRole:
		return true
	default:
		return false
	}
}

func isSemanticTarget(t action.Target) bool {
	return t.Kind == action.TargetText || t.Kind == action.TargetRole
}

func locateSelector(ctx context.Context, p page.Page, t action.Target) (page.Element, error) {
	return p.FindElement(ctx, t.Value)
}

func locateXPath(ctx context.Context, p page.Page, t action.Target) (page.Element, error) {
	marker := newMarker()
	res, err := p.Evaluate(ctx, `(xpath, marker) => {
		const r = document.evaluate(xpath, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null);
		const el = r.singleNodeValue;
		if (!el) return false;
		el.setAttribute('data-rainbow-id', marker);
		return true;
	}`, t.Value, marker)
	if err != nil || res == nil || !res.Bool() {
		return nil, fmt.Errorf("%w: xpath %q matched nothing", ErrElementNotFound, t.Value)
	}
	return p.FindElement(ctx, markerSelector(marker))
}

// locateTextContent walks visible text nodes, preferring an exact match
// over a substring match (step 3). Before paying for the script round
// trip, it checks the page's static content() snapshot for the needle
// as a fast-reject gate: if content() parses cleanly and the needle is
// nowhere in it, there's no live DOM text it could be hiding in either,
// so the expensive querySelectorAll walk is skipped entirely.
func locateTextContent(ctx context.Context, p page.Page, t action.Target) (page.Element, error) {
	if html, err := p.Content(ctx); err == nil && !htmlContainsText(html, t.Value) {
		return nil, fmt.Errorf("%w: no text node matching %q", ErrElementNotFound, t.Value)
	}
	marker := newMarker()
	res, err := p.Evaluate(ctx, `(needle, marker) => {
		const all = Array.from(document.querySelectorAll('body *'));
		let exact = null, contains = null;
		for (const el of all) {
			const text = (el.innerText || el.textContent || '').trim();
			if (!text) continue;
			if (text === needle && !exact) exact = el;
			else if (text.includes(needle) && !contains) contains = el;
		}
		const el = exact || contains;
		if (!el) return false;
		el.setAttribute('data-rainbow-id', marker);
		return true;
	}`, t.Value, marker)
	if err != nil || res == nil || !res.Bool() {
		return nil, fmt.Errorf("%w: no text node matching %q", ErrElementNotFound, t.Value)
	}
	return p.FindElement(ctx, markerSelector(marker))
}

func locateAttribute(ctx context.Context, p page.Page, t action.Target) (page.Element, error) {
	sel, ok := attributeSelector(t)
	if !ok {
		return nil, fmt.Errorf("%w: target kind not attribute-addressable", ErrElementNotFound)
	}
	return p.FindElement(ctx, sel)
}

func attributeSelector(t action.Target) (string, bool) {
	switch t.Kind {
	case action.TargetID:
		return fmt.Sprintf(`[id="%s"]`, t.Value), true
	case action.TargetClass:
		return fmt.Sprintf(`.%s`, t.Value), true
	case action.TargetName:
		return fmt.Sprintf(`[name="%s"]`, t.Value), true
	case action.TargetPlaceholder:
		return fmt.Sprintf(`[placeholder="%s"]`, t.Value), true
	case action.TargetValue:
		return fmt.Sprintf(`[value="%s"]`, t.Value), true
	case action.TargetRole:
		return fmt.Sprintf(`[role="%s"]`, t.Value), true
	default:
		return "", false
	}
}

// locateSemantic covers the aria/role fallbacks step 5 names
// explicitly for Text and Role targets.
func locateSemantic(ctx context.Context, p page.Page, t action.Target) (page.Element, error) {
	var candidates []string
	switch t.Kind {
	case action.TargetText:
		candidates = []string{
			fmt.Sprintf(`[aria-label="%s"]`, t.Value),
			fmt.Sprintf(`[aria-labelledby="%s"]`, t.Value),
		}
	case action.TargetRole:
		candidates = []string{
			fmt.Sprintf(`[role="%s"]`, t.Value),
			fmt.Sprintf(`[aria-role="%s"]`, t.Value),
		}
	default:
		return nil, fmt.Errorf("%w: target kind not semantic-addressable", ErrElementNotFound)
	}
	for _, sel := range candidates {
		if el, err := p.FindElement(ctx, sel); err == nil {
			return el, nil
		}
	}
	if t.Kind == action.TargetText {
		if el, err := textContainsTag(ctx, p, "button", t.Value); err == nil {
			return el, nil
		}
		if el, err := textContainsTag(ctx, p, "a", t.Value); err == nil {
			return el, nil
		}
	}
	return nil, fmt.Errorf("%w: no semantic match for %q", ErrElementNotFound, t.Value)
}

func textContainsTag(ctx context.Context, p page.Page, tag, needle string) (page.Element, error) {
	marker := newMarker()
	res, err := p.Evaluate(ctx, `(tag, needle, marker) => {
		const all = Array.from(document.getElementsByTagName(tag));
		const el = all.find(e => (e.innerText || '').includes(needle));
		if (!el) return false;
		el.setAttribute('data-rainbow-id', marker);
		return true;
	}`, tag, needle, marker)
	if err != nil || res == nil || !res.Bool() {
		return nil, ErrElementNotFound
	}
	return p.FindElement(ctx, markerSelector(marker))
}

func locateVisual(ctx context.Context, p page.Page, t action.Target) (page.Element, error) {
	return p.ElementFromPoint(ctx, t.X, t.Y)
}

// locateFuzzy is the last-resort string-similarity strategy (spec
// step 7): collect visible element texts and pick the best
// similarity match above a minimal threshold. It first consults the
// page's content() snapshot so a needle with no plausible match
// anywhere in the static DOM never pays for the candidate-collection
// round trip.
func locateFuzzy(ctx context.Context, p page.Page, t action.Target) (page.Element, error) {
	if html, err := p.Content(ctx); err == nil && htmlBestTextSimilarity(html, t.Value) < fuzzyThreshold {
		return nil, fmt.Errorf("%w: no plausible fuzzy candidate in page content", ErrElementNotFound)
	}

	cands, err := collectTextCandidates(ctx, p)
	if err != nil || len(cands) == 0 {
		return nil, fmt.Errorf("%w: no candidates for fuzzy match", ErrElementNotFound)
	}
	best := ""
	bestScore := 0.0
	for _, c := range cands {
		score := similarity(strings.ToLower(t.Value), strings.ToLower(c.text))
		if score > bestScore {
			bestScore = score
			best = c.marker
		}
	}
	if bestScore < fuzzyThreshold {
		return nil, fmt.Errorf("%w: best fuzzy score %.2f below threshold", ErrElementNotFound, bestScore)
	}
	return p.FindElement(ctx, markerSelector(best))
}

type textCandidate struct {
	marker string
	text   string
}

func collectTextCandidates(ctx context.Context, p page.Page) ([]textCandidate, error) {
	res, err := p.Evaluate(ctx, `() => {
		const all = Array.from(document.querySelectorAll('body *')).slice(0, 500);
		const out = [];
		for (const el of all) {
			const text = (el.innerText || '').trim();
			if (!text) continue;
			const marker = 'rb-fuzzy-' + out.length;
			el.setAttribute('data-rainbow-id', marker);
			out.push(marker + '\t' + text.slice(0, 80));
		}
		return out.join('\n');
	}`)
	if err != nil || res == nil {
		return nil, err
	}
	var cands []textCandidate
	for _, line := range strings.Split(res.String(), "\n") {
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			continue
		}
		cands = append(cands, textCandidate{marker: parts[0], text: parts[1]})
	}
	return cands, nil
}

// similarity is a simple Levenshtein-distance-derived ratio in [0,1].
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	if strings.Contains(b, a) || strings.Contains(a, b) {
		return 0.8
	}
	dist := levenshtein(a, b)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(dist)/float64(maxLen)
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			curr[j] = m
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

var markerCounter int64

func newMarker() string {
	n := atomic.AddInt64(&markerCounter, 1)
	return fmt.Sprintf("rb-loc-%d", n)
}

func markerSelector(marker string) string {
	return fmt.Sprintf(`[data-rainbow-id="%s"]`, marker)
}
