// Package pagefake provides an in-memory Page/Element double so the
// core's locator/executor/verify/retry/concurrency packages can be unit
// tested without a real browser. Page is treated as an opaque capability
// interface.
package pagefake

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"rainbowbrowser/internal/page"
)

// Node is a minimal mutable DOM node used to drive fake pages in tests.
type Node struct {
	mu       sync.Mutex
	Tag      string
	Attrs    map[string]string
	TextVal  string
	X, Y, W, H float64
	VisibleFl bool
	EnabledFl bool
	ValueFl  string
	ReadOnly bool
	Disabled bool
}

func NewNode(tag string) *Node {
	return &Node{Tag: tag, Attrs: map[string]string{}, VisibleFl: true, EnabledFl: true, W: 100, H: 20}
}

type value struct {
	s string
	b bool
	f float64
	m map[string]string
	n bool
}

func (v value) String() string            { return v.s }
func (v value) Bool() bool                 { return v.b }
func (v value) Float64() float64           { return v.f }
func (v value) Map() map[string]string     { return v.m }
func (v value) Nil() bool                  { return v.n }

// Element is the fake Element implementation.
type Element struct {
	node     *Node
	marker   string
	onClick  func()
}

func (e *Element) Marker() string { return e.marker }

func (e *Element) Click(ctx context.Context) error {
	e.node.mu.Lock()
	defer e.node.mu.Unlock()
	if e.node.Disabled {
		return fmt.Errorf("element not interactable: disabled")
	}
	if e.onClick != nil {
		e.onClick()
	}
	return nil
}

func (e *Element) Hover(ctx context.Context) error { return nil }
func (e *Element) Focus(ctx context.Context) error { return nil }

func (e *Element) Clear(ctx context.Context) error {
	e.node.mu.Lock()
	defer e.node.mu.Unlock()
	if e.node.ReadOnly || e.node.Disabled {
		return fmt.Errorf("element not interactable")
	}
	e.node.ValueFl = ""
	return nil
}

func (e *Element) Type(ctx context.Context, text string) error {
	e.node.mu.Lock()
	defer e.node.mu.Unlock()
	if e.node.ReadOnly || e.node.Disabled {
		return fmt.Errorf("element not interactable")
	}
	e.node.ValueFl += text
	return nil
}

func (e *Element) PressKey(ctx context.Context, key string) error { return nil }

func (e *Element) TagName(ctx context.Context) (string, error) {
	return e.node.Tag, nil
}

// Eval recognizes the executor's snapshot script (by the keys it
// expects back) and returns a map modeling what a real DOM round trip
// would: the node's tag, attributes (flattened to attr:<name>), live
// value/text, bounding box, and visibility/enabled flags. Any other
// script (context-menu dispatch, upload change-event, scroll, submit)
// falls back to the generic canned response the callers that invoke it
// only check Bool()/String() on.
func (e *Element) Eval(ctx context.Context, script string, args ...any) (page.Value, error) {
	e.node.mu.Lock()
	defer e.node.mu.Unlock()
	if strings.Contains(script, "hasValue") && strings.Contains(script, "getBoundingClientRect") {
		return e.snapshotValueLocked(), nil
	}
	return value{s: e.node.ValueFl, m: map[string]string{"value": e.node.ValueFl}}, nil
}

// snapshotValueLocked builds the flattened map snapshot.go's
// captureSnapshot parses. Caller must hold e.node.mu.
func (e *Element) snapshotValueLocked() value {
	n := e.node
	hasValue := "0"
	switch strings.ToUpper(n.Tag) {
	case "INPUT", "TEXTAREA", "SELECT":
		hasValue = "1"
	}
	m := map[string]string{
		"tag":      n.Tag,
		"text":     n.TextVal,
		"value":    n.ValueFl,
		"hasValue": hasValue,
		"x":        fmt.Sprintf("%g", n.X),
		"y":        fmt.Sprintf("%g", n.Y),
		"width":    fmt.Sprintf("%g", n.W),
		"height":   fmt.Sprintf("%g", n.H),
		"visible":  boolDigit(n.VisibleFl),
		"enabled":  boolDigit(n.EnabledFl && !n.Disabled),
	}
	for k, v := range n.Attrs {
		m["attr:"+k] = v
	}
	return value{m: m}
}

func boolDigit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Page is the fake Page implementation: a flat registry of selector ->
// Node, plus simple history tracking.
type Page struct {
	mu          sync.Mutex
	Nodes       map[string]*Node // selector -> node
	CurrentURL  string
	History     []string
	LoadTimeMs  float64
	navCount    int
	markerSeq   int
}

func New() *Page {
	return &Page{Nodes: map[string]*Node{}, LoadTimeMs: 100}
}

// Set registers a node under a CSS-selector-like key.
func (p *Page) Set(selector string, n *Node) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Nodes[selector] = n
}

// Remove deregisters a node, simulating it being removed from the live
// DOM tree (a resolved Element handle can outlive this, matching a
// stale reference to a detached real DOM node).
func (p *Page) Remove(selector string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.Nodes, selector)
}

func (p *Page) Goto(ctx context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.CurrentURL = url
	p.History = append(p.History, url)
	p.navCount++
	return nil
}

func (p *Page) Reload(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.navCount++
	return nil
}

func (p *Page) GoBack(ctx context.Context) error    { return p.Goto(ctx, p.CurrentURL) }
func (p *Page) GoForward(ctx context.Context) error { return p.Goto(ctx, p.CurrentURL) }

func (p *Page) URL(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.CurrentURL, nil
}

// Content renders the registered nodes (with their stamped
// data-rainbow-id markers) as a minimal HTML document, so checks that
// inspect the page's content() snapshot (the StateChange verifier, the
// locator's TextContent/FuzzyMatch strategies) have something real to
// parse without a browser.
func (p *Page) Content(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for _, n := range p.Nodes {
		n.mu.Lock()
		tag := n.Tag
		if tag == "" {
			tag = "div"
		}
		sb.WriteString("<" + tag)
		for k, v := range n.Attrs {
			sb.WriteString(fmt.Sprintf(` %s="%s"`, k, v))
		}
		sb.WriteString(">")
		sb.WriteString(n.TextVal)
		sb.WriteString("</" + tag + ">")
		n.mu.Unlock()
	}
	sb.WriteString("</body></html>")
	return sb.String(), nil
}

// FindElement stamps the node with a data-rainbow-id marker the first
// time it's resolved (matching the real rod adapter's WrapElement,
// which reuses an existing stamp rather than re-marking on every
// lookup) and reuses it on subsequent lookups of the same node.
func (p *Page) FindElement(ctx context.Context, selector string) (page.Element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n, ok := p.Nodes[selector]
	if !ok {
		return nil, fmt.Errorf("element not found: no such element matching %q", selector)
	}
	n.mu.Lock()
	marker, stamped := n.Attrs["data-rainbow-id"]
	if !stamped {
		p.markerSeq++
		marker = fmt.Sprintf("fake-%d", p.markerSeq)
		n.Attrs["data-rainbow-id"] = marker
	}
	n.mu.Unlock()
	return &Element{node: n, marker: marker}, nil
}

func (p *Page) FindElements(ctx context.Context, selector string) ([]page.Element, error) {
	el, err := p.FindElement(ctx, selector)
	if err != nil {
		return nil, err
	}
	return []page.Element{el}, nil
}

func (p *Page) Evaluate(ctx context.Context, script string, args ...any) (page.Value, error) {
	if strings.Contains(script, "elementFromPoint") {
		return value{b: false}, nil
	}
	return value{n: true}, nil
}

func (p *Page) Screenshot(ctx context.Context, path string, fullPage bool) error {
	return nil
}

func (p *Page) ElementFromPoint(ctx context.Context, x, y float64) (page.Element, error) {
	return nil, fmt.Errorf("element not found: no element at point")
}

func (p *Page) LastNavigationTimingMs(ctx context.Context) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.LoadTimeMs, nil
}
