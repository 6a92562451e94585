package page

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
)

// rodValue adapts *proto.RuntimeRemoteObject/rod's gson.JSON result into
// the engine's Value interface.
type rodValue struct {
	raw *rod.EvalResult
}

func (v rodValue) String() string {
	if v.raw == nil {
		return ""
	}
	return v.raw.Value.String()
}

func (v rodValue) Bool() bool {
	if v.raw == nil {
		return false
	}
	return v.raw.Value.Bool()
}

func (v rodValue) Float64() float64 {
	if v.raw == nil {
		return 0
	}
	return v.raw.Value.Num()
}

func (v rodValue) Map() map[string]string {
	if v.raw == nil {
		return nil
	}
	out := map[string]string{}
	for k, val := range v.raw.Value.Map() {
		out[k] = val.String()
	}
	return out
}

func (v rodValue) Nil() bool {
	return v.raw == nil || v.raw.Value.Nil()
}

var markerSeq int64

// RodElement adapts *rod.Element to the Element interface, stamping it
// with a `data-rainbow-id` marker attribute the way the locator cache
// uses to verify a cached handle still attaches.
type RodElement struct {
	el     *rod.Element
	marker string
}

// WrapElement stamps el (if not already stamped) and wraps it.
func WrapElement(ctx context.Context, el *rod.Element) (*RodElement, error) {
	res, err := el.Context(ctx).Eval(`() => this.getAttribute('data-rainbow-id')`)
	if err == nil && res != nil && !res.Value.Nil() && res.Value.String() != "" {
		return &RodElement{el: el, marker: res.Value.String()}, nil
	}
	marker := fmt.Sprintf("rb-%d", atomic.AddInt64(&markerSeq, 1))
	if _, err := el.Context(ctx).Eval(fmt.Sprintf(`() => this.setAttribute('data-rainbow-id', %q)`, marker)); err != nil {
		return nil, err
	}
	return &RodElement{el: el, marker: marker}, nil
}

func (e *RodElement) Marker() string { return e.marker }

func (e *RodElement) Click(ctx context.Context) error {
	return e.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1)
}

func (e *RodElement) Hover(ctx context.Context) error {
	return e.el.Context(ctx).Hover()
}

func (e *RodElement) Focus(ctx context.Context) error {
	return e.el.Context(ctx).Focus()
}

func (e *RodElement) Clear(ctx context.Context) error {
	el := e.el.Context(ctx)
	if err := el.SelectAllText(); err != nil {
		return err
	}
	return el.Input("")
}

func (e *RodElement) Type(ctx context.Context, text string) error {
	return e.el.Context(ctx).Input(text)
}

func (e *RodElement) PressKey(ctx context.Context, key string) error {
	if k, ok := namedKeys[key]; ok {
		return e.el.Context(ctx).Type(k)
	}
	if len([]rune(key)) == 1 {
		return e.el.Context(ctx).Input(key)
	}
	return fmt.Errorf("unknown key: %s", key)
}

// namedKeys maps the small set of named keys the engine's KeyPress
// action is expected to carry to rod's input.Key constants.
var namedKeys = map[string]input.Key{
	"Enter":      input.Enter,
	"Tab":        input.Tab,
	"Escape":     input.Escape,
	"Backspace":  input.Backspace,
	"Delete":     input.Delete,
	"ArrowUp":    input.ArrowUp,
	"ArrowDown":  input.ArrowDown,
	"ArrowLeft":  input.ArrowLeft,
	"ArrowRight": input.ArrowRight,
	"Space":      input.Space,
}

func (e *RodElement) TagName(ctx context.Context) (string, error) {
	res, err := e.el.Context(ctx).Eval(`() => this.tagName.toLowerCase()`)
	if err != nil {
		return "", err
	}
	return res.Value.String(), nil
}

func (e *RodElement) Eval(ctx context.Context, script string, args ...any) (Value, error) {
	res, err := e.el.Context(ctx).Eval(script, args...)
	if err != nil {
		return nil, err
	}
	return rodValue{raw: res}, nil
}

// RodPage adapts *rod.Page to the Page interface.
type RodPage struct {
	p *rod.Page
}

func WrapPage(p *rod.Page) *RodPage { return &RodPage{p: p} }

func (p *RodPage) Goto(ctx context.Context, url string) error {
	return p.p.Context(ctx).Navigate(url)
}

func (p *RodPage) Reload(ctx context.Context) error {
	return p.p.Context(ctx).Reload()
}

func (p *RodPage) GoBack(ctx context.Context) error {
	return p.p.Context(ctx).NavigateBack()
}

func (p *RodPage) GoForward(ctx context.Context) error {
	return p.p.Context(ctx).NavigateForward()
}

func (p *RodPage) URL(ctx context.Context) (string, error) {
	info, err := p.p.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

func (p *RodPage) Content(ctx context.Context) (string, error) {
	return p.p.Context(ctx).HTML()
}

func (p *RodPage) FindElement(ctx context.Context, selector string) (Element, error) {
	el, err := p.p.Context(ctx).Element(selector)
	if err != nil {
		return nil, fmt.Errorf("element not found: %w", err)
	}
	return WrapElement(ctx, el)
}

func (p *RodPage) FindElements(ctx context.Context, selector string) ([]Element, error) {
	els, err := p.p.Context(ctx).Elements(selector)
	if err != nil {
		return nil, err
	}
	out := make([]Element, 0, len(els))
	for _, el := range els {
		wrapped, err := WrapElement(ctx, el)
		if err != nil {
			continue
		}
		out = append(out, wrapped)
	}
	return out, nil
}

func (p *RodPage) Evaluate(ctx context.Context, script string, args ...any) (Value, error) {
	res, err := p.p.Context(ctx).Eval(script, args...)
	if err != nil {
		return nil, err
	}
	return rodValue{raw: res}, nil
}

func (p *RodPage) Screenshot(ctx context.Context, path string, fullPage bool) error {
	data, err := p.p.Context(ctx).Screenshot(fullPage, nil)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

// ElementFromPoint resolves the element under (x, y) the way the
// Visual locator strategy needs: it stamps the element in-page (there is
// no marker to look up yet) and re-queries it by that stamp, since rod's
// public API has no direct elementFromPoint-to-handle call.
func (p *RodPage) ElementFromPoint(ctx context.Context, x, y float64) (Element, error) {
	marker := fmt.Sprintf("rb-point-%d", atomic.AddInt64(&markerSeq, 1))
	res, err := p.p.Context(ctx).Eval(`(x, y, marker) => {
		const el = document.elementFromPoint(x, y);
		if (!el) return false;
		el.setAttribute('data-rainbow-id', marker);
		return true;
	}`, x, y, marker)
	if err != nil || res == nil || !res.Value.Bool() {
		return nil, fmt.Errorf("element not found: no element at point (%v, %v)", x, y)
	}
	el, err := p.p.Context(ctx).Element(fmt.Sprintf(`[data-rainbow-id=%q]`, marker))
	if err != nil {
		return nil, fmt.Errorf("element not found: %w", err)
	}
	return &RodElement{el: el, marker: marker}, nil
}

func (p *RodPage) LastNavigationTimingMs(ctx context.Context) (float64, error) {
	res, err := p.p.Context(ctx).Eval(`() => {
		const nav = performance.getEntriesByType('navigation')[0];
		if (!nav) return -1;
		return nav.loadEventEnd - nav.loadEventStart;
	}`)
	if err != nil {
		return 0, err
	}
	return res.Value.Num(), nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
