// Package page defines the small capability surface the core needs from
// its browser-transport collaborator, plus a rod-backed
// implementation. Any transport satisfying Page/Element is acceptable;
// apart from this package, only internal/session's browser launcher
// imports go-rod directly.
package page

import "context"

// Element is the capability surface for a resolved DOM node handle.
type Element interface {
	Click(ctx context.Context) error
	Hover(ctx context.Context) error
	Focus(ctx context.Context) error
	Clear(ctx context.Context) error
	Type(ctx context.Context, text string) error
	PressKey(ctx context.Context, key string) error
	TagName(ctx context.Context) (string, error)
	Eval(ctx context.Context, script string, args ...any) (Value, error)
	// Marker is an identity token stable across repeated lookups of the
	// same live handle (used to verify cache hits still attach).
	Marker() string
}

// Value is a loosely-typed script evaluation result, mirroring the
// small slice of chromiumoxide/rod's JSON-ish value type the engine
// actually consumes.
type Value interface {
	String() string
	Bool() bool
	Float64() float64
	Map() map[string]string
	Nil() bool
}

// Page is the capability surface for a live browser tab.
type Page interface {
	Goto(ctx context.Context, url string) error
	Reload(ctx context.Context) error
	GoBack(ctx context.Context) error
	GoForward(ctx context.Context) error
	URL(ctx context.Context) (string, error)
	Content(ctx context.Context) (string, error)
	FindElement(ctx context.Context, selector string) (Element, error)
	FindElements(ctx context.Context, selector string) ([]Element, error)
	Evaluate(ctx context.Context, script string, args ...any) (Value, error)
	Screenshot(ctx context.Context, path string, fullPage bool) error
	ElementFromPoint(ctx context.Context, x, y float64) (Element, error)
	// LastNavigationTimingMs returns (loadEventEnd-loadEventStart) for
	// the most recent navigation, used by the Performance verifier.
	LastNavigationTimingMs(ctx context.Context) (float64, error)
}
