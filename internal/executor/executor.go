// Package executor implements the Action Executor: strategy-dispatched
// primitive-action execution against a resolved element.
package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"rainbowbrowser/internal/action"
	"rainbowbrowser/internal/page"
)

// ErrTimeout is returned (wrapped) when an action's timeout expires
// before the strategy call returns.
var ErrTimeout = errors.New("action timed out")

// Executor dispatches an Action's Kind to the matching strategy and
// bounds the call by the Action's own timeout.
type Executor struct {
	monitor       *Monitor
	log           *zap.SugaredLogger
	screenshotDir string
}

func New(log *zap.SugaredLogger) *Executor {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Executor{monitor: NewMonitor(), log: log, screenshotDir: "screenshots"}
}

func (e *Executor) Monitor() *Monitor { return e.monitor }

// Execute runs one Action against el (which may be nil for navigation
// kinds) and returns a populated ActionResult — it never panics, and on
// failure still returns the pre-action snapshot .
func (e *Executor) Execute(ctx context.Context, p page.Page, a action.Action, el page.Element) action.ActionResult {
	result, _, _ := e.ExecuteWithSnapshots(ctx, p, a, el)
	return result
}

// ExecuteWithSnapshots is Execute plus the pre/post ElementInfo pair
// "pre/post capture" describes, for callers (the facade's
// verification step) that need both snapshots rather than just the one
// ActionResult.Element keeps.
func (e *Executor) ExecuteWithSnapshots(ctx context.Context, p page.Page, a action.Action, el page.Element) (action.ActionResult, *action.ElementInfo, *action.ElementInfo) {
	start := time.Now()
	pre := captureSnapshot(ctx, el)

	cctx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()

	type outcome struct {
		screenshotPath string
		err            error
	}
	done := make(chan outcome, 1)
	go func() {
		path, err := e.dispatch(cctx, p, a, el)
		done <- outcome{screenshotPath: path, err: err}
	}()

	var err error
	var screenshotPath string
	select {
	case o := <-done:
		err = o.err
		screenshotPath = o.screenshotPath
	case <-cctx.Done():
		err = fmt.Errorf("%w", ErrTimeout)
	}

	elapsed := time.Since(start)
	e.monitor.Record(a.ActionKind.Kind, elapsed, err == nil)

	result := action.ActionResult{
		ActionID:      a.ID,
		Success:       err == nil,
		ExecutionTime: elapsed,
		Attempts:      1,
		Element:       pre,
	}
	if err != nil {
		result.Error = err.Error()
		return result, pre, nil
	}

	// Second round-trip: the element may have moved, resized, or
	// changed value/visibility as a direct result of the action.
	post := captureSnapshot(ctx, el)
	if post != nil {
		result.Element = post
	}
	result.ScreenshotPath = screenshotPath
	return result, pre, post
}

func (e *Executor) dispatch(ctx context.Context, p page.Page, a action.Action, el page.Element) (string, error) {
	switch strategyFor(a.ActionKind.Kind) {
	case stratClick:
		return "", e.click(ctx, a, el)
	case stratType:
		return "", e.typeStrategy(ctx, a, el)
	case stratNavigate:
		return "", e.navigate(ctx, p, a)
	case stratWait:
		return "", e.wait(ctx, a)
	case stratScreenshot:
		return e.screenshot(ctx, p, a)
	case stratScroll:
		return "", e.scroll(ctx, el)
	case stratHover:
		return "", el.Hover(ctx)
	case stratSubmit:
		return "", e.submit(ctx, el)
	default:
		return "", fmt.Errorf("unsupported action kind: %s", a.ActionKind.Kind)
	}
}

type strategyKey int

const (
	stratClick strategyKey = iota
	stratType
	stratNavigate
	stratWait
	stratScreenshot
	stratScroll
	stratHover
	stratSubmit
)

// strategyFor is the per-kind dispatch table.
func strategyFor(k action.Kind) strategyKey {
	switch k {
	case action.KindClick, action.KindDoubleClick, action.KindRightClick, action.KindFocus, action.KindSelect:
		return stratClick
	case action.KindType, action.KindClear, action.KindKeyPress, action.KindUpload:
		return stratType
	case action.KindNavigate, action.KindGoBack, action.KindGoForward, action.KindRefresh:
		return stratNavigate
	case action.KindWait:
		return stratWait
	case action.KindScreenshot:
		return stratScreenshot
	case action.KindScrollTo:
		return stratScroll
	case action.KindHover:
		return stratHover
	case action.KindSubmit:
		return stratSubmit
	default:
		return stratClick
	}
}

func (e *Executor) click(ctx context.Context, a action.Action, el page.Element) error {
	if el == nil {
		return fmt.Errorf("element not found: no element for click")
	}
	switch a.ActionKind.Kind {
	case action.KindClick, action.KindSelect:
		return el.Click(ctx)
	case action.KindDoubleClick:
		if err := el.Click(ctx); err != nil {
			return err
		}
		time.Sleep(50 * time.Millisecond)
		return el.Click(ctx)
	case action.KindRightClick:
		_, err := el.Eval(ctx, `() => {
			const ev = new MouseEvent('contextmenu', { bubbles: true, cancelable: true, view: window });
			this.dispatchEvent(ev);
		}`)
		return err
	case action.KindFocus:
		return el.Focus(ctx)
	default:
		return el.Click(ctx)
	}
}

func (e *Executor) typeStrategy(ctx context.Context, a action.Action, el page.Element) error {
	if el == nil {
		return fmt.Errorf("element not found: no element for type")
	}
	if err := el.Focus(ctx); err != nil {
		return err
	}
	switch a.ActionKind.Kind {
	case action.KindClear:
		return el.Clear(ctx)
	case action.KindType:
		if err := el.Clear(ctx); err != nil {
			return err
		}
		return el.Type(ctx, a.ActionKind.Text)
	case action.KindKeyPress:
		return el.PressKey(ctx, a.ActionKind.Key)
	case action.KindUpload:
		if a.ActionKind.Path == "" {
			return fmt.Errorf("config error: upload path is empty")
		}
		_, err := el.Eval(ctx, `(path) => {
			this.value = path;
			this.dispatchEvent(new Event('change', { bubbles: true }));
		}`, a.ActionKind.Path)
		return err
	default:
		return fmt.Errorf("unsupported type-strategy kind: %s", a.ActionKind.Kind)
	}
}

func (e *Executor) navigate(ctx context.Context, p page.Page, a action.Action) error {
	switch a.ActionKind.Kind {
	case action.KindNavigate:
		if a.ActionKind.URL == "" {
			return fmt.Errorf("config error: navigate target url is empty")
		}
		return p.Goto(ctx, a.ActionKind.URL)
	case action.KindGoBack:
		return p.GoBack(ctx)
	case action.KindGoForward:
		return p.GoForward(ctx)
	case action.KindRefresh:
		return p.Reload(ctx)
	default:
		return fmt.Errorf("unsupported navigate kind: %s", a.ActionKind.Kind)
	}
}

func (e *Executor) wait(ctx context.Context, a action.Action) error {
	d := a.ActionKind.Duration
	if d <= 0 {
		d = time.Second
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (e *Executor) screenshot(ctx context.Context, p page.Page, a action.Action) (string, error) {
	if err := os.MkdirAll(e.screenshotDir, 0o755); err != nil {
		return "", fmt.Errorf("create screenshots dir: %w", err)
	}
	name := fmt.Sprintf("action_%s_%s.png", a.ID, time.Now().UTC().Format("20060102_150405.000"))
	path := filepath.Join(e.screenshotDir, name)
	if err := p.Screenshot(ctx, path, true); err != nil {
		return "", err
	}
	return path, nil
}

func (e *Executor) scroll(ctx context.Context, el page.Element) error {
	if el == nil {
		return fmt.Errorf("element not found: no element to scroll to")
	}
	_, err := el.Eval(ctx, `() => {
		this.scrollIntoView({ behavior: 'smooth', block: 'center', inline: 'center' });
	}`)
	if err != nil {
		return err
	}
	time.Sleep(500 * time.Millisecond)
	return nil
}

func (e *Executor) submit(ctx context.Context, el page.Element) error {
	if el == nil {
		return fmt.Errorf("element not found: no element to submit")
	}
	v, err := el.Eval(ctx, `() => {
		const form = this.closest('form');
		if (form) { form.requestSubmit ? form.requestSubmit() : form.submit(); return true; }
		return false;
	}`)
	if err == nil && v != nil && v.Bool() {
		return nil
	}
	return el.Click(ctx)
}
