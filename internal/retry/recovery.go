package retry

import (
	"context"
	"time"

	"rainbowbrowser/internal/page"
)

// RecoveryAction is a side-effectful pre-retry remediation step. Each
// one is independently callable and testable, not just inlined into
// the retry loop.
type RecoveryAction struct {
	Name string
	Run  func(ctx context.Context, p page.Page, el page.Element) error
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// WaitForPageStability pauses to let in-flight DOM mutations settle
// before the locator re-runs.
func WaitForPageStability(d time.Duration) RecoveryAction {
	return RecoveryAction{
		Name: "WaitForPageStability",
		Run: func(ctx context.Context, p page.Page, el page.Element) error {
			return sleep(ctx, d)
		},
	}
}

// ScrollToElement nudges a not-yet-interactable element into the
// viewport before the next attempt.
func ScrollToElement(d time.Duration) RecoveryAction {
	return RecoveryAction{
		Name: "ScrollToElement",
		Run: func(ctx context.Context, p page.Page, el page.Element) error {
			if el != nil {
				_, _ = el.Eval(ctx, `() => { this.scrollIntoView({block:'center'}); }`)
			}
			return sleep(ctx, d)
		},
	}
}

// RefreshPageContext gives a one-off JS error a moment to clear before
// retrying the same script.
func RefreshPageContext(d time.Duration) RecoveryAction {
	return RecoveryAction{
		Name: "RefreshPageContext",
		Run: func(ctx context.Context, p page.Page, el page.Element) error {
			return sleep(ctx, d)
		},
	}
}

// WaitForPageLoad waits out a page that had not finished loading.
func WaitForPageLoad(d time.Duration) RecoveryAction {
	return RecoveryAction{
		Name: "WaitForPageLoad",
		Run: func(ctx context.Context, p page.Page, el page.Element) error {
			return sleep(ctx, d)
		},
	}
}
