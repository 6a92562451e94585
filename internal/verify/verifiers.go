package verify

import (
	"context"
	"strings"

	"rainbowbrowser/internal/action"
	"rainbowbrowser/internal/page"
)

// verifier is one named check in the fixed catalog. Like the locator's
// strategy ladder, the catalog is closed and small, so a slice-of-structs
// stands in for trait objects.
type verifier struct {
	name      string
	canVerify func(action.Kind) bool
	run       func(ctx context.Context, p page.Page, a action.Action, el page.Element, pre, post *action.ElementInfo) action.VerificationCheck
}

func catalog() []verifier {
	return []verifier{
		{"Clickability", isClickLike, verifyClickability},
		{"Input", isInputLike, verifyInput},
		{"Navigation", isNavigationLike, verifyNavigation},
		{"Visibility", isElementKind, verifyVisibility},
		{"StateChange", isElementKind, verifyStateChange},
		{"Performance", isNavigationLike, verifyPerformance},
	}
}

// isElementKind covers every action kind that operates on a resolved
// element handle, as opposed to Wait/Screenshot/navigation kinds.
func isElementKind(k action.Kind) bool {
	switch k {
	case action.KindClick, action.KindDoubleClick, action.KindRightClick,
		action.KindType, action.KindClear, action.KindSubmit, action.KindScrollTo,
		action.KindHover, action.KindFocus, action.KindSelect, action.KindUpload, action.KindKeyPress:
		return true
	default:
		return false
	}
}

func isClickLike(k action.Kind) bool {
	switch k {
	case action.KindClick, action.KindDoubleClick, action.KindRightClick, action.KindSelect, action.KindSubmit:
		return true
	default:
		return false
	}
}

func isInputLike(k action.Kind) bool {
	return k == action.KindType || k == action.KindClear
}

func isNavigationLike(k action.Kind) bool {
	switch k {
	case action.KindNavigate, action.KindGoBack, action.KindGoForward, action.KindRefresh:
		return true
	default:
		return false
	}
}

func verifyClickability(ctx context.Context, p page.Page, a action.Action, el page.Element, pre, post *action.ElementInfo) action.VerificationCheck {
	if post == nil {
		return action.VerificationCheck{Name: "Clickability", Passed: false, Confidence: 0.1, Detail: "no post-action element state"}
	}
	passed := post.W > 0 && post.H > 0 && post.Enabled
	if passed {
		return action.VerificationCheck{Name: "Clickability", Passed: true, Confidence: 0.9}
	}
	return action.VerificationCheck{Name: "Clickability", Passed: false, Confidence: 0.1, Detail: "element not clickable post-action"}
}

func verifyInput(ctx context.Context, p page.Page, a action.Action, el page.Element, pre, post *action.ElementInfo) action.VerificationCheck {
	if post == nil {
		return action.VerificationCheck{Name: "Input", Passed: false, Confidence: 0.2, Detail: "no post-action element state"}
	}
	switch a.ActionKind.Kind {
	case action.KindType:
		ok := strings.Contains(post.Text, a.ActionKind.Text) && post.Enabled
		if ok {
			return action.VerificationCheck{Name: "Input", Passed: true, Confidence: 0.95}
		}
		return action.VerificationCheck{Name: "Input", Passed: false, Confidence: 0.2, Detail: "typed text not reflected in value"}
	case action.KindClear:
		ok := post.Text == "" && post.Enabled
		if ok {
			return action.VerificationCheck{Name: "Input", Passed: true, Confidence: 0.95}
		}
		return action.VerificationCheck{Name: "Input", Passed: false, Confidence: 0.2, Detail: "value not cleared"}
	default:
		return action.VerificationCheck{Name: "Input", Passed: false, Confidence: 0.2, Detail: "kind not input-addressable"}
	}
}

func verifyNavigation(ctx context.Context, p page.Page, a action.Action, el page.Element, pre, post *action.ElementInfo) action.VerificationCheck {
	url, err := p.URL(ctx)
	if err != nil {
		return action.VerificationCheck{Name: "Navigation", Passed: false, Confidence: 0.3, Detail: err.Error()}
	}
	if a.ActionKind.Kind == action.KindNavigate {
		want := a.ActionKind.URL
		if strings.Contains(url, want) || strings.Contains(want, url) {
			return action.VerificationCheck{Name: "Navigation", Passed: true, Confidence: 0.9}
		}
		return action.VerificationCheck{Name: "Navigation", Passed: false, Confidence: 0.3, Detail: "current url does not contain requested url"}
	}
	if url != "" {
		return action.VerificationCheck{Name: "Navigation", Passed: true, Confidence: 0.9}
	}
	return action.VerificationCheck{Name: "Navigation", Passed: false, Confidence: 0.3, Detail: "empty url after navigation action"}
}

func verifyVisibility(ctx context.Context, p page.Page, a action.Action, el page.Element, pre, post *action.ElementInfo) action.VerificationCheck {
	if post == nil {
		return action.VerificationCheck{Name: "Visibility", Passed: false, Confidence: 0.4, Detail: "no post-action element state"}
	}
	if post.W > 0 && post.H > 0 && post.Visible {
		return action.VerificationCheck{Name: "Visibility", Passed: true, Confidence: 0.8}
	}
	return action.VerificationCheck{Name: "Visibility", Passed: false, Confidence: 0.4, Detail: "element not visible post-action"}
}

func verifyStateChange(ctx context.Context, p page.Page, a action.Action, el page.Element, pre, post *action.ElementInfo) action.VerificationCheck {
	if el == nil {
		return action.VerificationCheck{Name: "StateChange", Passed: false, Confidence: 0.2, Detail: "element handle lost"}
	}
	if _, err := el.TagName(ctx); err != nil {
		return action.VerificationCheck{Name: "StateChange", Passed: false, Confidence: 0.2, Detail: "element no longer resolvable"}
	}
	if htmlStr, err := p.Content(ctx); err == nil && !htmlContainsMarker(htmlStr, el.Marker()) {
		return action.VerificationCheck{Name: "StateChange", Passed: false, Confidence: 0.3, Detail: "element marker no longer present in page content"}
	}
	return action.VerificationCheck{Name: "StateChange", Passed: true, Confidence: 0.7}
}

func verifyPerformance(ctx context.Context, p page.Page, a action.Action, el page.Element, pre, post *action.ElementInfo) action.VerificationCheck {
	ms, err := p.LastNavigationTimingMs(ctx)
	if err != nil {
		return action.VerificationCheck{Name: "Performance", Passed: false, Confidence: 0.6, Detail: err.Error()}
	}
	if ms < 5000 {
		return action.VerificationCheck{Name: "Performance", Passed: true, Confidence: 0.6}
	}
	return action.VerificationCheck{Name: "Performance", Passed: false, Confidence: 0.6, Detail: "load time exceeded 5000ms"}
}
