package concurrency

import "rainbowbrowser/internal/action"

// conflicts implements the four conflict rules, evaluated pairwise:
// any rule true means the pair cannot run in the same group.
func conflicts(a, b action.Action) bool {
	return sameElement(a, b) || navigationConflict(a, b) || pageModificationConflict(a, b) || resourceConflict(a, b)
}

// sameElement: both targets are the same variant with equal payload.
// Mixed-variant targets are assumed non-conflicting.
func sameElement(a, b action.Action) bool {
	ta, tb := a.Target, b.Target
	if ta.Kind != tb.Kind {
		return false
	}
	switch ta.Kind {
	case action.TargetSelector, action.TargetID, action.TargetXPath, action.TargetClass,
		action.TargetName, action.TargetPlaceholder, action.TargetValue, action.TargetRole,
		action.TargetText, action.TargetElementRef:
		return ta.Value == tb.Value
	case action.TargetCoordinate:
		return ta.X == tb.X && ta.Y == tb.Y
	default:
		return false
	}
}

func isNavigationKind(k action.Kind) bool {
	switch k {
	case action.KindNavigate, action.KindGoBack, action.KindGoForward, action.KindRefresh:
		return true
	default:
		return false
	}
}

// navigationConflict: either action is a navigation kind.
func navigationConflict(a, b action.Action) bool {
	return isNavigationKind(a.ActionKind.Kind) || isNavigationKind(b.ActionKind.Kind)
}

func isPageModificationKind(k action.Kind) bool {
	return k == action.KindSubmit || k == action.KindClear
}

// pageModificationConflict: both actions are in {Submit, Clear}.
func pageModificationConflict(a, b action.Action) bool {
	return isPageModificationKind(a.ActionKind.Kind) && isPageModificationKind(b.ActionKind.Kind)
}

// resourceConflict: both actions are Upload.
func resourceConflict(a, b action.Action) bool {
	return a.ActionKind.Kind == action.KindUpload && b.ActionKind.Kind == action.KindUpload
}
