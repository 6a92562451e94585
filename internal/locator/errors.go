package locator

import "errors"

// Failure kinds the locator ladder returns.
var (
	ErrElementNotFound = errors.New("element not found")
	ErrAmbiguousTarget = errors.New("ambiguous target: multiple elements matched")
	ErrPageUnavailable = errors.New("page unavailable")
)
