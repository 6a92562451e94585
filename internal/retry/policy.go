package retry

import "time"

// policy is the per-kind decision table: whether to retry at attempt
// n, the delay before that attempt, and the recovery action to run
// first (nil if none).
type policy struct {
	shouldRetry func(attempt int) bool
	delay       func(attempt int) time.Duration
	recovery    *RecoveryAction
}

func policyFor(k FailureKind) policy {
	switch k {
	case ElementNotFound:
		r := WaitForPageStability(500 * time.Millisecond)
		return policy{
			shouldRetry: func(int) bool { return true },
			delay:       func(n int) time.Duration { return time.Duration(n) * 500 * time.Millisecond },
			recovery:    &r,
		}
	case ElementNotInteractable:
		r := ScrollToElement(200 * time.Millisecond)
		return policy{
			shouldRetry: func(int) bool { return true },
			delay:       func(n int) time.Duration { return time.Duration(n) * 200 * time.Millisecond },
			recovery:    &r,
		}
	case NetworkTimeout:
		return policy{
			shouldRetry: func(int) bool { return true },
			delay: func(n int) time.Duration {
				d := time.Duration(1<<uint(n)) * time.Second
				if cap := 16 * time.Second; d > cap {
					d = cap
				}
				return d
			},
		}
	case JavaScriptError:
		r := RefreshPageContext(100 * time.Millisecond)
		return policy{
			shouldRetry: func(n int) bool { return n <= 2 },
			delay:       func(int) time.Duration { return 100 * time.Millisecond },
			recovery:    &r,
		}
	case PageNotLoaded:
		r := WaitForPageLoad(time.Second)
		return policy{
			shouldRetry: func(int) bool { return true },
			delay:       func(int) time.Duration { return time.Second },
			recovery:    &r,
		}
	default: // Unknown
		return policy{
			shouldRetry: func(n int) bool { return n <= 2 },
			delay:       func(int) time.Duration { return 500 * time.Millisecond },
		}
	}
}
