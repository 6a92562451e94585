// Package retry wraps fallible browser operations with adaptive,
// failure-classified retries .
package retry

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"rainbowbrowser/internal/page"
)

const (
	defaultMaxAttempts = 5
	defaultMaxElapsed  = 30 * time.Second
)

// Retry owns the failure analyzer shared across every Run call — it is
// injected into the engine, never a package-level singleton .
type Retry struct {
	analyzer    *FailureAnalyzer
	log         *zap.SugaredLogger
	maxAttempts int
	maxElapsed  time.Duration
}

func New(log *zap.SugaredLogger) *Retry {
	return NewWithLimits(log, defaultMaxAttempts, defaultMaxElapsed)
}

// NewWithLimits builds a Retry with config-overridden global stop
// conditions, falling back to the spec defaults for zero values.
func NewWithLimits(log *zap.SugaredLogger, maxAttempts int, maxElapsed time.Duration) *Retry {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if maxElapsed <= 0 {
		maxElapsed = defaultMaxElapsed
	}
	return &Retry{analyzer: NewFailureAnalyzer(), log: log, maxAttempts: maxAttempts, maxElapsed: maxElapsed}
}

func (r *Retry) Analyzer() *FailureAnalyzer { return r.analyzer }

// Run executes fn, classifying and retrying failures per the per-kind
// policy table until it succeeds or a global stop condition fires. p
// and el are passed through to recovery actions only.
func Run[T any](ctx context.Context, r *Retry, p page.Page, el page.Element, fn func(ctx context.Context, attempt int) (T, error)) (T, error) {
	var zero T
	start := time.Now()
	var lastErr error
	var recentKinds []FailureKind
	hadFailure := false
	var lastKind FailureKind

	for attempt := 1; ; attempt++ {
		val, err := fn(ctx, attempt)
		if err == nil {
			r.analyzer.recordOutcome(true, attempt, lastKind, hadFailure)
			return val, nil
		}

		lastErr = err
		kind := Classify(err)
		lastKind = kind
		hadFailure = true
		r.analyzer.recordFailure(kind)
		recentKinds = append(recentKinds, kind)

		if reason, stop := r.globalStop(attempt, start, recentKinds); stop {
			r.analyzer.recordOutcome(false, attempt, kind, true)
			return zero, &MaxRetriesExceededError{Attempts: attempt, LastError: lastErr, Reason: reason}
		}

		pol := policyFor(kind)
		if !pol.shouldRetry(attempt) {
			r.analyzer.recordOutcome(false, attempt, kind, true)
			return zero, &MaxRetriesExceededError{
				Attempts: attempt, LastError: lastErr,
				Reason: fmt.Sprintf("%s is not retryable at attempt %d", kind, attempt),
			}
		}

		if pol.recovery != nil {
			if rerr := pol.recovery.Run(ctx, p, el); rerr != nil {
				return zero, rerr
			}
		}
		if err := sleep(ctx, pol.delay(attempt)); err != nil {
			return zero, err
		}
	}
}

// globalStop applies stop conditions, which take priority
// over the per-kind policy: attempt count >= maxAttempts (default 5),
// elapsed > maxElapsed (default 30s), and a circuit breaker when the
// last 5 failures share one kind.
func (r *Retry) globalStop(attempt int, start time.Time, recentKinds []FailureKind) (string, bool) {
	if attempt >= r.maxAttempts {
		return "Maximum attempts reached", true
	}
	if time.Since(start) > r.maxElapsed {
		return "Maximum retry time exceeded", true
	}
	if n := len(recentKinds); n >= 5 {
		last5 := recentKinds[n-5:]
		same := true
		for _, k := range last5 {
			if k != last5[0] {
				same = false
				break
			}
		}
		if same {
			return fmt.Sprintf("Circuit breaker: repeated %s failures", last5[0]), true
		}
	}
	return "", false
}
