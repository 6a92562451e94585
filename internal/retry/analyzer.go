package retry

import "sync"

// FailureAnalyzer accumulates per-kind failure and recovery counts
// across the process lifetime, exposing EMA-smoothed attempt
// statistics. It is injected, not a singleton.
type FailureAnalyzer struct {
	mu sync.Mutex

	totalOps    int
	totalOK     int
	meanAttempt float64 // EMA, alpha = 0.1

	failures  map[FailureKind]int
	recovered map[FailureKind]int
}

const attemptsEMAAlpha = 0.1

func NewFailureAnalyzer() *FailureAnalyzer {
	return &FailureAnalyzer{
		failures:  map[FailureKind]int{},
		recovered: map[FailureKind]int{},
	}
}

// recordFailure logs one classified failure observed during a retry loop.
func (a *FailureAnalyzer) recordFailure(k FailureKind) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failures[k]++
}

// recordOutcome logs the terminal outcome of one retry.run(f) call:
// whether it eventually succeeded, how many attempts it took, and (on
// success after at least one failure) which kind was recovered from.
func (a *FailureAnalyzer) recordOutcome(success bool, attempts int, recoveredKind FailureKind, hadFailure bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.totalOps++
	if success {
		a.totalOK++
		if hadFailure {
			a.recovered[recoveredKind]++
		}
	}
	if a.totalOps == 1 {
		a.meanAttempt = float64(attempts)
		return
	}
	a.meanAttempt = attemptsEMAAlpha*float64(attempts) + (1-attemptsEMAAlpha)*a.meanAttempt
}

// Stats is the read-only retry statistics snapshot.
type Stats struct {
	TotalOps        int
	SuccessRate     float64
	AvgAttempts     float64
	FailureBreakdown map[FailureKind]int
	RecoveryRates   map[FailureKind]float64
}

func (a *FailureAnalyzer) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := Stats{
		TotalOps:         a.totalOps,
		AvgAttempts:      a.meanAttempt,
		FailureBreakdown: map[FailureKind]int{},
		RecoveryRates:    map[FailureKind]float64{},
	}
	if a.totalOps > 0 {
		out.SuccessRate = float64(a.totalOK) / float64(a.totalOps)
	}
	for k, v := range a.failures {
		out.FailureBreakdown[k] = v
		if v > 0 {
			out.RecoveryRates[k] = float64(a.recovered[k]) / float64(v)
		}
	}
	return out
}

// Reset clears all accumulated counters, for callers that need a
// fresh measurement window (e.g. between test cases or campaigns).
func (a *FailureAnalyzer) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.totalOps = 0
	a.totalOK = 0
	a.meanAttempt = 0
	a.failures = map[FailureKind]int{}
	a.recovered = map[FailureKind]int{}
}
