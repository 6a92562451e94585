package executor

import (
	"sync"
	"time"

	"rainbowbrowser/internal/action"
)

// complexityScore assigns the per-kind reporting-only weight
// (Wait=1 ... Navigate=8).
func complexityScore(k action.Kind) int {
	switch k {
	case action.KindWait:
		return 1
	case action.KindFocus, action.KindHover:
		return 2
	case action.KindClick, action.KindScrollTo:
		return 3
	case action.KindDoubleClick, action.KindRightClick, action.KindSelect:
		return 4
	case action.KindClear, action.KindKeyPress:
		return 3
	case action.KindType, action.KindUpload:
		return 5
	case action.KindSubmit:
		return 6
	case action.KindScreenshot:
		return 4
	case action.KindGoBack, action.KindGoForward, action.KindRefresh:
		return 6
	case action.KindNavigate:
		return 8
	default:
		return 1
	}
}

type kindStats struct {
	count       int
	successes   int
	totalTime   time.Duration
}

// Monitor is the in-process performance monitor describes:
// per-kind average duration, per-kind success rate, and fleet totals.
type Monitor struct {
	mu    sync.Mutex
	stats map[action.Kind]*kindStats
	total int
}

func NewMonitor() *Monitor {
	return &Monitor{stats: map[action.Kind]*kindStats{}}
}

func (m *Monitor) Record(k action.Kind, elapsed time.Duration, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stats[k]
	if !ok {
		s = &kindStats{}
		m.stats[k] = s
	}
	s.count++
	s.totalTime += elapsed
	if success {
		s.successes++
	}
	m.total++
}

// KindStat is a read-only view of one kind's aggregate performance.
type KindStat struct {
	Kind        action.Kind
	AvgDuration time.Duration
	SuccessRate float64
	Complexity  int
}

// Stats returns get_performance_stats() payload.
type Stats struct {
	TotalActions int
	PerKind      map[action.Kind]KindStat
	LastUpdated  time.Time
}

func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := Stats{TotalActions: m.total, PerKind: map[action.Kind]KindStat{}, LastUpdated: time.Now()}
	for k, s := range m.stats {
		var avg time.Duration
		var rate float64
		if s.count > 0 {
			avg = s.totalTime / time.Duration(s.count)
			rate = float64(s.successes) / float64(s.count)
		}
		out.PerKind[k] = KindStat{Kind: k, AvgDuration: avg, SuccessRate: rate, Complexity: complexityScore(k)}
	}
	return out
}
