// Package concurrency implements the Concurrent Controller: partition
// a batch of actions into conflict-free groups and execute each group
// in parallel under a global semaphore .
package concurrency

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"rainbowbrowser/internal/action"
)

const (
	defaultPermits      = 5
	defaultBatchTimeout = 60 * time.Second
	efficiencyEMAAlpha  = 0.2
)

// ExecuteFunc runs one action to completion; the controller never
// inspects how — it's supplied by the engine layer that wires in the
// locator/executor/verifier/retry stack.
type ExecuteFunc func(ctx context.Context, a action.Action) action.ActionResult

// Reorder is an optional pure-function hook applied to a batch before
// partitioning: it may reorder independent actions to reduce
// cross-group navigation thrashing (e.g. moving same-target actions
// adjacent so they land in the same or neighboring conflict groups).
// It must return a permutation of its input — same actions, same IDs,
// only reordered. Defaults to nil (identity), so it never changes the
// documented partitioning algorithm's observable grouping when unset;
// ExecuteParallel still returns results in the caller's original order
// regardless of what Reorder does internally.
type Reorder func([]action.Action) []action.Action

// Controller executes action batches with conflict-aware parallelism.
// Errors from one task never abort the whole batch: a panicking or
// failing task becomes a synthetic failed ActionResult instead —
// unlike an errgroup.Wait(), a plain sync.WaitGroup here always lets
// every launched task finish.
type Controller struct {
	sem          *semaphore.Weighted
	batchTimeout time.Duration
	reorder      Reorder

	mu             sync.Mutex
	totalBatches   int
	totalActions   int
	successCount   int
	totalBatchTime time.Duration
	efficiencyEMA  float64
}

func New() *Controller {
	return NewWithLimits(defaultPermits, defaultBatchTimeout)
}

// NewWithLimits builds a Controller with config-overridden permits and
// batch timeout, falling back to the spec defaults for zero values.
func NewWithLimits(permits int64, batchTimeout time.Duration) *Controller {
	if permits <= 0 {
		permits = defaultPermits
	}
	if batchTimeout <= 0 {
		batchTimeout = defaultBatchTimeout
	}
	return &Controller{sem: semaphore.NewWeighted(permits), batchTimeout: batchTimeout}
}

// SetReorder installs (or clears, with nil) the chain-optimizer hook
// run on each batch before partitioning.
func (c *Controller) SetReorder(fn Reorder) { c.reorder = fn }

// ExecuteParallel partitions actions into conflict-free groups,
// executes groups sequentially (in formation order) with actions
// inside a group running concurrently, and returns results reordered
// to match the input order.
func (c *Controller) ExecuteParallel(ctx context.Context, actions []action.Action, exec ExecuteFunc) []action.ActionResult {
	results := make([]action.ActionResult, len(actions))

	// origIndex maps an action's id back to its position in the
	// caller's original actions slice, so that applying Reorder (which
	// only affects partitioning/scheduling order) never changes the
	// order results are returned in.
	origIndex := make(map[string]int, len(actions))
	for i, a := range actions {
		origIndex[a.ID] = i
	}

	ordered := actions
	if c.reorder != nil {
		reordered := c.reorder(append([]action.Action(nil), actions...))
		if len(reordered) == len(actions) {
			ordered = reordered
		}
	}

	groups := Partition(ordered)

	bctx, cancel := context.WithTimeout(ctx, c.batchTimeout)
	defer cancel()

	start := time.Now()
	for _, group := range groups {
		if bctx.Err() != nil {
			for _, idx := range group {
				a := ordered[idx]
				results[origIndex[a.ID]] = action.ActionResult{
					ActionID: a.ID,
					Success:  false,
					Error:    "TimeoutError: batch timeout exceeded",
				}
			}
			continue
		}
		c.runGroup(bctx, group, ordered, origIndex, exec, results)
	}
	batchDuration := time.Since(start)

	c.recordBatch(results, batchDuration)
	return results
}

func (c *Controller) runGroup(ctx context.Context, group []int, ordered []action.Action, origIndex map[string]int, exec ExecuteFunc, results []action.ActionResult) {
	var wg sync.WaitGroup
	for _, idx := range group {
		idx := idx
		a := ordered[idx]
		resIdx := origIndex[a.ID]
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results[resIdx] = action.ActionResult{
						ActionID: a.ID,
						Success:  false,
						Error:    fmt.Sprintf("Task join error: %v", r),
					}
				}
			}()
			if err := c.sem.Acquire(ctx, 1); err != nil {
				results[resIdx] = action.ActionResult{
					ActionID: a.ID,
					Success:  false,
					Error:    fmt.Sprintf("Semaphore error: %v", err),
				}
				return
			}
			defer c.sem.Release(1)
			results[resIdx] = exec(ctx, a)
		}()
	}
	wg.Wait()
}

func (c *Controller) recordBatch(results []action.ActionResult, batchDuration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var sumDurations time.Duration
	successes := 0
	for _, r := range results {
		sumDurations += r.ExecutionTime
		if r.Success {
			successes++
		}
	}

	c.totalBatches++
	c.totalActions += len(results)
	c.successCount += successes
	c.totalBatchTime += batchDuration

	if batchDuration > 0 {
		sample := float64(sumDurations) / float64(batchDuration)
		if c.totalBatches == 1 {
			c.efficiencyEMA = sample
		} else {
			c.efficiencyEMA = efficiencyEMAAlpha*sample + (1-efficiencyEMAAlpha)*c.efficiencyEMA
		}
	}
}

// Stats is get_concurrency_stats() payload.
type Stats struct {
	TotalBatches         int
	TotalActions         int
	SuccessRate          float64
	AvgBatchTime         time.Duration
	ConcurrencyEfficiency float64
}

func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := Stats{
		TotalBatches:          c.totalBatches,
		TotalActions:          c.totalActions,
		ConcurrencyEfficiency: c.efficiencyEMA,
	}
	if c.totalActions > 0 {
		out.SuccessRate = float64(c.successCount) / float64(c.totalActions)
	}
	if c.totalBatches > 0 {
		out.AvgBatchTime = c.totalBatchTime / time.Duration(c.totalBatches)
	}
	return out
}
