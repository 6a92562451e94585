package concurrency_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rainbowbrowser/internal/action"
	"rainbowbrowser/internal/concurrency"
)

func TestPartition_NonConflictingClicks_OneGroup(t *testing.T) {
	actions := []action.Action{
		action.New(action.Click(), action.Selector("#a")),
		action.New(action.Click(), action.Selector("#b")),
		action.New(action.Click(), action.Selector("#c")),
	}
	groups := concurrency.Partition(actions)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0], 3)
}

func TestPartition_NavigationIsolated(t *testing.T) {
	actions := []action.Action{
		action.New(action.Click(), action.Selector("#a")),
		action.New(action.Navigate("http://e.com"), action.Target{}),
		action.New(action.Click(), action.Selector("#b")),
	}
	groups := concurrency.Partition(actions)
	require.GreaterOrEqual(t, len(groups), 2)

	for _, g := range groups {
		for _, idx := range g {
			if actions[idx].ActionKind.Kind == action.KindNavigate {
				assert.Len(t, g, 1, "navigate must be alone in its group")
			}
		}
	}
}

func TestPartition_SameSelectorCollision(t *testing.T) {
	actions := []action.Action{
		action.New(action.Click(), action.Selector("#x")),
		action.New(action.Type("hi"), action.Selector("#x")),
	}
	groups := concurrency.Partition(actions)
	require.GreaterOrEqual(t, len(groups), 2)
	assert.Equal(t, 0, groups[0][0])
}

func TestExecuteParallel_PreservesInputOrder(t *testing.T) {
	actions := []action.Action{
		action.New(action.Click(), action.Selector("#a")),
		action.New(action.Click(), action.Selector("#b")),
		action.New(action.Click(), action.Selector("#c")),
	}
	c := concurrency.New()
	results := c.ExecuteParallel(context.Background(), actions, func(ctx context.Context, a action.Action) action.ActionResult {
		time.Sleep(time.Millisecond)
		return action.ActionResult{ActionID: a.ID, Success: true, ExecutionTime: time.Millisecond}
	})

	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, actions[i].ID, r.ActionID)
		assert.True(t, r.Success)
	}
}

func TestExecuteParallel_TaskPanicBecomesFailedResult(t *testing.T) {
	actions := []action.Action{
		action.New(action.Click(), action.Selector("#a")),
		action.New(action.Click(), action.Selector("#b")),
	}
	c := concurrency.New()
	results := c.ExecuteParallel(context.Background(), actions, func(ctx context.Context, a action.Action) action.ActionResult {
		if a.Target.Value == "#a" {
			panic("boom")
		}
		return action.ActionResult{ActionID: a.ID, Success: true}
	})

	require.Len(t, results, 2)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Error, "Task join error")
	assert.True(t, results[1].Success)
}

func TestExecuteParallel_ReorderHookDoesNotChangeResultOrder(t *testing.T) {
	actions := []action.Action{
		action.New(action.Click(), action.Selector("#a")),
		action.New(action.Click(), action.Selector("#b")),
		action.New(action.Click(), action.Selector("#c")),
	}
	c := concurrency.New()
	c.SetReorder(func(in []action.Action) []action.Action {
		out := make([]action.Action, len(in))
		for i, a := range in {
			out[len(in)-1-i] = a
		}
		return out
	})

	results := c.ExecuteParallel(context.Background(), actions, func(ctx context.Context, a action.Action) action.ActionResult {
		return action.ActionResult{ActionID: a.ID, Success: true}
	})

	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, actions[i].ID, r.ActionID, "results must stay in the caller's original order regardless of Reorder")
	}
}

func TestExecuteParallel_NilReorderIsIdentity(t *testing.T) {
	actions := []action.Action{
		action.New(action.Click(), action.Selector("#a")),
		action.New(action.Click(), action.Selector("#b")),
	}
	withHook := concurrency.New()
	withHook.SetReorder(func(in []action.Action) []action.Action { return in })
	withoutHook := concurrency.New()

	exec := func(ctx context.Context, a action.Action) action.ActionResult {
		return action.ActionResult{ActionID: a.ID, Success: true}
	}

	r1 := withHook.ExecuteParallel(context.Background(), actions, exec)
	r2 := withoutHook.ExecuteParallel(context.Background(), actions, exec)
	assert.Equal(t, len(r2), len(r1))
	for i := range r1 {
		assert.Equal(t, r2[i].ActionID, r1[i].ActionID)
	}
}

func TestExecuteParallel_UpdatesStats(t *testing.T) {
	actions := []action.Action{
		action.New(action.Click(), action.Selector("#a")),
		action.New(action.Click(), action.Selector("#b")),
	}
	c := concurrency.New()
	c.ExecuteParallel(context.Background(), actions, func(ctx context.Context, a action.Action) action.ActionResult {
		return action.ActionResult{ActionID: a.ID, Success: true, ExecutionTime: 10 * time.Millisecond}
	})

	stats := c.Stats()
	assert.Equal(t, 1, stats.TotalBatches)
	assert.Equal(t, 2, stats.TotalActions)
	assert.Equal(t, 1.0, stats.SuccessRate)
}
