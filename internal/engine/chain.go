package engine

import (
	"context"

	"rainbowbrowser/internal/action"
	"rainbowbrowser/internal/verify"
)

// ExecuteBatch partitions actions into conflict-free groups via the
// Concurrent Controller and runs them against one session, in input
// order in the returned slice .
func (e *Engine) ExecuteBatch(ctx context.Context, sessionID string, actions []action.Action) []action.ActionResult {
	return e.controller.ExecuteParallel(ctx, actions, func(ctx context.Context, a action.Action) action.ActionResult {
		r, err := e.Execute(ctx, sessionID, a)
		if err != nil {
			return action.ActionResult{ActionID: a.ID, Success: false, Error: err.Error()}
		}
		return r
	})
}

// ExecuteChain runs an ActionChain against one session: every action
// outside a declared parallel group runs sequentially first, honoring
// StopOnFailure; every declared parallel group then runs regardless of
// whether a sequential action already failed, since an already-formed
// group is allowed to run to completion. Results are merged back into
// the chain's original action order.
func (e *Engine) ExecuteChain(ctx context.Context, sessionID string, chain action.ActionChain) action.ChainResult {
	n := len(chain.Actions)
	results := make([]action.ActionResult, n)
	done := make([]bool, n)

	inGroup := make([]bool, n)
	for _, g := range chain.ParallelGroups {
		for _, idx := range g {
			if idx >= 0 && idx < n {
				inGroup[idx] = true
			}
		}
	}

	stopped := false
	for i, a := range chain.Actions {
		if inGroup[i] {
			continue
		}
		if stopped {
			continue
		}
		r, err := e.Execute(ctx, sessionID, a)
		if err != nil {
			r = action.ActionResult{ActionID: a.ID, Success: false, Error: err.Error()}
		}
		results[i] = r
		done[i] = true
		if !r.Success && chain.StopOnFailure {
			stopped = true
		}
	}

	for _, group := range chain.ParallelGroups {
		groupActions := make([]action.Action, len(group))
		for gi, idx := range group {
			groupActions[gi] = chain.Actions[idx]
		}
		groupResults := e.ExecuteBatch(ctx, sessionID, groupActions)
		for gi, idx := range group {
			if gi < len(groupResults) {
				results[idx] = groupResults[gi]
				done[idx] = true
			}
		}
	}

	for i, a := range chain.Actions {
		if !done[i] {
			results[i] = action.ActionResult{ActionID: a.ID, Success: false, Error: "not executed: prior sequential action failed with stop_on_failure"}
		}
	}

	return verify.Chain(results)
}
