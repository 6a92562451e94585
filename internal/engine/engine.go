// Package engine implements the Intelligent Action facade (row
// H): for one Action it orchestrates Locate -> Execute -> Verify under
// Retry, then folds the outcome into the owning session's history,
// element-ref registry, and event bus. It also exposes the Concurrent
// Controller's batch execution and the chain-execution policy (spec
// stop_on_failure semantics) as the single public entry point
// callers (CLI, HTTP façade, workflow runner) drive.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"rainbowbrowser/internal/action"
	"rainbowbrowser/internal/concurrency"
	"rainbowbrowser/internal/executor"
	"rainbowbrowser/internal/page"
	"rainbowbrowser/internal/retry"
	"rainbowbrowser/internal/session"
)

// Engine wires every core subsystem together. It is safe for
// concurrent use: each session's page operations serialize on that
// session's own lock , and the shared executor/retry/
// concurrency components already protect their own state.
type Engine struct {
	sessions   *session.Manager
	executor   *executor.Executor
	retryer    *retry.Retry
	controller *concurrency.Controller
	log        *zap.SugaredLogger

	toolResults *session.ToolResultCache

	mu          sync.Mutex
	perceptions map[string]*perception
}

// New builds an Engine over already-constructed subsystem instances.
// Callers (cmd/rainbowctl, tests) own the wiring of each component's
// own config; Engine only orchestrates them.
func New(sessions *session.Manager, exec *executor.Executor, r *retry.Retry, ctrl *concurrency.Controller, log *zap.SugaredLogger) *Engine {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Engine{
		sessions:    sessions,
		executor:    exec,
		retryer:     r,
		controller:  ctrl,
		log:         log,
		toolResults: session.NewToolResultCache(),
		perceptions: map[string]*perception{},
	}
}

// CreateSession opens a new session and its isolated perception state.
func (e *Engine) CreateSession(ctx context.Context) (*session.Session, error) {
	s, err := e.sessions.CreateSession(ctx)
	if err != nil {
		return nil, err
	}
	e.ensurePerception(s.ID)
	return s, nil
}

// RemoveSession closes a session explicitly and tears down its
// perception goroutine.
func (e *Engine) RemoveSession(id string) {
	e.sessions.RemoveSession(id)
	e.teardownPerception(id)
}

func (e *Engine) ensurePerception(sessionID string) *perception {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p, ok := e.perceptions[sessionID]; ok {
		return p
	}
	p := newPerception(e.sessions.Bus(), sessionID, e.toolResults, e.log)
	e.perceptions[sessionID] = p
	return p
}

func (e *Engine) teardownPerception(sessionID string) {
	e.mu.Lock()
	p, ok := e.perceptions[sessionID]
	if ok {
		delete(e.perceptions, sessionID)
	}
	e.mu.Unlock()
	if ok {
		p.close()
	}
}

// needsElement reports whether a Kind's dispatch strategy 
// takes a resolved element, as opposed to operating on the page itself.
func needsElement(k action.Kind) bool {
	switch k {
	case action.KindNavigate, action.KindGoBack, action.KindGoForward, action.KindRefresh,
		action.KindWait, action.KindScreenshot:
		return false
	default:
		return true
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

// Execute runs one Action to completion against sessionID: locate,
// execute, and (if requested) verify, all wrapped by the retry
// mechanism's failure-classified policy. It never returns a non-nil
// error for an ordinary action failure — that surfaces as
// ActionResult.Success == false with ActionResult.Error populated; the
// error return is reserved for facade-level problems: an unknown
// session, reported as a ResourceError.
func (e *Engine) Execute(ctx context.Context, sessionID string, a action.Action) (action.ActionResult, error) {
	s, ok := e.sessions.Get(sessionID)
	if !ok {
		return action.ActionResult{}, fmt.Errorf("ResourceError: unknown session %q", sessionID)
	}

	p := e.ensurePerception(sessionID)

	s.LockPage()
	final := e.runWithRetry(ctx, s, p, a)
	s.UnlockPage()

	s.Touch()
	s.RecordResult(final)
	return final, nil
}

func (e *Engine) runWithRetry(ctx context.Context, s *session.Session, p *perception, a action.Action) action.ActionResult {
	var lastResult action.ActionResult
	lastResult.ActionID = a.ID

	type outcome struct{ result action.ActionResult }

	out, runErr := retry.Run(ctx, e.retryer, s.Page, nil, func(ctx context.Context, attempt int) (outcome, error) {
		el, locErr := e.resolveElement(ctx, s, p, a)
		if locErr != nil && needsElement(a.ActionKind.Kind) {
			lastResult = action.ActionResult{ActionID: a.ID, Success: false, Error: locErr.Error(), Attempts: attempt}
			return outcome{}, locErr
		}

		result, pre, post := e.executor.ExecuteWithSnapshots(ctx, s.Page, a, el)
		result.Attempts = attempt

		if result.Success && a.VerifyResult {
			vr := p.verifier.Verify(ctx, s.Page, a, el, pre, post)
			result.Verification = &vr
			if !vr.Success {
				result.Success = false
				if vr.Error != "" {
					result.Error = "verification failed: " + vr.Error
				} else {
					result.Error = "verification failed"
				}
			}
		}
		lastResult = result

		if !result.Success {
			return outcome{}, errors.New(result.Error)
		}

		p.rememberElement(a.ID, el)
		e.emitPostExecutionEvents(s, a)
		return outcome{result: result}, nil
	})

	if runErr != nil {
		var maxErr *retry.MaxRetriesExceededError
		final := lastResult
		final.ActionID = a.ID
		final.Success = false
		if errors.As(runErr, &maxErr) {
			final.Attempts = maxErr.Attempts
			final.Error = maxErr.Error()
		} else if final.Error == "" {
			final.Error = runErr.Error()
		}
		return final
	}
	return out.result
}

func (e *Engine) resolveElement(ctx context.Context, s *session.Session, p *perception, a action.Action) (page.Element, error) {
	if !needsElement(a.ActionKind.Kind) {
		return nil, nil
	}
	if a.Target.Kind == action.TargetElementRef {
		el, ok := p.elementByRef(a.Target.Value)
		if !ok {
			return nil, fmt.Errorf("config error: element ref %q not found in session history", a.Target.Value)
		}
		return el, nil
	}
	return p.locator.Locate(ctx, s.Page, a.Target)
}

// emitPostExecutionEvents publishes the navigation and content-change
// events cache coordinator reacts to. Emitted once per Execute, only
// for the attempt that succeeds (including verification when
// requested); failed attempts emit nothing.
func (e *Engine) emitPostExecutionEvents(s *session.Session, a action.Action) {
	bus := e.sessions.Bus()
	switch {
	case isNavigationKind(a.ActionKind.Kind):
		bus.Emit(session.Event{Type: session.EventNavigationStarted, SessionID: s.ID})
		loadMs, _ := s.Page.LastNavigationTimingMs(context.Background())
		bus.Emit(session.Event{Type: session.EventNavigationCompleted, SessionID: s.ID, LoadTimeMs: loadMs})
	case a.ActionKind.Kind == action.KindSubmit:
		bus.Emit(session.Event{Type: session.EventPageContentChanged, SessionID: s.ID, ContentType: "form_submit"})
	}
}
