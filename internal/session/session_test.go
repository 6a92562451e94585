package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rainbowbrowser/internal/action"
	"rainbowbrowser/internal/page"
	"rainbowbrowser/internal/page/pagefake"
	"rainbowbrowser/internal/session"
)

func newTestManager(t *testing.T, cfg session.ManagerConfig) *session.Manager {
	t.Helper()
	factory := func(ctx context.Context) (page.Page, error) { return pagefake.New(), nil }
	mgr := session.NewManager(cfg, factory, session.NewBus(), nil)
	t.Cleanup(mgr.Shutdown)
	return mgr
}

func TestManager_CreateSession_EmitsSessionCreated(t *testing.T) {
	mgr := newTestManager(t, session.DefaultManagerConfig())
	created := mgr.Bus().Subscribe(session.EventSessionCreated)

	s, err := mgr.CreateSession(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)

	select {
	case ev := <-created:
		assert.Equal(t, s.ID, ev.SessionID)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for SessionCreated")
	}
}

func TestManager_CreateSession_RespectsMaxSessions(t *testing.T) {
	cfg := session.DefaultManagerConfig()
	cfg.MaxSessions = 1
	mgr := newTestManager(t, cfg)

	_, err := mgr.CreateSession(context.Background())
	require.NoError(t, err)

	_, err = mgr.CreateSession(context.Background())
	assert.Error(t, err)
}

func TestManager_RemoveSession_EmitsSessionClosed(t *testing.T) {
	mgr := newTestManager(t, session.DefaultManagerConfig())
	s, err := mgr.CreateSession(context.Background())
	require.NoError(t, err)

	closed := mgr.Bus().Subscribe(session.EventSessionClosed)
	mgr.RemoveSession(s.ID)

	_, ok := mgr.Get(s.ID)
	assert.False(t, ok)

	select {
	case ev := <-closed:
		assert.Equal(t, s.ID, ev.SessionID)
		assert.Equal(t, "removed", ev.Reason)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for SessionClosed")
	}
}

func TestSession_RecordResult_CapsHistoryAt100(t *testing.T) {
	mgr := newTestManager(t, session.DefaultManagerConfig())
	s, err := mgr.CreateSession(context.Background())
	require.NoError(t, err)

	for i := 0; i < 150; i++ {
		s.RecordResult(action.ActionResult{ActionID: "a", Success: true})
	}
	assert.Len(t, s.History(), 100)
}

func TestSession_Stats_ComputesSuccessRate(t *testing.T) {
	mgr := newTestManager(t, session.DefaultManagerConfig())
	s, err := mgr.CreateSession(context.Background())
	require.NoError(t, err)

	s.RecordResult(action.ActionResult{Success: true})
	s.RecordResult(action.ActionResult{Success: true})
	s.RecordResult(action.ActionResult{Success: false})

	stats := s.Stats(7)
	assert.InDelta(t, 2.0/3.0, stats.SuccessRate, 0.0001)
	assert.Equal(t, 7, stats.CachedElements)
}

func TestSession_WorkflowState_RoundTrips(t *testing.T) {
	mgr := newTestManager(t, session.DefaultManagerConfig())
	s, err := mgr.CreateSession(context.Background())
	require.NoError(t, err)

	_, ok := s.WorkflowState("step")
	assert.False(t, ok)

	s.SetWorkflowState("step", 3)
	v, ok := s.WorkflowState("step")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestSession_LockPage_SerializesAccess(t *testing.T) {
	mgr := newTestManager(t, session.DefaultManagerConfig())
	s, err := mgr.CreateSession(context.Background())
	require.NoError(t, err)

	s.LockPage()
	unlocked := make(chan struct{})
	go func() {
		s.LockPage()
		close(unlocked)
		s.UnlockPage()
	}()

	select {
	case <-unlocked:
		t.Fatal("second LockPage should not have acquired the lock while held")
	case <-time.After(50 * time.Millisecond):
	}
	s.UnlockPage()

	select {
	case <-unlocked:
	case <-time.After(time.Second):
		t.Fatal("second LockPage never acquired after unlock")
	}
}
