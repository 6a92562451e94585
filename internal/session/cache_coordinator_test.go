package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rainbowbrowser/internal/session"
)

type fakeInvalidator struct{ calls int }

func (f *fakeInvalidator) Invalidate() { f.calls++ }

func TestCacheCoordinator_NavigationCompleted_ClearsElementAndPageKeys(t *testing.T) {
	bus := session.NewBus()
	perception := &fakeInvalidator{}
	screenshots := &fakeInvalidator{}
	tools := session.NewToolResultCache()
	tools.Put("element_button", 1)
	tools.Put("page_title", 2)
	tools.Put("extract_text", 3)

	cc := session.NewCacheCoordinator(bus, "s1", perception, screenshots, tools)
	go cc.Run()
	t.Cleanup(cc.Stop)

	invalidated := bus.Subscribe(session.EventCacheInvalidated)
	bus.Emit(session.Event{Type: session.EventNavigationCompleted, SessionID: "s1"})

	select {
	case <-invalidated:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for CacheInvalidated")
	}

	assert.Equal(t, 1, perception.calls)
	assert.Equal(t, 1, screenshots.calls)
	assert.Equal(t, 1, tools.Len())
}

func TestCacheCoordinator_SessionClosed_WildcardClearsEntirePartition(t *testing.T) {
	bus := session.NewBus()
	perception := &fakeInvalidator{}
	screenshots := &fakeInvalidator{}
	tools := session.NewToolResultCache()
	tools.Put("element_button", 1)
	tools.Put("extract_text", 2)
	tools.Put("anything_else", 3)

	cc := session.NewCacheCoordinator(bus, "s1", perception, screenshots, tools)
	go cc.Run()
	t.Cleanup(cc.Stop)

	invalidated := bus.Subscribe(session.EventCacheInvalidated)
	bus.Emit(session.Event{Type: session.EventSessionClosed, SessionID: "s1", Reason: "removed"})

	select {
	case ev := <-invalidated:
		assert.Equal(t, "session_closed", ev.Reason)
		assert.ElementsMatch(t, []string{"element_button", "extract_text", "anything_else"}, ev.Keys)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for CacheInvalidated")
	}

	assert.Equal(t, 0, tools.Len())
}

func TestCacheCoordinator_IgnoresOtherSessions(t *testing.T) {
	bus := session.NewBus()
	tools := session.NewToolResultCache()
	tools.Put("element_button", 1)

	cc := session.NewCacheCoordinator(bus, "s1", nil, nil, tools)
	go cc.Run()
	t.Cleanup(cc.Stop)

	bus.Emit(session.Event{Type: session.EventSessionClosed, SessionID: "other-session"})
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 1, tools.Len())
}
