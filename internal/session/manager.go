package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"rainbowbrowser/internal/page"
)

const (
	defaultCleanupInterval = 60 * time.Second
	defaultSessionTimeout  = 1800 * time.Second
	defaultMaxSessions     = 10
	defaultMaxBrowsers     = 5
)

// PageFactory opens a new browser page/tab for a session. Production
// code wires this to a rod-backed launcher (see cmd/rainbowctl); tests
// wire it to pagefake.New.
type PageFactory func(ctx context.Context) (page.Page, error)

// ManagerConfig holds the resource limits and timers for session
// lifecycle management, each with a documented default.
type ManagerConfig struct {
	CleanupInterval time.Duration
	SessionTimeout  time.Duration
	MaxSessions     int
	MaxBrowsers     int
}

func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		CleanupInterval: defaultCleanupInterval,
		SessionTimeout:  defaultSessionTimeout,
		MaxSessions:     defaultMaxSessions,
		MaxBrowsers:     defaultMaxBrowsers,
	}
}

// Manager owns the registry of live Sessions, the shared event Bus,
// and the background cleanup loop that reaps idle sessions (spec
// session lifecycle).
type Manager struct {
	cfg     ManagerConfig
	factory PageFactory
	log     *zap.SugaredLogger
	bus     *Bus

	mu             sync.Mutex
	sessions       map[string]*Session
	browserLeases  int
	stopCleanup    chan struct{}
	cleanupStopped chan struct{}
}

func NewManager(cfg ManagerConfig, factory PageFactory, bus *Bus, log *zap.SugaredLogger) *Manager {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	m := &Manager{
		cfg:            cfg,
		factory:        factory,
		log:            log,
		bus:            bus,
		sessions:       map[string]*Session{},
		stopCleanup:    make(chan struct{}),
		cleanupStopped: make(chan struct{}),
	}
	go m.cleanupLoop()
	return m
}

func (m *Manager) Bus() *Bus { return m.bus }

// CreateSession allocates an id, leases a Page via the factory,
// registers the session, and emits SessionCreated.
func (m *Manager) CreateSession(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	if len(m.sessions) >= m.cfg.MaxSessions {
		m.mu.Unlock()
		return nil, fmt.Errorf("ResourceError: max concurrent sessions (%d) reached", m.cfg.MaxSessions)
	}
	if m.browserLeases >= m.cfg.MaxBrowsers {
		m.mu.Unlock()
		return nil, fmt.Errorf("ResourceError: max concurrent browsers (%d) reached", m.cfg.MaxBrowsers)
	}
	m.browserLeases++
	m.mu.Unlock()

	p, err := m.factory(ctx)
	if err != nil {
		m.mu.Lock()
		m.browserLeases--
		m.mu.Unlock()
		return nil, fmt.Errorf("open page: %w", err)
	}

	s := newSession(p)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.bus.Emit(Event{Type: EventSessionCreated, SessionID: s.ID})
	return s, nil
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *Manager) List() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

// RemoveSession closes a session explicitly, emitting
// SessionClosed{reason=removed}.
func (m *Manager) RemoveSession(id string) {
	m.removeLocked(id, "removed")
}

func (m *Manager) removeLocked(id, reason string) {
	m.mu.Lock()
	_, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
		m.browserLeases--
	}
	m.mu.Unlock()
	if ok {
		m.bus.Emit(Event{Type: EventSessionClosed, SessionID: id, Reason: reason})
	}
}

// cleanupLoop destroys sessions idle past SessionTimeout every
// CleanupInterval, emitting SessionClosed{reason=timeout}.
func (m *Manager) cleanupLoop() {
	defer close(m.cleanupStopped)
	t := time.NewTicker(m.cfg.CleanupInterval)
	defer t.Stop()
	for {
		select {
		case <-m.stopCleanup:
			return
		case <-t.C:
			m.reapIdle()
		}
	}
}

func (m *Manager) reapIdle() {
	m.mu.Lock()
	var stale []string
	for id, s := range m.sessions {
		if s.idleSince() > m.cfg.SessionTimeout {
			stale = append(stale, id)
		}
	}
	m.mu.Unlock()
	for _, id := range stale {
		m.removeLocked(id, "timeout")
	}
}

// Shutdown stops the cleanup loop and blocks until it exits.
func (m *Manager) Shutdown() {
	close(m.stopCleanup)
	<-m.cleanupStopped
}
