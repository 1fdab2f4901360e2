package state

import (
	"sync"
	"time"
)

// Info is a point-in-time view of the session state.
type Info struct {
	SessionID string
	Phase     Phase
	StartedAt time.Time
	Commands  int
}

// Manager manages session state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	sessionID string
	phase     Phase
	startedAt time.Time
	commands  int
}

// New creates a new state manager in the active phase.
func New(sessionID string, startedAt time.Time) *Manager {
	return &Manager{
		sessionID: sessionID,
		phase:     PhaseActive,
		startedAt: startedAt,
	}
}

// GetSessionID returns the session ID.
func (m *Manager) GetSessionID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessionID
}

// GetPhase returns the current session phase.
func (m *Manager) GetPhase() Phase {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.phase
}

// IsActive returns true if the session accepts commands.
func (m *Manager) IsActive() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.phase == PhaseActive
}

// Close moves the session to the closed phase.
// It returns false if the session was already closed.
func (m *Manager) Close() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase == PhaseClosed {
		return false
	}
	m.phase = PhaseClosed
	return true
}

// IncrementCommands counts a completed command.
func (m *Manager) IncrementCommands() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands++
}

// Info returns a snapshot of the session state.
func (m *Manager) Info() Info {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Info{
		SessionID: m.sessionID,
		Phase:     m.phase,
		StartedAt: m.startedAt,
		Commands:  m.commands,
	}
}
