// Package session holds the state of one analyzed video: its events,
// summary, and chat agent. Sessions are explicit objects handed to request
// handlers instead of package-level globals; the manager keeps the single
// active session the system supports.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/raphaelgruber/cligue-go/internal/agent"
	"github.com/raphaelgruber/cligue-go/internal/event"
	"github.com/raphaelgruber/cligue-go/internal/summary"
)

// Session is the complete analysis of one video. Events and summary are
// immutable after construction; only the agent's conversation advances.
type Session struct {
	ID        string
	Path      string
	Duration  float64
	Events    []event.Event
	Summary   summary.Summary
	Agent     *agent.Agent
	CreatedAt time.Time
}

// newSession assigns an ID and creation time.
func newSession(path string, duration float64, events []event.Event, sum summary.Summary, ag *agent.Agent) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Path:      path,
		Duration:  duration,
		Events:    events,
		Summary:   sum,
		Agent:     ag,
		CreatedAt: time.Now(),
	}
}

// Manager guards the current session. A single active session at a time is
// the supported scope; the ID on each session keeps a multi-session map
// extension mechanical.
type Manager struct {
	mu      sync.RWMutex
	current *Session
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

// Set replaces the current session.
func (m *Manager) Set(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = s
}

// Current returns the active session, or false when no video has been
// analyzed yet.
func (m *Manager) Current() (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current, m.current != nil
}

// Reset drops the current session.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
}
