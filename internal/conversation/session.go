package conversation

import (
	"sync"

	"github.com/google/uuid"
)

// Session pairs a conversation context with a lock that serializes runs.
// Callers must hold the lock for the duration of a pipeline run so that
// concurrent requests against the same session execute one at a time.
type Session struct {
	ID  string
	mu  sync.Mutex
	ctx *Context
}

// Lock acquires the session for a run.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session after a run.
func (s *Session) Unlock() { s.mu.Unlock() }

// Context returns the session's conversation history. Only call while
// holding the session lock.
func (s *Session) Context() *Context { return s.ctx }

// SessionManager hands out sessions keyed by id, creating them on first
// use. Safe for concurrent use.
type SessionManager struct {
	mu       sync.Mutex
	window   int
	sessions map[string]*Session
}

// NewSessionManager creates a manager whose sessions retain the given
// number of turns.
func NewSessionManager(window int) *SessionManager {
	return &SessionManager{
		window:   window,
		sessions: make(map[string]*Session),
	}
}

// Acquire returns the session for id, creating it if unknown. An empty id
// allocates a fresh session with a generated id.
func (m *SessionManager) Acquire(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id == "" {
		id = uuid.NewString()
	}
	s, ok := m.sessions[id]
	if !ok {
		s = &Session{ID: id, ctx: NewContext(m.window)}
		m.sessions[id] = s
	}
	return s
}

// Lookup returns the session for id without creating one.
func (m *SessionManager) Lookup(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}
