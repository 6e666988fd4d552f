package intake

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session ties one browser to one controller instance.
type Session struct {
	ID         string
	Controller *Controller
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// Manager holds live intake sessions in memory. Sessions expire after a TTL
// and are swept by the background purge job.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	factory  func(sessionID string) *Controller
}

// NewManager creates a session manager. factory builds the controller for
// each new session; the session ID lets it wire per-session collaborators.
func NewManager(ttl time.Duration, factory func(sessionID string) *Controller) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		factory:  factory,
	}
}

// Create starts a new session with a fresh controller.
func (m *Manager) Create() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	id := uuid.NewString()
	s := &Session{
		ID:         id,
		Controller: m.factory(id),
		CreatedAt:  now,
		ExpiresAt:  now.Add(m.ttl),
	}
	m.sessions[s.ID] = s
	return s
}

// Get returns the session if it exists and has not expired. A hit slides the
// expiry forward.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	if time.Now().After(s.ExpiresAt) {
		delete(m.sessions, id)
		return nil, false
	}
	s.ExpiresAt = time.Now().Add(m.ttl)
	return s, true
}

// GetOrCreate resolves id to a live session, creating one when the id is
// empty, unknown or expired.
func (m *Manager) GetOrCreate(id string) *Session {
	if id != "" {
		if s, ok := m.Get(id); ok {
			return s
		}
	}
	return m.Create()
}

// Delete removes a session immediately.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// PurgeExpired removes expired sessions and returns their IDs so callers can
// clean up associated resources (stored uploads).
func (m *Manager) PurgeExpired() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	var purged []string
	for id, s := range m.sessions {
		if now.After(s.ExpiresAt) {
			delete(m.sessions, id)
			purged = append(purged, id)
		}
	}
	return purged
}
