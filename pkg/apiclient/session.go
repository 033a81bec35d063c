package apiclient

import (
	"sync"
	"time"
)

// Session holds the tokens the client authenticates with
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// SessionStore persists the current session between requests
type SessionStore interface {
	Load() (Session, bool)
	Save(Session)
	Clear()
}

// MemoryStore keeps the session in process memory
type MemoryStore struct {
	mu      sync.RWMutex
	session *Session
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored session
func (m *MemoryStore) Load() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return Session{}, false
	}
	return *m.session, true
}

// Save replaces the stored session
func (m *MemoryStore) Save(s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = &s
}

// Clear drops the stored session
func (m *MemoryStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
}
