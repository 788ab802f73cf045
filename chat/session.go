// Package chat manages chatbot sessions: in-memory session storage with
// periodic idle sweeping, and the service that relays messages to the
// completion client with token-bounded conversation context.
package chat

import (
	"sync"
	"time"

	"github.com/teodorv/medcycle/llm"
)

// Session is one chatbot conversation. The accumulated context lives in a
// token-bounded llm.Memory; old messages fall off when the budget is hit.
type Session struct {
	ID           string
	Memory       *llm.Memory
	CreatedAt    time.Time
	LastActivity time.Time
}

// Store is the injected session store abstraction. A single MemoryStore is
// constructed per process and passed to the components that need it, so
// tests can substitute doubles.
type Store interface {
	Get(id string) (*Session, bool)
	Put(session *Session)
	Delete(id string)
	Touch(id string, at time.Time)
	Sweep(idleBefore time.Time) int
}

// MemoryStore keeps sessions in a process-memory map guarded by a RWMutex.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
	}
}

func (s *MemoryStore) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

func (s *MemoryStore) Put(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
}

func (s *MemoryStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Touch updates the session's last-activity timestamp.
func (s *MemoryStore) Touch(id string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[id]; ok {
		session.LastActivity = at
	}
}

// Sweep removes sessions idle since before idleBefore and returns how many
// were removed. Candidates are collected under a read lock first; each is
// re-checked before deletion so a session touched concurrently survives.
func (s *MemoryStore) Sweep(idleBefore time.Time) int {
	s.mu.RLock()
	stale := make([]string, 0)
	for id, session := range s.sessions {
		if session.LastActivity.Before(idleBefore) {
			stale = append(stale, id)
		}
	}
	s.mu.RUnlock()

	removed := 0
	s.mu.Lock()
	for _, id := range stale {
		if session, ok := s.sessions[id]; ok && session.LastActivity.Before(idleBefore) {
			delete(s.sessions, id)
			removed++
		}
	}
	s.mu.Unlock()
	return removed
}

// Len returns the number of stored sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
