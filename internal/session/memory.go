package session

import (
	"context"
	"sync"
)

// MemoryStore is an in-process session store for tests and single-node
// development. It does not expire sessions.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]map[string]string
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]map[string]string)}
}

// Get returns the value for key in session sid, or "" if unset
func (s *MemoryStore) Get(ctx context.Context, sid, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[sid][key], nil
}

// Set writes key in session sid
func (s *MemoryStore) Set(ctx context.Context, sid, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions[sid] == nil {
		s.sessions[sid] = make(map[string]string)
	}
	s.sessions[sid][key] = value
	return nil
}

// SetIfAbsent writes key only if unset and reports whether the write happened
func (s *MemoryStore) SetIfAbsent(ctx context.Context, sid, key, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[sid][key]; exists {
		return false, nil
	}
	if s.sessions[sid] == nil {
		s.sessions[sid] = make(map[string]string)
	}
	s.sessions[sid][key] = value
	return true, nil
}

// Touch is a no-op; the memory store does not expire sessions
func (s *MemoryStore) Touch(ctx context.Context, sid string) error {
	return nil
}

// Destroy removes the session and all its markers
func (s *MemoryStore) Destroy(ctx context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sid)
	return nil
}
