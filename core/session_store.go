package core

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MemorySessionStore keeps sessions in process, so several pipelines built
// from the same credential can share one session.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: map[string]Session{}}
}

func (s *MemorySessionStore) LoadSession(_ context.Context, key string) (Session, bool, error) {
	if s == nil {
		return Session{}, false, fmt.Errorf("core: session store is not configured")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[strings.TrimSpace(key)]
	return session, ok, nil
}

func (s *MemorySessionStore) SaveSession(_ context.Context, key string, session Session) error {
	if s == nil {
		return fmt.Errorf("core: session store is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("core: session key is required")
	}
	if session.IsZero() {
		return fmt.Errorf("core: session token is required")
	}
	s.mu.Lock()
	s.sessions[key] = session
	s.mu.Unlock()
	return nil
}

func (s *MemorySessionStore) DeleteSession(_ context.Context, key string) error {
	if s == nil {
		return fmt.Errorf("core: session store is not configured")
	}
	s.mu.Lock()
	delete(s.sessions, strings.TrimSpace(key))
	s.mu.Unlock()
	return nil
}
