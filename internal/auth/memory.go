package auth

import (
	"context"
	"sync"
	"time"

	"github.com/recreate-labs/recreate/internal/models"
)

// MemoryStore keeps sessions in a process-local map. Expired entries are
// hidden from Get immediately and physically removed by SweepExpired,
// which the cleanup worker calls periodically.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	ttl      time.Duration
}

// NewMemoryStore creates an in-memory session store
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*models.Session),
		ttl:      ttl,
	}
}

// Create issues a new session for the user
func (s *MemoryStore) Create(ctx context.Context, username string) (*models.Session, error) {
	token, err := models.GenerateSessionToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &models.Session{
		Token:     token,
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[token] = session
	s.mu.Unlock()

	return session, nil
}

// Get resolves a token to its session
func (s *MemoryStore) Get(ctx context.Context, token string) (*models.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok || session.IsExpired() {
		return nil, ErrSessionNotFound
	}

	cp := *session
	return &cp, nil
}

// Delete revokes a session
func (s *MemoryStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

// SweepExpired removes expired sessions and reports how many were dropped
func (s *MemoryStore) SweepExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, session := range s.sessions {
		if session.IsExpired() {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// Close is a no-op for the in-memory store
func (s *MemoryStore) Close() error {
	return nil
}
