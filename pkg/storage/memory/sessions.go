package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/livelist/livelist/pkg/paging"
)

// SessionStore keeps the authenticated sessions of users in memory.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]paging.Session
}

var _ paging.SessionProvider = (*SessionStore)(nil)

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]paging.Session)}
}

// Login opens a session for userID with a fresh token, replacing any
// previous one.
func (s *SessionStore) Login(userID string) paging.Session {
	session := paging.Session{UserID: userID, Token: uuid.NewString()}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[userID] = session
	return session
}

// Logout drops the session of userID. It reports whether there was one.
func (s *SessionStore) Logout(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[userID]
	delete(s.sessions, userID)
	return ok
}

func (s *SessionStore) GetSession(_ context.Context, userID string) (paging.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[userID]
	return session, ok
}
