package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/PabloGalante/travelbot/internal/domain"
)

// SessionStore keeps one session per user in process memory. Sessions are
// copied in and out so callers never share state with the store.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[domain.UserID]*domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[domain.UserID]*domain.Session),
	}
}

func (s *SessionStore) SaveSession(_ context.Context, session *domain.Session) error {
	if session == nil || session.UserID == "" {
		return errors.New("session with a user id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.UserID] = session.Clone()
	return nil
}

func (s *SessionStore) GetSession(_ context.Context, userID domain.UserID) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	return sess.Clone(), nil
}

// DeleteSession is a no-op for unknown users.
func (s *SessionStore) DeleteSession(_ context.Context, userID domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
	return nil
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
