package storage

import (
	"errors"
	"sync"

	"github.com/aliskhannn/fact-quiz/internal/domain/entities"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStorage provides in-memory storage for live quiz sessions by key
// (a chat ID for the bot, a session ID for the HTTP API).
type SessionStorage[K comparable] struct {
	mu       sync.RWMutex
	sessions map[K]entities.Session
}

// NewSessionStorage creates a new SessionStorage.
func NewSessionStorage[K comparable]() *SessionStorage[K] {
	return &SessionStorage[K]{
		sessions: make(map[K]entities.Session),
	}
}

// Store saves the session under key, replacing any previous one.
func (s *SessionStorage[K]) Store(key K, session entities.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[key] = session
}

// Get retrieves the session stored under key.
func (s *SessionStorage[K]) Get(key K) (entities.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[key]
	return session, ok
}

// Update replaces the session stored under key with the result of fn.
// fn runs under the write lock, so concurrent updates of one session are
// applied in turn. When fn fails the stored session is left unchanged and
// the session fn returned is passed through with the error.
func (s *SessionStorage[K]) Update(key K, fn func(entities.Session) (entities.Session, error)) (entities.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[key]
	if !ok {
		return entities.Session{}, ErrSessionNotFound
	}

	next, err := fn(session)
	if err != nil {
		return next, err
	}

	s.sessions[key] = next
	return next, nil
}

// Delete removes the session stored under key.
func (s *SessionStorage[K]) Delete(key K) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
}

// Len returns the number of stored sessions.
func (s *SessionStorage[K]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
