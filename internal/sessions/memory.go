package sessions

import (
	"context"
	"sync"
)

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]DesignSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]DesignSession),
	}
}

func (s *MemoryStore) Save(_ context.Context, session *DesignSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.SessionID] = cloneSession(*session)
	return nil
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (*DesignSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	out := cloneSession(sess)
	return &out, nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func cloneSession(sess DesignSession) DesignSession {
	sess.ChatHistory = append(sess.ChatHistory[:0:0], sess.ChatHistory...)
	sess.Bom = append(sess.Bom[:0:0], sess.Bom...)
	return sess
}
