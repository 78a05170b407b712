package state

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore keeps session contexts in process memory. Used by the CLI
// entrypoint and by tests; contexts are deep-copied through JSON so a
// caller mutating a loaded session never aliases the stored one.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]byte)}
}

func (m *MemoryStore) Load(_ context.Context, sessionID string) (*SessionContext, error) {
	if sessionID == "" {
		return nil, ErrInvalidSession
	}
	m.mu.RLock()
	raw, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	var sess SessionContext
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (m *MemoryStore) Save(_ context.Context, sess *SessionContext) error {
	if sess == nil {
		return ErrNilSession
	}
	if err := sess.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.sessions[sess.SessionID] = raw
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrInvalidSession
	}
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
	return nil
}
