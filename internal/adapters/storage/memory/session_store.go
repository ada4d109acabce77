package memory

import (
	"context"
	"strings"
	"sync"

	"patient-access-portal/internal/domain/session"
)

// SessionStore implementa session.Persistence en memoria (un slot = una clave).
type SessionStore struct {
	mu    sync.RWMutex
	slots map[string]session.Snapshot
}

func NewSessionStore() *SessionStore {
	return &SessionStore{slots: make(map[string]session.Snapshot)}
}

func (s *SessionStore) Save(ctx context.Context, slot string, snap session.Snapshot) error {
	if strings.TrimSpace(slot) == "" {
		return session.ErrSlotRequired
	}
	if snap.Identity != nil {
		id := *snap.Identity
		snap.Identity = &id
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[slot] = snap
	return nil
}

func (s *SessionStore) Load(ctx context.Context, slot string) (session.Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.slots[slot]
	if ok && snap.Identity != nil {
		id := *snap.Identity
		snap.Identity = &id
	}
	return snap, ok, nil
}

func (s *SessionStore) Delete(ctx context.Context, slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, slot)
	return nil
}
