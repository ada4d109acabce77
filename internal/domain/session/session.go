package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"patient-access-portal/internal/domain/identity"
)

// DefaultSlot es el nombre del slot que usa el cliente web.
const DefaultSlot = "auth-storage"

var ErrSlotRequired = errors.New("session slot required")

// Snapshot es lo que se persiste en el slot.
type Snapshot struct {
	Authenticated bool               `json:"isAuthenticated"`
	Identity      *identity.Identity `json:"user"`
	Token         string             `json:"token"`
}

// Persistence guarda snapshots bajo un slot con nombre (clave-valor).
type Persistence interface {
	Save(ctx context.Context, slot string, snap Snapshot) error
	Load(ctx context.Context, slot string) (Snapshot, bool, error)
	Delete(ctx context.Context, slot string) error
}

// Store mantiene la sesión actual de un cliente. No hay store global:
// quien lo necesite recibe el *Store explícitamente.
type Store struct {
	mu      sync.RWMutex
	slot    string
	persist Persistence
	cur     Snapshot
}

func NewStore(p Persistence, slot string) *Store {
	slot = strings.TrimSpace(slot)
	if slot == "" {
		slot = DefaultSlot
	}
	return &Store{slot: slot, persist: p}
}

// Open restaura un store desde su slot (camino de reinicio).
func Open(ctx context.Context, p Persistence, slot string) (*Store, error) {
	if strings.TrimSpace(slot) == "" {
		return nil, ErrSlotRequired
	}
	s := NewStore(p, slot)
	if p == nil {
		return s, nil
	}

	snap, ok, err := p.Load(ctx, s.slot)
	if err != nil {
		return nil, err
	}
	if ok {
		s.cur = snap
	}
	return s, nil
}

func (s *Store) Slot() string { return s.slot }

// Login reemplaza la sesión actual. El estado en memoria se reemplaza siempre;
// el error devuelto solo puede venir de la persistencia.
func (s *Store) Login(ctx context.Context, id identity.Identity, token string) error {
	idCopy := id
	snap := Snapshot{
		Authenticated: true,
		Identity:      &idCopy,
		Token:         token,
	}

	s.mu.Lock()
	s.cur = snap
	s.mu.Unlock()

	if s.persist == nil {
		return nil
	}
	return s.persist.Save(ctx, s.slot, snap)
}

// Logout limpia identidad y token.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.cur = Snapshot{}
	s.mu.Unlock()

	if s.persist == nil {
		return nil
	}
	return s.persist.Delete(ctx, s.slot)
}

func (s *Store) CurrentIdentity() (identity.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.cur.Authenticated || s.cur.Identity == nil {
		return identity.Identity{}, false
	}
	return *s.cur.Identity, true
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.Token
}

func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.Authenticated
}

// SlotFor arma el slot de una sesión HTTP concreta.
func SlotFor(sessionID string) string {
	return DefaultSlot + ":" + strings.TrimSpace(sessionID)
}

// Active indica si el slot de la sesión sigue autenticado con ese token.
// Lo usa el verificador de tokens para invalidar tokens tras un logout.
func Active(ctx context.Context, p Persistence, sessionID, token string) (bool, error) {
	if p == nil || strings.TrimSpace(sessionID) == "" {
		return false, nil
	}
	snap, ok, err := p.Load(ctx, SlotFor(sessionID))
	if err != nil || !ok {
		return false, err
	}
	return snap.Authenticated && snap.Token == token, nil
}
