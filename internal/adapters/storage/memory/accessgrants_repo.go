package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"patient-access-portal/internal/domain/accessgrants"
)

type accessGrantsRepo struct {
	mu sync.RWMutex

	byID map[string]accessgrants.Grant
	// ciclos por par en orden de creación; el último es el vigente
	byKey map[accessgrants.Key][]string
}

func NewAccessGrantsRepo() accessgrants.Repository {
	return &accessGrantsRepo{
		byID:  make(map[string]accessgrants.Grant),
		byKey: make(map[accessgrants.Key][]string),
	}
}

func (r *accessGrantsRepo) Create(ctx context.Context, g accessgrants.Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(g.ID) == "" {
		return errors.New("grant id required")
	}
	if _, exists := r.byID[g.ID]; exists {
		return errors.New("grant already exists")
	}

	r.byID[g.ID] = g
	k := g.Key()
	r.byKey[k] = append(r.byKey[k], g.ID)
	return nil
}

func (r *accessGrantsRepo) Update(ctx context.Context, g accessgrants.Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, exists := r.byID[g.ID]
	if !exists {
		return accessgrants.ErrNotFound
	}
	if prev.Key() != g.Key() {
		return errors.New("grant key is immutable")
	}
	r.byID[g.ID] = g
	return nil
}

func (r *accessGrantsRepo) GetByID(ctx context.Context, id string) (accessgrants.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.byID[id]
	if !ok {
		return accessgrants.Grant{}, accessgrants.ErrNotFound
	}
	return g, nil
}

func (r *accessGrantsRepo) Latest(ctx context.Context, key accessgrants.Key) (accessgrants.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byKey[key]
	if len(ids) == 0 {
		return accessgrants.Grant{}, accessgrants.ErrNotFound
	}
	return r.byID[ids[len(ids)-1]], nil
}

func (r *accessGrantsRepo) ListByKey(ctx context.Context, key accessgrants.Key) ([]accessgrants.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byKey[key]
	out := make([]accessgrants.Grant, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.byID[id])
	}
	return out, nil
}

func (r *accessGrantsRepo) ListByPatient(ctx context.Context, patientID string) ([]accessgrants.Grant, error) {
	return r.listWhere(func(g accessgrants.Grant) bool { return g.PatientID == patientID }), nil
}

func (r *accessGrantsRepo) listWhere(keep func(accessgrants.Grant) bool) []accessgrants.Grant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]accessgrants.Grant, 0)
	for _, g := range r.byID {
		if keep(g) {
			out = append(out, g)
		}
	}
	sortGrants(out)
	return out
}

// Orden estable por created_at asc; desempata por id.
func sortGrants(items []accessgrants.Grant) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}
