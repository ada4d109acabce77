package memory

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"patient-access-portal/internal/domain/directory"
)

type directoryRepo struct {
	mu sync.RWMutex

	patients     map[string]directory.Patient
	patientOrder []string

	accounts     map[string]directory.UserAccount
	accountOrder []string
	byEmail      map[string]string

	units     map[string]directory.HealthUnit
	unitOrder []string
}

func NewDirectoryRepo() directory.Repository {
	return &directoryRepo{
		patients: make(map[string]directory.Patient),
		accounts: make(map[string]directory.UserAccount),
		byEmail:  make(map[string]string),
		units:    make(map[string]directory.HealthUnit),
	}
}

func (r *directoryRepo) CreatePatient(ctx context.Context, p directory.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("patient id required")
	}
	if _, exists := r.patients[p.ID]; exists {
		return directory.ErrDuplicate
	}
	for _, other := range r.patients {
		if other.NID == p.NID {
			return directory.ErrDuplicate
		}
	}
	p.Conditions = slices.Clone(p.Conditions)
	r.patients[p.ID] = p
	r.patientOrder = append(r.patientOrder, p.ID)
	return nil
}

func (r *directoryRepo) GetPatient(ctx context.Context, id string) (directory.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.patients[id]
	if !ok {
		return directory.Patient{}, directory.ErrNotFound
	}
	p.Conditions = slices.Clone(p.Conditions)
	return p, nil
}

// EachPatient copia el orden bajo lock y no lo retiene mientras llama a fn,
// así fn puede volver a entrar al repo.
func (r *directoryRepo) EachPatient(ctx context.Context, fn func(directory.Patient) bool) error {
	r.mu.RLock()
	order := slices.Clone(r.patientOrder)
	r.mu.RUnlock()

	for _, id := range order {
		if err := ctx.Err(); err != nil {
			return err
		}
		p, err := r.GetPatient(ctx, id)
		if err != nil {
			continue
		}
		if !fn(p) {
			return nil
		}
	}
	return nil
}

func (r *directoryRepo) CreateAccount(ctx context.Context, a directory.UserAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("account id required")
	}
	email := strings.ToLower(strings.TrimSpace(a.Email))
	if _, exists := r.accounts[a.ID]; exists {
		return directory.ErrDuplicate
	}
	if _, exists := r.byEmail[email]; exists {
		return directory.ErrDuplicate
	}
	a.Email = email
	r.accounts[a.ID] = a
	r.accountOrder = append(r.accountOrder, a.ID)
	r.byEmail[email] = a.ID
	return nil
}

func (r *directoryRepo) GetAccount(ctx context.Context, id string) (directory.UserAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[id]
	if !ok {
		return directory.UserAccount{}, directory.ErrNotFound
	}
	return a, nil
}

func (r *directoryRepo) GetAccountByEmail(ctx context.Context, email string) (directory.UserAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return directory.UserAccount{}, directory.ErrNotFound
	}
	return r.accounts[id], nil
}

func (r *directoryRepo) ListAccounts(ctx context.Context) ([]directory.UserAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]directory.UserAccount, 0, len(r.accountOrder))
	for _, id := range r.accountOrder {
		out = append(out, r.accounts[id])
	}
	return out, nil
}

func (r *directoryRepo) CreateHealthUnit(ctx context.Context, u directory.HealthUnit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(u.ID) == "" {
		return errors.New("health unit id required")
	}
	if _, exists := r.units[u.ID]; exists {
		return directory.ErrDuplicate
	}
	r.units[u.ID] = u
	r.unitOrder = append(r.unitOrder, u.ID)
	return nil
}

func (r *directoryRepo) ListHealthUnits(ctx context.Context) ([]directory.HealthUnit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]directory.HealthUnit, 0, len(r.unitOrder))
	for _, id := range r.unitOrder {
		out = append(out, r.units[id])
	}
	return out, nil
}
