package memory

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"

	"patient-access-portal/internal/domain/records"
)

type recordsRepo struct {
	mu        sync.RWMutex
	byPatient map[string][]records.ClinicalRecord
	ids       map[string]struct{}
}

func NewRecordsRepo() records.Repository {
	return &recordsRepo{
		byPatient: make(map[string][]records.ClinicalRecord),
		ids:       make(map[string]struct{}),
	}
}

func (r *recordsRepo) Create(ctx context.Context, rec records.ClinicalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("record id required")
	}
	if _, exists := r.ids[rec.ID]; exists {
		return errors.New("record already exists")
	}
	rec.Conditions = slices.Clone(rec.Conditions)
	rec.Exams = slices.Clone(rec.Exams)

	r.ids[rec.ID] = struct{}{}
	r.byPatient[rec.PatientID] = append(r.byPatient[rec.PatientID], rec)
	return nil
}

func (r *recordsRepo) ListByPatient(ctx context.Context, patientID string) ([]records.ClinicalRecord, error) {
	r.mu.RLock()
	out := slices.Clone(r.byPatient[patientID])
	r.mu.RUnlock()

	if out == nil {
		out = make([]records.ClinicalRecord, 0)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}
