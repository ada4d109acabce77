package accesslog

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"patient-access-portal/internal/domain/accessgrants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *testRepo) Append(ctx context.Context, e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

func (r *testRepo) List(ctx context.Context, f Filter) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, 0)
	for _, e := range r.entries {
		if Matches(e, f) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.After(out[j].At) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func seeded(t *testing.T) *Service {
	t.Helper()
	repo := &testRepo{}
	require.NoError(t, Seed(context.Background(), repo))
	return NewService(repo)
}

func ids(items []Entry) []string {
	out := make([]string, 0, len(items))
	for _, e := range items {
		out = append(out, e.ID)
	}
	return out
}

func TestList_NewestFirst(t *testing.T) {
	svc := seeded(t)
	items, err := svc.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"seed-1", "seed-2", "seed-3", "seed-4", "seed-5"}, ids(items))
}

func TestList_Filters(t *testing.T) {
	svc := seeded(t)
	ctx := context.Background()

	cases := []struct {
		name string
		f    Filter
		want []string
	}{
		{"professional name", Filter{Query: "ana sousa"}, []string{"seed-1", "seed-4"}},
		{"patient name", Filter{Query: "FRANCISCA"}, []string{"seed-2", "seed-5"}},
		{"patient nid", Filter{Query: "5678901"}, []string{"seed-3"}},
		{"date prefix", Filter{Date: "2023-06-14"}, []string{"seed-2", "seed-3"}},
		{"scope", Filter{Scope: "edit"}, []string{"seed-2", "seed-4"}},
		{"scope all", Filter{Scope: "all"}, []string{"seed-1", "seed-2", "seed-3", "seed-4", "seed-5"}},
		{"combined", Filter{Query: "maria", Scope: "view"}, []string{"seed-3", "seed-5"}},
		{"limit", Filter{Limit: 2}, []string{"seed-1", "seed-2"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items, err := svc.List(ctx, tc.f)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ids(items))
		})
	}
}

func TestList_InvalidScope(t *testing.T) {
	svc := seeded(t)
	_, err := svc.List(context.Background(), Filter{Scope: "delete"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRecord(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	e, err := svc.Record(context.Background(), RecordInput{
		ProfessionalID:   "2",
		ProfessionalName: "Dr. Maria Silva",
		PatientID:        "1",
		PatientNID:       "1234567890",
		PatientName:      "João da Silva",
		Scope:            accessgrants.ScopeView,
		Facility:         "Central Hospital",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "2024-01-02", e.At.Format(DateLayout))

	items, err := svc.List(context.Background(), Filter{Date: "2024-01-02"})
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = svc.Record(context.Background(), RecordInput{ProfessionalID: "2", PatientID: "1"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
