package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"patient-access-portal/internal/domain/accesslog"
)

// accessLogRepo es append-only: no hay Update ni Delete.
type accessLogRepo struct {
	mu      sync.RWMutex
	entries []accesslog.Entry
	ids     map[string]struct{}
}

func NewAccessLogRepo() accesslog.Repository {
	return &accessLogRepo{ids: make(map[string]struct{})}
}

func (r *accessLogRepo) Append(ctx context.Context, e accesslog.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(e.ID) == "" {
		return errors.New("entry id required")
	}
	if _, exists := r.ids[e.ID]; exists {
		return errors.New("entry already exists")
	}
	r.ids[e.ID] = struct{}{}
	r.entries = append(r.entries, e)
	return nil
}

func (r *accessLogRepo) List(ctx context.Context, f accesslog.Filter) ([]accesslog.Entry, error) {
	r.mu.RLock()
	out := make([]accesslog.Entry, 0)
	for _, e := range r.entries {
		if accesslog.Matches(e, f) {
			out = append(out, e)
		}
	}
	r.mu.RUnlock()

	// más recientes primero
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].At.After(out[j].At)
	})

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}
