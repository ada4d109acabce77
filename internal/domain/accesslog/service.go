package accesslog

import (
	"context"
	"errors"
	"strings"
	"time"

	"patient-access-portal/internal/domain/accessgrants"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

const (
	DateLayout   = "2006-01-02"
	DefaultLimit = 200
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type RecordInput struct {
	ProfessionalID   string
	ProfessionalName string
	ProfessionalRole string

	PatientID   string
	PatientNID  string
	PatientName string

	Scope    accessgrants.Scope
	Facility string
}

func (s *Service) Record(ctx context.Context, in RecordInput) (Entry, error) {
	if strings.TrimSpace(in.ProfessionalID) == "" || strings.TrimSpace(in.PatientID) == "" {
		return Entry{}, ErrInvalidInput
	}
	if !in.Scope.Valid() {
		return Entry{}, ErrInvalidInput
	}

	e := Entry{
		ID:               uuid.NewString(),
		ProfessionalID:   strings.TrimSpace(in.ProfessionalID),
		ProfessionalName: strings.TrimSpace(in.ProfessionalName),
		ProfessionalRole: strings.TrimSpace(in.ProfessionalRole),
		PatientID:        strings.TrimSpace(in.PatientID),
		PatientNID:       strings.TrimSpace(in.PatientNID),
		PatientName:      strings.TrimSpace(in.PatientName),
		Scope:            in.Scope,
		Facility:         strings.TrimSpace(in.Facility),
		At:               s.now().UTC(),
	}

	if err := s.repo.Append(ctx, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]Entry, error) {
	f.Query = strings.TrimSpace(f.Query)
	f.Date = strings.TrimSpace(f.Date)
	f.Scope = strings.TrimSpace(f.Scope)
	if f.Scope == "all" {
		f.Scope = ""
	}
	if f.Scope != "" && !accessgrants.Scope(f.Scope).Valid() {
		return nil, ErrInvalidInput
	}
	if f.Limit <= 0 || f.Limit > DefaultLimit {
		f.Limit = DefaultLimit
	}
	return s.repo.List(ctx, f)
}

// Matches aplica el filtro en memoria. Lo comparten los adapters que no
// pueden empujar el filtro al backend.
func Matches(e Entry, f Filter) bool {
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(e.ProfessionalName), q) &&
			!strings.Contains(strings.ToLower(e.PatientName), q) &&
			!strings.Contains(e.PatientNID, f.Query) {
			return false
		}
	}
	if f.Date != "" && !strings.HasPrefix(e.At.Format(time.RFC3339), f.Date) {
		return false
	}
	if f.Scope != "" && string(e.Scope) != f.Scope {
		return false
	}
	if f.PatientID != "" && e.PatientID != f.PatientID {
		return false
	}
	return true
}
