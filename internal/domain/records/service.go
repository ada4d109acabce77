package records

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
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

type CreateInput struct {
	// Date zero => hoy.
	Date             time.Time
	ProfessionalName string
	Facility         string
	Notes            string
	Conditions       []string
	Exams            []string
}

// Create no valida permisos: eso lo hace el handler con policy.
func (s *Service) Create(ctx context.Context, patientID, createdBy string, in CreateInput) (ClinicalRecord, error) {
	patientID = strings.TrimSpace(patientID)
	createdBy = strings.TrimSpace(createdBy)
	if patientID == "" || createdBy == "" {
		return ClinicalRecord{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Notes) == "" {
		return ClinicalRecord{}, ErrInvalidInput
	}

	now := s.now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	y, m, d := date.Date()

	rec := ClinicalRecord{
		ID:               uuid.NewString(),
		PatientID:        patientID,
		Date:             time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		ProfessionalName: strings.TrimSpace(in.ProfessionalName),
		Facility:         strings.TrimSpace(in.Facility),
		Notes:            strings.TrimSpace(in.Notes),
		Conditions:       cleanList(in.Conditions),
		Exams:            cleanList(in.Exams),
		CreatedBy:        createdBy,
		CreatedAt:        now,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return ClinicalRecord{}, err
	}
	return rec, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]ClinicalRecord, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByPatient(ctx, patientID)
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
