package accesslog

import (
	"context"
	"fmt"
	"time"

	"patient-access-portal/internal/domain/accessgrants"
)

// Seed carga el historial de demo. Solo para el backend en memoria.
func Seed(ctx context.Context, repo Repository) error {
	for _, e := range seedEntries() {
		if err := repo.Append(ctx, e); err != nil {
			return fmt.Errorf("seed access log %s: %w", e.ID, err)
		}
	}
	return nil
}

func at(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		panic(err)
	}
	return t
}

func seedEntries() []Entry {
	view, edit := accessgrants.ScopeView, accessgrants.ScopeEdit
	return []Entry{
		{ID: "seed-5", ProfessionalID: "6", ProfessionalName: "Nurse Paulo Costa", ProfessionalRole: "Nurse", PatientID: "2", PatientNID: "0987654321", PatientName: "Maria Francisca", Scope: view, Facility: "Health Center #5", At: at("2023-06-12T11:30:45")},
		{ID: "seed-4", ProfessionalID: "3", ProfessionalName: "Dr. Ana Sousa", ProfessionalRole: "Doctor", PatientID: "1", PatientNID: "1234567890", PatientName: "João da Silva", Scope: edit, Facility: "Central Hospital", At: at("2023-06-13T16:45:22")},
		{ID: "seed-3", ProfessionalID: "5", ProfessionalName: "Nurse Maria Inês", ProfessionalRole: "Nurse", PatientID: "3", PatientNID: "5678901234", PatientName: "Pedro Manuel", Scope: view, Facility: "Central Hospital", At: at("2023-06-14T09:05:12")},
		{ID: "seed-2", ProfessionalID: "4", ProfessionalName: "Dr. Carlos Domingos", ProfessionalRole: "Doctor", PatientID: "2", PatientNID: "0987654321", PatientName: "Maria Francisca", Scope: edit, Facility: "Health Center #5", At: at("2023-06-14T14:15:30")},
		{ID: "seed-1", ProfessionalID: "3", ProfessionalName: "Dr. Ana Sousa", ProfessionalRole: "Doctor", PatientID: "1", PatientNID: "1234567890", PatientName: "João da Silva", Scope: view, Facility: "Central Hospital", At: at("2023-06-15T10:23:45")},
	}
}
