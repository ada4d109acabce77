package records

import "context"

type Repository interface {
	Create(ctx context.Context, rec ClinicalRecord) error
	// ListByPatient devuelve más recientes primero (por Date).
	ListByPatient(ctx context.Context, patientID string) ([]ClinicalRecord, error)
}
