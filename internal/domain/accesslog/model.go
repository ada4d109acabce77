package accesslog

import (
	"time"

	"patient-access-portal/internal/domain/accessgrants"
)

// Entry registra un uso efectivo de un acceso otorgado. Append-only.
type Entry struct {
	ID string

	ProfessionalID   string
	ProfessionalName string
	ProfessionalRole string

	PatientID   string
	PatientNID  string
	PatientName string

	Scope    accessgrants.Scope
	Facility string

	At time.Time
}
