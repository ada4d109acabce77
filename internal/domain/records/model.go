package records

import "time"

// ClinicalRecord es una entrada de la historia clínica del paciente.
type ClinicalRecord struct {
	ID        string
	PatientID string

	// Date es el día de la consulta (sin hora).
	Date time.Time

	ProfessionalName string
	Facility         string

	Notes      string
	Conditions []string
	Exams      []string

	CreatedBy string
	CreatedAt time.Time
}
