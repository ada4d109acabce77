package accessgrants

import "context"

type Repository interface {
	Create(ctx context.Context, g Grant) error
	Update(ctx context.Context, g Grant) error
	GetByID(ctx context.Context, id string) (Grant, error)

	// Latest devuelve el ciclo más reciente del par, o error si no hay ninguno.
	Latest(ctx context.Context, key Key) (Grant, error)

	// ListByKey devuelve todos los ciclos del par, del más viejo al más nuevo.
	ListByKey(ctx context.Context, key Key) ([]Grant, error)
	// ListByPatient devuelve los ciclos de todos los profesionales sobre el paciente.
	ListByPatient(ctx context.Context, patientID string) ([]Grant, error)
}

// PatientContacts evita importar el paquete directory (rompe ciclos).
type PatientContacts interface {
	ContactOf(ctx context.Context, patientID string) (string, error)
}
