package accesslog

import "context"

type Repository interface {
	Append(ctx context.Context, e Entry) error
	// List devuelve más recientes primero.
	List(ctx context.Context, filter Filter) ([]Entry, error)
}

type Filter struct {
	// Query: nombre del profesional o del paciente (sin mayúsculas), o NID (substring).
	Query string
	// Date: YYYY-MM-DD, se compara como prefijo del timestamp.
	Date      string
	Scope     string
	PatientID string
	Limit     int
}
