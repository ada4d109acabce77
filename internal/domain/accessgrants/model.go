package accessgrants

import "time"

// Scope es el nivel de permiso pedido/otorgado.
type Scope string

const (
	ScopeView Scope = "view"
	ScopeEdit Scope = "edit"
)

func (s Scope) Valid() bool {
	return s == ScopeView || s == ScopeEdit
}

// Covers: edit implica view; view no implica edit.
func (s Scope) Covers(action Scope) bool {
	switch s {
	case ScopeEdit:
		return action == ScopeEdit || action == ScopeView
	case ScopeView:
		return action == ScopeView
	default:
		return false
	}
}

type Status string

const (
	StatusNone       Status = "NONE"
	StatusRequested  Status = "REQUESTED"
	StatusCodeIssued Status = "CODE_ISSUED"
	StatusGranted    Status = "GRANTED"
	StatusDenied     Status = "DENIED"
)

// Grant es un ciclo de solicitud de un profesional sobre un paciente.
// Un nuevo RequestAccess desde CODE_ISSUED/GRANTED/DENIED crea otro Grant;
// el anterior queda con SupersededAt seteado (nunca se borra).
type Grant struct {
	ID string

	ProfessionalID string
	PatientID      string

	Status Status
	Scope  Scope

	// Hash sha256 del código vigente. El código en claro nunca se guarda.
	CodeHash      string
	IssuedAt      *time.Time
	CodeExpiresAt *time.Time
	Attempts      int

	CreatedAt    time.Time
	UpdatedAt    time.Time
	GrantedAt    *time.Time
	DeniedAt     *time.Time
	SupersededAt *time.Time
}

// Key identifica el par (profesional, paciente).
type Key struct {
	ProfessionalID string
	PatientID      string
}

func (k Key) String() string {
	return k.ProfessionalID + "/" + k.PatientID
}

func (g Grant) Key() Key {
	return Key{ProfessionalID: g.ProfessionalID, PatientID: g.PatientID}
}

// HasScope indica si el grant está otorgado y cubre la acción.
func HasScope(g Grant, action Scope) bool {
	return g.Status == StatusGranted && g.Scope.Covers(action)
}
