package policy

import (
	"context"
	"strings"

	"patient-access-portal/internal/domain/accessgrants"
	"patient-access-portal/internal/domain/identity"
)

const (
	ReasonAllowed           = "allowed"
	ReasonAdminNoClinical   = "admin_no_clinical_access"
	ReasonPatientSelf       = "patient_self_service"
	ReasonAdminOnly         = "admin_only"
	ReasonUnknownRole       = "unknown_role"
	ReasonInvalidPatientRef = "invalid_patient"
)

// Decision es Allow o Deny(Reason). Para profesionales, Reason es el estado
// del grant y sirve para elegir el paso del flujo de solicitud.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
}

func allow() Decision { return Decision{Allowed: true, Reason: ReasonAllowed} }

func deny(reason string) Decision { return Decision{Reason: reason} }

// Evaluate es puro: mismo input, misma decisión.
func Evaluate(id identity.Identity, g accessgrants.Grant, action accessgrants.Scope) Decision {
	switch id.Role {
	case identity.RoleAdmin:
		return deny(ReasonAdminNoClinical)

	case identity.RoleHealthProfessional:
		st := g.Status
		if st == "" {
			st = accessgrants.StatusNone
		}
		// un grant de otro profesional no cuenta
		if g.ProfessionalID != "" && g.ProfessionalID != id.ID {
			return deny(string(accessgrants.StatusNone))
		}
		if accessgrants.HasScope(g, action) {
			return allow()
		}
		return deny(string(st))

	case identity.RolePatient:
		return deny(ReasonPatientSelf)

	default:
		return deny(ReasonUnknownRole)
	}
}

// CanAdminister gatea pantallas de gestión (usuarios, unidades, logs).
func CanAdminister(id identity.Identity) Decision {
	if id.Role == identity.RoleAdmin {
		return allow()
	}
	return deny(ReasonAdminOnly)
}

// GrantLookup lo satisface *accessgrants.Service.
type GrantLookup interface {
	Current(ctx context.Context, key accessgrants.Key) (accessgrants.Grant, error)
}

// DecisionObserver recibe cada decisión (métricas).
type DecisionObserver interface {
	Decided(action accessgrants.Scope, d Decision)
}

type Evaluator struct {
	grants   GrantLookup
	observer DecisionObserver
}

func NewEvaluator(grants GrantLookup, observer DecisionObserver) *Evaluator {
	return &Evaluator{grants: grants, observer: observer}
}

// CanAccess carga el grant vigente de (id, patientID) y evalúa.
// Solo los profesionales tocan el lookup; el error es siempre de backend.
func (e *Evaluator) CanAccess(ctx context.Context, id identity.Identity, patientID string, action accessgrants.Scope) (Decision, error) {
	var g accessgrants.Grant

	if id.Role == identity.RoleHealthProfessional {
		patientID = strings.TrimSpace(patientID)
		if patientID == "" || strings.TrimSpace(id.ID) == "" {
			d := deny(ReasonInvalidPatientRef)
			e.observe(action, d)
			return d, nil
		}

		var err error
		g, err = e.grants.Current(ctx, accessgrants.Key{ProfessionalID: id.ID, PatientID: patientID})
		if err != nil {
			return Decision{}, err
		}
	}

	d := Evaluate(id, g, action)
	e.observe(action, d)
	return d, nil
}

func (e *Evaluator) observe(action accessgrants.Scope, d Decision) {
	if e.observer != nil {
		e.observer.Decided(action, d)
	}
}
