package identity

import (
	"errors"
	"strings"
)

var ErrUnknownRole = errors.New("unknown role")

// Role es un conjunto cerrado: cualquier string fuera de estas constantes
// se rechaza en ParseRole antes de llegar al evaluador de políticas.
type Role string

const (
	RoleAdmin              Role = "admin"
	RoleHealthProfessional Role = "health_professional"
	RolePatient            Role = "patient"
)

func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleHealthProfessional:
		return RoleHealthProfessional, nil
	case RolePatient:
		return RolePatient, nil
	default:
		return "", ErrUnknownRole
	}
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// Identity es quien está autenticado en la sesión. Inmutable mientras dure.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`

	// Unidad sanitaria a la que pertenece (solo profesionales).
	HealthUnitID   string `json:"healthUnitId,omitempty"`
	HealthUnitName string `json:"healthUnitName,omitempty"`
}

func (i Identity) IsZero() bool {
	return strings.TrimSpace(i.ID) == ""
}
