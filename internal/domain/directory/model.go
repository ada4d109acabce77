package directory

import (
	"time"

	"patient-access-portal/internal/domain/identity"
)

// Gender como en la ficha del paciente.
// @Enum M, F
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// Status de cuentas y unidades sanitarias.
// @Enum active, inactive
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Patient es la ficha demográfica. NID es el número de identificação nacional (único).
type Patient struct {
	ID       string
	NID      string
	FullName string

	// Phone es el contacto registrado para los códigos de verificación.
	Phone string

	BirthDate  *time.Time
	Gender     Gender
	Address    string
	BloodType  string
	Conditions []string
	LastVisit  *time.Time
}

// UserAccount es la cuenta con la que alguien inicia sesión.
type UserAccount struct {
	ID    string
	Name  string
	Email string
	Role  identity.Role

	Profession     string
	HealthUnitID   string
	HealthUnitName string
	Status         Status

	PasswordHash string
}

func (a UserAccount) Identity() identity.Identity {
	return identity.Identity{
		ID:             a.ID,
		Name:           a.Name,
		Email:          a.Email,
		Role:           a.Role,
		HealthUnitID:   a.HealthUnitID,
		HealthUnitName: a.HealthUnitName,
	}
}

type HealthUnit struct {
	ID         string
	Name       string
	Province   string
	Type       string
	StaffCount int
	Status     Status
}
