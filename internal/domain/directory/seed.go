package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"patient-access-portal/internal/domain/identity"

	"golang.org/x/crypto/bcrypt"
)

// SeedOptions controla la carga de datos demo.
type SeedOptions struct {
	// Password se aplica a todas las cuentas demo.
	Password string
	// BcryptCost 0 => bcrypt.DefaultCost.
	BcryptCost int
}

// Seed carga pacientes, unidades y cuentas de demo. Es idempotente:
// lo que ya existe se saltea.
func Seed(ctx context.Context, repo Repository, opts SeedOptions) error {
	if strings.TrimSpace(opts.Password) == "" {
		return fmt.Errorf("seed: %w: password required", ErrInvalidInput)
	}
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), cost)
	if err != nil {
		return fmt.Errorf("seed: hash password: %w", err)
	}

	for _, u := range seedHealthUnits() {
		if err := repo.CreateHealthUnit(ctx, u); err != nil && !isDuplicate(err) {
			return fmt.Errorf("seed health unit %s: %w", u.ID, err)
		}
	}

	for _, p := range seedPatients() {
		if _, err := repo.GetPatient(ctx, p.ID); err == nil {
			continue
		}
		if err := repo.CreatePatient(ctx, p); err != nil && !isDuplicate(err) {
			return fmt.Errorf("seed patient %s: %w", p.ID, err)
		}
	}

	for _, a := range seedAccounts() {
		if _, err := repo.GetAccount(ctx, a.ID); err == nil {
			continue
		}
		a.PasswordHash = string(hash)
		if err := repo.CreateAccount(ctx, a); err != nil && !isDuplicate(err) {
			return fmt.Errorf("seed account %s: %w", a.ID, err)
		}
	}
	return nil
}

// ErrDuplicate lo devuelven los adapters en Create* con ID repetido.
var ErrDuplicate = errors.New("already exists")

func isDuplicate(err error) bool { return errors.Is(err, ErrDuplicate) }

func day(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func seedPatients() []Patient {
	return []Patient{
		{
			ID:         "1",
			NID:        "1234567890",
			FullName:   "João da Silva",
			Phone:      "+258 84 123 4567",
			BirthDate:  day("1980-05-15"),
			Gender:     GenderMale,
			Address:    "Av. Eduardo Mondlane, Maputo",
			BloodType:  "O+",
			Conditions: []string{"Hipertensão", "Diabetes Tipo 2"},
			LastVisit:  day("2023-04-10"),
		},
		{
			ID:         "2",
			NID:        "0987654321",
			FullName:   "Maria Francisca",
			Phone:      "+258 82 765 4321",
			BirthDate:  day("1992-09-23"),
			Gender:     GenderFemale,
			Address:    "Rua da Paz, Beira",
			BloodType:  "A-",
			Conditions: []string{"Asma"},
			LastVisit:  day("2023-05-22"),
		},
		{
			ID:         "3",
			NID:        "5678901234",
			FullName:   "Pedro Manuel",
			Phone:      "+258 86 890 1234",
			BirthDate:  day("1975-12-10"),
			Gender:     GenderMale,
			Address:    "Av. das Indústrias, Matola",
			BloodType:  "B+",
			Conditions: []string{"Artrite", "Colesterol Alto"},
			LastVisit:  day("2023-03-15"),
		},
	}
}

func seedHealthUnits() []HealthUnit {
	return []HealthUnit{
		{ID: "1", Name: "Central Hospital", Province: "Maputo", Type: "Hospital", StaffCount: 120, Status: StatusActive},
		{ID: "2", Name: "Health Center #5", Province: "Maputo", Type: "Health Center", StaffCount: 45, Status: StatusActive},
		{ID: "3", Name: "Rural Clinic Boane", Province: "Maputo", Type: "Clinic", StaffCount: 15, Status: StatusActive},
		{ID: "4", Name: "Beira Provincial Hospital", Province: "Sofala", Type: "Hospital", StaffCount: 95, Status: StatusActive},
		{ID: "5", Name: "Matola Health Post", Province: "Maputo", Type: "Health Post", StaffCount: 8, Status: StatusInactive},
	}
}

func seedAccounts() []UserAccount {
	hp := identity.RoleHealthProfessional
	return []UserAccount{
		{ID: "1", Name: "Admin User", Email: "admin@example.com", Role: identity.RoleAdmin, Profession: "Administrator", HealthUnitName: "System", Status: StatusActive},
		{ID: "2", Name: "Dr. Maria Silva", Email: "doctor@example.com", Role: hp, Profession: "Doctor", HealthUnitID: "1", HealthUnitName: "Central Hospital", Status: StatusActive},
		{ID: "3", Name: "Dr. Ana Sousa", Email: "ana.sousa@example.com", Role: hp, Profession: "Doctor", HealthUnitID: "1", HealthUnitName: "Central Hospital", Status: StatusActive},
		{ID: "4", Name: "Carlos Domingos", Email: "carlos.domingos@example.com", Role: hp, Profession: "Doctor", HealthUnitID: "2", HealthUnitName: "Health Center #5", Status: StatusActive},
		{ID: "5", Name: "Maria Inês", Email: "maria.ines@example.com", Role: hp, Profession: "Nurse", HealthUnitID: "1", HealthUnitName: "Central Hospital", Status: StatusActive},
		{ID: "6", Name: "Paulo Costa", Email: "paulo.costa@example.com", Role: hp, Profession: "Nurse", HealthUnitID: "2", HealthUnitName: "Health Center #5", Status: StatusInactive},
	}
}
