package directory_test

import (
	"context"
	"errors"
	"iter"
	"testing"

	mem "patient-access-portal/internal/adapters/storage/memory"
	"patient-access-portal/internal/domain/directory"
	"patient-access-portal/internal/domain/identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newSeeded(t *testing.T) *directory.Service {
	t.Helper()
	repo := mem.NewDirectoryRepo()
	require.NoError(t, directory.Seed(context.Background(), repo, directory.SeedOptions{
		Password:   "password",
		BcryptCost: bcrypt.MinCost,
	}))
	return directory.NewService(repo, nil)
}

func names(seq iter.Seq[directory.Patient]) []string {
	out := []string{}
	for p := range seq {
		out = append(out, p.FullName)
	}
	return out
}

func TestFindPatientsMatching_ScenarioD(t *testing.T) {
	svc := newSeeded(t)
	got := names(svc.FindPatientsMatching(context.Background(), "Maria"))
	assert.Equal(t, []string{"Maria Francisca"}, got)
}

func TestFindPatientsMatching_Rules(t *testing.T) {
	svc := newSeeded(t)
	ctx := context.Background()

	cases := []struct {
		q    string
		want []string
	}{
		{"", []string{}},
		{"   ", []string{}},
		{"joão", []string{"João da Silva"}},
		{"SILVA", []string{"João da Silva"}},
		{"1234567890", []string{"João da Silva"}},
		{"4567", []string{"João da Silva"}},
		{"0987", []string{"Maria Francisca"}},
		{"a", []string{"João da Silva", "Maria Francisca", "Pedro Manuel"}},
		{"nobody", []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.q, func(t *testing.T) {
			assert.Equal(t, tc.want, names(svc.FindPatientsMatching(ctx, tc.q)))
		})
	}
}

func TestFindPatientsMatching_LazyAndRestartable(t *testing.T) {
	svc := newSeeded(t)
	seq := svc.FindPatientsMatching(context.Background(), "a")

	// corta tras el primero
	var first string
	for p := range seq {
		first = p.FullName
		break
	}
	assert.Equal(t, "João da Silva", first)

	// se puede recorrer de nuevo completo
	assert.Len(t, names(seq), 3)
	assert.Len(t, names(seq), 3)
}

type brokenRepo struct{ directory.Repository }

func (brokenRepo) EachPatient(context.Context, func(directory.Patient) bool) error {
	return errors.New("connection reset")
}

func (brokenRepo) GetPatient(context.Context, string) (directory.Patient, error) {
	return directory.Patient{}, errors.New("connection reset")
}

func TestFindPatientsMatching_BackendFailureIsEmpty(t *testing.T) {
	svc := directory.NewService(brokenRepo{}, nil)
	assert.Empty(t, names(svc.FindPatientsMatching(context.Background(), "Maria")))

	_, err := svc.FindPatient(context.Background(), "1")
	assert.ErrorIs(t, err, directory.ErrNotFound)
}

func TestFindPatient(t *testing.T) {
	svc := newSeeded(t)
	ctx := context.Background()

	p, err := svc.FindPatient(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "0987654321", p.NID)
	assert.Equal(t, []string{"Asma"}, p.Conditions)

	_, err = svc.FindPatient(ctx, "99")
	assert.ErrorIs(t, err, directory.ErrNotFound)
}

func TestContactOf(t *testing.T) {
	svc := newSeeded(t)

	c, err := svc.ContactOf(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "+258 84 123 4567", c)

	_, err = svc.ContactOf(context.Background(), "nope")
	assert.ErrorIs(t, err, directory.ErrNotFound)
}

func TestFindProfessional(t *testing.T) {
	svc := newSeeded(t)
	ctx := context.Background()

	a, err := svc.FindProfessional(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "Dr. Maria Silva", a.Name)

	// admin no es profesional
	_, err = svc.FindProfessional(ctx, "1")
	assert.ErrorIs(t, err, directory.ErrNotFound)
}

func TestAuthenticate(t *testing.T) {
	svc := newSeeded(t)
	ctx := context.Background()

	id, err := svc.Authenticate(ctx, " Doctor@Example.com ", "password")
	require.NoError(t, err)
	assert.Equal(t, identity.RoleHealthProfessional, id.Role)
	assert.Equal(t, "Central Hospital", id.HealthUnitName)

	_, err = svc.Authenticate(ctx, "doctor@example.com", "wrong")
	assert.ErrorIs(t, err, directory.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "ghost@example.com", "password")
	assert.ErrorIs(t, err, directory.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "paulo.costa@example.com", "password")
	assert.ErrorIs(t, err, directory.ErrAccountInactive)
}

func TestListAccounts_Filters(t *testing.T) {
	svc := newSeeded(t)
	ctx := context.Background()

	all, err := svc.ListAccounts(ctx, directory.AccountFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 6)

	admins, err := svc.ListAccounts(ctx, directory.AccountFilter{Role: "admin"})
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "admin@example.com", admins[0].Email)

	byUnit, err := svc.ListAccounts(ctx, directory.AccountFilter{Query: "health center"})
	require.NoError(t, err)
	assert.Len(t, byUnit, 2)

	inactive, err := svc.ListAccounts(ctx, directory.AccountFilter{Status: "inactive", Role: "all"})
	require.NoError(t, err)
	require.Len(t, inactive, 1)
	assert.Equal(t, "Paulo Costa", inactive[0].Name)
}

func TestListHealthUnits_Filters(t *testing.T) {
	svc := newSeeded(t)
	ctx := context.Background()

	hosp, err := svc.ListHealthUnits(ctx, directory.UnitFilter{Type: "Hospital"})
	require.NoError(t, err)
	assert.Len(t, hosp, 2)

	sofala, err := svc.ListHealthUnits(ctx, directory.UnitFilter{Province: "Sofala"})
	require.NoError(t, err)
	require.Len(t, sofala, 1)
	assert.Equal(t, "Beira Provincial Hospital", sofala[0].Name)

	q, err := svc.ListHealthUnits(ctx, directory.UnitFilter{Query: "boane", Province: "all"})
	require.NoError(t, err)
	assert.Len(t, q, 1)
}

func TestSeed_Idempotent(t *testing.T) {
	repo := mem.NewDirectoryRepo()
	opts := directory.SeedOptions{Password: "password", BcryptCost: bcrypt.MinCost}

	require.NoError(t, directory.Seed(context.Background(), repo, opts))
	require.NoError(t, directory.Seed(context.Background(), repo, opts))

	units, err := repo.ListHealthUnits(context.Background())
	require.NoError(t, err)
	assert.Len(t, units, 5)
}

func TestCreateAccount(t *testing.T) {
	svc := newSeeded(t)
	ctx := context.Background()

	in := directory.NewAccountInput{
		Name:         " Dr. Rui Matsinhe ",
		Email:        "Rui.Matsinhe@Example.com",
		Password:     "s3gura-pass",
		Role:         "health_professional",
		Profession:   "Doctor",
		HealthUnitID: "4",
	}
	a, err := svc.CreateAccount(ctx, in)
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "Dr. Rui Matsinhe", a.Name)
	assert.Equal(t, "rui.matsinhe@example.com", a.Email)
	assert.Equal(t, "Beira Provincial Hospital", a.HealthUnitName)
	assert.Equal(t, directory.StatusActive, a.Status)
	assert.NotEqual(t, in.Password, a.PasswordHash)

	id, err := svc.Authenticate(ctx, "rui.matsinhe@example.com", "s3gura-pass")
	require.NoError(t, err)
	assert.Equal(t, a.ID, id.ID)

	_, err = svc.CreateAccount(ctx, in)
	assert.ErrorIs(t, err, directory.ErrDuplicate)

	all, err := svc.ListAccounts(ctx, directory.AccountFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 7)
}

func TestCreateAccount_Invalid(t *testing.T) {
	svc := newSeeded(t)
	ctx := context.Background()

	base := directory.NewAccountInput{
		Name:         "Nova Conta",
		Email:        "nova@example.com",
		Password:     "password",
		Role:         "health_professional",
		HealthUnitID: "1",
	}
	cases := map[string]func(*directory.NewAccountInput){
		"blank name":      func(in *directory.NewAccountInput) { in.Name = " " },
		"bad email":       func(in *directory.NewAccountInput) { in.Email = "nova.example.com" },
		"short password":  func(in *directory.NewAccountInput) { in.Password = "1234" },
		"unknown role":    func(in *directory.NewAccountInput) { in.Role = "superuser" },
		"unknown status":  func(in *directory.NewAccountInput) { in.Status = "pending" },
		"unit required":   func(in *directory.NewAccountInput) { in.HealthUnitID = "" },
		"unknown unit id": func(in *directory.NewAccountInput) { in.HealthUnitID = "999" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := base
			mutate(&in)
			_, err := svc.CreateAccount(ctx, in)
			assert.ErrorIs(t, err, directory.ErrInvalidInput)
		})
	}

	admin := base
	admin.Email = "admin2@example.com"
	admin.Role = "admin"
	admin.HealthUnitID = ""
	_, err := svc.CreateAccount(ctx, admin)
	assert.NoError(t, err, "admins do not need a health unit")
}

func TestCreateHealthUnit(t *testing.T) {
	svc := newSeeded(t)
	ctx := context.Background()

	u, err := svc.CreateHealthUnit(ctx, directory.NewHealthUnitInput{
		Name:       "Inhambane Rural Clinic",
		Province:   "Inhambane",
		Type:       "Clinic",
		StaffCount: 12,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, directory.StatusActive, u.Status)

	got, err := svc.ListHealthUnits(ctx, directory.UnitFilter{Province: "Inhambane"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, u.ID, got[0].ID)

	_, err = svc.CreateHealthUnit(ctx, directory.NewHealthUnitInput{Name: "Sem Província", Type: "Clinic"})
	assert.ErrorIs(t, err, directory.ErrInvalidInput)

	_, err = svc.CreateHealthUnit(ctx, directory.NewHealthUnitInput{Name: "X", Province: "Maputo", Type: "Clinic", StaffCount: -1})
	assert.ErrorIs(t, err, directory.ErrInvalidInput)
}
