package directory

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"patient-access-portal/internal/domain/identity"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account inactive")
)

type Service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, log: log.Named("directory")}
}

func (s *Service) FindPatient(ctx context.Context, id string) (Patient, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Patient{}, ErrNotFound
	}
	p, err := s.repo.GetPatient(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn("find patient failed", zap.String("patient_id", id), zap.Error(err))
		}
		return Patient{}, ErrNotFound
	}
	return p, nil
}

// FindPatientsMatching es lazy y reiniciable: cada range vuelve a recorrer el repo.
// Query vacía => secuencia vacía. Un error del backend se loguea y corta la secuencia.
func (s *Service) FindPatientsMatching(ctx context.Context, query string) iter.Seq[Patient] {
	q := strings.TrimSpace(query)

	return func(yield func(Patient) bool) {
		if q == "" {
			return
		}
		m := newPatientMatcher(q)

		err := s.repo.EachPatient(ctx, func(p Patient) bool {
			if !m.match(p) {
				return true
			}
			return yield(p)
		})
		if err != nil {
			s.log.Warn("patient search failed", zap.String("query", q), zap.Error(err))
		}
	}
}

type patientMatcher struct {
	raw   string
	lower string
}

func newPatientMatcher(q string) patientMatcher {
	return patientMatcher{raw: q, lower: strings.ToLower(q)}
}

// NID: substring exacto. Nombre: substring sin distinguir mayúsculas.
func (m patientMatcher) match(p Patient) bool {
	if strings.Contains(p.NID, m.raw) {
		return true
	}
	return strings.Contains(strings.ToLower(p.FullName), m.lower)
}

// ContactOf devuelve el teléfono registrado del paciente.
func (s *Service) ContactOf(ctx context.Context, patientID string) (string, error) {
	p, err := s.FindPatient(ctx, patientID)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(p.Phone) == "" {
		return "", ErrNotFound
	}
	return p.Phone, nil
}

// FindProfessional solo devuelve cuentas con rol health_professional.
func (s *Service) FindProfessional(ctx context.Context, id string) (UserAccount, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return UserAccount{}, ErrNotFound
	}
	a, err := s.repo.GetAccount(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn("find professional failed", zap.String("account_id", id), zap.Error(err))
		}
		return UserAccount{}, ErrNotFound
	}
	if a.Role != identity.RoleHealthProfessional {
		return UserAccount{}, ErrNotFound
	}
	return a, nil
}

func (s *Service) FindAccountByEmail(ctx context.Context, email string) (UserAccount, error) {
	email = normalizeEmail(email)
	if email == "" {
		return UserAccount{}, ErrNotFound
	}
	a, err := s.repo.GetAccountByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn("find account failed", zap.Error(err))
		}
		return UserAccount{}, ErrNotFound
	}
	return a, nil
}

// Authenticate compara contra el hash bcrypt. Email desconocido y password
// incorrecta devuelven el mismo error.
func (s *Service) Authenticate(ctx context.Context, email, password string) (identity.Identity, error) {
	a, err := s.FindAccountByEmail(ctx, email)
	if err != nil {
		return identity.Identity{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return identity.Identity{}, ErrInvalidCredentials
	}
	if a.Status == StatusInactive {
		return identity.Identity{}, ErrAccountInactive
	}
	return a.Identity(), nil
}

type AccountFilter struct {
	// Query: nombre, email o unidad sanitaria.
	Query  string
	Role   string
	Status string
}

func (s *Service) ListAccounts(ctx context.Context, f AccountFilter) ([]UserAccount, error) {
	items, err := s.repo.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(f.Query))
	role := strings.TrimSpace(f.Role)
	status := strings.TrimSpace(f.Status)

	out := make([]UserAccount, 0, len(items))
	for _, a := range items {
		if q != "" &&
			!strings.Contains(strings.ToLower(a.Name), q) &&
			!strings.Contains(strings.ToLower(a.Email), q) &&
			!strings.Contains(strings.ToLower(a.HealthUnitName), q) {
			continue
		}
		if isFilterSet(role) && string(a.Role) != role {
			continue
		}
		if isFilterSet(status) && string(a.Status) != status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

type UnitFilter struct {
	Query    string
	Province string
	Type     string
}

func (s *Service) ListHealthUnits(ctx context.Context, f UnitFilter) ([]HealthUnit, error) {
	items, err := s.repo.ListHealthUnits(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(f.Query))
	province := strings.TrimSpace(f.Province)
	typ := strings.TrimSpace(f.Type)

	out := make([]HealthUnit, 0, len(items))
	for _, u := range items {
		if q != "" && !strings.Contains(strings.ToLower(u.Name), q) {
			continue
		}
		if isFilterSet(province) && u.Province != province {
			continue
		}
		if isFilterSet(typ) && u.Type != typ {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

// "all" equivale a no filtrar (así lo manda el front).
func isFilterSet(v string) bool {
	return v != "" && v != "all"
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// MinPasswordLength aplica a cuentas creadas por un admin.
const MinPasswordLength = 8

type NewAccountInput struct {
	Name       string
	Email      string
	Password   string
	Role       string
	Profession string
	// HealthUnitID es obligatorio para health_professional.
	HealthUnitID string
	// Status vacío => active.
	Status Status
}

// CreateAccount da de alta una cuenta con password bcrypt. El email no
// puede repetirse.
func (s *Service) CreateAccount(ctx context.Context, in NewAccountInput) (UserAccount, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || !strings.Contains(email, "@") || len(in.Password) < MinPasswordLength {
		return UserAccount{}, ErrInvalidInput
	}
	role, err := identity.ParseRole(in.Role)
	if err != nil {
		return UserAccount{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	status, err := parseStatus(in.Status)
	if err != nil {
		return UserAccount{}, err
	}

	a := UserAccount{
		ID:         uuid.NewString(),
		Name:       name,
		Email:      email,
		Role:       role,
		Profession: strings.TrimSpace(in.Profession),
		Status:     status,
	}

	if unitID := strings.TrimSpace(in.HealthUnitID); unitID != "" {
		u, err := s.findHealthUnit(ctx, unitID)
		if err != nil {
			return UserAccount{}, err
		}
		a.HealthUnitID = u.ID
		a.HealthUnitName = u.Name
	} else if role == identity.RoleHealthProfessional {
		return UserAccount{}, fmt.Errorf("%w: health unit required", ErrInvalidInput)
	}

	if _, err := s.repo.GetAccountByEmail(ctx, email); err == nil {
		return UserAccount{}, ErrDuplicate
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserAccount{}, fmt.Errorf("hash password: %w", err)
	}
	a.PasswordHash = string(hash)

	if err := s.repo.CreateAccount(ctx, a); err != nil {
		return UserAccount{}, err
	}
	s.log.Info("account created", zap.String("account_id", a.ID), zap.String("role", string(a.Role)))
	return a, nil
}

type NewHealthUnitInput struct {
	Name       string
	Province   string
	Type       string
	StaffCount int
	Status     Status
}

func (s *Service) CreateHealthUnit(ctx context.Context, in NewHealthUnitInput) (HealthUnit, error) {
	u := HealthUnit{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(in.Name),
		Province:   strings.TrimSpace(in.Province),
		Type:       strings.TrimSpace(in.Type),
		StaffCount: in.StaffCount,
	}
	if u.Name == "" || u.Province == "" || u.Type == "" || u.StaffCount < 0 {
		return HealthUnit{}, ErrInvalidInput
	}
	status, err := parseStatus(in.Status)
	if err != nil {
		return HealthUnit{}, err
	}
	u.Status = status

	if err := s.repo.CreateHealthUnit(ctx, u); err != nil {
		return HealthUnit{}, err
	}
	s.log.Info("health unit created", zap.String("unit_id", u.ID), zap.String("province", u.Province))
	return u, nil
}

func (s *Service) findHealthUnit(ctx context.Context, id string) (HealthUnit, error) {
	units, err := s.repo.ListHealthUnits(ctx)
	if err != nil {
		return HealthUnit{}, err
	}
	for _, u := range units {
		if u.ID == id {
			return u, nil
		}
	}
	return HealthUnit{}, fmt.Errorf("%w: unknown health unit %q", ErrInvalidInput, id)
}

func parseStatus(s Status) (Status, error) {
	switch Status(strings.TrimSpace(string(s))) {
	case "", StatusActive:
		return StatusActive, nil
	case StatusInactive:
		return StatusInactive, nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, s)
	}
}
