package accessgrants

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"patient-access-portal/internal/ports/notify"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCodeFormat  = errors.New("verification code must be 6 digits")
	ErrCodeMismatch       = errors.New("invalid verification code")
	ErrCodeExpired        = errors.New("verification code expired")
	ErrAttemptsExhausted  = errors.New("too many invalid verification attempts")
	ErrNotificationFailed = errors.New("notification failed")
	ErrIllegalTransition  = errors.New("illegal transition")
)

const (
	DefaultCodeTTL     = 5 * time.Minute
	DefaultMaxAttempts = 5
)

// TransitionObserver recibe cada cambio de estado aplicado.
type TransitionObserver interface {
	Transition(from, to Status)
}

type nopObserver struct{}

func (nopObserver) Transition(Status, Status) {}

type Options struct {
	// CodeTTL <= 0 desactiva la expiración.
	CodeTTL time.Duration
	// MaxAttempts <= 0 permite intentos ilimitados.
	MaxAttempts int

	Generator CodeGenerator
	Observer  TransitionObserver
	Logger    *zap.Logger
}

func DefaultOptions() Options {
	return Options{
		CodeTTL:     DefaultCodeTTL,
		MaxAttempts: DefaultMaxAttempts,
	}
}

type Service struct {
	repo     Repository
	contacts PatientContacts
	sender   notify.Sender

	now     func() time.Time
	genCode CodeGenerator

	codeTTL     time.Duration
	maxAttempts int

	observer TransitionObserver
	log      *zap.Logger

	locks pairLocks
}

func NewService(repo Repository, contacts PatientContacts, sender notify.Sender, opts Options) *Service {
	gen := opts.Generator
	if gen == nil {
		gen = RandomCode
	}
	obs := opts.Observer
	if obs == nil {
		obs = nopObserver{}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		repo:        repo,
		contacts:    contacts,
		sender:      sender,
		now:         time.Now,
		genCode:     gen,
		codeTTL:     opts.CodeTTL,
		maxAttempts: opts.MaxAttempts,
		observer:    obs,
		log:         log.Named("accessgrants"),
	}
}

// Current devuelve el ciclo vigente del par. Si nunca hubo solicitud,
// devuelve un Grant con StatusNone (no es error).
func (s *Service) Current(ctx context.Context, key Key) (Grant, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return Grant{}, err
	}

	g, err := s.repo.Latest(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return noneGrant(key), nil
	}
	if err != nil {
		return Grant{}, err
	}
	return g, nil
}

// RequestAccess abre un ciclo nuevo en REQUESTED.
// Válido desde NONE, CODE_ISSUED, GRANTED y DENIED. Desde REQUESTED es ilegal.
func (s *Service) RequestAccess(ctx context.Context, key Key, scope Scope) (Grant, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return Grant{}, err
	}
	if !scope.Valid() {
		return Grant{}, ErrInvalidInput
	}

	unlock := s.locks.lock(key)
	defer unlock()

	prev, err := s.latest(ctx, key)
	if err != nil {
		return Grant{}, err
	}

	switch prev.Status {
	case StatusNone, StatusCodeIssued, StatusGranted, StatusDenied:
	default:
		return Grant{}, ErrIllegalTransition
	}

	now := s.now()
	g := Grant{
		ID:             uuid.NewString(),
		ProfessionalID: key.ProfessionalID,
		PatientID:      key.PatientID,
		Status:         StatusRequested,
		Scope:          scope,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, g); err != nil {
		return Grant{}, err
	}

	if prev.Status != StatusNone {
		s.supersede(ctx, prev, now)
	}

	s.observer.Transition(prev.Status, StatusRequested)
	return g, nil
}

// IssueCode genera y envía un código. Desde REQUESTED pasa a CODE_ISSUED;
// desde CODE_ISSUED rota el código (el anterior deja de valer).
// Si el envío falla, el grant queda como estaba.
func (s *Service) IssueCode(ctx context.Context, key Key) (Grant, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return Grant{}, err
	}

	unlock := s.locks.lock(key)
	defer unlock()

	g, err := s.latest(ctx, key)
	if err != nil {
		return Grant{}, err
	}
	if g.Status != StatusRequested && g.Status != StatusCodeIssued {
		return Grant{}, ErrIllegalTransition
	}

	contact, err := s.contacts.ContactOf(ctx, key.PatientID)
	if err != nil || strings.TrimSpace(contact) == "" {
		return Grant{}, ErrNotFound
	}

	code, err := s.genCode()
	if err != nil {
		return Grant{}, fmt.Errorf("issue code: %w", err)
	}

	if err := s.sender.Send(ctx, contact, code); err != nil {
		s.log.Warn("verification code delivery failed",
			zap.String("grant_id", g.ID),
			zap.String("patient_id", key.PatientID),
			zap.Error(err),
		)
		return Grant{}, fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}

	now := s.now()
	from := g.Status

	g.Status = StatusCodeIssued
	g.CodeHash = hashCode(code)
	g.IssuedAt = &now
	g.CodeExpiresAt = nil
	if s.codeTTL > 0 {
		exp := now.Add(s.codeTTL)
		g.CodeExpiresAt = &exp
	}
	g.Attempts = 0
	g.UpdatedAt = now

	if err := s.repo.Update(ctx, g); err != nil {
		return Grant{}, err
	}

	s.observer.Transition(from, StatusCodeIssued)
	return g, nil
}

// VerifyCode valida el formato antes de comparar. Un código correcto
// otorga el grant una sola vez: el hash se consume al pasar a GRANTED.
func (s *Service) VerifyCode(ctx context.Context, key Key, candidate string) (Grant, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return Grant{}, err
	}
	if !ValidCodeFormat(candidate) {
		return Grant{}, ErrInvalidCodeFormat
	}

	unlock := s.locks.lock(key)
	defer unlock()

	g, err := s.latest(ctx, key)
	if err != nil {
		return Grant{}, err
	}
	if g.Status != StatusCodeIssued {
		return Grant{}, ErrIllegalTransition
	}

	now := s.now()
	if g.CodeExpiresAt != nil && now.After(*g.CodeExpiresAt) {
		return Grant{}, ErrCodeExpired
	}

	if codeMatches(g.CodeHash, candidate) {
		g.Status = StatusGranted
		g.CodeHash = ""
		g.GrantedAt = &now
		g.UpdatedAt = now

		if err := s.repo.Update(ctx, g); err != nil {
			return Grant{}, err
		}
		s.observer.Transition(StatusCodeIssued, StatusGranted)
		return g, nil
	}

	g.Attempts++
	g.UpdatedAt = now

	if s.maxAttempts > 0 && g.Attempts >= s.maxAttempts {
		g.Status = StatusDenied
		g.CodeHash = ""
		g.DeniedAt = &now

		if err := s.repo.Update(ctx, g); err != nil {
			return Grant{}, err
		}
		s.observer.Transition(StatusCodeIssued, StatusDenied)
		return Grant{}, ErrAttemptsExhausted
	}

	if err := s.repo.Update(ctx, g); err != nil {
		return Grant{}, err
	}
	return Grant{}, ErrCodeMismatch
}

// Deny cierra el ciclo vigente en DENIED (el paciente rechazó la solicitud).
func (s *Service) Deny(ctx context.Context, key Key) (Grant, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return Grant{}, err
	}

	unlock := s.locks.lock(key)
	defer unlock()

	g, err := s.latest(ctx, key)
	if err != nil {
		return Grant{}, err
	}
	if g.Status != StatusCodeIssued {
		return Grant{}, ErrIllegalTransition
	}

	now := s.now()
	g.Status = StatusDenied
	g.CodeHash = ""
	g.DeniedAt = &now
	g.UpdatedAt = now

	if err := s.repo.Update(ctx, g); err != nil {
		return Grant{}, err
	}

	s.observer.Transition(StatusCodeIssued, StatusDenied)
	return g, nil
}

// History devuelve todos los ciclos del par (auditoría de intentos).
func (s *Service) History(ctx context.Context, key Key) ([]Grant, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByKey(ctx, key)
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]Grant, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) latest(ctx context.Context, key Key) (Grant, error) {
	g, err := s.repo.Latest(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return noneGrant(key), nil
	}
	return g, err
}

func (s *Service) supersede(ctx context.Context, g Grant, now time.Time) {
	g.CodeHash = ""
	g.CodeExpiresAt = nil
	g.SupersededAt = &now
	g.UpdatedAt = now

	// best-effort: Latest ya apunta al ciclo nuevo aunque esto falle
	if err := s.repo.Update(ctx, g); err != nil {
		s.log.Warn("supersede previous grant failed",
			zap.String("grant_id", g.ID),
			zap.Error(err),
		)
	}
}

func noneGrant(key Key) Grant {
	return Grant{
		ProfessionalID: key.ProfessionalID,
		PatientID:      key.PatientID,
		Status:         StatusNone,
	}
}

func normalizeKey(k Key) (Key, error) {
	k.ProfessionalID = strings.TrimSpace(k.ProfessionalID)
	k.PatientID = strings.TrimSpace(k.PatientID)
	if k.ProfessionalID == "" || k.PatientID == "" {
		return Key{}, ErrInvalidInput
	}
	return k, nil
}

// pairLocks serializa las operaciones sobre un mismo par. La entrada se
// libera cuando no queda nadie esperando, así el mapa no crece con cada par visto.
type pairLocks struct {
	mu sync.Mutex
	m  map[Key]*pairLock
}

type pairLock struct {
	sync.Mutex
	refs int
}

func (p *pairLocks) lock(k Key) func() {
	p.mu.Lock()
	if p.m == nil {
		p.m = make(map[Key]*pairLock)
	}
	l, ok := p.m[k]
	if !ok {
		l = &pairLock{}
		p.m[k] = l
	}
	l.refs++
	p.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()

		p.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(p.m, k)
		}
		p.mu.Unlock()
	}
}
