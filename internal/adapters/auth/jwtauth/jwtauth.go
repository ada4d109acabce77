package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"patient-access-portal/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrSecretRequired = errors.New("jwt secret required")
	ErrTokenEmpty     = errors.New("token is empty")
	ErrInvalidToken   = errors.New("invalid token")
	ErrSessionEnded   = errors.New("session ended")
)

const DefaultTTL = 12 * time.Hour

// SessionChecker confirma que la sesión del token sigue activa.
type SessionChecker interface {
	Active(ctx context.Context, sessionID, token string) (bool, error)
}

type SessionCheckerFunc func(ctx context.Context, sessionID, token string) (bool, error)

func (f SessionCheckerFunc) Active(ctx context.Context, sessionID, token string) (bool, error) {
	return f(ctx, sessionID, token)
}

type Config struct {
	Secret string
	Issuer string
	TTL    time.Duration

	// Sessions nil => solo se valida firma y expiración.
	Sessions SessionChecker
}

// Manager firma y verifica tokens HS256. Implementa auth.TokenIssuer y auth.AuthVerifier.
type Manager struct {
	secret   []byte
	issuer   string
	ttl      time.Duration
	sessions SessionChecker
	now      func() time.Time
}

type portalClaims struct {
	Email          string `json:"email,omitempty"`
	Name           string `json:"name,omitempty"`
	Role           string `json:"role"`
	HealthUnitID   string `json:"health_unit_id,omitempty"`
	HealthUnitName string `json:"health_unit_name,omitempty"`
	jwt.RegisteredClaims
}

func New(cfg Config) (*Manager, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, ErrSecretRequired
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		secret:   []byte(cfg.Secret),
		issuer:   strings.TrimSpace(cfg.Issuer),
		ttl:      ttl,
		sessions: cfg.Sessions,
		now:      time.Now,
	}, nil
}

func (m *Manager) Issue(_ context.Context, c auth.Claims) (string, error) {
	if strings.TrimSpace(c.UserID) == "" {
		return "", fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}
	now := m.now()

	claims := portalClaims{
		Email:          c.Email,
		Name:           c.Name,
		Role:           c.Role,
		HealthUnitID:   c.HealthUnitID,
		HealthUnitName: c.HealthUnitName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   c.UserID,
			ID:        c.SessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (m *Manager) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	var pc portalClaims
	parsed, err := jwt.ParseWithClaims(token, &pc, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || strings.TrimSpace(pc.Subject) == "" {
		return auth.Claims{}, ErrInvalidToken
	}

	if m.sessions != nil {
		if pc.ID == "" {
			return auth.Claims{}, ErrSessionEnded
		}
		ok, err := m.sessions.Active(ctx, pc.ID, token)
		if err != nil {
			return auth.Claims{}, fmt.Errorf("check session: %w", err)
		}
		if !ok {
			return auth.Claims{}, ErrSessionEnded
		}
	}

	return auth.Claims{
		UserID:         pc.Subject,
		Email:          pc.Email,
		Name:           pc.Name,
		Role:           pc.Role,
		HealthUnitID:   pc.HealthUnitID,
		HealthUnitName: pc.HealthUnitName,
		SessionID:      pc.ID,
	}, nil
}

var (
	_ auth.TokenIssuer  = (*Manager)(nil)
	_ auth.AuthVerifier = (*Manager)(nil)
)
