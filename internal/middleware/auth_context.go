package middleware

import (
	"context"
	"net/http"
	"strings"

	"patient-access-portal/internal/domain/identity"
	"patient-access-portal/internal/ports/auth"
)

type ctxKey string

const (
	claimsKey ctxKey = "claims"
	tokenKey  ctxKey = "token"
)

// AuthContext:
// - Si viene Bearer token y verifier != nil => intenta Verify() y setea claims + token.
// - Si debugHeaders => X-Debug-User-ID (+ X-Debug-Role) setea claims sin token (solo dev).
// - Si no hay claims, el request sigue igual; los handlers decidirán si exigen auth.
func AuthContext(verifier auth.AuthVerifier, debugHeaders bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := bearerToken(r.Header.Get("Authorization")); token != "" && verifier != nil {
				claims, err := verifier.Verify(r.Context(), token)
				if err != nil {
					// No cortamos aquí. El handler decide 401/403.
					next.ServeHTTP(w, r)
					return
				}

				ctx := context.WithValue(r.Context(), claimsKey, claims)
				ctx = context.WithValue(ctx, tokenKey, token)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if debugHeaders {
				if uid := strings.TrimSpace(r.Header.Get("X-Debug-User-ID")); uid != "" {
					role := strings.TrimSpace(r.Header.Get("X-Debug-Role"))
					if role == "" {
						role = string(identity.RoleHealthProfessional)
					}
					claims := auth.Claims{
						UserID:         uid,
						Role:           role,
						Name:           strings.TrimSpace(r.Header.Get("X-Debug-User-Name")),
						HealthUnitName: strings.TrimSpace(r.Header.Get("X-Debug-Health-Unit")),
					}
					ctx := context.WithValue(r.Context(), claimsKey, claims)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	v := ctx.Value(claimsKey)
	if v == nil {
		return auth.Claims{}, false
	}
	c, ok := v.(auth.Claims)
	return c, ok
}

// GetIdentity convierte las claims en identity. Un rol desconocido
// cuenta como no autenticado.
func GetIdentity(ctx context.Context) (identity.Identity, bool) {
	c, ok := GetClaims(ctx)
	if !ok || strings.TrimSpace(c.UserID) == "" {
		return identity.Identity{}, false
	}
	role, err := identity.ParseRole(c.Role)
	if err != nil {
		return identity.Identity{}, false
	}
	return identity.Identity{
		ID:             c.UserID,
		Name:           c.Name,
		Email:          c.Email,
		Role:           role,
		HealthUnitID:   c.HealthUnitID,
		HealthUnitName: c.HealthUnitName,
	}, true
}

// GetToken devuelve el bearer token ya verificado.
func GetToken(ctx context.Context) string {
	v, _ := ctx.Value(tokenKey).(string)
	return v
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
