package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"patient-access-portal/internal/domain/directory"
	"patient-access-portal/internal/domain/identity"
	"patient-access-portal/internal/middleware"
	"patient-access-portal/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Authenticator lo satisface *directory.Service.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (identity.Identity, error)
}

type Deps struct {
	Accounts Authenticator
	Issuer   auth.TokenIssuer
	Persist  Persistence
	Logger   *zap.Logger
}

func RegisterRoutes(r chi.Router, d Deps) {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	log := d.Logger.Named("session")

	r.Post("/auth/login", loginHandler(d, log))
	r.Post("/auth/logout", logoutHandler(d, log))
	r.Get("/me", meHandler())
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type identityResponse struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Email          string        `json:"email"`
	Role           identity.Role `json:"role"`
	HealthUnitID   string        `json:"healthUnitId,omitempty"`
	HealthUnitName string        `json:"healthUnitName,omitempty"`
}

// loginResponse tiene la misma forma que el snapshot persistido.
type loginResponse struct {
	Authenticated bool             `json:"isAuthenticated"`
	User          identityResponse `json:"user"`
	Token         string           `json:"token"`
}

// loginHandler godoc
// @Summary      Login con email y password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  loginRequest  true  "credenciales"
// @Success      200  {object}  loginResponse
// @Failure      401  {string}  string
// @Router       /auth/login [post]
func loginHandler(d Deps, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Email) == "" || req.Password == "" {
			http.Error(w, "email and password required", http.StatusBadRequest)
			return
		}

		id, err := d.Accounts.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, directory.ErrAccountInactive):
				http.Error(w, "account inactive", http.StatusForbidden)
			case errors.Is(err, directory.ErrInvalidCredentials):
				http.Error(w, "invalid credentials", http.StatusUnauthorized)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		sid := uuid.NewString()
		token, err := d.Issuer.Issue(r.Context(), claimsFor(id, sid))
		if err != nil {
			log.Error("issue token failed", zap.String("user_id", id.ID), zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		store := NewStore(d.Persist, SlotFor(sid))
		if err := store.Login(r.Context(), id, token); err != nil {
			// sin slot persistido el token no verifica; mejor fallar acá
			log.Error("persist session failed", zap.String("slot", store.Slot()), zap.Error(err))
			http.Error(w, "session store unavailable", http.StatusServiceUnavailable)
			return
		}

		log.Info("login", zap.String("user_id", id.ID), zap.String("role", string(id.Role)))
		writeJSON(w, http.StatusOK, loginResponse{
			Authenticated: true,
			User:          toIdentityResponse(id),
			Token:         token,
		})
	}
}

// logoutHandler godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Success      204
// @Failure      401  {string}  string
// @Security     BearerAuth
// @Router       /auth/logout [post]
func logoutHandler(d Deps, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if strings.TrimSpace(claims.SessionID) == "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		store, err := Open(r.Context(), d.Persist, SlotFor(claims.SessionID))
		if err != nil {
			log.Error("open session failed", zap.Error(err))
			http.Error(w, "session store unavailable", http.StatusServiceUnavailable)
			return
		}
		if err := store.Logout(r.Context()); err != nil {
			log.Error("logout failed", zap.String("slot", store.Slot()), zap.Error(err))
			http.Error(w, "session store unavailable", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// meHandler godoc
// @Summary      Identidad autenticada
// @Tags         auth
// @Produce      json
// @Success      200  {object}  identityResponse
// @Failure      401  {string}  string
// @Security     BearerAuth
// @Router       /me [get]
func meHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := middleware.GetIdentity(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, toIdentityResponse(id))
	}
}

func claimsFor(id identity.Identity, sid string) auth.Claims {
	return auth.Claims{
		UserID:         id.ID,
		Email:          id.Email,
		Name:           id.Name,
		Role:           string(id.Role),
		HealthUnitID:   id.HealthUnitID,
		HealthUnitName: id.HealthUnitName,
		SessionID:      sid,
	}
}

func toIdentityResponse(id identity.Identity) identityResponse {
	return identityResponse{
		ID:             id.ID,
		Name:           id.Name,
		Email:          id.Email,
		Role:           id.Role,
		HealthUnitID:   id.HealthUnitID,
		HealthUnitName: id.HealthUnitName,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
