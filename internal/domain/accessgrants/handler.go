package accessgrants

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"patient-access-portal/internal/domain/identity"
	"patient-access-portal/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, patients PatientContacts) {
	r.Route("/patients/{patientID}/access", func(ar chi.Router) {
		ar.Get("/", currentGrantHandler(svc, patients))
		ar.Post("/", requestAccessHandler(svc, patients))
		ar.Post("/code", issueCodeHandler(svc))
		ar.Post("/verify", verifyCodeHandler(svc))
		ar.Post("/deny", denyHandler(svc))
		ar.Get("/history", historyHandler(svc))
	})
}

type requestAccessRequest struct {
	Scope Scope `json:"scope"`
}

type verifyCodeRequest struct {
	Code string `json:"code"`
}

type grantResponse struct {
	ID             string     `json:"id,omitempty"`
	ProfessionalID string     `json:"professional_id"`
	PatientID      string     `json:"patient_id"`
	Status         Status     `json:"status"`
	Scope          Scope      `json:"scope,omitempty"`
	Attempts       int        `json:"attempts"`
	IssuedAt       *time.Time `json:"issued_at,omitempty"`
	CodeExpiresAt  *time.Time `json:"code_expires_at,omitempty"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
	GrantedAt      *time.Time `json:"granted_at,omitempty"`
	DeniedAt       *time.Time `json:"denied_at,omitempty"`
	SupersededAt   *time.Time `json:"superseded_at,omitempty"`
}

// currentGrantHandler godoc
// @Summary      Estado de acceso al paciente
// @Description  Devuelve el ciclo vigente del profesional autenticado (NONE si nunca pidió acceso).
// @Tags         access
// @Produce      json
// @Param        patientID  path  string  true  "Patient ID"
// @Success      200  {object}  grantResponse
// @Failure      401  {string}  string
// @Failure      404  {string}  string
// @Router       /patients/{patientID}/access [get]
func currentGrantHandler(svc *Service, patients PatientContacts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := professionalKey(w, r)
		if !ok {
			return
		}
		if _, err := patients.ContactOf(r.Context(), key.PatientID); err != nil {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}

		g, err := svc.Current(r.Context(), key)
		if err != nil {
			writeGrantError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGrantResponse(g))
	}
}

// requestAccessHandler godoc
// @Summary      Solicitar acceso
// @Tags         access
// @Accept       json
// @Produce      json
// @Param        patientID  path  string                true  "Patient ID"
// @Param        body       body  requestAccessRequest  true  "view | edit"
// @Success      201  {object}  grantResponse
// @Failure      400  {string}  string
// @Failure      409  {string}  string
// @Router       /patients/{patientID}/access [post]
func requestAccessHandler(svc *Service, patients PatientContacts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := professionalKey(w, r)
		if !ok {
			return
		}
		if _, err := patients.ContactOf(r.Context(), key.PatientID); err != nil {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}

		var req requestAccessRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Scope == "" {
			req.Scope = ScopeView
		}

		g, err := svc.RequestAccess(r.Context(), key, req.Scope)
		if err != nil {
			writeGrantError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toGrantResponse(g))
	}
}

// issueCodeHandler godoc
// @Summary      Enviar código de verificación al paciente
// @Tags         access
// @Produce      json
// @Param        patientID  path  string  true  "Patient ID"
// @Success      200  {object}  grantResponse
// @Failure      409  {string}  string
// @Failure      503  {string}  string  "reintentar"
// @Router       /patients/{patientID}/access/code [post]
func issueCodeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := professionalKey(w, r)
		if !ok {
			return
		}

		g, err := svc.IssueCode(r.Context(), key)
		if err != nil {
			writeGrantError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGrantResponse(g))
	}
}

// verifyCodeHandler godoc
// @Summary      Verificar código
// @Tags         access
// @Accept       json
// @Produce      json
// @Param        patientID  path  string             true  "Patient ID"
// @Param        body       body  verifyCodeRequest  true  "6 dígitos"
// @Success      200  {object}  grantResponse
// @Failure      400  {string}  string
// @Failure      409  {string}  string
// @Failure      422  {string}  string
// @Router       /patients/{patientID}/access/verify [post]
func verifyCodeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := professionalKey(w, r)
		if !ok {
			return
		}

		var req verifyCodeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		g, err := svc.VerifyCode(r.Context(), key, req.Code)
		if err != nil {
			writeGrantError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGrantResponse(g))
	}
}

// denyHandler godoc
// @Summary      Rechazar la solicitud vigente
// @Tags         access
// @Produce      json
// @Param        patientID  path  string  true  "Patient ID"
// @Success      200  {object}  grantResponse
// @Failure      409  {string}  string
// @Security     BearerAuth
// @Router       /patients/{patientID}/access/deny [post]
func denyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := professionalKey(w, r)
		if !ok {
			return
		}

		g, err := svc.Deny(r.Context(), key)
		if err != nil {
			writeGrantError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGrantResponse(g))
	}
}

// historyHandler godoc
// @Summary      Ciclos de acceso del par profesional/paciente
// @Tags         access
// @Produce      json
// @Param        patientID  path  string  true  "Patient ID"
// @Success      200  {array}   grantResponse
// @Failure      401  {string}  string
// @Security     BearerAuth
// @Router       /patients/{patientID}/access/history [get]
func historyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := professionalKey(w, r)
		if !ok {
			return
		}

		items, err := svc.History(r.Context(), key)
		if err != nil {
			writeGrantError(w, err)
			return
		}

		out := make([]grantResponse, 0, len(items))
		for _, g := range items {
			out = append(out, toGrantResponse(g))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// professionalKey exige un profesional de salud autenticado.
func professionalKey(w http.ResponseWriter, r *http.Request) (Key, bool) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return Key{}, false
	}
	if id.Role != identity.RoleHealthProfessional {
		http.Error(w, "forbidden", http.StatusForbidden)
		return Key{}, false
	}
	return Key{
		ProfessionalID: id.ID,
		PatientID:      strings.TrimSpace(chi.URLParam(r, "patientID")),
	}, true
}

func writeGrantError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidCodeFormat):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, ErrCodeMismatch), errors.Is(err, ErrCodeExpired):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, ErrIllegalTransition), errors.Is(err, ErrAttemptsExhausted):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrNotificationFailed):
		http.Error(w, ErrNotificationFailed.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toGrantResponse(g Grant) grantResponse {
	out := grantResponse{
		ID:             g.ID,
		ProfessionalID: g.ProfessionalID,
		PatientID:      g.PatientID,
		Status:         g.Status,
		Scope:          g.Scope,
		Attempts:       g.Attempts,
		IssuedAt:       g.IssuedAt,
		CodeExpiresAt:  g.CodeExpiresAt,
		GrantedAt:      g.GrantedAt,
		DeniedAt:       g.DeniedAt,
		SupersededAt:   g.SupersededAt,
	}
	if !g.CreatedAt.IsZero() {
		out.CreatedAt = &g.CreatedAt
		out.UpdatedAt = &g.UpdatedAt
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
