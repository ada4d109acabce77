package directory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"patient-access-portal/internal/domain/accessgrants"
	"patient-access-portal/internal/domain/accesslog"
	"patient-access-portal/internal/domain/identity"
	"patient-access-portal/internal/domain/policy"
	"patient-access-portal/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// AccessHistory lo satisface *accesslog.Service.
type AccessHistory interface {
	List(ctx context.Context, f accesslog.Filter) ([]accesslog.Entry, error)
}

// ProfileHistoryLimit acota el histórico que viaja con la ficha.
const ProfileHistoryLimit = 50

func RegisterRoutes(r chi.Router, svc *Service, access *policy.Evaluator, history AccessHistory) {
	// Sin r.Route: /patients/{id}/access y /records los montan otros módulos.
	r.Get("/patients", searchPatientsHandler(svc))
	r.Get("/patients/{patientID}", getPatientHandler(svc, access, history))

	r.Get("/admin/users", listAccountsHandler(svc))
	r.Post("/admin/users", createAccountHandler(svc))
	r.Get("/admin/health-units", listHealthUnitsHandler(svc))
	r.Post("/admin/health-units", createHealthUnitHandler(svc))
}

type patientResponse struct {
	ID         string     `json:"id"`
	NID        string     `json:"nid"`
	FullName   string     `json:"full_name"`
	Phone      string     `json:"phone"`
	BirthDate  *time.Time `json:"birth_date,omitempty"`
	Gender     Gender     `json:"gender"`
	Address    string     `json:"address"`
	BloodType  string     `json:"blood_type,omitempty"`
	Conditions []string   `json:"conditions"`
	LastVisit  *time.Time `json:"last_visit,omitempty"`
}

type patientProfileResponse struct {
	Patient patientResponse      `json:"patient"`
	History []accessHistoryEntry `json:"history"`
	// Access lo usa la UI para decidir qué paso del flujo mostrar.
	Access accessResponse `json:"access"`
}

// accessHistoryEntry: quién abrió la historia clínica, desde dónde y para qué.
type accessHistoryEntry struct {
	ID               string             `json:"id"`
	ProfessionalName string             `json:"professional_name"`
	Facility         string             `json:"facility"`
	DateTime         time.Time          `json:"date_time"`
	AccessType       accessgrants.Scope `json:"access_type"`
}

type accessResponse struct {
	View policy.Decision `json:"view"`
	Edit policy.Decision `json:"edit"`
}

type accountResponse struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Email          string        `json:"email"`
	Role           identity.Role `json:"role"`
	Profession     string        `json:"profession"`
	HealthUnitID   string        `json:"health_unit_id,omitempty"`
	HealthUnitName string        `json:"health_unit"`
	Status         Status        `json:"status"`
}

type createAccountRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	Profession   string `json:"profession"`
	HealthUnitID string `json:"health_unit_id"`
	Status       Status `json:"status"`
}

type createHealthUnitRequest struct {
	Name       string `json:"name"`
	Province   string `json:"province"`
	Type       string `json:"type"`
	StaffCount int    `json:"staff_count"`
	Status     Status `json:"status"`
}

type healthUnitResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Province   string `json:"province"`
	Type       string `json:"type"`
	StaffCount int    `json:"staff_count"`
	Status     Status `json:"status"`
}

// searchPatientsHandler godoc
// @Summary      Buscar pacientes por NID o nombre
// @Tags         patients
// @Produce      json
// @Param        q  query  string  true  "NID o nombre"
// @Success      200  {array}  patientResponse
// @Failure      401  {string}  string
// @Failure      403  {string}  string
// @Router       /patients [get]
func searchPatientsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireProfessional(w, r); !ok {
			return
		}

		out := make([]patientResponse, 0)
		for p := range svc.FindPatientsMatching(r.Context(), r.URL.Query().Get("q")) {
			out = append(out, toPatientResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getPatientHandler godoc
// @Summary      Perfil del paciente con estado de acceso
// @Description  Incluye el histórico de accesos a la historia clínica, más recientes primero.
// @Tags         patients
// @Produce      json
// @Param        patientID  path  string  true  "Patient ID"
// @Success      200  {object}  patientProfileResponse
// @Failure      404  {string}  string
// @Router       /patients/{patientID} [get]
func getPatientHandler(svc *Service, access *policy.Evaluator, history AccessHistory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireProfessional(w, r)
		if !ok {
			return
		}

		p, err := svc.FindPatient(r.Context(), chi.URLParam(r, "patientID"))
		if err != nil {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}

		view, err := access.CanAccess(r.Context(), id, p.ID, accessgrants.ScopeView)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		edit, err := access.CanAccess(r.Context(), id, p.ID, accessgrants.ScopeEdit)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		entries, err := history.List(r.Context(), accesslog.Filter{PatientID: p.ID, Limit: ProfileHistoryLimit})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		hist := make([]accessHistoryEntry, 0, len(entries))
		for _, e := range entries {
			hist = append(hist, accessHistoryEntry{
				ID:               e.ID,
				ProfessionalName: e.ProfessionalName,
				Facility:         e.Facility,
				DateTime:         e.At,
				AccessType:       e.Scope,
			})
		}

		writeJSON(w, http.StatusOK, patientProfileResponse{
			Patient: toPatientResponse(p),
			Access:  accessResponse{View: view, Edit: edit},
			History: hist,
		})
	}
}

// listAccountsHandler godoc
// @Summary      Cuentas de usuario (solo admin)
// @Tags         admin
// @Produce      json
// @Param        q       query  string  false  "nombre, email o unidad"
// @Param        role    query  string  false  "rol o all"
// @Param        status  query  string  false  "active | inactive | all"
// @Success      200  {array}   accountResponse
// @Failure      403  {object}  policy.Decision
// @Security     BearerAuth
// @Router       /admin/users [get]
func listAccountsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		q := r.URL.Query()
		items, err := svc.ListAccounts(r.Context(), AccountFilter{
			Query:  q.Get("q"),
			Role:   q.Get("role"),
			Status: q.Get("status"),
		})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]accountResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAccountResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// createAccountHandler godoc
// @Summary      Alta de cuenta de usuario (solo admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body  createAccountRequest  true  "cuenta"
// @Success      201  {object}  accountResponse
// @Failure      400  {string}  string
// @Failure      403  {object}  policy.Decision
// @Failure      409  {string}  string
// @Security     BearerAuth
// @Router       /admin/users [post]
func createAccountHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		var req createAccountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.CreateAccount(r.Context(), NewAccountInput{
			Name:         req.Name,
			Email:        req.Email,
			Password:     req.Password,
			Role:         req.Role,
			Profession:   req.Profession,
			HealthUnitID: req.HealthUnitID,
			Status:       req.Status,
		})
		if err != nil {
			writeDirectoryError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toAccountResponse(a))
	}
}

// listHealthUnitsHandler godoc
// @Summary      Unidades sanitarias (solo admin)
// @Tags         admin
// @Produce      json
// @Param        q         query  string  false  "nombre"
// @Param        province  query  string  false  "provincia o all"
// @Param        type      query  string  false  "tipo o all"
// @Success      200  {array}   healthUnitResponse
// @Failure      403  {object}  policy.Decision
// @Security     BearerAuth
// @Router       /admin/health-units [get]
func listHealthUnitsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		q := r.URL.Query()
		items, err := svc.ListHealthUnits(r.Context(), UnitFilter{
			Query:    q.Get("q"),
			Province: q.Get("province"),
			Type:     q.Get("type"),
		})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]healthUnitResponse, 0, len(items))
		for _, u := range items {
			out = append(out, toHealthUnitResponse(u))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// createHealthUnitHandler godoc
// @Summary      Alta de unidad sanitaria (solo admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body  createHealthUnitRequest  true  "unidad"
// @Success      201  {object}  healthUnitResponse
// @Failure      400  {string}  string
// @Failure      403  {object}  policy.Decision
// @Security     BearerAuth
// @Router       /admin/health-units [post]
func createHealthUnitHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		var req createHealthUnitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		u, err := svc.CreateHealthUnit(r.Context(), NewHealthUnitInput{
			Name:       req.Name,
			Province:   req.Province,
			Type:       req.Type,
			StaffCount: req.StaffCount,
			Status:     req.Status,
		})
		if err != nil {
			writeDirectoryError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toHealthUnitResponse(u))
	}
}

func writeDirectoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrDuplicate):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toAccountResponse(a UserAccount) accountResponse {
	return accountResponse{
		ID:             a.ID,
		Name:           a.Name,
		Email:          a.Email,
		Role:           a.Role,
		Profession:     a.Profession,
		HealthUnitID:   a.HealthUnitID,
		HealthUnitName: a.HealthUnitName,
		Status:         a.Status,
	}
}

func toHealthUnitResponse(u HealthUnit) healthUnitResponse {
	return healthUnitResponse{
		ID:         u.ID,
		Name:       u.Name,
		Province:   u.Province,
		Type:       u.Type,
		StaffCount: u.StaffCount,
		Status:     u.Status,
	}
}

func requireProfessional(w http.ResponseWriter, r *http.Request) (identity.Identity, bool) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return identity.Identity{}, false
	}
	if id.Role != identity.RoleHealthProfessional {
		writeJSON(w, http.StatusForbidden, policy.Evaluate(id, accessgrants.Grant{}, accessgrants.ScopeView))
		return identity.Identity{}, false
	}
	return id, true
}

func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	if d := policy.CanAdminister(id); !d.Allowed {
		writeJSON(w, http.StatusForbidden, d)
		return false
	}
	return true
}

func toPatientResponse(p Patient) patientResponse {
	conds := p.Conditions
	if conds == nil {
		conds = []string{}
	}
	return patientResponse{
		ID:         p.ID,
		NID:        p.NID,
		FullName:   strings.TrimSpace(p.FullName),
		Phone:      p.Phone,
		BirthDate:  p.BirthDate,
		Gender:     p.Gender,
		Address:    p.Address,
		BloodType:  p.BloodType,
		Conditions: conds,
		LastVisit:  p.LastVisit,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
