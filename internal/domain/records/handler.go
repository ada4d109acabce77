package records

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"patient-access-portal/internal/domain/accessgrants"
	"patient-access-portal/internal/domain/accesslog"
	"patient-access-portal/internal/domain/directory"
	"patient-access-portal/internal/domain/identity"
	"patient-access-portal/internal/domain/policy"
	"patient-access-portal/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Directory es lo que el handler necesita de directory.Service.
type Directory interface {
	FindPatient(ctx context.Context, id string) (directory.Patient, error)
	FindProfessional(ctx context.Context, id string) (directory.UserAccount, error)
}

// AccessRecorder lo satisface *accesslog.Service.
type AccessRecorder interface {
	Record(ctx context.Context, in accesslog.RecordInput) (accesslog.Entry, error)
}

type Deps struct {
	Records   *Service
	Access    *policy.Evaluator
	Directory Directory
	Log       AccessRecorder
	Logger    *zap.Logger
}

func RegisterRoutes(r chi.Router, d Deps) {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	r.Route("/patients/{patientID}/records", func(rr chi.Router) {
		rr.Get("/", listRecordsHandler(d))
		rr.Post("/", createRecordHandler(d))
	})
}

type createRecordRequest struct {
	Date       string   `json:"date"` // YYYY-MM-DD opcional
	Notes      string   `json:"notes"`
	Conditions []string `json:"conditions"`
	Exams      []string `json:"exams"`
}

type recordResponse struct {
	ID               string    `json:"id"`
	PatientID        string    `json:"patient_id"`
	Date             string    `json:"date"`
	ProfessionalName string    `json:"professional_name"`
	Facility         string    `json:"facility"`
	Notes            string    `json:"notes"`
	Conditions       []string  `json:"conditions"`
	Exams            []string  `json:"exams"`
	CreatedBy        string    `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
}

// listRecordsHandler godoc
// @Summary      Historia clínica (requiere acceso view)
// @Tags         records
// @Produce      json
// @Param        patientID  path  string  true  "Patient ID"
// @Success      200  {array}   recordResponse
// @Failure      403  {object}  policy.Decision
// @Failure      404  {string}  string
// @Router       /patients/{patientID}/records [get]
func listRecordsHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, p, ok := authorize(w, r, d, accessgrants.ScopeView)
		if !ok {
			return
		}

		items, err := d.Records.ListByPatient(r.Context(), p.ID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		logAccess(r.Context(), d, id, p, accessgrants.ScopeView)

		out := make([]recordResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, toRecordResponse(rec))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// createRecordHandler godoc
// @Summary      Nueva entrada clínica (requiere acceso edit)
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        patientID  path  string               true  "Patient ID"
// @Param        body       body  createRecordRequest  true  "entrada"
// @Success      201  {object}  recordResponse
// @Failure      400  {string}  string
// @Failure      403  {object}  policy.Decision
// @Router       /patients/{patientID}/records [post]
func createRecordHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, p, ok := authorize(w, r, d, accessgrants.ScopeEdit)
		if !ok {
			return
		}

		var req createRecordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var date time.Time
		if strings.TrimSpace(req.Date) != "" {
			t, err := time.Parse("2006-01-02", req.Date)
			if err != nil {
				http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			date = t
		}

		rec, err := d.Records.Create(r.Context(), p.ID, id.ID, CreateInput{
			Date:             date,
			ProfessionalName: id.Name,
			Facility:         id.HealthUnitName,
			Notes:            req.Notes,
			Conditions:       req.Conditions,
			Exams:            req.Exams,
		})
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		logAccess(r.Context(), d, id, p, accessgrants.ScopeEdit)

		writeJSON(w, http.StatusCreated, toRecordResponse(rec))
	}
}

// authorize: auth + paciente existente + policy. Escribe la respuesta si falla.
func authorize(w http.ResponseWriter, r *http.Request, d Deps, action accessgrants.Scope) (identity.Identity, directory.Patient, bool) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return identity.Identity{}, directory.Patient{}, false
	}

	p, err := d.Directory.FindPatient(r.Context(), chi.URLParam(r, "patientID"))
	if err != nil {
		http.Error(w, "patient not found", http.StatusNotFound)
		return identity.Identity{}, directory.Patient{}, false
	}

	dec, err := d.Access.CanAccess(r.Context(), id, p.ID, action)
	if err != nil {
		d.Logger.Error("policy evaluation failed", zap.String("patient_id", p.ID), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return identity.Identity{}, directory.Patient{}, false
	}
	if !dec.Allowed {
		writeJSON(w, http.StatusForbidden, dec)
		return identity.Identity{}, directory.Patient{}, false
	}
	return id, p, true
}

// logAccess no corta el request si falla: el acceso ya fue autorizado.
func logAccess(ctx context.Context, d Deps, id identity.Identity, p directory.Patient, scope accessgrants.Scope) {
	role := string(id.Role)
	if acc, err := d.Directory.FindProfessional(ctx, id.ID); err == nil && acc.Profession != "" {
		role = acc.Profession
	}

	_, err := d.Log.Record(ctx, accesslog.RecordInput{
		ProfessionalID:   id.ID,
		ProfessionalName: id.Name,
		ProfessionalRole: role,
		PatientID:        p.ID,
		PatientNID:       p.NID,
		PatientName:      p.FullName,
		Scope:            scope,
		Facility:         id.HealthUnitName,
	})
	if err != nil {
		d.Logger.Error("access log append failed",
			zap.String("professional_id", id.ID),
			zap.String("patient_id", p.ID),
			zap.Error(err),
		)
	}
}

func toRecordResponse(rec ClinicalRecord) recordResponse {
	return recordResponse{
		ID:               rec.ID,
		PatientID:        rec.PatientID,
		Date:             rec.Date.Format("2006-01-02"),
		ProfessionalName: rec.ProfessionalName,
		Facility:         rec.Facility,
		Notes:            rec.Notes,
		Conditions:       nonNil(rec.Conditions),
		Exams:            nonNil(rec.Exams),
		CreatedBy:        rec.CreatedBy,
		CreatedAt:        rec.CreatedAt,
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
