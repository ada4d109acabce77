package accesslog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"patient-access-portal/internal/domain/accessgrants"
	"patient-access-portal/internal/domain/policy"
	"patient-access-portal/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/admin/access-logs", listEntriesHandler(svc))
}

type entryResponse struct {
	ID               string             `json:"id"`
	At               time.Time          `json:"date_time"`
	ProfessionalID   string             `json:"professional_id"`
	ProfessionalName string             `json:"professional_name"`
	ProfessionalRole string             `json:"professional_role"`
	PatientID        string             `json:"patient_id"`
	PatientNID       string             `json:"patient_nid"`
	PatientName      string             `json:"patient_name"`
	Scope            accessgrants.Scope `json:"access_type"`
	Facility         string             `json:"facility"`
}

// listEntriesHandler godoc
// @Summary      Registro de accesos (solo admin)
// @Tags         admin
// @Produce      json
// @Param        q      query  string  false  "profesional, paciente o NID"
// @Param        date   query  string  false  "YYYY-MM-DD"
// @Param        scope  query  string  false  "view | edit | all"
// @Success      200  {array}  entryResponse
// @Failure      403  {object}  policy.Decision
// @Router       /admin/access-logs [get]
func listEntriesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := middleware.GetIdentity(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if d := policy.CanAdminister(id); !d.Allowed {
			writeJSON(w, http.StatusForbidden, d)
			return
		}

		q := r.URL.Query()
		f := Filter{
			Query: q.Get("q"),
			Date:  q.Get("date"),
			Scope: q.Get("scope"),
		}
		if f.Date != "" {
			if _, err := time.Parse(DateLayout, f.Date); err != nil {
				http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
		}
		if v := q.Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			f.Limit = n
		}

		items, err := svc.List(r.Context(), f)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]entryResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toEntryResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toEntryResponse(e Entry) entryResponse {
	return entryResponse{
		ID:               e.ID,
		At:               e.At,
		ProfessionalID:   e.ProfessionalID,
		ProfessionalName: e.ProfessionalName,
		ProfessionalRole: e.ProfessionalRole,
		PatientID:        e.PatientID,
		PatientNID:       e.PatientNID,
		PatientName:      e.PatientName,
		Scope:            e.Scope,
		Facility:         e.Facility,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
