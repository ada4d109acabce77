package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"patient-access-portal/internal/domain/accessgrants"
	"patient-access-portal/internal/domain/accesslog"
)

// AccessLogRepo es append-only: no expone Update ni Delete.
type AccessLogRepo struct {
	db *sql.DB
}

func NewAccessLogRepo(db *sql.DB) *AccessLogRepo {
	return &AccessLogRepo{db: db}
}

func (r *AccessLogRepo) Append(ctx context.Context, e accesslog.Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO access_log (
			id, professional_id, professional_name, professional_role,
			patient_id, patient_nid, patient_name,
			scope, facility, at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		e.ID,
		e.ProfessionalID,
		e.ProfessionalName,
		e.ProfessionalRole,
		e.PatientID,
		e.PatientNID,
		e.PatientName,
		string(e.Scope),
		e.Facility,
		e.At,
	)
	if err != nil && isUniqueViolation(err) {
		return fmt.Errorf("access log entry %s already exists", e.ID)
	}
	return err
}

// List empuja el filtro a SQL con la misma semántica que accesslog.Matches.
func (r *AccessLogRepo) List(ctx context.Context, f accesslog.Filter) ([]accesslog.Entry, error) {
	query, args := buildAccessLogQuery(f)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]accesslog.Entry, 0)
	for rows.Next() {
		var e accesslog.Entry
		var scope string
		if err := rows.Scan(
			&e.ID,
			&e.ProfessionalID,
			&e.ProfessionalName,
			&e.ProfessionalRole,
			&e.PatientID,
			&e.PatientNID,
			&e.PatientName,
			&scope,
			&e.Facility,
			&e.At,
		); err != nil {
			return nil, err
		}
		e.Scope = accessgrants.Scope(scope)
		e.At = e.At.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

func buildAccessLogQuery(f accesslog.Filter) (string, []any) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q := strings.TrimSpace(f.Query); q != "" {
		lower := arg("%" + escapeLike(strings.ToLower(q)) + "%")
		raw := arg("%" + escapeLike(q) + "%")
		where = append(where, fmt.Sprintf(
			"(lower(professional_name) LIKE %s OR lower(patient_name) LIKE %s OR patient_nid LIKE %s)",
			lower, lower, raw,
		))
	}
	if d := strings.TrimSpace(f.Date); d != "" {
		where = append(where, fmt.Sprintf(
			"to_char(at AT TIME ZONE 'UTC', 'YYYY-MM-DD\"T\"HH24:MI:SS') LIKE %s",
			arg(escapeLike(d)+"%"),
		))
	}
	if s := strings.TrimSpace(f.Scope); s != "" {
		where = append(where, "scope = "+arg(s))
	}
	if p := strings.TrimSpace(f.PatientID); p != "" {
		where = append(where, "patient_id = "+arg(p))
	}

	var b strings.Builder
	b.WriteString(`SELECT id, professional_id, professional_name, professional_role, ` +
		`patient_id, patient_nid, patient_name, scope, facility, at FROM access_log`)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY at DESC, seq DESC")
	if f.Limit > 0 {
		b.WriteString(" LIMIT " + arg(f.Limit))
	}
	return b.String(), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

var _ accesslog.Repository = (*AccessLogRepo)(nil)
