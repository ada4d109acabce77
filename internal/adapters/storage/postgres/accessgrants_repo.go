package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"patient-access-portal/internal/domain/accessgrants"
)

type AccessGrantsRepo struct {
	db *sql.DB
}

func NewAccessGrantsRepo(db *sql.DB) *AccessGrantsRepo {
	return &AccessGrantsRepo{db: db}
}

const grantColumns = `
	id, professional_id, patient_id,
	status, scope,
	code_hash, issued_at, code_expires_at, attempts,
	created_at, updated_at, granted_at, denied_at, superseded_at`

func (r *AccessGrantsRepo) Create(ctx context.Context, g accessgrants.Grant) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO access_grants (`+grantColumns+`
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		g.ID,
		g.ProfessionalID,
		g.PatientID,
		string(g.Status),
		string(g.Scope),
		g.CodeHash,
		toNullTime(g.IssuedAt),
		toNullTime(g.CodeExpiresAt),
		g.Attempts,
		g.CreatedAt,
		g.UpdatedAt,
		toNullTime(g.GrantedAt),
		toNullTime(g.DeniedAt),
		toNullTime(g.SupersededAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("grant %s already exists", g.ID)
		}
		return err
	}
	return nil
}

// Update no toca professional_id/patient_id: la clave del ciclo es inmutable.
func (r *AccessGrantsRepo) Update(ctx context.Context, g accessgrants.Grant) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE access_grants
		SET
			status = $2,
			scope = $3,
			code_hash = $4,
			issued_at = $5,
			code_expires_at = $6,
			attempts = $7,
			updated_at = $8,
			granted_at = $9,
			denied_at = $10,
			superseded_at = $11
		WHERE id = $1
	`,
		g.ID,
		string(g.Status),
		string(g.Scope),
		g.CodeHash,
		toNullTime(g.IssuedAt),
		toNullTime(g.CodeExpiresAt),
		g.Attempts,
		g.UpdatedAt,
		toNullTime(g.GrantedAt),
		toNullTime(g.DeniedAt),
		toNullTime(g.SupersededAt),
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return accessgrants.ErrNotFound
	}
	return nil
}

func (r *AccessGrantsRepo) GetByID(ctx context.Context, id string) (accessgrants.Grant, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return accessgrants.Grant{}, accessgrants.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+grantColumns+` FROM access_grants WHERE id = $1`, id)
	return scanGrantRow(row)
}

// Latest usa seq (orden de inserción), no created_at: dos ciclos pueden
// compartir timestamp.
func (r *AccessGrantsRepo) Latest(ctx context.Context, key accessgrants.Key) (accessgrants.Grant, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+grantColumns+`
		FROM access_grants
		WHERE professional_id = $1 AND patient_id = $2
		ORDER BY seq DESC
		LIMIT 1
	`, key.ProfessionalID, key.PatientID)
	return scanGrantRow(row)
}

func (r *AccessGrantsRepo) ListByKey(ctx context.Context, key accessgrants.Key) ([]accessgrants.Grant, error) {
	return r.list(ctx, `
		SELECT `+grantColumns+`
		FROM access_grants
		WHERE professional_id = $1 AND patient_id = $2
		ORDER BY seq ASC
	`, key.ProfessionalID, key.PatientID)
}

func (r *AccessGrantsRepo) ListByPatient(ctx context.Context, patientID string) ([]accessgrants.Grant, error) {
	return r.list(ctx, `
		SELECT `+grantColumns+`
		FROM access_grants
		WHERE patient_id = $1
		ORDER BY seq ASC
	`, patientID)
}

func (r *AccessGrantsRepo) list(ctx context.Context, query string, args ...any) ([]accessgrants.Grant, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]accessgrants.Grant, 0)
	for rows.Next() {
		g, err := scanGrant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func scanGrantRow(row *sql.Row) (accessgrants.Grant, error) {
	g, err := scanGrant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return accessgrants.Grant{}, accessgrants.ErrNotFound
	}
	return g, err
}

func scanGrant(s rowScanner) (accessgrants.Grant, error) {
	var g accessgrants.Grant
	var status, scope string
	var issuedAt, expiresAt, grantedAt, deniedAt, supersededAt sql.NullTime

	if err := s.Scan(
		&g.ID,
		&g.ProfessionalID,
		&g.PatientID,
		&status,
		&scope,
		&g.CodeHash,
		&issuedAt,
		&expiresAt,
		&g.Attempts,
		&g.CreatedAt,
		&g.UpdatedAt,
		&grantedAt,
		&deniedAt,
		&supersededAt,
	); err != nil {
		return accessgrants.Grant{}, err
	}

	g.Status = accessgrants.Status(status)
	g.Scope = accessgrants.Scope(scope)
	g.IssuedAt = fromNullTime(issuedAt)
	g.CodeExpiresAt = fromNullTime(expiresAt)
	g.GrantedAt = fromNullTime(grantedAt)
	g.DeniedAt = fromNullTime(deniedAt)
	g.SupersededAt = fromNullTime(supersededAt)
	return g, nil
}

var _ accessgrants.Repository = (*AccessGrantsRepo)(nil)
