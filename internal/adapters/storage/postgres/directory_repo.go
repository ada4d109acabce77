package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"patient-access-portal/internal/domain/directory"
	"patient-access-portal/internal/domain/identity"
)

type DirectoryRepo struct {
	db *sql.DB
}

func NewDirectoryRepo(db *sql.DB) *DirectoryRepo {
	return &DirectoryRepo{db: db}
}

const patientColumns = `
	id, nid, full_name, phone,
	birth_date, gender, address, blood_type,
	conditions, last_visit`

const accountColumns = `
	id, name, email, role,
	profession, health_unit_id, health_unit_name, status,
	password_hash`

func (r *DirectoryRepo) CreatePatient(ctx context.Context, p directory.Patient) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO patients (`+patientColumns+`
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9::jsonb,$10)
	`,
		p.ID,
		p.NID,
		p.FullName,
		p.Phone,
		toNullTime(p.BirthDate),
		string(p.Gender),
		p.Address,
		p.BloodType,
		encodeList(p.Conditions),
		toNullTime(p.LastVisit),
	)
	return mapWriteErr(err)
}

func (r *DirectoryRepo) GetPatient(ctx context.Context, id string) (directory.Patient, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = $1`, strings.TrimSpace(id))
	p, err := scanPatient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return directory.Patient{}, directory.ErrNotFound
	}
	return p, err
}

// EachPatient hace streaming de filas: no carga el padrón completo.
// Si fn devuelve false se cierra el cursor.
func (r *DirectoryRepo) EachPatient(ctx context.Context, fn func(directory.Patient) bool) error {
	rows, err := r.db.QueryContext(ctx, `SELECT `+patientColumns+` FROM patients ORDER BY seq ASC`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return err
		}
		if !fn(p) {
			return nil
		}
	}
	return rows.Err()
}

func (r *DirectoryRepo) CreateAccount(ctx context.Context, a directory.UserAccount) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_accounts (`+accountColumns+`
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		a.ID,
		a.Name,
		strings.ToLower(strings.TrimSpace(a.Email)),
		string(a.Role),
		a.Profession,
		a.HealthUnitID,
		a.HealthUnitName,
		string(a.Status),
		a.PasswordHash,
	)
	return mapWriteErr(err)
}

func (r *DirectoryRepo) GetAccount(ctx context.Context, id string) (directory.UserAccount, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM user_accounts WHERE id = $1`, strings.TrimSpace(id))
	return scanAccountRow(row)
}

func (r *DirectoryRepo) GetAccountByEmail(ctx context.Context, email string) (directory.UserAccount, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM user_accounts WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)))
	return scanAccountRow(row)
}

func (r *DirectoryRepo) ListAccounts(ctx context.Context) ([]directory.UserAccount, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM user_accounts ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]directory.UserAccount, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *DirectoryRepo) CreateHealthUnit(ctx context.Context, u directory.HealthUnit) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO health_units (id, name, province, type, staff_count, status)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, u.ID, u.Name, u.Province, u.Type, u.StaffCount, string(u.Status))
	return mapWriteErr(err)
}

func (r *DirectoryRepo) ListHealthUnits(ctx context.Context) ([]directory.HealthUnit, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, province, type, staff_count, status
		FROM health_units
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]directory.HealthUnit, 0)
	for rows.Next() {
		var u directory.HealthUnit
		var status string
		if err := rows.Scan(&u.ID, &u.Name, &u.Province, &u.Type, &u.StaffCount, &status); err != nil {
			return nil, err
		}
		u.Status = directory.Status(status)
		out = append(out, u)
	}
	return out, rows.Err()
}

func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return directory.ErrDuplicate
	}
	return err
}

func scanPatient(s rowScanner) (directory.Patient, error) {
	var p directory.Patient
	var gender string
	var birth, lastVisit sql.NullTime
	var conditions []byte

	if err := s.Scan(
		&p.ID,
		&p.NID,
		&p.FullName,
		&p.Phone,
		&birth,
		&gender,
		&p.Address,
		&p.BloodType,
		&conditions,
		&lastVisit,
	); err != nil {
		return directory.Patient{}, err
	}

	conds, err := decodeList(conditions)
	if err != nil {
		return directory.Patient{}, err
	}
	p.Gender = directory.Gender(gender)
	p.BirthDate = fromNullTime(birth)
	p.LastVisit = fromNullTime(lastVisit)
	p.Conditions = conds
	return p, nil
}

func scanAccountRow(row *sql.Row) (directory.UserAccount, error) {
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return directory.UserAccount{}, directory.ErrNotFound
	}
	return a, err
}

func scanAccount(s rowScanner) (directory.UserAccount, error) {
	var a directory.UserAccount
	var role, status string

	if err := s.Scan(
		&a.ID,
		&a.Name,
		&a.Email,
		&role,
		&a.Profession,
		&a.HealthUnitID,
		&a.HealthUnitName,
		&status,
		&a.PasswordHash,
	); err != nil {
		return directory.UserAccount{}, err
	}
	a.Role = identity.Role(role)
	a.Status = directory.Status(status)
	return a, nil
}

var _ directory.Repository = (*DirectoryRepo)(nil)
