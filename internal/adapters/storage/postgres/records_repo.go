package postgres

import (
	"context"
	"database/sql"

	"patient-access-portal/internal/domain/records"
)

type RecordsRepo struct {
	db *sql.DB
}

func NewRecordsRepo(db *sql.DB) *RecordsRepo {
	return &RecordsRepo{db: db}
}

func (r *RecordsRepo) Create(ctx context.Context, rec records.ClinicalRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO clinical_records (
			id, patient_id, date,
			professional_name, facility, notes,
			conditions, exams,
			created_by, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7::jsonb,$8::jsonb,$9,$10)
	`,
		rec.ID,
		rec.PatientID,
		rec.Date,
		rec.ProfessionalName,
		rec.Facility,
		rec.Notes,
		encodeList(rec.Conditions),
		encodeList(rec.Exams),
		rec.CreatedBy,
		rec.CreatedAt,
	)
	return err
}

func (r *RecordsRepo) ListByPatient(ctx context.Context, patientID string) ([]records.ClinicalRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, patient_id, date,
			professional_name, facility, notes,
			conditions, exams,
			created_by, created_at
		FROM clinical_records
		WHERE patient_id = $1
		ORDER BY date DESC, seq DESC
	`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]records.ClinicalRecord, 0)
	for rows.Next() {
		var rec records.ClinicalRecord
		var conditions, exams []byte

		if err := rows.Scan(
			&rec.ID,
			&rec.PatientID,
			&rec.Date,
			&rec.ProfessionalName,
			&rec.Facility,
			&rec.Notes,
			&conditions,
			&exams,
			&rec.CreatedBy,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}

		if rec.Conditions, err = decodeList(conditions); err != nil {
			return nil, err
		}
		if rec.Exams, err = decodeList(exams); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

var _ records.Repository = (*RecordsRepo)(nil)
