package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"patient-access-portal/internal/domain/accessgrants"
	"patient-access-portal/internal/domain/accesslog"
	"patient-access-portal/internal/domain/directory"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

var grantCols = []string{
	"id", "professional_id", "patient_id",
	"status", "scope",
	"code_hash", "issued_at", "code_expires_at", "attempts",
	"created_at", "updated_at", "granted_at", "denied_at", "superseded_at",
}

func TestAccessGrantsRepo_LatestByInsertionOrder(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAccessGrantsRepo(db)

	created := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	granted := created.Add(2 * time.Minute)
	rows := sqlmock.NewRows(grantCols).AddRow(
		"g-2", "2", "1",
		"GRANTED", "view",
		"", created, created.Add(5*time.Minute), 1,
		created, granted, granted, nil, nil,
	)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE professional_id = $1 AND patient_id = $2 ORDER BY seq DESC LIMIT 1")).
		WithArgs("2", "1").
		WillReturnRows(rows)

	g, err := repo.Latest(context.Background(), accessgrants.Key{ProfessionalID: "2", PatientID: "1"})
	require.NoError(t, err)

	assert.Equal(t, "g-2", g.ID)
	assert.Equal(t, accessgrants.StatusGranted, g.Status)
	assert.Equal(t, accessgrants.ScopeView, g.Scope)
	require.NotNil(t, g.GrantedAt)
	assert.True(t, granted.Equal(*g.GrantedAt))
	assert.Nil(t, g.DeniedAt)
	assert.Nil(t, g.SupersededAt)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccessGrantsRepo_LatestNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAccessGrantsRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM access_grants")).
		WithArgs("2", "9").
		WillReturnRows(sqlmock.NewRows(grantCols))

	_, err := repo.Latest(context.Background(), accessgrants.Key{ProfessionalID: "2", PatientID: "9"})
	assert.ErrorIs(t, err, accessgrants.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccessGrantsRepo_UpdateMissing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAccessGrantsRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE access_grants")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), accessgrants.Grant{ID: "nope", Status: accessgrants.StatusDenied})
	assert.ErrorIs(t, err, accessgrants.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccessGrantsRepo_CreateStoresHashOnly(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAccessGrantsRepo(db)

	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	g := accessgrants.Grant{
		ID: "g-1", ProfessionalID: "2", PatientID: "1",
		Status: accessgrants.StatusRequested, Scope: accessgrants.ScopeEdit,
		CreatedAt: now, UpdatedAt: now,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO access_grants")).
		WithArgs("g-1", "2", "1", "REQUESTED", "edit", "", nil, nil, 0, now, now, nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), g))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccessGrantsRepo_ListByKey(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAccessGrantsRepo(db)

	t0 := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(grantCols).
		AddRow("g-1", "2", "1", "DENIED", "view", "", nil, nil, 0, t0, t0, nil, t0, t0).
		AddRow("g-2", "2", "1", "REQUESTED", "view", "", nil, nil, 0, t0, t0, nil, nil, nil)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY seq ASC")).
		WithArgs("2", "1").
		WillReturnRows(rows)

	items, err := repo.ListByKey(context.Background(), accessgrants.Key{ProfessionalID: "2", PatientID: "1"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "g-1", items[0].ID)
	assert.NotNil(t, items[0].SupersededAt)
	assert.Equal(t, accessgrants.StatusRequested, items[1].Status)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccessGrantsRepo_ListByPatient(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAccessGrantsRepo(db)

	t0 := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(grantCols).
		AddRow("g-1", "2", "1", "GRANTED", "view", "", nil, nil, 0, t0, t0, t0, nil, nil).
		AddRow("g-2", "3", "1", "REQUESTED", "edit", "", nil, nil, 0, t0, t0, nil, nil, nil)

	mock.ExpectQuery("(?s)"+regexp.QuoteMeta("WHERE patient_id = $1")+".*"+regexp.QuoteMeta("ORDER BY seq ASC")).
		WithArgs("1").
		WillReturnRows(rows)

	items, err := repo.ListByPatient(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "2", items[0].ProfessionalID)
	assert.Equal(t, accessgrants.StatusRequested, items[1].Status)

	require.NoError(t, mock.ExpectationsWereMet())
}

var patientCols = []string{
	"id", "nid", "full_name", "phone",
	"birth_date", "gender", "address", "blood_type",
	"conditions", "last_visit",
}

func TestDirectoryRepo_EachPatientStopsEarly(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewDirectoryRepo(db)

	birth := time.Date(1980, 5, 15, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(patientCols).
		AddRow("1", "1234567890", "João da Silva", "+258 84 123 4567", birth, "M", "Av. Eduardo Mondlane, Maputo", "O+", []byte(`["Hipertensão","Diabetes Tipo 2"]`), nil).
		AddRow("2", "0987654321", "Maria Francisca", "+258 82 765 4321", nil, "F", "Rua da Paz, Beira", "A-", []byte(`["Asma"]`), nil)

	mock.ExpectQuery(regexp.QuoteMeta("FROM patients ORDER BY seq ASC")).WillReturnRows(rows)

	var seen []directory.Patient
	err := repo.EachPatient(context.Background(), func(p directory.Patient) bool {
		seen = append(seen, p)
		return false
	})
	require.NoError(t, err)
	require.Len(t, seen, 1)

	p := seen[0]
	assert.Equal(t, "João da Silva", p.FullName)
	assert.Equal(t, directory.GenderMale, p.Gender)
	assert.Equal(t, []string{"Hipertensão", "Diabetes Tipo 2"}, p.Conditions)
	require.NotNil(t, p.BirthDate)
	assert.True(t, birth.Equal(*p.BirthDate))
	assert.Nil(t, p.LastVisit)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectoryRepo_GetPatientNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewDirectoryRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM patients WHERE id = $1")).
		WithArgs("404").
		WillReturnRows(sqlmock.NewRows(patientCols))

	_, err := repo.GetPatient(context.Background(), "404")
	assert.ErrorIs(t, err, directory.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectoryRepo_CreateAccountDuplicate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewDirectoryRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_accounts")).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.CreateAccount(context.Background(), directory.UserAccount{ID: "2", Email: " Doctor@Example.com "})
	assert.ErrorIs(t, err, directory.ErrDuplicate)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectoryRepo_GetAccountByEmailNormalizes(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewDirectoryRepo(db)

	cols := []string{"id", "name", "email", "role", "profession", "health_unit_id", "health_unit_name", "status", "password_hash"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM user_accounts WHERE email = $1")).
		WithArgs("doctor@example.com").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("2", "Dr. Maria Silva", "doctor@example.com", "health_professional", "Doctor", "1", "Central Hospital", "active", "$2a$hash"))

	a, err := repo.GetAccountByEmail(context.Background(), "  DOCTOR@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "Central Hospital", a.HealthUnitName)
	assert.Equal(t, directory.StatusActive, a.Status)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildAccessLogQuery(t *testing.T) {
	q, args := buildAccessLogQuery(accesslog.Filter{
		Query: "Maria_",
		Date:  "2026-02-01",
		Scope: "view",
		Limit: 50,
	})

	assert.Contains(t, q, "lower(professional_name) LIKE $1")
	assert.Contains(t, q, "patient_nid LIKE $2")
	assert.Contains(t, q, "LIKE $3")
	assert.Contains(t, q, "scope = $4")
	assert.Contains(t, q, "ORDER BY at DESC, seq DESC LIMIT $5")
	assert.Equal(t, []any{`%maria\_%`, `%Maria\_%`, "2026-02-01%", "view", 50}, args)

	q, args = buildAccessLogQuery(accesslog.Filter{})
	assert.NotContains(t, q, "WHERE")
	assert.Empty(t, args)
}

func TestAccessLogRepo_List(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAccessLogRepo(db)

	at := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)
	cols := []string{"id", "professional_id", "professional_name", "professional_role", "patient_id", "patient_nid", "patient_name", "scope", "facility", "at"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM access_log WHERE patient_id = $1 ORDER BY at DESC, seq DESC LIMIT $2")).
		WithArgs("1", 10).
		WillReturnRows(sqlmock.NewRows(cols).AddRow("e-1", "2", "Dr. Maria Silva", "Doctor", "1", "1234567890", "João da Silva", "view", "Central Hospital", at))

	items, err := repo.List(context.Background(), accesslog.Filter{PatientID: "1", Limit: 10})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, accessgrants.ScopeView, items[0].Scope)
	assert.True(t, at.Equal(items[0].At))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordsRepo_ListByPatient(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRecordsRepo(db)

	day := time.Date(2023, 4, 10, 0, 0, 0, 0, time.UTC)
	cols := []string{"id", "patient_id", "date", "professional_name", "facility", "notes", "conditions", "exams", "created_by", "created_at"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM clinical_records WHERE patient_id = $1 ORDER BY date DESC, seq DESC")).
		WithArgs("1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("r-1", "1", day, "Dr. Maria Silva", "Central Hospital", "Controlo", []byte(`["Hipertensão"]`), []byte(`[]`), "2", day))

	items, err := repo.ListByPatient(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, []string{"Hipertensão"}, items[0].Conditions)
	assert.Empty(t, items[0].Exams)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS access_grants")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, Migrate(context.Background(), db))
	require.NoError(t, mock.ExpectationsWereMet())
}
