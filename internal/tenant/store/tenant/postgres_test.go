package tenant

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"a2admin/internal/sentinel"
	"a2admin/internal/tenant/models"
)

var tenantSelectColumns = []string{
	"id", "name", "email_contact", "phone", "address",
	"primary_color", "secondary_color", "status", "created_at", "updated_at",
}

func TestPostgresCreate_UniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewPostgres(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tenants")).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err = store.CreateIfNameAvailable(context.Background(), newTenant("Dup"))
	assert.ErrorIs(t, err, sentinel.ErrAlreadyUsed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewPostgres(db)
	tenant := newTenant("FC Lyon")

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).
		WithArgs(uuid.UUID(tenant.ID)).
		WillReturnRows(sqlmock.NewRows(tenantSelectColumns).AddRow(
			uuid.UUID(tenant.ID).String(), "FC Lyon", "contact@club.fr", "", "", "#111", "#222",
			"inactive", tenant.CreatedAt, tenant.UpdatedAt,
		))

	found, err := store.FindByID(context.Background(), tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, found.ID)
	assert.Equal(t, models.TenantStatusInactive, found.Status)
	assert.Equal(t, "#111", found.PrimaryColor)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewPostgres(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).
		WillReturnRows(sqlmock.NewRows(tenantSelectColumns))

	_, err = store.FindByID(context.Background(), newTenant("x").ID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestPostgresUpdate_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewPostgres(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE tenants")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = store.Update(context.Background(), newTenant("x"))
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
