// internal/merchant/repository_test.go
//
// Unit-tests for the identity store using sqlmock.
//
// Context
// -------
// The interesting behaviour is Insert's error mapping: a duplicate-key
// rejection must come back as *UniquenessViolation naming the field, for
// both the MySQL 8 (“table.key”) and the MariaDB (“key”) message shapes.
//
// Run: go test ./internal/merchant -v

package merchant

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return NewRepository(sqlx.NewDb(raw, "mysql")), mock
}

func sampleRecord() *Record {
	return &Record{
		FirstName:    "Ana",
		LastName:     "Pérez",
		Email:        "ana@example.com",
		PasswordHash: "hash",
		StoreName:    "Mi Tienda",
		StoreAddress: "Calle 1",
		Phone:        "555",
		Subdomain:    "mi-tienda",
		Country:      "AR",
		City:         "Rosario",
	}
}

func TestExistsBySubdomain(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT EXISTS(SELECT 1 FROM merchant WHERE subdomain = ?)`,
	)).
		WithArgs("mi-tienda").
		WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(1))

	ok, err := repo.ExistsBySubdomain(context.Background(), "mi-tienda")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExistsByEmail_False(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT EXISTS(SELECT 1 FROM merchant WHERE email = ?)`,
	)).
		WithArgs("ana@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(0))

	ok, err := repo.ExistsByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_OK(t *testing.T) {
	repo, mock := newMockRepo(t)
	rec := sampleRecord()

	mock.ExpectExec("INSERT INTO merchant").
		WithArgs("Ana", "Pérez", "ana@example.com", "hash", "Mi Tienda",
			"Calle 1", "555", "mi-tienda", "AR", "Rosario", StatusActive).
		WillReturnResult(sqlmock.NewResult(42, 1))

	id, err := repo.Insert(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
	assert.Equal(t, uint64(42), rec.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_UniquenessViolation(t *testing.T) {
	cases := []struct {
		name    string
		message string
		field   string
	}{
		{"mysql8 subdomain", "Duplicate entry 'mi-tienda' for key 'merchant.uq_merchant_subdomain'", FieldSubdomain},
		{"mariadb subdomain", "Duplicate entry 'mi-tienda' for key 'uq_merchant_subdomain'", FieldSubdomain},
		{"mysql8 email", "Duplicate entry 'ana@example.com' for key 'merchant.uq_merchant_email'", FieldEmail},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			mock.ExpectExec("INSERT INTO merchant").
				WillReturnError(&mysql.MySQLError{Number: 1062, Message: c.message})

			_, err := repo.Insert(context.Background(), sampleRecord())

			var uv *UniquenessViolation
			require.True(t, errors.As(err, &uv), "err = %v", err)
			assert.Equal(t, c.field, uv.Field)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestInsert_UnknownKeyIsPlainError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("INSERT INTO merchant").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'x' for key 'PRIMARY'"})

	_, err := repo.Insert(context.Background(), sampleRecord())
	require.Error(t, err)

	var uv *UniquenessViolation
	assert.False(t, errors.As(err, &uv))
}

func TestInsert_OtherErrorIsPlain(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("INSERT INTO merchant").
		WillReturnError(&mysql.MySQLError{Number: 1406, Message: "Data too long for column 'subdomain'"})

	_, err := repo.Insert(context.Background(), sampleRecord())
	require.Error(t, err)

	var uv *UniquenessViolation
	assert.False(t, errors.As(err, &uv))
}

func TestBySubdomain_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT (.+) FROM merchant WHERE subdomain = \\?").
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.BySubdomain(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBySubdomain_Found(t *testing.T) {
	repo, mock := newMockRepo(t)
	rows := sqlmock.NewRows([]string{
		"id", "first_name", "last_name", "email", "password_hash", "store_name",
		"store_address", "phone", "subdomain", "country", "city", "status",
	}).AddRow(7, "Ana", "Pérez", "ana@example.com", "hash", "Mi Tienda",
		"Calle 1", "555", "mi-tienda", "AR", "Rosario", "active")

	mock.ExpectQuery("SELECT (.+) FROM merchant WHERE subdomain = \\?").
		WithArgs("mi-tienda").
		WillReturnRows(rows)

	rec, err := repo.BySubdomain(context.Background(), "mi-tienda")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), rec.ID)
	assert.Equal(t, "Mi Tienda", rec.StoreName)
}

func TestByEmail_ActiveOnly(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM merchant WHERE email = ? AND status = 'active'")).
		WithArgs("ana@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash"}).
			AddRow(7, "ana@example.com", "hash"))

	rec, err := repo.ByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), rec.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
