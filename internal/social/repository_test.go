// internal/social/repository_test.go
//
// Unit-tests for the MySQL social-link store using sqlmock.
//
// Run: go test ./internal/social -v

package social

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

const (
	upsertSQL = `INSERT INTO merchant_social (merchant_id, platform, url) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE url = VALUES(url)`
	deleteSQL = `DELETE FROM merchant_social WHERE merchant_id = ? AND platform = ?`
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { raw.Close() })
	return NewRepository(sqlx.NewDb(raw, "mysql")), mock
}

func TestRepository_GetAll(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT platform, url FROM merchant_social WHERE merchant_id = ?`,
	)).
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"platform", "url"}).
			AddRow("instagram", "https://instagram.com/a").
			AddRow("website", "https://a.example"))

	got, err := repo.GetAll(context.Background(), 9)
	if err != nil {
		t.Fatalf("GetAll error: %v", err)
	}
	if len(got) != 2 || got[Instagram] != "https://instagram.com/a" || got[Website] != "https://a.example" {
		t.Fatalf("unexpected result: %#v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestRepository_SyncCommitsOneTransaction(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(deleteSQL)).
		WithArgs(uint64(5), "instagram").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(upsertSQL)).
		WithArgs(uint64(5), "twitter", "https://twitter.com/newhandle").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(deleteSQL)).
		WithArgs(uint64(5), "tiktok").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(deleteSQL)).
		WithArgs(uint64(5), "facebook").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(deleteSQL)).
		WithArgs(uint64(5), "whatsapp").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	_, err := NewSyncer(repo).Sync(context.Background(), 5, Submission{Twitter: "newhandle"})
	if err != nil {
		t.Fatalf("Sync error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestRepository_SyncRollsBackOnFailure(t *testing.T) {
	repo, mock := newMockRepo(t)
	boom := errors.New("constraint violation")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(upsertSQL)).
		WithArgs(uint64(5), "instagram", "https://instagram.com/a").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(upsertSQL)).
		WithArgs(uint64(5), "twitter", "https://twitter.com/b").
		WillReturnError(boom)
	mock.ExpectRollback()

	_, err := NewSyncer(repo).Sync(context.Background(), 5, Submission{
		Instagram: "a",
		Twitter:   "b",
	})
	if !errors.Is(err, ErrSyncFailed) || !errors.Is(err, boom) {
		t.Fatalf("err = %v, want ErrSyncFailed wrapping %v", err, boom)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestRepository_UpsertRejectsUnknownPlatform(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := repo.Batch(context.Background(), 1, func(tx Tx) error {
		return tx.Upsert(context.Background(), Platform("myspace"), "https://myspace.com/a")
	})
	if !errors.Is(err, ErrUnknownPlatform) {
		t.Fatalf("err = %v, want ErrUnknownPlatform", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}
