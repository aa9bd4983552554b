// internal/merchant/repository.go
//
// Identity store queries.
//
// Context
// -------
// Registration needs three answers from the `merchant` table: is this email
// taken, is this subdomain taken, and did the insert stick.  The public
// storefront needs the reverse lookup by subdomain.
//
// Existence checks read committed rows only.  Between a check and the insert
// another registration may claim the same value; the unique keys catch that
// and Insert reports it as *UniquenessViolation naming the field, so callers
// never have to read driver error text.
//
// Notes
// -----
// • MySQL error 1062 carries the key name inside its message, e.g.
//   “Duplicate entry 'x' for key 'merchant.uq_merchant_subdomain'” (8.0) or
//   “… for key 'uq_merchant_subdomain'” (5.7, MariaDB).  Both are handled.
// • An unrecognised key is returned as a plain wrapped error.
// • Oxford commas, two spaces after periods.
package merchant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

const errDuplicateEntry = 1062

var duplicateKey = regexp.MustCompile(`for key '(?:[^']*\.)?([^'.]+)'`)

// uniqueKeys maps unique index names to the field they guard.
var uniqueKeys = map[string]string{
	"uq_merchant_email":     FieldEmail,
	"uq_merchant_subdomain": FieldSubdomain,
}

// Repository is the MySQL identity store.
type Repository struct {
	db *sqlx.DB
}

// NewRepository wraps db.
func NewRepository(db *sqlx.DB) *Repository { return &Repository{db: db} }

// ExistsByEmail reports whether a merchant already uses email.
func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM merchant WHERE email = ?)`, email)
}

// ExistsBySubdomain reports whether a merchant already uses subdomain.
func (r *Repository) ExistsBySubdomain(ctx context.Context, subdomain string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM merchant WHERE subdomain = ?)`, subdomain)
}

func (r *Repository) exists(ctx context.Context, q, arg string) (bool, error) {
	var found bool
	if err := r.db.GetContext(ctx, &found, q, arg); err != nil {
		return false, err
	}
	return found, nil
}

// Insert stores rec and returns its new id.  A unique-key rejection is
// returned as *UniquenessViolation.
func (r *Repository) Insert(ctx context.Context, rec *Record) (uint64, error) {
	const q = `
	    INSERT INTO merchant
	           (first_name, last_name, email, password_hash, store_name,
	            store_address, phone, subdomain, country, city, status)
	    VALUES (:first_name, :last_name, :email, :password_hash, :store_name,
	            :store_address, :phone, :subdomain, :country, :city, :status)`

	if rec.Status == "" {
		rec.Status = StatusActive
	}
	res, err := r.db.NamedExecContext(ctx, q, rec)
	if err != nil {
		if v := asUniquenessViolation(err, rec); v != nil {
			return 0, v
		}
		return 0, fmt.Errorf("insert merchant: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert merchant id: %w", err)
	}
	rec.ID = uint64(id)
	return rec.ID, nil
}

// BySubdomain fetches the active merchant for subdomain.
func (r *Repository) BySubdomain(ctx context.Context, subdomain string) (*Record, error) {
	return r.one(ctx, `
        SELECT `+columns+`
        FROM   merchant
        WHERE  subdomain = ?
          AND  status    = 'active'
        LIMIT  1`, subdomain)
}

// ByEmail fetches the active merchant whose normalised email matches.
func (r *Repository) ByEmail(ctx context.Context, email string) (*Record, error) {
	return r.one(ctx, `
        SELECT `+columns+`
        FROM   merchant
        WHERE  email  = ?
          AND  status = 'active'
        LIMIT  1`, email)
}

// ByID fetches a merchant by primary key regardless of status.
func (r *Repository) ByID(ctx context.Context, id uint64) (*Record, error) {
	return r.one(ctx, `
        SELECT `+columns+`
        FROM   merchant
        WHERE  id = ?
        LIMIT  1`, id)
}

const columns = `id, first_name, last_name, email, password_hash, store_name,
               store_address, phone, subdomain, country, city, status,
               created_at, updated_at`

func (r *Repository) one(ctx context.Context, q string, arg any) (*Record, error) {
	var rec Record
	if err := r.db.GetContext(ctx, &rec, q, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// asUniquenessViolation converts a MySQL duplicate-key error into the field
// it collided on, or nil when err is something else.
func asUniquenessViolation(err error, rec *Record) *UniquenessViolation {
	var me *mysql.MySQLError
	if !errors.As(err, &me) || me.Number != errDuplicateEntry {
		return nil
	}
	m := duplicateKey.FindStringSubmatch(me.Message)
	if m == nil {
		return nil
	}
	switch uniqueKeys[m[1]] {
	case FieldEmail:
		return &UniquenessViolation{Field: FieldEmail, Value: rec.Email}
	case FieldSubdomain:
		return &UniquenessViolation{Field: FieldSubdomain, Value: rec.Subdomain}
	default:
		return nil
	}
}
