// internal/social/repository.go
//
// MySQL store for `merchant_social` rows.
//
// Context
// -------
// One row per (merchant_id, platform).  The settings handler never edits a
// single row: it rewrites the whole synced set in one transaction through
// Batch, so a failed submission leaves the previous links untouched.
//
// Schema
//
//	CREATE TABLE merchant_social (
//	    id           INT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
//	    merchant_id  INT UNSIGNED NOT NULL,
//	    platform     ENUM(…) NOT NULL,
//	    url          VARCHAR(255) NOT NULL,
//	    UNIQUE KEY uq_merchant_social_platform (merchant_id, platform)
//	);
//
// Notes
// -----
// • Upsert relies on the unique key (INSERT … ON DUPLICATE KEY UPDATE).
// • Delete of a missing row is a no-op, not an error.
// • Oxford commas, two spaces after periods.
package social

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/storefront/internal/database"
)

// Schema creates the merchant_social table.
const Schema = `
CREATE TABLE IF NOT EXISTS merchant_social (
    id          INT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
    merchant_id INT UNSIGNED NOT NULL,
    platform    ENUM('facebook','instagram','twitter','tiktok','whatsapp',
                     'telegram','youtube','website') NOT NULL,
    url         VARCHAR(255) NOT NULL,
    created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
                ON UPDATE CURRENT_TIMESTAMP,
    UNIQUE KEY uq_merchant_social_platform (merchant_id, platform),
    CONSTRAINT fk_merchant_social_merchant FOREIGN KEY (merchant_id)
        REFERENCES merchant (id) ON DELETE CASCADE
)`

// ErrUnknownPlatform is returned when storage would reject the platform.
var ErrUnknownPlatform = errors.New("social: unknown platform")

// Tx is the write surface available inside one Batch.
type Tx interface {
	Upsert(ctx context.Context, p Platform, url string) error
	Delete(ctx context.Context, p Platform) error
}

// Store reads a merchant's links and applies batches of changes atomically.
type Store interface {
	GetAll(ctx context.Context, merchantID uint64) (map[Platform]string, error)
	Batch(ctx context.Context, merchantID uint64, fn func(Tx) error) error
}

// Repository is the MySQL Store.
type Repository struct {
	db *sqlx.DB
}

var _ Store = (*Repository)(nil)

// NewRepository wraps db.
func NewRepository(db *sqlx.DB) *Repository { return &Repository{db: db} }

// GetAll returns platform → url for merchantID.
func (r *Repository) GetAll(ctx context.Context, merchantID uint64) (map[Platform]string, error) {
	const q = `
	    SELECT  platform, url
	    FROM    merchant_social
	    WHERE   merchant_id = ?`
	rows := make([]struct {
		Platform string `db:"platform"`
		URL      string `db:"url"`
	}, 0, 8)

	if err := r.db.SelectContext(ctx, &rows, q, merchantID); err != nil {
		return nil, fmt.Errorf("social links of %d: %w", merchantID, err)
	}

	out := make(map[Platform]string, len(rows))
	for _, row := range rows {
		out[Platform(row.Platform)] = row.URL
	}
	return out, nil
}

// Batch runs fn in one transaction scoped to merchantID.
func (r *Repository) Batch(ctx context.Context, merchantID uint64, fn func(Tx) error) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return fn(&txStore{tx: tx, merchantID: merchantID})
	})
}

type txStore struct {
	tx         *sqlx.Tx
	merchantID uint64
}

func (s *txStore) Upsert(ctx context.Context, p Platform, url string) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownPlatform, p)
	}
	const q = `
	    INSERT INTO merchant_social (merchant_id, platform, url)
	    VALUES (?, ?, ?)
	    ON DUPLICATE KEY UPDATE url = VALUES(url)`
	if _, err := s.tx.ExecContext(ctx, q, s.merchantID, string(p), url); err != nil {
		return fmt.Errorf("upsert %s: %w", p, err)
	}
	return nil
}

func (s *txStore) Delete(ctx context.Context, p Platform) error {
	const q = `
	    DELETE FROM merchant_social
	    WHERE  merchant_id = ? AND platform = ?`
	if _, err := s.tx.ExecContext(ctx, q, s.merchantID, string(p)); err != nil {
		return fmt.Errorf("delete %s: %w", p, err)
	}
	return nil
}
