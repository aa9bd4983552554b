// internal/activity/activity.go
//
// Merchant action log.
//
// Context
// -------
// Each merchant-visible change (registration, login, social-link update)
// appends one row to `activity_log` with the client IP and user agent taken
// from *requestinfo.RequestInfo.  The log is an audit trail: a failed write
// is logged and swallowed so it never fails the action it describes.
//
// Notes
// -----
// • IP and UA are empty when the requestinfo middleware did not run.
// • Oxford commas, two spaces after periods.
package activity

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/storefront/internal/requestinfo"
)

// EntityType classifies what an entry refers to.
type EntityType string

const (
	EntityProduct EntityType = "product"
	EntityUser    EntityType = "user"
	EntityLogin   EntityType = "login"
	EntityStore   EntityType = "store"
)

// Actions recorded by the platform.
const (
	ActionRegister     = "register"
	ActionLogin        = "login"
	ActionLogout       = "logout"
	ActionSocialUpdate = "social_update"
)

// Schema creates the activity_log table.
const Schema = `
CREATE TABLE IF NOT EXISTS activity_log (
    id          INT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
    merchant_id INT UNSIGNED NOT NULL,
    action      VARCHAR(100) NOT NULL,
    description TEXT NULL,
    entity_type ENUM('product','user','login','store') NULL,
    entity_id   INT UNSIGNED NULL,
    ip_address  VARCHAR(45)  NULL,
    user_agent  TEXT NULL,
    created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    KEY idx_activity_merchant (merchant_id, created_at),
    CONSTRAINT fk_activity_merchant FOREIGN KEY (merchant_id)
        REFERENCES merchant (id) ON DELETE CASCADE
)`

// Entry is one activity_log row.
type Entry struct {
	ID          uint64         `db:"id"`
	MerchantID  uint64         `db:"merchant_id"`
	Action      string         `db:"action"`
	Description sql.NullString `db:"description"`
	EntityType  sql.NullString `db:"entity_type"`
	EntityID    sql.NullInt64  `db:"entity_id"`
	IPAddress   sql.NullString `db:"ip_address"`
	UserAgent   sql.NullString `db:"user_agent"`
	CreatedAt   time.Time      `db:"created_at"`
}

// Recorder writes entries.
type Recorder struct {
	db *sqlx.DB
}

// NewRecorder wraps db.
func NewRecorder(db *sqlx.DB) *Recorder { return &Recorder{db: db} }

// Record inserts e.  IP and user agent are filled from ctx when missing.
func (r *Recorder) Record(ctx context.Context, e Entry) error {
	if info := requestinfo.FromContext(ctx); info != nil {
		if !e.IPAddress.Valid && info.Geo.IP != nil {
			e.IPAddress = nullString(info.Geo.IP.String())
		}
		if !e.UserAgent.Valid {
			e.UserAgent = nullString(info.UA.Raw)
		}
	}

	const q = `
	    INSERT INTO activity_log
	           (merchant_id, action, description, entity_type, entity_id,
	            ip_address, user_agent)
	    VALUES (:merchant_id, :action, :description, :entity_type, :entity_id,
	            :ip_address, :user_agent)`
	if _, err := r.db.NamedExecContext(ctx, q, e); err != nil {
		return fmt.Errorf("record activity %q: %w", e.Action, err)
	}
	return nil
}

// Log is the fire-and-forget form of Record used by handlers.
func (r *Recorder) Log(ctx context.Context, merchantID uint64, action, description string, et EntityType) {
	e := Entry{
		MerchantID:  merchantID,
		Action:      action,
		Description: nullString(description),
		EntityType:  nullString(string(et)),
	}
	if err := r.Record(ctx, e); err != nil {
		zap.L().Warn("activity log write failed",
			zap.Uint64("merchant_id", merchantID),
			zap.String("action", action),
			zap.Error(err))
	}
}

// Recent returns the newest limit entries for merchantID.
func (r *Recorder) Recent(ctx context.Context, merchantID uint64, limit int) ([]Entry, error) {
	var out []Entry
	err := r.db.SelectContext(ctx, &out, `
        SELECT id, merchant_id, action, description, entity_type, entity_id,
               ip_address, user_agent, created_at
        FROM   activity_log
        WHERE  merchant_id = ?
        ORDER  BY created_at DESC, id DESC
        LIMIT  ?`, merchantID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	return out, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
