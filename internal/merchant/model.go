// internal/merchant/model.go
//
// `merchant` table row model.
//
// Schema reference
//
//	CREATE TABLE merchant (
//	    id             INT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
//	    email          VARCHAR(100) NOT NULL,   -- trimmed, lower-case
//	    subdomain      VARCHAR(50)  NOT NULL,   -- [a-z0-9-]+, immutable
//	    …
//	    UNIQUE KEY uq_merchant_email (email),
//	    UNIQUE KEY uq_merchant_subdomain (subdomain)
//	);
//
// Notes
// -----
// • The unique key names are load-bearing: Insert maps them back to fields.
// • This struct contains no behaviour, pure data model for sqlx scans.
package merchant

import "time"

// Status values stored in merchant.status.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// MaxSubdomainLength mirrors the subdomain column width.
const MaxSubdomainLength = 50

// Schema creates the merchant table.
const Schema = `
CREATE TABLE IF NOT EXISTS merchant (
    id            INT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
    first_name    VARCHAR(50)  NOT NULL,
    last_name     VARCHAR(50)  NOT NULL,
    email         VARCHAR(100) NOT NULL,
    password_hash VARCHAR(255) NOT NULL,
    store_name    VARCHAR(100) NOT NULL,
    store_address VARCHAR(255) NOT NULL,
    phone         VARCHAR(20)  NOT NULL,
    subdomain     VARCHAR(50)  NOT NULL,
    country       VARCHAR(50)  NOT NULL,
    city          VARCHAR(50)  NOT NULL,
    status        ENUM('active','inactive') NOT NULL DEFAULT 'active',
    created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
                  ON UPDATE CURRENT_TIMESTAMP,
    UNIQUE KEY uq_merchant_email (email),
    UNIQUE KEY uq_merchant_subdomain (subdomain)
)`

// Record mirrors one row in the `merchant` table.
type Record struct {
	ID           uint64    `db:"id"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	StoreName    string    `db:"store_name"`
	StoreAddress string    `db:"store_address"`
	Phone        string    `db:"phone"`
	Subdomain    string    `db:"subdomain"`
	Country      string    `db:"country"`
	City         string    `db:"city"`
	Status       string    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
