// internal/session/session.go
//
// Signed merchant session cookie.
//
// Context
//   The dashboard needs to know which merchant is calling.  After a
//   successful login the auth component calls Manager.Save, which stores an
//   HS256-signed JWT in an HttpOnly cookie.  Middleware verifies the cookie
//   on every request and attaches the merchant id to the context through
//   internal/auth; Require turns a missing id into 401.
//
//   The token carries only the merchant id (as `sub`), issue time, and
//   expiry.  Nothing is stored server-side, so logout clears the cookie and
//   an old copy stays valid until it expires.
//
// Style
//   Two-space sentence spacing, Oxford comma, terse inline notes.
//
//------------------------------------------------------------------------------

package session

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/yanizio/storefront/internal/auth"
)

const issuer = "storefront"

// ErrInvalid is returned for missing, tampered, or expired cookies.
var ErrInvalid = errors.New("session: invalid")

// Options configures a Manager.
type Options struct {
	CookieName string
	Secret     []byte
	MaxAge     time.Duration
	Secure     bool // send only over HTTPS
}

// Manager issues and verifies session cookies.
type Manager struct {
	opts Options
	now  func() time.Time
}

// New returns a Manager.  Secret must be at least 32 bytes; config
// validation enforces that.
func New(opts Options) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = "storefront_session"
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = 7 * 24 * time.Hour
	}
	return &Manager{opts: opts, now: time.Now}
}

// Save sets a cookie naming merchantID.
func (m *Manager) Save(w http.ResponseWriter, merchantID uint64) error {
	now := m.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   strconv.FormatUint(merchantID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.opts.MaxAge)),
	})
	signed, err := tok.SignedString(m.opts.Secret)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.opts.MaxAge / time.Second),
	})
	return nil
}

// Clear expires the cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// MerchantID verifies the request cookie and returns its merchant id.
func (m *Manager) MerchantID(r *http.Request) (uint64, error) {
	c, err := r.Cookie(m.opts.CookieName)
	if err != nil || c.Value == "" {
		return 0, ErrInvalid
	}

	var claims jwt.RegisteredClaims
	_, err = jwt.ParseWithClaims(c.Value, &claims,
		func(*jwt.Token) (any, error) { return m.opts.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return 0, ErrInvalid
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalid
	}
	return id, nil
}

// Middleware attaches the merchant id to the context when the cookie is
// valid.  Requests without a session pass through unchanged.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := m.MerchantID(r)
		if err != nil {
			if _, cerr := r.Cookie(m.opts.CookieName); cerr == nil {
				zap.L().Debug("session cookie rejected", zap.String("path", r.URL.Path))
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithMerchant(r.Context(), id)))
	})
}

// Require answers 401 unless Middleware attached a merchant id.
func Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.MerchantID(r.Context()); !ok {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
