// components/auth/auth.go
//
// Authentication component: merchant sign-up, sign-in, and sign-out.
//
// Routes (mounted at /auth)
// -------------------------
//   POST /register  → 201 {id, subdomain} | 422 field errors | 500
//   POST /login     → 200 {id, subdomain} | 401
//   POST /logout    → 204
//
// Notes
// -----
// • A subdomain error carries `suggestions` so the client can offer free
//   alternatives in place.
// • Registration does not sign the merchant in; the client follows up
//   with /login.
// • Owns the `merchant` and `activity_log` tables.
//
//------------------------------------------------------------------------------

package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/storefront/internal/activity"
	"github.com/yanizio/storefront/internal/auth"
	"github.com/yanizio/storefront/internal/component"
	"github.com/yanizio/storefront/internal/merchant"
	"github.com/yanizio/storefront/internal/registration"
	"github.com/yanizio/storefront/internal/session"
)

const (
	msgSaveFailed  = "We could not create the account because of a database error.  Please try again."
	msgBadLogin    = "Invalid credentials."
	msgLoginFailed = "We could not sign you in.  Please try again."
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Component encapsulates the auth flows.
type Component struct {
	reg      *registration.Service
	sessions *session.Manager
	activity *activity.Recorder
}

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "auth" }

// Migrations creates the identity and activity tables.
func (c *Component) Migrations() []string {
	return []string{merchant.Schema, activity.Schema}
}

// Init captures the services the handlers use.
func (c *Component) Init(d component.Deps) error {
	if d.Registration == nil || d.Sessions == nil {
		return errors.New("auth: registration and sessions are required")
	}
	c.reg, c.sessions, c.activity = d.Registration, d.Sessions, d.Activity
	return nil
}

// Routes builds the router mounted at “/auth”.
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/register", c.handleRegister)
	r.Post("/login", c.handleLogin)
	r.Post("/logout", c.handleLogout)
	return r
}

// Register component at program start.
func init() { component.Register(&Component{}) }

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registration.Request
	if err := component.DecodeJSON(r, &req); err != nil {
		component.WriteError(w, r, err, msgSaveFailed)
		return
	}

	res, err := c.reg.Register(r.Context(), req)
	if err != nil {
		component.WriteError(w, r, err, msgSaveFailed)
		return
	}

	c.log(r, res.ID, activity.ActionRegister, "store "+res.Subdomain+" created", activity.EntityUser)
	component.WriteJSON(w, http.StatusCreated, res)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Component) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := component.DecodeJSON(r, &req); err != nil {
		component.WriteError(w, r, err, msgLoginFailed)
		return
	}

	rec, err := c.reg.Authenticate(r.Context(), req.Email, req.Password)
	if errors.Is(err, registration.ErrInvalidCredentials) {
		component.WriteJSON(w, http.StatusUnauthorized, component.ErrorBody{Error: msgBadLogin})
		return
	}
	if err == nil {
		err = c.sessions.Save(w, rec.ID)
	}
	if err != nil {
		component.WriteError(w, r, err, msgLoginFailed)
		return
	}

	c.log(r, rec.ID, activity.ActionLogin, "", activity.EntityLogin)
	component.WriteJSON(w, http.StatusOK, registration.Result{ID: rec.ID, Subdomain: rec.Subdomain})
}

func (c *Component) handleLogout(w http.ResponseWriter, r *http.Request) {
	if id, ok := auth.MerchantID(r.Context()); ok {
		c.log(r, id, activity.ActionLogout, "", activity.EntityLogin)
	}
	c.sessions.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

func (c *Component) log(r *http.Request, id uint64, action, desc string, et activity.EntityType) {
	if c.activity != nil {
		c.activity.Log(r.Context(), id, action, desc, et)
	}
}
