// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name> and calls
// component.Register() in an init() function.  cmd/web runs every
// component's Migrations() in All() order, calls Init(deps) once, and
// mounts Routes() at “/<name>”.

package component

import (
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/storefront/internal/activity"
	"github.com/yanizio/storefront/internal/config"
	"github.com/yanizio/storefront/internal/merchant"
	"github.com/yanizio/storefront/internal/registration"
	"github.com/yanizio/storefront/internal/session"
	"github.com/yanizio/storefront/internal/slug"
	"github.com/yanizio/storefront/internal/social"
	"github.com/yanizio/storefront/internal/tenant"
)

// Deps carries the shared services a component may need.  Fields a
// component does not use may be nil in tests.
type Deps struct {
	DB           *sqlx.DB
	Config       *config.Config
	Sessions     *session.Manager
	Storefronts  *tenant.Cache
	Merchants    *merchant.Repository
	Links        social.Store
	Activity     *activity.Recorder
	Allocator    *slug.Allocator
	Registration *registration.Service
}

// Component contract.
//
// Migrations() may return nil if the component has no schema changes.
// Routes() is mounted under “/<Name()>”, e.g.:
//
//	r := chi.NewRouter()
//	r.Post("/register", c.register)   // → /auth/register
//	return r
type Component interface {
	Name() string
	Routes() chi.Router
	Migrations() []string
	Init(Deps) error
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register is invoked from component init() functions.  A second
// registration under the same name replaces the first.
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// All returns every registered component sorted by Name.  That order is
// also the migration order, so a component whose tables reference another
// component's tables must sort after it.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Migrations concatenates Migrations() of every component in All() order.
func Migrations() []string {
	var stmts []string
	for _, c := range All() {
		stmts = append(stmts, c.Migrations()...)
	}
	return stmts
}

// Mount initialises every component with deps and mounts it on r.
func Mount(r chi.Router, deps Deps) error {
	for _, c := range All() {
		if err := c.Init(deps); err != nil {
			return err
		}
		r.Mount("/"+c.Name(), c.Routes())
	}
	return nil
}
