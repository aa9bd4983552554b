// components/public/public.go
//
// Public storefront pages.
//
// Routes (mounted at /public)
// ---------------------------
//   GET /{subdomain}      → storefront profile, 404 when unknown
//   GET /check/{text}     → {subdomain, available, suggestions}
//
// ServeStorefront answers `<subdomain>.<base_domain>/` with the same
// profile, reading the *tenant.Storefront that tenant.Middleware attached.
//
// Notes
// -----
// • Lookups go through the storefront cache, so a burst of visitors to
//   one store costs one query pair.
// • /check is advisory.  A free answer can still lose the race at
//   registration time.
//
//------------------------------------------------------------------------------

package public

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/storefront/internal/component"
	"github.com/yanizio/storefront/internal/merchant"
	"github.com/yanizio/storefront/internal/slug"
	"github.com/yanizio/storefront/internal/social"
	"github.com/yanizio/storefront/internal/tenant"
)

const msgUnavailable = "This store is temporarily unavailable."

var _ component.Component = (*Component)(nil)

// Component serves anonymous storefront reads.
type Component struct {
	cache       *tenant.Cache
	alloc       *slug.Allocator
	suggestions int
}

func (c *Component) Name() string { return "public" }

func (c *Component) Migrations() []string { return nil }

func (c *Component) Init(d component.Deps) error {
	if d.Storefronts == nil || d.Allocator == nil {
		return errors.New("public: storefront cache and allocator are required")
	}
	c.cache, c.alloc = d.Storefronts, d.Allocator
	c.suggestions = 3
	if d.Config != nil {
		c.suggestions = d.Config.Storefront.SuggestionCount
	}
	return nil
}

func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/check/{text}", c.handleCheck)
	r.Get("/{subdomain}", c.handleStore)
	return r
}

// Default is the registered instance; cmd/web routes storefront hosts to
// its ServeStorefront.
var Default = &Component{}

func init() { component.Register(Default) }

/*──────────────────────────── views ────────────────────────────────────────*/

// StoreView is the public JSON profile of a storefront.
type StoreView struct {
	StoreName      string            `json:"store_name"`
	Subdomain      string            `json:"subdomain"`
	City           string            `json:"city,omitempty"`
	Country        string            `json:"country,omitempty"`
	Links          map[string]string `json:"links"` // label → URL
	WhatsAppDigits string            `json:"whatsapp_digits,omitempty"`
}

// NewStoreView projects s onto the public profile.  Merchant contact data
// other than the social links is not exposed.
func NewStoreView(s *tenant.Storefront) StoreView {
	v := StoreView{
		StoreName: s.Merchant.StoreName,
		Subdomain: s.Merchant.Subdomain,
		City:      s.Merchant.City,
		Country:   s.Merchant.Country,
		Links:     social.Preview(s.Links),
	}
	if wa := s.Links[social.WhatsApp]; wa != "" {
		v.WhatsAppDigits = social.DecodeWhatsApp(wa).Number
	}
	return v
}

// CheckView answers a live availability probe.
type CheckView struct {
	Subdomain   string   `json:"subdomain"`
	Available   bool     `json:"available"`
	Suggestions []string `json:"suggestions,omitempty"`
	Error       string   `json:"error,omitempty"`
}

/*──────────────────────────── handlers ─────────────────────────────────────*/

func (c *Component) handleStore(w http.ResponseWriter, r *http.Request) {
	c.serve(w, r, chi.URLParam(r, "subdomain"))
}

// ServeStorefront handles requests on a storefront host.
func (c *Component) ServeStorefront(w http.ResponseWriter, r *http.Request) {
	s := tenant.FromContext(r.Context())
	if s == nil {
		http.NotFound(w, r)
		return
	}
	component.WriteJSON(w, http.StatusOK, NewStoreView(s))
}

func (c *Component) serve(w http.ResponseWriter, r *http.Request, sub string) {
	s, err := c.cache.Get(r.Context(), sub)
	if errors.Is(err, tenant.ErrNotFound) {
		component.WriteJSON(w, http.StatusNotFound, component.ErrorBody{Error: "Store not found."})
		return
	}
	if err != nil {
		component.WriteError(w, r, err, msgUnavailable)
		return
	}
	component.WriteJSON(w, http.StatusOK, NewStoreView(s))
}

func (c *Component) handleCheck(w http.ResponseWriter, r *http.Request) {
	sub := c.alloc.Slugify(chi.URLParam(r, "text"))
	view := CheckView{Subdomain: sub}

	if len(sub) > merchant.MaxSubdomainLength {
		view.Error = "Must be at most 50 characters."
		component.WriteJSON(w, http.StatusOK, view)
		return
	}

	taken, err := c.alloc.Exists(r.Context(), sub)
	if err != nil {
		component.WriteError(w, r, err, msgUnavailable)
		return
	}
	view.Available = !taken
	if taken {
		view.Suggestions, err = c.alloc.Suggest(r.Context(), sub, c.suggestions)
		if err != nil {
			component.WriteError(w, r, err, msgUnavailable)
			return
		}
	}
	component.WriteJSON(w, http.StatusOK, view)
}
