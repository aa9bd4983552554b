// components/dashboard/dashboard.go
//
// Merchant dashboard: profile and social links.
//
// Routes (mounted at /dashboard, session required)
// ------------------------------------------------
//   GET  /          → merchant profile
//   GET  /social    → {prefill, links}
//   POST /social    → re-sync all five links, then {prefill, links}
//   GET  /activity  → newest activity entries
//
// Notes
// -----
// • A sync is all-or-nothing.  On failure nothing changed and the client
//   gets a retryable message.
// • After a successful sync the storefront cache entry is dropped so the
//   public page shows the new links on the next request.
// • Owns the `merchant_social` table.
//
//------------------------------------------------------------------------------

package dashboard

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/storefront/internal/activity"
	"github.com/yanizio/storefront/internal/auth"
	"github.com/yanizio/storefront/internal/component"
	"github.com/yanizio/storefront/internal/merchant"
	"github.com/yanizio/storefront/internal/session"
	"github.com/yanizio/storefront/internal/social"
	"github.com/yanizio/storefront/internal/tenant"
)

const (
	msgSyncFailed = "We could not save your social links.  Please try again."
	msgLoadFailed = "We could not load your data.  Please try again."

	defaultActivity = 20
	maxActivity     = 100
)

var _ component.Component = (*Component)(nil)

// Component serves the signed-in merchant's settings.
type Component struct {
	merchants *merchant.Repository
	links     social.Store
	syncer    *social.Syncer
	cache     *tenant.Cache
	activity  *activity.Recorder
}

func (c *Component) Name() string { return "dashboard" }

func (c *Component) Migrations() []string { return []string{social.Schema} }

func (c *Component) Init(d component.Deps) error {
	if d.Links == nil {
		return errors.New("dashboard: social-link store is required")
	}
	c.merchants = d.Merchants
	c.links = d.Links
	c.syncer = social.NewSyncer(d.Links)
	c.cache = d.Storefronts
	c.activity = d.Activity
	return nil
}

func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(session.Require)
	r.Get("/", c.handleProfile)
	r.Get("/social", c.handleSocialGET)
	r.Post("/social", c.handleSocialPOST)
	r.Get("/activity", c.handleActivity)
	return r
}

func init() { component.Register(&Component{}) }

/*──────────────────────────── Handlers ─────────────────────────────────────*/

// Profile is the JSON view of the signed-in merchant.
type Profile struct {
	ID           uint64 `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	StoreName    string `json:"store_name"`
	StoreAddress string `json:"store_address"`
	Phone        string `json:"phone"`
	Subdomain    string `json:"subdomain"`
	Country      string `json:"country"`
	City         string `json:"city"`
	Status       string `json:"status"`
}

func (c *Component) handleProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.MerchantID(r.Context())
	if c.merchants == nil {
		component.WriteError(w, r, errors.New("dashboard: no merchant store"), msgLoadFailed)
		return
	}
	rec, err := c.merchants.ByID(r.Context(), id)
	if errors.Is(err, merchant.ErrNotFound) {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	if err != nil {
		component.WriteError(w, r, err, msgLoadFailed)
		return
	}
	component.WriteJSON(w, http.StatusOK, Profile{
		ID:           rec.ID,
		FirstName:    rec.FirstName,
		LastName:     rec.LastName,
		Email:        rec.Email,
		StoreName:    rec.StoreName,
		StoreAddress: rec.StoreAddress,
		Phone:        rec.Phone,
		Subdomain:    rec.Subdomain,
		Country:      rec.Country,
		City:         rec.City,
		Status:       rec.Status,
	})
}

// SocialView is the body of both /social responses.
type SocialView struct {
	Prefill social.Prefill    `json:"prefill"`
	Links   map[string]string `json:"links"` // label → URL, synced platforms only
}

func (c *Component) handleSocialGET(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.MerchantID(r.Context())
	c.writeSocial(w, r, id, http.StatusOK)
}

func (c *Component) handleSocialPOST(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.MerchantID(r.Context())

	var sub social.Submission
	if err := component.DecodeJSON(r, &sub); err != nil {
		component.WriteError(w, r, err, msgSyncFailed)
		return
	}

	written, err := c.syncer.Sync(r.Context(), id, sub)
	if err != nil {
		component.WriteError(w, r, err, msgSyncFailed)
		return
	}

	if c.cache != nil {
		c.cache.InvalidateMerchant(id)
	}
	if c.activity != nil {
		set := 0
		for _, u := range written {
			if u != "" {
				set++
			}
		}
		c.activity.Log(r.Context(), id, activity.ActionSocialUpdate,
			fmt.Sprintf("%d social links set", set), activity.EntityStore)
	}
	c.writeSocial(w, r, id, http.StatusOK)
}

func (c *Component) writeSocial(w http.ResponseWriter, r *http.Request, id uint64, status int) {
	links, err := c.links.GetAll(r.Context(), id)
	if err != nil {
		component.WriteError(w, r, err, msgLoadFailed)
		return
	}
	component.WriteJSON(w, status, SocialView{
		Prefill: social.BuildPrefill(links),
		Links:   social.Preview(links),
	})
}

// ActivityItem is the JSON view of one activity_log row.
type ActivityItem struct {
	Action      string `json:"action"`
	Description string `json:"description,omitempty"`
	EntityType  string `json:"entity_type,omitempty"`
	IPAddress   string `json:"ip_address,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func (c *Component) handleActivity(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.MerchantID(r.Context())
	if c.activity == nil {
		component.WriteJSON(w, http.StatusOK, []ActivityItem{})
		return
	}

	limit := defaultActivity
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 {
		limit = min(n, maxActivity)
	}

	entries, err := c.activity.Recent(r.Context(), id, limit)
	if err != nil {
		component.WriteError(w, r, err, msgLoadFailed)
		return
	}
	out := make([]ActivityItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, ActivityItem{
			Action:      e.Action,
			Description: e.Description.String,
			EntityType:  e.EntityType.String,
			IPAddress:   e.IPAddress.String,
			CreatedAt:   e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	component.WriteJSON(w, http.StatusOK, out)
}
