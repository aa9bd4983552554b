// internal/tenant/entry.go
//
// Storefront cache entry and aggregate.
//
// Context
// -------
// A live Storefront aggregates everything the public pages need to serve a
// single merchant: its `merchant` row and its canonical social links.  The
// cache stores a pointer to Storefront inside `entry`, along with a
// `lastSeen` UnixNano timestamp used by the evictor for idle and LRU
// eviction.
//
// Notes
// -----
//   - Handlers must treat Storefront as immutable after load.  Edits go to
//     the store, followed by Cache.InvalidateMerchant.
//   - Oxford commas, two spaces after periods.
package tenant

import (
	"github.com/yanizio/storefront/internal/merchant"
	"github.com/yanizio/storefront/internal/social"
)

type entry struct {
	store    *Storefront
	lastSeen int64 // UnixNano
}

// Storefront groups the per-merchant data served on `<subdomain>.<base>`.
type Storefront struct {
	Merchant merchant.Record
	Links    map[social.Platform]string
}

// Subdomain is a convenience accessor.
func (s *Storefront) Subdomain() string { return s.Merchant.Subdomain }
