package tenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/yanizio/storefront/internal/merchant"
	"github.com/yanizio/storefront/internal/social"
)

// Loader turns a subdomain into a *Storefront.  It returns ErrNotFound for
// unknown or inactive merchants.
type Loader interface {
	Load(ctx context.Context, subdomain string) (*Storefront, error)
}

// Merchants is the part of the identity store the loader reads.
type Merchants interface {
	BySubdomain(ctx context.Context, subdomain string) (*merchant.Record, error)
}

// StoreLoader reads storefronts from the identity and social-link stores.
type StoreLoader struct {
	Merchants Merchants
	Links     social.Store
}

// Load fetches the merchant row, then its links.
func (l StoreLoader) Load(ctx context.Context, subdomain string) (*Storefront, error) {
	rec, err := l.Merchants.BySubdomain(ctx, subdomain)
	if errors.Is(err, merchant.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load storefront %q: %w", subdomain, err)
	}

	links, err := l.Links.GetAll(ctx, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("load links %q: %w", subdomain, err)
	}
	return &Storefront{Merchant: *rec, Links: links}, nil
}
