package tenant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/storefront/internal/merchant"
	"github.com/yanizio/storefront/internal/social"
)

type stubMerchants map[string]*merchant.Record

func (s stubMerchants) BySubdomain(_ context.Context, sub string) (*merchant.Record, error) {
	if r, ok := s[sub]; ok {
		return r, nil
	}
	return nil, merchant.ErrNotFound
}

type stubLinks map[uint64]map[social.Platform]string

func (s stubLinks) GetAll(_ context.Context, id uint64) (map[social.Platform]string, error) {
	return s[id], nil
}

func (s stubLinks) Batch(context.Context, uint64, func(social.Tx) error) error { return nil }

func TestStoreLoader(t *testing.T) {
	l := StoreLoader{
		Merchants: stubMerchants{"shop": {ID: 9, Subdomain: "shop"}},
		Links:     stubLinks{9: {social.TikTok: "https://tiktok.com/@shop"}},
	}

	s, err := l.Load(context.Background(), "shop")
	require.NoError(t, err)
	assert.Equal(t, uint64(9), s.Merchant.ID)
	assert.Equal(t, "https://tiktok.com/@shop", s.Links[social.TikTok])

	_, err = l.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
