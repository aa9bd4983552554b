// internal/tenant/tenant_test.go
//
// Unit-tests for the storefront cache, evictor, host resolver, and
// middleware.
//
// Run: go test ./internal/tenant -race -v

package tenant

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/storefront/internal/merchant"
	"github.com/yanizio/storefront/internal/social"
)

type fakeLoader struct {
	calls atomic.Int32
	delay time.Duration
	err   error
}

func (f *fakeLoader) Load(_ context.Context, sub string) (*Storefront, error) {
	f.calls.Add(1)
	time.Sleep(f.delay)
	if f.err != nil {
		return nil, f.err
	}
	if sub == "ghost" {
		return nil, ErrNotFound
	}
	id := uint64(len(sub))
	return &Storefront{
		Merchant: merchant.Record{ID: id, Subdomain: sub, StoreName: sub},
		Links:    map[social.Platform]string{social.Instagram: "https://instagram.com/" + sub},
	}, nil
}

func newCache(t *testing.T, l Loader, opts Options) *Cache {
	t.Helper()
	c := New(l, opts)
	t.Cleanup(c.Close)
	return c
}

func TestCache_LoadsOnce(t *testing.T) {
	l := &fakeLoader{delay: 20 * time.Millisecond}
	c := newCache(t, l, Options{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := c.Get(context.Background(), "shop")
			assert.NoError(t, err)
			assert.Equal(t, "shop", s.Subdomain())
		}()
	}
	wg.Wait()

	_, err := c.Get(context.Background(), "shop")
	require.NoError(t, err)
	assert.Equal(t, int32(1), l.calls.Load())
}

func TestCache_NotFoundIsNotCached(t *testing.T) {
	l := &fakeLoader{}
	c := newCache(t, l, Options{})

	for i := 0; i < 2; i++ {
		_, err := c.Get(context.Background(), "ghost")
		require.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, int32(2), l.calls.Load())
	assert.Zero(t, c.Len())
}

func TestCache_InvalidateMerchant(t *testing.T) {
	l := &fakeLoader{}
	c := newCache(t, l, Options{})

	_, _ = c.Get(context.Background(), "shop") // id 4
	_, _ = c.Get(context.Background(), "store") // id 5
	c.InvalidateMerchant(4)

	assert.Equal(t, 1, c.Len())
	_, _ = c.Get(context.Background(), "shop")
	assert.Equal(t, int32(3), l.calls.Load())
}

func TestEvict_IdleAndLRU(t *testing.T) {
	c := newCache(t, &fakeLoader{}, Options{IdleTTL: time.Minute, MaxEntries: 2, EvictInterval: time.Hour})

	now := time.Now().UnixNano()
	put := func(sub string, age time.Duration) {
		c.m.Store(sub, &entry{
			store:    &Storefront{Merchant: merchant.Record{Subdomain: sub}},
			lastSeen: now - int64(age),
		})
	}
	put("stale", 2*time.Minute)
	put("a", 30*time.Second)
	put("b", 20*time.Second)
	put("c", 10*time.Second)

	c.evict(now)

	_, ok := c.m.Load("stale")
	assert.False(t, ok, "idle entry kept")
	_, ok = c.m.Load("a")
	assert.False(t, ok, "LRU entry kept")
	assert.Equal(t, 2, c.Len())
}

func TestResolver_Subdomain(t *testing.T) {
	r := Resolver{BaseDomain: "tiendas.example", LocalhostAlias: "demo"}
	cases := []struct {
		host string
		want string
		ok   bool
	}{
		{"mi-tienda.tiendas.example", "mi-tienda", true},
		{"Mi-Tienda.Tiendas.Example:8080", "mi-tienda", true},
		{"tiendas.example", "", false},
		{"www.tiendas.example", "", false},
		{"a.b.tiendas.example", "", false},
		{"evil.com", "", false},
		{"localhost:8080", "demo", true},
	}
	for _, c := range cases {
		got, ok := r.Subdomain(c.host)
		assert.Equal(t, c.ok, ok, c.host)
		assert.Equal(t, c.want, got, c.host)
	}

	_, ok := Resolver{BaseDomain: "x.test"}.Subdomain("localhost")
	assert.False(t, ok)
}

func TestMiddleware(t *testing.T) {
	c := newCache(t, &fakeLoader{}, Options{})
	h := Middleware(c, Resolver{BaseDomain: "tiendas.example"})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s := FromContext(r.Context()); s != nil {
				_, _ = w.Write([]byte(s.Subdomain()))
				return
			}
			_, _ = w.Write([]byte("platform"))
		}))

	do := func(host string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Host = host
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, "shop", do("shop.tiendas.example").Body.String())
	assert.Equal(t, "platform", do("tiendas.example").Body.String())
	assert.Equal(t, http.StatusNotFound, do("ghost.tiendas.example").Code)
}

func TestMiddleware_LoadError(t *testing.T) {
	c := newCache(t, &fakeLoader{err: errors.New("db down")}, Options{})
	h := Middleware(c, Resolver{BaseDomain: "tiendas.example"})(http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "shop.tiendas.example"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

// gatedLoader blocks each Load until release is closed and reports entry on
// started.
type gatedLoader struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (g *gatedLoader) Load(_ context.Context, sub string) (*Storefront, error) {
	if g.calls.Add(1) == 1 {
		close(g.started)
		<-g.release
	}
	return &Storefront{Merchant: merchant.Record{ID: 7, Subdomain: sub}}, nil
}

func TestCache_InvalidateDuringLoadIsNotMasked(t *testing.T) {
	for name, invalidate := range map[string]func(*Cache){
		"subdomain": func(c *Cache) { c.Invalidate("shop") },
		"merchant":  func(c *Cache) { c.InvalidateMerchant(7) },
	} {
		t.Run(name, func(t *testing.T) {
			l := &gatedLoader{started: make(chan struct{}), release: make(chan struct{})}
			c := newCache(t, l, Options{})

			done := make(chan error, 1)
			go func() {
				_, err := c.Get(context.Background(), "shop")
				done <- err
			}()

			<-l.started
			invalidate(c)
			close(l.release)
			require.NoError(t, <-done)

			assert.Zero(t, c.Len())
			_, err := c.Get(context.Background(), "shop")
			require.NoError(t, err)
			assert.Equal(t, int32(2), l.calls.Load())
			assert.Equal(t, 1, c.Len())
		})
	}
}
