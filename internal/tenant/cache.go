// internal/tenant/cache.go
//
// Lazy storefront cache keyed by subdomain.
//
// Context
// -------
// Every request to `<subdomain>.<base_domain>` needs the merchant row and
// its links.  Cache loads them once through a Loader, collapses concurrent
// misses with singleflight, and keeps the result until the evictor drops it
// (idle TTL or LRU pressure) or the dashboard invalidates it after an edit.
//
// Notes
// -----
// • Every invalidation bumps a generation counter.  A load that started
//   before the bump still answers its waiters but is not stored, so an
//   edit made during a load is never masked by the older read.
// • Not-found results are not cached; a merchant that registers a moment
//   later is served on the next request.
// • Oxford commas, two spaces after periods.
package tenant

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/storefront/internal/metrics"
)

// Static defaults used when Options leaves a field zero.
const (
	IdleTTL       = 30 * time.Minute
	MaxEntries    = 1000
	EvictInterval = 5 * time.Minute
)

// ErrNotFound is returned when no active merchant owns the subdomain.
var ErrNotFound = errors.New("storefront not found")

// Options tunes a Cache.
type Options struct {
	IdleTTL       time.Duration
	MaxEntries    int
	EvictInterval time.Duration
}

// Cache lazily loads storefronts, stores them in a sync.Map, and evicts them
// on idle TTL or LRU pressure.
type Cache struct {
	loader      Loader
	sfg         singleflight.Group
	m           sync.Map
	evictTicker *time.Ticker
	done        chan struct{}
	closeOnce   sync.Once
	idleTTL     time.Duration
	maxEntries  int
	gen         atomic.Uint64 // bumped on every invalidation
}

// New constructs a Cache and starts the background evictor.  Call Close to
// stop it.
func New(loader Loader, opts Options) *Cache {
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = IdleTTL
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = MaxEntries
	}
	if opts.EvictInterval <= 0 {
		opts.EvictInterval = EvictInterval
	}
	c := &Cache{
		loader:     loader,
		idleTTL:    opts.IdleTTL,
		maxEntries: opts.MaxEntries,
		done:       make(chan struct{}),
	}
	c.evictTicker = time.NewTicker(opts.EvictInterval)
	go c.evictLoop()
	return c
}

// Get returns the Storefront for subdomain, loading it on demand.
func (c *Cache) Get(ctx context.Context, subdomain string) (*Storefront, error) {
	if s, ok := c.touch(subdomain); ok {
		return s, nil
	}

	v, err, _ := c.sfg.Do(subdomain, func() (any, error) {
		// Double-check after singleflight barrier.
		if s, ok := c.touch(subdomain); ok {
			return s, nil
		}
		start := c.gen.Load()
		// Detach from the caller so one cancelled request does not fail
		// every waiter sharing this load.
		s, err := c.loader.Load(context.WithoutCancel(ctx), subdomain)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				metrics.StorefrontLoadErrorsTotal.Inc()
				zap.L().Error("storefront load failed",
					zap.String("subdomain", subdomain), zap.Error(err))
			}
			return nil, err
		}
		metrics.StorefrontLoadTotal.Inc()
		if c.gen.Load() != start {
			return s, nil
		}
		c.m.Store(subdomain, &entry{store: s, lastSeen: time.Now().UnixNano()})
		metrics.ActiveStorefronts.Inc()
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Storefront), nil
}

func (c *Cache) touch(subdomain string) (*Storefront, bool) {
	v, ok := c.m.Load(subdomain)
	if !ok {
		return nil, false
	}
	ent := v.(*entry)
	atomic.StoreInt64(&ent.lastSeen, time.Now().UnixNano())
	return ent.store, true
}

// Invalidate drops subdomain so the next Get reloads it.
func (c *Cache) Invalidate(subdomain string) {
	c.gen.Add(1)
	c.sfg.Forget(subdomain)
	if _, loaded := c.m.LoadAndDelete(subdomain); loaded {
		metrics.ActiveStorefronts.Dec()
	}
}

// InvalidateMerchant drops every entry that belongs to merchantID.
func (c *Cache) InvalidateMerchant(merchantID uint64) {
	c.gen.Add(1)
	c.m.Range(func(key, value any) bool {
		if value.(*entry).store.Merchant.ID == merchantID {
			c.Invalidate(key.(string))
		}
		return true
	})
}

// Len reports the number of cached storefronts.
func (c *Cache) Len() int {
	n := 0
	c.m.Range(func(_, _ any) bool { n++; return true })
	return n
}

// Close stops the evictor.  It is safe to call more than once.
func (c *Cache) Close() {
	c.closeOnce.Do(func() {
		c.evictTicker.Stop()
		close(c.done)
	})
}
