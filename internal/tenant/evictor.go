// evictor.go houses the eviction loop for Cache.  Every EvictInterval it
// scans the map and removes:
//
//   - storefronts idle longer than idleTTL
//   - least-recently-used storefronts when map size exceeds maxEntries
//
// Each eviction event is logged and updates Prometheus counters.
package tenant

import (
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/storefront/internal/metrics"
)

func (c *Cache) evictLoop() {
	for {
		select {
		case <-c.done:
			return
		case t := <-c.evictTicker.C:
			c.evict(t.UnixNano())
		}
	}
}

// evict runs one idle pass followed by one LRU pass as of now (UnixNano).
func (c *Cache) evict(now int64) {
	var count int

	// ----------------------------------------------------------------
	// Idle eviction pass
	// ----------------------------------------------------------------
	c.m.Range(func(key, value any) bool {
		ent := value.(*entry)
		idle := time.Duration(now - atomic.LoadInt64(&ent.lastSeen))
		if idle > c.idleTTL {
			c.drop(key.(string))
			zap.L().Info("storefront evicted",
				zap.String("subdomain", key.(string)),
				zap.Duration("idle", idle.Truncate(time.Second)))
			return true
		}
		count++
		return true
	})

	// ----------------------------------------------------------------
	// LRU eviction pass
	// ----------------------------------------------------------------
	if c.maxEntries > 0 && count > c.maxEntries {
		type kv struct {
			key string
			at  int64
		}
		var all []kv
		c.m.Range(func(key, value any) bool {
			ent := value.(*entry)
			all = append(all, kv{key: key.(string), at: atomic.LoadInt64(&ent.lastSeen)})
			return true
		})
		sort.Slice(all, func(i, j int) bool { return all[i].at < all[j].at })
		for i := 0; i < len(all)-c.maxEntries; i++ {
			c.drop(all[i].key)
			zap.L().Info("storefront evicted (LRU pressure)",
				zap.String("subdomain", all[i].key))
		}
	}
}

func (c *Cache) drop(key string) {
	if _, loaded := c.m.LoadAndDelete(key); loaded {
		metrics.StorefrontEvictTotal.Inc()
		metrics.ActiveStorefronts.Dec()
	}
}
