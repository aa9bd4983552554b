// internal/tenant/middleware.go
//
// Middleware attaches the addressed *Storefront to the request context.
// Hosts that are not storefront hosts pass through untouched so the
// platform's own routes keep working; a storefront host with no merchant
// behind it is answered with 404.

package tenant

import (
	"context"
	"errors"
	"net/http"
)

type ctxKey struct{}

// WithStorefront returns ctx carrying s.
func WithStorefront(ctx context.Context, s *Storefront) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the storefront attached by Middleware, or nil.
func FromContext(ctx context.Context) *Storefront {
	s, _ := ctx.Value(ctxKey{}).(*Storefront)
	return s
}

// Middleware resolves r.Host through res and c.
func Middleware(c *Cache, res Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sub, ok := res.Subdomain(r.Host)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			s, err := c.Get(r.Context(), sub)
			switch {
			case errors.Is(err, ErrNotFound):
				http.NotFound(w, r)
				return
			case err != nil:
				http.Error(w, http.StatusText(http.StatusServiceUnavailable),
					http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithStorefront(r.Context(), s)))
		})
	}
}
