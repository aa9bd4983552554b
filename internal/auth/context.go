// internal/auth/context.go
//
// Merchant-id context helper.
//
// Usage
// -----
//     // session.Middleware attaches the signed-in merchant.
//     ctx = auth.WithMerchant(ctx, 123)
//
//     // Handlers retrieve the id.
//     id, ok := auth.MerchantID(ctx)   // 123, true
//
// Notes
// -----
// • Lives apart from internal/session so handlers and tests can fake a
//   signed-in merchant without issuing a cookie.
// • Oxford commas, two spaces after periods.

package auth

import "context"

// merchantKey is unexported to avoid context-key collisions.
type merchantKey struct{}

// WithMerchant returns a new context carrying merchantID.
func WithMerchant(ctx context.Context, merchantID uint64) context.Context {
	return context.WithValue(ctx, merchantKey{}, merchantID)
}

// MerchantID extracts the id from ctx.  It returns (0, false) if none is set.
func MerchantID(ctx context.Context) (uint64, bool) {
	id, ok := ctx.Value(merchantKey{}).(uint64)
	return id, ok && id != 0
}
