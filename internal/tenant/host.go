// internal/tenant/host.go
//
// Host header → subdomain.
//
// Context
// -------
// Storefronts live at `<subdomain>.<base_domain>`.  The bare base domain,
// `www`, and unrelated hosts belong to the platform itself and are not
// storefronts.
//
// For local development the literal host “localhost” can masquerade as a
// real merchant through `storefront.localhost_alias` in config.
//
// Notes
// -----
// • Comparison is case-insensitive and ignores any :port suffix.
// • Only one label is accepted; `a.b.<base>` is not a storefront.
package tenant

import (
	"net"
	"strings"
)

// Resolver maps hosts onto subdomains.
type Resolver struct {
	BaseDomain     string // e.g. "tiendas.example"
	LocalhostAlias string // subdomain served on "localhost", "" = none
}

// Subdomain returns the storefront subdomain addressed by host.
func (r Resolver) Subdomain(host string) (string, bool) {
	h := strings.ToLower(stripPort(host))
	if h == "localhost" {
		return r.LocalhostAlias, r.LocalhostAlias != ""
	}

	base := strings.ToLower(strings.Trim(r.BaseDomain, "."))
	if base == "" {
		return "", false
	}
	label, ok := strings.CutSuffix(h, "."+base)
	if !ok || label == "" || label == "www" || strings.Contains(label, ".") {
		return "", false
	}
	return label, true
}

// stripPort removes :port from the Host header when present.
func stripPort(h string) string {
	if host, _, err := net.SplitHostPort(h); err == nil {
		return host
	}
	return h
}
