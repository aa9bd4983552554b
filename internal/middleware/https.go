// Package middleware holds small, composable HTTP wrappers.
package middleware

import (
	"net"
	"net/http"
)

// HostChecker reports whether host is served by this process.  The
// platform's own domain and every live storefront qualify.
type HostChecker interface {
	Serves(r *http.Request, host string) bool
}

// HostCheckerFunc adapts a function to HostChecker.
type HostCheckerFunc func(r *http.Request, host string) bool

func (f HostCheckerFunc) Serves(r *http.Request, host string) bool { return f(r, host) }

// ForceHTTPS wraps h.  If the request is plain HTTP, the host is not
// “localhost”, and hosts confirms the host is ours, the wrapper issues a
// 308 Permanent Redirect to the HTTPS version of the same URL.  Otherwise it
// calls the next handler unchanged.  A TLS-terminating proxy is trusted
// through X-Forwarded-Proto.
func ForceHTTPS(hosts HostChecker, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := stripPort(r.Host)

		// Already HTTPS or dev host → continue.
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" || host == "localhost" {
			h.ServeHTTP(w, r)
			return
		}

		if hosts.Serves(r, host) {
			target := "https://" + r.Host + r.URL.RequestURI()
			http.Redirect(w, r, target, http.StatusPermanentRedirect)
			return
		}

		// Unknown host → keep normal flow (likely 404 later).
		h.ServeHTTP(w, r)
	})
}

// stripPort removes the :port suffix from Host when present.
func stripPort(h string) string {
	if host, _, err := net.SplitHostPort(h); err == nil {
		return host
	}
	return h
}
