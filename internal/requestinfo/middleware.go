// internal/requestinfo/middleware.go
//
// Enrich: attach the client fingerprint to every request.
//
// Context
// -------
// The activity log stores the address and user agent behind each
// registration, sign-in, and social-link edit.  Enrich computes them once,
// right after the access logger, so the storefront lookup, the dashboard,
// and the recorder all read the same *RequestInfo.
//
// Client address
// --------------
// The storefront normally runs behind a TLS-terminating proxy, so the
// socket peer is the proxy.  clientIP walks, in order:
//
//	X-Forwarded-For  first public entry (private, loopback, and
//	                 link-local hops are skipped)
//	X-Real-Ip        when public
//	RemoteAddr       whatever the socket says
//
// Notes
// -----
// • Debug lines go through the request-scoped logger so they carry req_id.
// • Oxford commas, two spaces after periods.
package requestinfo

import (
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/storefront/internal/logger"
)

// Enrich stores a *RequestInfo in the request context.
func Enrich(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		info := &RequestInfo{
			UA:        parseUA(r.UserAgent(), r.Header.Get("Accept-Language")),
			Geo:       lookupGeo(ip),
			URL:       r.URL,
			Timestamp: time.Now().UTC(),
		}

		if l := logger.FromContext(r.Context()); l.Core().Enabled(zap.DebugLevel) {
			l.Debug("client",
				zap.Stringer("ip", ip),
				zap.String("country", info.Geo.CountryISO),
				zap.String("browser", info.UA.Browser),
				zap.String("device", info.UA.Device),
				zap.Bool("bot", info.UA.IsBot))
		}

		next.ServeHTTP(w, r.WithContext(WithInfo(r.Context(), info)))
	})
}

func clientIP(r *http.Request) net.IP {
	for part := range strings.SplitSeq(r.Header.Get("X-Forwarded-For"), ",") {
		if ip := publicIP(part); ip != nil {
			return ip
		}
	}
	if ip := publicIP(r.Header.Get("X-Real-Ip")); ip != nil {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return net.ParseIP(host)
}

// publicIP parses s and returns nil unless it is a routable address.
func publicIP(s string) net.IP {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil || ip.IsPrivate() || ip.IsLoopback() ||
		ip.IsLinkLocalUnicast() || ip.IsUnspecified() {
		return nil
	}
	return ip
}
