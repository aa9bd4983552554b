// internal/social/codec.go
//
// Canonical URL codec for social handles.
//
// Context
// -------
// Merchants type whatever they have at hand: “@mystore”, “mystore/”, or a
// full link copied from the browser.  Storage keeps exactly one canonical
// `https://` URL per platform, and the edit form needs the handle back.
//
//   - Encode / EncodeWhatsApp  ─ form input → canonical URL (or absent).
//   - Decode / DecodeWhatsApp  ─ canonical URL → handle or parts (best effort).
//
// The mapping is lossy and platform-specific:
//
//	instagram  https://instagram.com/{handle}
//	twitter    https://twitter.com/{handle}
//	tiktok     https://tiktok.com/@{handle}
//	facebook   https://facebook.com/{handle}
//	whatsapp   https://wa.me/{digits}[?text={message}]
//
// Notes
// -----
// • Absent is reported as ("", false); the batch turns it into a delete.
// • Input that already carries http(s):// is kept as typed, for any platform.
// • Decoders never fail loudly.  Anything unparseable is absent.
// • Oxford commas, two spaces after periods.
package social

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	schemePrefix = regexp.MustCompile(`(?i)^https?://`)
	tiktokPath   = regexp.MustCompile(`^@([^/]+)`)
	waNumberPath = regexp.MustCompile(`/([0-9]+)`)
)

/*──────────────────────────── encode ────────────────────────────────────────*/

// Encode turns a handle or URL into the canonical URL for p.
func Encode(p Platform, input string) (string, bool) {
	v := strings.TrimSpace(input)
	if v == "" {
		return "", false
	}
	if schemePrefix.MatchString(v) {
		return v, true
	}

	h := cleanHandle(v)
	if h == "" {
		return "", false
	}

	switch p {
	case Instagram:
		return "https://instagram.com/" + h, true
	case Twitter:
		return "https://twitter.com/" + h, true
	case TikTok:
		return "https://tiktok.com/@" + h, true
	case Facebook:
		return "https://facebook.com/" + h, true
	default:
		return "", false
	}
}

// EncodeWhatsApp builds a wa.me link from a free-form phone number and an
// optional greeting.
func EncodeWhatsApp(number, message string) (string, bool) {
	d := Digits(number)
	if d == "" {
		return "", false
	}
	u := "https://wa.me/" + d
	if msg := strings.TrimSpace(message); msg != "" {
		u += "?text=" + url.QueryEscape(msg)
	}
	return u, true
}

// cleanHandle trims whitespace, one leading “@”, and surrounding slashes.
func cleanHandle(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "@")
	return strings.Trim(s, "/")
}

// Digits keeps only the ASCII digits of s.
func Digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

/*──────────────────────────── decode ────────────────────────────────────────*/

// Decode recovers the handle from a stored URL.  TikTok requires the “@”
// segment; the other platforms return the first path segment.
func Decode(p Platform, raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	path := strings.Trim(u.Path, "/")

	if p == TikTok {
		m := tiktokPath.FindStringSubmatch(path)
		if m == nil {
			return "", false
		}
		return m[1], true
	}

	first, _, _ := strings.Cut(path, "/")
	if first == "" {
		return "", false
	}
	return first, true
}

// WhatsAppParts is the decoded form of a wa.me link.  Empty fields are
// absent.
type WhatsAppParts struct {
	Number  string
	Message string
}

// DecodeWhatsApp extracts the number (first digit run after a “/”) and the
// `text` query parameter.
func DecodeWhatsApp(raw string) WhatsAppParts {
	u, err := url.Parse(raw)
	if err != nil {
		return WhatsAppParts{}
	}

	var parts WhatsAppParts
	if m := waNumberPath.FindStringSubmatch(u.Path); m != nil {
		parts.Number = m[1]
	}
	// ParseQuery keeps the well-formed pairs when others are malformed.
	q, _ := url.ParseQuery(u.RawQuery)
	parts.Message = q.Get("text")
	return parts
}
