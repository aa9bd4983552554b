// internal/social/prefill.go
//
// Edit-form prefill and storefront preview built from stored links.
//
// Context
// -------
// The settings page shows handles, not URLs, for instagram, twitter, and
// tiktok.  Facebook is the deliberate exception: page URLs come in too many
// shapes (profile.php?id=…, /pages/…, vanity names) for a handle to be
// meaningful, so the stored URL is shown verbatim.  WhatsApp splits into a
// number field and a message field.
package social

// Prefill holds the values the social-settings form is rendered with.
type Prefill struct {
	Instagram       string `json:"instagram"`
	Twitter         string `json:"twitter"`
	TikTok          string `json:"tiktok"`
	Facebook        string `json:"facebook"`
	WhatsAppNumber  string `json:"wa_number"`
	WhatsAppMessage string `json:"wa_message"`
}

// BuildPrefill derives form values from the stored platform → URL map.
// Missing or undecodable links leave their field empty.
func BuildPrefill(links map[Platform]string) Prefill {
	var p Prefill
	p.Instagram = handleOf(Instagram, links)
	p.Twitter = handleOf(Twitter, links)
	p.TikTok = handleOf(TikTok, links)
	p.Facebook = links[Facebook]

	if raw := links[WhatsApp]; raw != "" {
		wa := DecodeWhatsApp(raw)
		p.WhatsAppNumber = wa.Number
		p.WhatsAppMessage = wa.Message
	}
	return p
}

func handleOf(p Platform, links map[Platform]string) string {
	raw := links[p]
	if raw == "" {
		return ""
	}
	h, _ := Decode(p, raw)
	return h
}

// Preview maps display labels to stored URLs for the synced platforms that
// have a link.
func Preview(links map[Platform]string) map[string]string {
	out := make(map[string]string, len(Synced))
	for _, p := range Synced {
		if u := links[p]; u != "" {
			out[p.Label()] = u
		}
	}
	return out
}
