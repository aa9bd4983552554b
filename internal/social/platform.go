// internal/social/platform.go
//
// Platform enumeration for merchant social links.
//
// Context
// -------
// The `merchant_social` table accepts eight platform names.  Only five of
// them are edited through the social-settings form and therefore resynced
// on every submission; the remaining three are recognised by storage but
// have no codec.
//
// Notes
// -----
// • `Synced` order is the order the batch applies changes in.
// • Oxford commas, two spaces after periods.
package social

// Platform is the stored platform name.
type Platform string

const (
	Facebook  Platform = "facebook"
	Instagram Platform = "instagram"
	Twitter   Platform = "twitter"
	TikTok    Platform = "tiktok"
	WhatsApp  Platform = "whatsapp"
	Telegram  Platform = "telegram"
	YouTube   Platform = "youtube"
	Website   Platform = "website"
)

// Synced lists the platforms rewritten by every settings submission.
var Synced = []Platform{Instagram, Twitter, TikTok, Facebook, WhatsApp}

var labels = map[Platform]string{
	Facebook:  "Facebook",
	Instagram: "Instagram",
	Twitter:   "Twitter",
	TikTok:    "TikTok",
	WhatsApp:  "WhatsApp",
	Telegram:  "Telegram",
	YouTube:   "YouTube",
	Website:   "Website",
}

// Valid reports whether storage accepts p.
func (p Platform) Valid() bool {
	_, ok := labels[p]
	return ok
}

// Label returns the display name, or the raw value for unknown platforms.
func (p Platform) Label() string {
	if l, ok := labels[p]; ok {
		return l
	}
	return string(p)
}
