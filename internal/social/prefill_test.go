// internal/social/prefill_test.go
//
// Unit-tests for BuildPrefill and Preview.

package social

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrefill(t *testing.T) {
	links := map[Platform]string{
		Instagram: "https://instagram.com/mystore/",
		Twitter:   "https://twitter.com/mystore",
		TikTok:    "https://tiktok.com/@mystore",
		Facebook:  "https://facebook.com/profile.php?id=42",
		WhatsApp:  "https://wa.me/15551234567?text=Hola%21",
		Website:   "https://mystore.example",
	}

	got := BuildPrefill(links)
	assert.Equal(t, Prefill{
		Instagram:       "mystore",
		Twitter:         "mystore",
		TikTok:          "mystore",
		Facebook:        "https://facebook.com/profile.php?id=42",
		WhatsAppNumber:  "15551234567",
		WhatsAppMessage: "Hola!",
	}, got)
}

func TestBuildPrefill_DegradesToEmpty(t *testing.T) {
	links := map[Platform]string{
		Instagram: "http://[::1",
		TikTok:    "https://tiktok.com/no-at-sign",
		WhatsApp:  "not a url at all",
	}
	assert.Equal(t, Prefill{}, BuildPrefill(links))
	assert.Equal(t, Prefill{}, BuildPrefill(nil))
}

func TestPreview(t *testing.T) {
	got := Preview(map[Platform]string{
		TikTok:  "https://tiktok.com/@x",
		Website: "https://x.example",
	})
	assert.Equal(t, map[string]string{"TikTok": "https://tiktok.com/@x"}, got)
}
