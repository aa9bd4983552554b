// internal/social/sync.go
//
// Batch resynchronisation of a merchant's social links.
//
// Workflow
// --------
//  1. Encode every synced platform from the Submission (absent = delete).
//  2. Open one Store.Batch.
//  3. Upsert present values, delete absent ones.
//  4. Any failure rolls the whole batch back and surfaces as ErrSyncFailed.
package social

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/yanizio/storefront/internal/metrics"
)

// ErrSyncFailed wraps any error that aborted a batch.  No platform change
// from that submission was applied.
var ErrSyncFailed = errors.New("social: links could not be saved")

// Submission is the raw social-settings form.
type Submission struct {
	Instagram       string `json:"instagram"`
	Twitter         string `json:"twitter"`
	TikTok          string `json:"tiktok"`
	Facebook        string `json:"facebook"`
	WhatsAppNumber  string `json:"whatsapp_number"`
	WhatsAppMessage string `json:"whatsapp_message"`
}

// Encode returns the canonical URL for every synced platform; an empty
// value means the row must be removed.
func (s Submission) Encode() map[Platform]string {
	out := make(map[Platform]string, len(Synced))
	out[Instagram], _ = Encode(Instagram, s.Instagram)
	out[Twitter], _ = Encode(Twitter, s.Twitter)
	out[TikTok], _ = Encode(TikTok, s.TikTok)
	out[Facebook], _ = Encode(Facebook, s.Facebook)
	out[WhatsApp], _ = EncodeWhatsApp(s.WhatsAppNumber, s.WhatsAppMessage)
	return out
}

// Syncer applies Submissions to a Store.
type Syncer struct {
	store Store
}

// NewSyncer returns a Syncer over store.
func NewSyncer(store Store) *Syncer { return &Syncer{store: store} }

// Sync rewrites the synced platforms of merchantID and returns the encoded
// set that was applied.
func (s *Syncer) Sync(ctx context.Context, merchantID uint64, sub Submission) (map[Platform]string, error) {
	desired := sub.Encode()

	err := s.store.Batch(ctx, merchantID, func(tx Tx) error {
		for _, p := range Synced {
			u := desired[p]
			if u == "" {
				if err := tx.Delete(ctx, p); err != nil {
					return err
				}
				continue
			}
			if err := tx.Upsert(ctx, p, u); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		metrics.SocialSyncTotal.WithLabelValues("error").Inc()
		zap.L().Error("social sync failed",
			zap.Uint64("merchant_id", merchantID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrSyncFailed, err)
	}

	metrics.SocialSyncTotal.WithLabelValues("ok").Inc()
	return desired, nil
}
