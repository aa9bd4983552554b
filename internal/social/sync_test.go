// internal/social/sync_test.go
//
// Batch synchronisation scenarios against an in-memory Store.
//
// Context
// -------
// memStore copies the committed map into a working set per Batch and swaps
// it in only when fn succeeds, mirroring transaction semantics.  failOn
// lets a test make one platform's write fail mid-batch.

package social

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	rows   map[uint64]map[Platform]string
	failOn Platform
}

func newMemStore() *memStore {
	return &memStore{rows: map[uint64]map[Platform]string{}}
}

func (m *memStore) GetAll(_ context.Context, id uint64) (map[Platform]string, error) {
	out := map[Platform]string{}
	for p, u := range m.rows[id] {
		out[p] = u
	}
	return out, nil
}

func (m *memStore) Batch(ctx context.Context, id uint64, fn func(Tx) error) error {
	work, _ := m.GetAll(ctx, id)
	if err := fn(&memTx{work: work, failOn: m.failOn}); err != nil {
		return err
	}
	m.rows[id] = work
	return nil
}

type memTx struct {
	work   map[Platform]string
	failOn Platform
}

var errInjected = errors.New("injected failure")

func (t *memTx) Upsert(_ context.Context, p Platform, u string) error {
	if p == t.failOn {
		return errInjected
	}
	t.work[p] = u
	return nil
}

func (t *memTx) Delete(_ context.Context, p Platform) error {
	if p == t.failOn {
		return errInjected
	}
	delete(t.work, p)
	return nil
}

func TestSync_DeleteAndInsert(t *testing.T) {
	store := newMemStore()
	store.rows[7] = map[Platform]string{Instagram: "https://instagram.com/old"}

	_, err := NewSyncer(store).Sync(context.Background(), 7, Submission{
		Instagram: "",
		Twitter:   "newhandle",
	})
	require.NoError(t, err)

	got, _ := store.GetAll(context.Background(), 7)
	assert.Equal(t, map[Platform]string{Twitter: "https://twitter.com/newhandle"}, got)
}

func TestSync_OverwritesAndLeavesUnsyncedPlatforms(t *testing.T) {
	store := newMemStore()
	store.rows[1] = map[Platform]string{
		TikTok:  "https://tiktok.com/@old",
		Website: "https://mystore.example",
	}

	applied, err := NewSyncer(store).Sync(context.Background(), 1, Submission{
		TikTok:          "@new",
		Facebook:        "https://facebook.com/mypage",
		WhatsAppNumber:  "+1 (555) 123-4567",
		WhatsAppMessage: "Hola!",
	})
	require.NoError(t, err)
	assert.Len(t, applied, len(Synced))

	got, _ := store.GetAll(context.Background(), 1)
	assert.Equal(t, map[Platform]string{
		TikTok:   "https://tiktok.com/@new",
		Facebook: "https://facebook.com/mypage",
		WhatsApp: "https://wa.me/15551234567?text=Hola%21",
		Website:  "https://mystore.example",
	}, got)
}

func TestSync_FailureRollsBackWholeBatch(t *testing.T) {
	store := newMemStore()
	before := map[Platform]string{
		Instagram: "https://instagram.com/keep",
		Twitter:   "https://twitter.com/keep",
	}
	store.rows[3] = before
	store.failOn = Facebook

	_, err := NewSyncer(store).Sync(context.Background(), 3, Submission{
		Instagram: "changed",
		Facebook:  "page",
	})
	require.ErrorIs(t, err, ErrSyncFailed)
	require.ErrorIs(t, err, errInjected)

	got, _ := store.GetAll(context.Background(), 3)
	assert.Equal(t, before, got)
}
