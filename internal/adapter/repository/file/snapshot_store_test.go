package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/bankchat/internal/domain"
)

func newTestStore(t *testing.T) *SnapshotStore {
	t.Helper()
	store, err := NewSnapshotStore(t.TempDir(), domain.DefaultSnapshotSlot, zerolog.Nop())
	require.NoError(t, err)
	return store
}

func TestNewSnapshotStore_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		dir  string
		slot string
	}{
		{"empty dir", "", "slot"},
		{"empty slot", t.TempDir(), " "},
		{"slot with separator", t.TempDir(), "../escape"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSnapshotStore(tt.dir, tt.slot, zerolog.Nop())
			assert.Error(t, err)
		})
	}
}

func TestSnapshotStore_MissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestSnapshotStore_SaveLoad(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, &domain.Snapshot{
		Version:  domain.SnapshotVersion,
		SavedAt:  now,
		Accounts: domain.SeedAccounts(now),
	}))
	assert.Equal(t, domain.DefaultSnapshotSlot+".json", filepath.Base(store.Path()))

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Len(t, snap.Accounts, 2)
	assert.Equal(t, "Jane Smith", snap.Accounts["67890"].Name)

	// Overwrite leaves no temp files behind.
	require.NoError(t, store.Save(ctx, &domain.Snapshot{Version: domain.SnapshotVersion, SavedAt: now}))
	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	snap, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Accounts)
}

func TestSnapshotStore_CorruptFile(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0o600))

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidSnapshot)
}
