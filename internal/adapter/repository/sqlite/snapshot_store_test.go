package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/bankchat/internal/domain"
)

func openTempStore(t *testing.T, slot string) *SnapshotStore {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "bankchat.db"), slot, zerolog.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPathAndSlot(t *testing.T) {
	t.Parallel()

	if _, err := Open("", "slot", zerolog.Nop()); err == nil {
		t.Fatal("expected empty path error")
	}
	if _, err := Open(filepath.Join(t.TempDir(), "x.db"), "", zerolog.Nop()); err == nil {
		t.Fatal("expected empty slot error")
	}
}

func TestLoadEmptySlot(t *testing.T) {
	t.Parallel()

	store := openTempStore(t, domain.DefaultSnapshotSlot)
	snap, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap != nil {
		t.Fatalf("expected nil snapshot, got %+v", snap)
	}
	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t, domain.DefaultSnapshotSlot)
	ctx := context.Background()
	now := time.Date(2026, time.February, 22, 16, 40, 0, 0, time.UTC)

	if err := store.Save(ctx, &domain.Snapshot{
		Version:  domain.SnapshotVersion,
		SavedAt:  now,
		Accounts: domain.SeedAccounts(now),
	}); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Accounts) != 2 {
		t.Fatalf("accounts = %d, want 2", len(got.Accounts))
	}
	if got.Accounts["12345"].Name != "John Doe" {
		t.Fatalf("name = %q, want John Doe", got.Accounts["12345"].Name)
	}
	if len(got.Accounts["12345"].Transactions) != 2 {
		t.Fatalf("history = %d, want 2", len(got.Accounts["12345"].Transactions))
	}
}

func TestSaveOverwritesSlot(t *testing.T) {
	t.Parallel()

	store := openTempStore(t, "bank")
	ctx := context.Background()
	now := time.Date(2026, time.February, 22, 16, 40, 0, 0, time.UTC)

	if err := store.Save(ctx, &domain.Snapshot{Version: domain.SnapshotVersion, SavedAt: now, Accounts: domain.SeedAccounts(now)}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := store.Save(ctx, &domain.Snapshot{Version: domain.SnapshotVersion, SavedAt: now.Add(time.Minute)}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	var rows int
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM snapshots`).Scan(&rows); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if rows != 1 {
		t.Fatalf("rows = %d, want 1", rows)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Accounts) != 0 {
		t.Fatalf("accounts = %d, want 0", len(got.Accounts))
	}
	if !got.SavedAt.Equal(now.Add(time.Minute)) {
		t.Fatalf("savedAt = %v, want %v", got.SavedAt, now.Add(time.Minute))
	}
}

func TestLoadRejectsCorruptPayload(t *testing.T) {
	t.Parallel()

	store := openTempStore(t, "bank")
	if _, err := store.db.Exec(`INSERT INTO snapshots (slot, payload, saved_at) VALUES (?, ?, ?)`, "bank", "nope", 0); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if _, err := store.Load(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}
