package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iho/bankchat/internal/domain"
)

func TestSnapshotStore_LoadEmpty(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewSnapshotStore(client, domain.DefaultSnapshotSlot)

	snap, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if snap != nil {
		t.Fatalf("expected empty slot, got %+v", snap)
	}
}

func TestSnapshotStore_SaveAndLoad(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewSnapshotStore(client, domain.DefaultSnapshotSlot)
	ctx := context.Background()
	now := time.Date(2026, time.January, 5, 9, 30, 0, 0, time.UTC)

	if err := store.Save(ctx, &domain.Snapshot{
		Version:  domain.SnapshotVersion,
		SavedAt:  now,
		Accounts: domain.SeedAccounts(now),
	}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if !mr.Exists(domain.DefaultSnapshotSlot) {
		t.Fatalf("expected key %q to exist", domain.DefaultSnapshotSlot)
	}
	if ttl := mr.TTL(domain.DefaultSnapshotSlot); ttl != 0 {
		t.Fatalf("expected no expiry, got %v", ttl)
	}

	snap, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got := snap.Accounts["67890"].Balance.String(); got != "5000" {
		t.Fatalf("expected Jane's balance 5000, got %s", got)
	}
}

func TestSnapshotStore_LoadCorrupt(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	if err := mr.Set("bank", `{"version":99}`); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	_, err := NewSnapshotStore(client, "bank").Load(context.Background())
	if !errors.Is(err, domain.ErrUnsupportedSnapshot) {
		t.Fatalf("expected unsupported snapshot error, got %v", err)
	}
}

func TestSnapshotStore_Ping(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer client.Close()

	store := NewSnapshotStore(client, "bank")
	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}

	mr.Close()
	if err := store.Ping(context.Background()); err == nil {
		t.Fatalf("expected ping to fail after server shutdown")
	}
}
