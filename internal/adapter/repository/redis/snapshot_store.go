package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/iho/bankchat/internal/domain"
)

// SnapshotStore implements usecase.SnapshotStore using one Redis string key.
// The key is the slot name itself, without a prefix.
type SnapshotStore struct {
	client *redis.Client
	key    string
}

// NewSnapshotStore creates a new SnapshotStore for slot.
func NewSnapshotStore(client *redis.Client, slot string) *SnapshotStore {
	return &SnapshotStore{
		client: client,
		key:    slot,
	}
}

// Load reads the slot. A missing key is an empty slot.
func (s *SnapshotStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot %q: %w", s.key, err)
	}

	return domain.DecodeSnapshot(data)
}

// Save overwrites the slot without expiry.
func (s *SnapshotStore) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	data, err := domain.EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("set snapshot %q: %w", s.key, err)
	}
	return nil
}

// Ping checks the Redis connection.
func (s *SnapshotStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
