// Package memory keeps the snapshot slot in process memory.
package memory

import (
	"context"
	"sync"

	"github.com/iho/bankchat/internal/domain"
)

// SnapshotStore implements usecase.SnapshotStore in memory.
// Snapshots are stored encoded so callers never share state with the slot.
type SnapshotStore struct {
	mu      sync.RWMutex
	payload []byte
}

// NewSnapshotStore creates an empty store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Load returns the stored snapshot, or nil when nothing was saved yet.
func (s *SnapshotStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	payload := s.payload
	s.mu.RUnlock()

	if payload == nil {
		return nil, nil
	}
	return domain.DecodeSnapshot(payload)
}

// Save replaces the stored snapshot.
func (s *SnapshotStore) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := domain.EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.payload = payload
	s.mu.Unlock()
	return nil
}
