package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// SnapshotVersion is the current persisted layout version.
const SnapshotVersion = 1

// DefaultSnapshotSlot is the storage slot name used when none is configured.
const DefaultSnapshotSlot = "banking-chatbot-storage"

// Snapshot is the persisted form of the account directory.
// The session is deliberately not part of it.
type Snapshot struct {
	Version  int                `json:"version"`
	SavedAt  time.Time          `json:"savedAt"`
	Accounts map[string]Account `json:"accounts"`
}

// Validate checks the structural invariants of a loaded snapshot.
func (s *Snapshot) Validate() error {
	if s.Version != SnapshotVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedSnapshot, s.Version)
	}

	for key, account := range s.Accounts {
		if key != account.ID {
			return fmt.Errorf("%w: key %q holds account %q", ErrInvalidSnapshot, key, account.ID)
		}
		if account.Balance.IsNegative() {
			return fmt.Errorf("%w: account %q has negative balance", ErrInvalidSnapshot, key)
		}
		for _, tx := range account.Transactions {
			if !tx.Type.IsValid() {
				return fmt.Errorf("%w: account %q has transaction of type %q", ErrInvalidSnapshot, key, tx.Type)
			}
		}
	}

	return nil
}

// EncodeSnapshot serializes a snapshot for storage.
func EncodeSnapshot(s *Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses and validates a stored snapshot.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	if s.Accounts == nil {
		s.Accounts = make(map[string]Account)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}
