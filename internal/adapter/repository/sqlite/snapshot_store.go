// Package sqlite stores the snapshot slot in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/iho/bankchat/internal/domain"
)

const schema = `CREATE TABLE IF NOT EXISTS snapshots (
	slot     TEXT PRIMARY KEY,
	payload  TEXT NOT NULL,
	saved_at INTEGER NOT NULL
)`

// SnapshotStore implements usecase.SnapshotStore on one row of the snapshots table.
type SnapshotStore struct {
	db     *sql.DB
	slot   string
	logger zerolog.Logger
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// Open opens the database at path and creates the snapshots table.
func Open(path, slot string, logger zerolog.Logger) (*SnapshotStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if strings.TrimSpace(slot) == "" {
		return nil, fmt.Errorf("snapshot slot is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create snapshots table: %w", err)
	}

	return &SnapshotStore{
		db:     db,
		slot:   slot,
		logger: logger.With().Str("component", "sqlite_snapshot_store").Logger(),
	}, nil
}

// Close closes the database handle.
func (s *SnapshotStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping checks the database handle.
func (s *SnapshotStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Load returns the slot's snapshot, or nil when the row is absent.
func (s *SnapshotStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE slot = ?`, s.slot,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %q: %w", s.slot, err)
	}

	return domain.DecodeSnapshot([]byte(payload))
}

// Save upserts the slot's row.
func (s *SnapshotStore) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	data, err := domain.EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (slot, payload, saved_at) VALUES (?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at`,
		s.slot, string(data), toMillis(snapshot.SavedAt),
	)
	if err != nil {
		return fmt.Errorf("save snapshot %q: %w", s.slot, err)
	}

	s.logger.Debug().Str("slot", s.slot).Int("bytes", len(data)).Msg("snapshot written")
	return nil
}
