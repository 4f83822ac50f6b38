package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/iho/bankchat/internal/domain"
)

const (
	loadSnapshotSQL = `SELECT payload FROM snapshots WHERE slot = $1`

	// Older snapshots never replace newer ones.
	saveSnapshotSQL = `INSERT INTO snapshots (slot, payload, version, saved_at, updated_at)
VALUES ($1, $2::jsonb, $3, $4, NOW())
ON CONFLICT (slot) DO UPDATE
SET payload = EXCLUDED.payload,
    version = EXCLUDED.version,
    saved_at = EXCLUDED.saved_at,
    updated_at = NOW()
WHERE snapshots.saved_at <= EXCLUDED.saved_at`
)

// SnapshotStore implements usecase.SnapshotStore on one row of the snapshots table.
type SnapshotStore struct {
	pool    pgxPool
	tx      *TxManager
	retrier *Retrier
	slot    string
	logger  zerolog.Logger
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(pool *pgxpool.Pool, slot string, logger zerolog.Logger) *SnapshotStore {
	return newSnapshotStoreWithPool(pool, slot, logger)
}

func newSnapshotStoreWithPool(pool pgxPool, slot string, logger zerolog.Logger) *SnapshotStore {
	logger = logger.With().Str("component", "postgres_snapshot_store").Logger()
	return &SnapshotStore{
		pool:    pool,
		tx:      newTxManagerWithPool(pool),
		retrier: NewRetrier(logger),
		slot:    slot,
		logger:  logger,
	}
}

// Load returns the slot's snapshot, or nil when the row is absent.
func (s *SnapshotStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx, loadSnapshotSQL, s.slot).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %q: %w", s.slot, err)
	}

	return domain.DecodeSnapshot(payload)
}

// Save upserts the slot's row, retrying on deadlocks and serialization failures.
func (s *SnapshotStore) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	data, err := domain.EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}

	err = s.retrier.Retry(ctx, func() error {
		return s.tx.WithinTx(ctx, func(tx pgx.Tx) error {
			tag, err := tx.Exec(ctx, saveSnapshotSQL, s.slot, string(data), snapshot.Version, snapshot.SavedAt)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				s.logger.Warn().
					Str("slot", s.slot).
					Time("saved_at", snapshot.SavedAt).
					Msg("stored snapshot is newer, skipping write")
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("save snapshot %q: %w", s.slot, err)
	}
	return nil
}

// Ping checks the pool.
func (s *SnapshotStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
