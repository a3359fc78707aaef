package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/phrazzld/scry-vocab/internal/store"
)

const backendName = "postgres"

const (
	getSnapshotQuery = `SELECT value FROM snapshots WHERE key = $1`

	upsertSnapshotQuery = `INSERT INTO snapshots (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
)

// DB is what the snapshot store needs from a connection pool. *sql.DB
// satisfies it.
type DB interface {
	store.DBTX
	store.TxBeginner
}

// PostgresSnapshotStore implements the store.SnapshotStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSnapshotStore struct {
	db     DB
	logger *slog.Logger
}

// NewPostgresSnapshotStore creates a new PostgreSQL implementation of the SnapshotStore interface.
// It accepts a connection pool that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresSnapshotStore(db DB, logger *slog.Logger) *PostgresSnapshotStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSnapshotStore{
		db:     db,
		logger: logger.With(slog.String("component", "snapshot_store"), slog.String("backend", backendName)),
	}
}

// Ensure PostgresSnapshotStore implements store.SnapshotStore interface
var _ store.SnapshotStore = (*PostgresSnapshotStore)(nil)

// Get implements store.SnapshotStore.Get
// Returns store.ErrSnapshotNotFound if no row exists for key.
func (s *PostgresSnapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := store.ValidateKey(key); err != nil {
		return nil, store.NewStoreError(backendName, "get", key, err)
	}

	var value []byte
	err := s.db.QueryRowContext(ctx, getSnapshotQuery, key).Scan(&value)
	if err != nil {
		mapped := MapError(err)
		if !IsNotFoundError(mapped) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to read snapshot",
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
		return nil, store.NewStoreError(backendName, "get", key, mapped)
	}

	return value, nil
}

// Set implements store.SnapshotStore.Set
// The upsert runs in its own transaction so a reader never sees a half
// written row.
func (s *PostgresSnapshotStore) Set(ctx context.Context, key string, value []byte) error {
	if err := store.ValidateKey(key); err != nil {
		return store.NewStoreError(backendName, "set", key, err)
	}

	log := logger.FromContextOrDefault(ctx, s.logger)
	err := store.RunInTransaction(logger.WithLogger(ctx, log), s.db, func(ctx context.Context, tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, upsertSnapshotQuery, key, value)
		if err != nil {
			return MapError(err)
		}
		return CheckRowsAffected(result, key)
	})
	if err != nil {
		log.Error("failed to write snapshot",
			slog.String("key", key),
			slog.Int("bytes", len(value)),
			slog.String("error", err.Error()))
		return store.NewStoreError(backendName, "set", key, err)
	}

	log.Debug("snapshot written", slog.String("key", key), slog.Int("bytes", len(value)))
	return nil
}
