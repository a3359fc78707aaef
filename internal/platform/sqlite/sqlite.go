// Package sqlite stores snapshots in a single-file SQLite database through
// the mattn/go-sqlite3 driver.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers the "sqlite3" driver

	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/phrazzld/scry-vocab/internal/store"
)

const backendName = "sqlite"

// FileName is the database file created inside the data directory.
const FileName = "scry-vocab.db"

//go:embed schema.sql
var schemaSQL string

const (
	getSnapshotQuery    = `SELECT value FROM snapshots WHERE key = ?`
	upsertSnapshotQuery = `INSERT INTO snapshots (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
)

// Open opens (creating if necessary) the database file in dir and applies the schema.
func Open(dir string) (*sql.DB, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w", dir, err)
	}
	dsn := "file:" + filepath.Join(dir, FileName) + "?_busy_timeout=5000&_journal_mode=WAL"
	return OpenDSN(dsn)
}

// OpenDSN opens an arbitrary go-sqlite3 DSN, such as ":memory:", and applies the schema.
func OpenDSN(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if err := InitDB(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// InitDB runs the embedded schema statements on db.
func InitDB(ctx context.Context, db *sql.DB) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply sqlite schema: %w", err)
		}
	}
	return nil
}

// SnapshotStore implements store.SnapshotStore on a SQLite table.
type SnapshotStore struct {
	db     store.DBTX
	now    func() time.Time
	logger *slog.Logger
}

var _ store.SnapshotStore = (*SnapshotStore)(nil)

// NewSnapshotStore wraps an opened database.
func NewSnapshotStore(db store.DBTX, logger *slog.Logger) *SnapshotStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotStore{
		db:     db,
		now:    time.Now,
		logger: logger.With(slog.String("component", "snapshot_store"), slog.String("backend", backendName)),
	}
}

// Get implements store.SnapshotStore.Get
func (s *SnapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := store.ValidateKey(key); err != nil {
		return nil, store.NewStoreError(backendName, "get", key, err)
	}

	var value []byte
	if err := s.db.QueryRowContext(ctx, getSnapshotQuery, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.NewStoreError(backendName, "get", key, store.ErrSnapshotNotFound)
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to read snapshot",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError(backendName, "get", key, err)
	}
	return value, nil
}

// Set implements store.SnapshotStore.Set. A single upsert statement is
// atomic in SQLite, so no explicit transaction is needed.
func (s *SnapshotStore) Set(ctx context.Context, key string, value []byte) error {
	if err := store.ValidateKey(key); err != nil {
		return store.NewStoreError(backendName, "set", key, err)
	}
	if value == nil {
		value = []byte{}
	}

	if _, err := s.db.ExecContext(ctx, upsertSnapshotQuery, key, value, s.now().UnixMilli()); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to write snapshot",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return store.NewStoreError(backendName, "set", key, err)
	}
	return nil
}
