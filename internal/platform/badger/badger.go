// Package badger stores snapshots in an embedded BadgerDB key-value store.
//
// Each snapshot key maps to one Badger key under a fixed prefix, and every
// Set is a single Badger transaction, so the replacement is atomic.
package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/phrazzld/scry-vocab/internal/store"
)

const backendName = "badger"

// keyPrefix namespaces snapshot keys inside the database.
const keyPrefix = "snapshot/"

// Config holds configuration for a BadgerDB instance.
type Config struct {
	// Path is the directory for BadgerDB files. Ignored when InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence).
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool

	// Logger receives BadgerDB's internal logs. Nil disables them.
	Logger *slog.Logger

	// GCInterval is how often to run value log garbage collection. Zero disables it.
	GCInterval time.Duration

	// GCDiscardRatio is the minimum ratio of discardable data before GC.
	GCDiscardRatio float64
}

// DefaultConfig returns production defaults for a database at path.
func DefaultConfig(path string) Config {
	return Config{
		Path:           path,
		SyncWrites:     true,
		GCInterval:     5 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

// InMemoryConfig returns configuration for tests.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Open creates and opens a BadgerDB instance with the given configuration.
// The caller must Close the returned database.
func Open(cfg Config) (*badger.DB, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger.With(slog.String("component", "badger"))})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return db, nil
}

// RunGC runs value log garbage collection every interval until ctx is done.
// Badger's ErrNoRewrite just means there was nothing to collect.
func RunGC(ctx context.Context, db *badger.DB, interval time.Duration, discardRatio float64, log *slog.Logger) {
	if interval <= 0 || db.Opts().InMemory {
		return
	}
	if log == nil {
		log = slog.Default()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := db.RunValueLogGC(discardRatio); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				log.Warn("badger value log GC failed", slog.String("error", err.Error()))
			}
		}
	}
}

// SnapshotStore implements store.SnapshotStore on a Badger database.
type SnapshotStore struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ store.SnapshotStore = (*SnapshotStore)(nil)

// NewSnapshotStore wraps an opened database. The caller keeps ownership of db.
func NewSnapshotStore(db *badger.DB, logger *slog.Logger) *SnapshotStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotStore{
		db:     db,
		logger: logger.With(slog.String("component", "snapshot_store"), slog.String("backend", backendName)),
	}
}

func dbKey(key string) []byte {
	return []byte(keyPrefix + key)
}

// Get implements store.SnapshotStore.Get
func (s *SnapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := store.ValidateKey(key); err != nil {
		return nil, store.NewStoreError(backendName, "get", key, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, store.NewStoreError(backendName, "get", key, err)
	}

	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(dbKey(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, store.NewStoreError(backendName, "get", key, store.ErrSnapshotNotFound)
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to read snapshot",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError(backendName, "get", key, err)
	}
	return value, nil
}

// Set implements store.SnapshotStore.Set
func (s *SnapshotStore) Set(ctx context.Context, key string, value []byte) error {
	if err := store.ValidateKey(key); err != nil {
		return store.NewStoreError(backendName, "set", key, err)
	}
	if err := ctx.Err(); err != nil {
		return store.NewStoreError(backendName, "set", key, err)
	}

	stored := append([]byte(nil), value...)
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(dbKey(key), stored)
	})
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to write snapshot",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return store.NewStoreError(backendName, "set", key, err)
	}
	return nil
}
