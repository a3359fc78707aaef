package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/phrazzld/scry-vocab/internal/config"
	"github.com/phrazzld/scry-vocab/internal/platform/badger"
	"github.com/phrazzld/scry-vocab/internal/platform/file"
	"github.com/phrazzld/scry-vocab/internal/platform/memory"
	"github.com/phrazzld/scry-vocab/internal/platform/postgres"
	"github.com/phrazzld/scry-vocab/internal/platform/redis"
	"github.com/phrazzld/scry-vocab/internal/platform/sqlite"
	"github.com/phrazzld/scry-vocab/internal/redact"
	"github.com/phrazzld/scry-vocab/internal/store"
)

// connectTimeout bounds the initial ping of networked backends.
const connectTimeout = 5 * time.Second

// snapshotBackend is an opened persistence gateway plus whatever it needs
// to run and shut down.
type snapshotBackend struct {
	name  string
	store store.SnapshotStore

	// filePath is the snapshot file when the file backend is used.
	filePath string

	// shared marks backends other processes can write to.
	shared bool

	background []func(ctx context.Context)
	closers    []func() error
}

func (b *snapshotBackend) close() error {
	var firstErr error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	b.closers = nil
	return firstErr
}

// openSnapshotBackend opens the gateway selected by cfg.Backend.
func openSnapshotBackend(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (*snapshotBackend, error) {
	b := &snapshotBackend{name: cfg.Backend, shared: true}

	switch cfg.Backend {
	case config.BackendMemory:
		b.store = memory.NewSnapshotStore()
		b.shared = false

	case config.BackendFile:
		fs, err := file.NewSnapshotStore(cfg.Path, logger)
		if err != nil {
			return nil, err
		}
		path, err := fs.Path(cfg.Key)
		if err != nil {
			return nil, err
		}
		b.store = fs
		b.filePath = path

	case config.BackendSQLite:
		db, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		b.store = sqlite.NewSnapshotStore(db, logger)
		b.closers = append(b.closers, db.Close)

	case config.BackendPostgres:
		logger.Info("connecting to postgres", slog.String("url", redact.URL(cfg.DatabaseURL)))
		db, err := postgres.Open(ctx, cfg.DatabaseURL, connectTimeout)
		if err != nil {
			return nil, fmt.Errorf("%s", redact.Error(err))
		}
		b.store = postgres.NewPostgresSnapshotStore(db, logger)
		b.closers = append(b.closers, db.Close)

	case config.BackendBadger:
		bcfg := badger.DefaultConfig(filepath.Join(cfg.Path, "badger"))
		bcfg.Logger = logger
		db, err := badger.Open(bcfg)
		if err != nil {
			return nil, err
		}
		b.store = badger.NewSnapshotStore(db, logger)
		b.closers = append(b.closers, db.Close)
		b.background = append(b.background, func(ctx context.Context) {
			badger.RunGC(ctx, db, bcfg.GCInterval, bcfg.GCDiscardRatio, logger)
		})
		// Badger holds an exclusive directory lock.
		b.shared = false

	case config.BackendRedis:
		rdb, err := redis.NewClient(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("%s", redact.Error(err))
		}
		b.store = redis.NewSnapshotStore(rdb, logger)
		b.closers = append(b.closers, rdb.Close)

	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Backend)
	}

	logger.Info("snapshot store opened",
		slog.String("backend", cfg.Backend),
		slog.String("key", cfg.Key))
	return b, nil
}
