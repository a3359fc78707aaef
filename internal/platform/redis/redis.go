// Package redis stores snapshots as plain string values in Redis. SET
// replaces a value atomically, which is all the gateway needs.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/phrazzld/scry-vocab/internal/store"
)

const backendName = "redis"

// KeyPrefix namespaces snapshot keys in a shared Redis.
const KeyPrefix = "scry-vocab:snapshot:"

// Client is the subset of the go-redis API the store uses.
type Client interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
}

// NewClient connects to addr and verifies the connection with a ping.
func NewClient(ctx context.Context, addr string) (*goredis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// SnapshotStore implements store.SnapshotStore on Redis.
type SnapshotStore struct {
	rdb    Client
	logger *slog.Logger
}

var _ store.SnapshotStore = (*SnapshotStore)(nil)

// NewSnapshotStore wraps a connected client. The caller keeps ownership of rdb.
func NewSnapshotStore(rdb Client, logger *slog.Logger) *SnapshotStore {
	if rdb == nil {
		panic("redis client cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotStore{
		rdb:    rdb,
		logger: logger.With(slog.String("component", "snapshot_store"), slog.String("backend", backendName)),
	}
}

// Get implements store.SnapshotStore.Get
func (s *SnapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := store.ValidateKey(key); err != nil {
		return nil, store.NewStoreError(backendName, "get", key, err)
	}

	value, err := s.rdb.Get(ctx, KeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
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

	if err := s.rdb.Set(ctx, KeyPrefix+key, value, 0).Err(); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to write snapshot",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return store.NewStoreError(backendName, "set", key, err)
	}
	return nil
}
