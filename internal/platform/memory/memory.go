// Package memory provides a process-local snapshot store, used for tests and
// for running without any persistence.
package memory

import (
	"context"
	"sync"

	"github.com/phrazzld/scry-vocab/internal/store"
)

const backendName = "memory"

// SnapshotStore keeps snapshots in a map guarded by a mutex.
type SnapshotStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ store.SnapshotStore = (*SnapshotStore)(nil)

// NewSnapshotStore returns an empty store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{data: make(map[string][]byte)}
}

// Get implements store.SnapshotStore.Get
func (s *SnapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.NewStoreError(backendName, "get", key, err)
	}
	if err := store.ValidateKey(key); err != nil {
		return nil, store.NewStoreError(backendName, "get", key, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, store.NewStoreError(backendName, "get", key, store.ErrSnapshotNotFound)
	}
	return append([]byte(nil), v...), nil
}

// Set implements store.SnapshotStore.Set
func (s *SnapshotStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return store.NewStoreError(backendName, "set", key, err)
	}
	if err := store.ValidateKey(key); err != nil {
		return store.NewStoreError(backendName, "set", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	return nil
}
