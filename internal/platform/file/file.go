// Package file stores each snapshot as a JSON file in a data directory. Writes
// go to a temporary file that is renamed over the target, so readers see
// either the old or the new snapshot and never a partial one.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/phrazzld/scry-vocab/internal/store"
)

const backendName = "file"

// Extension is appended to the key to form the file name.
const Extension = ".json"

// SnapshotStore is a directory of snapshot files.
type SnapshotStore struct {
	dir    string
	logger *slog.Logger
}

var _ store.SnapshotStore = (*SnapshotStore)(nil)

// NewSnapshotStore creates the directory if needed and returns a store rooted there.
func NewSnapshotStore(dir string, logger *slog.Logger) (*SnapshotStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w", dir, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotStore{
		dir:    dir,
		logger: logger.With(slog.String("component", "snapshot_store"), slog.String("backend", backendName)),
	}, nil
}

// Dir returns the data directory.
func (s *SnapshotStore) Dir() string {
	return s.dir
}

// Path returns the file that holds the snapshot for key.
func (s *SnapshotStore) Path(key string) (string, error) {
	if err := store.ValidateKey(key); err != nil {
		return "", err
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("%w: %q cannot be used as a file name", store.ErrInvalidKey, key)
	}
	return filepath.Join(s.dir, key+Extension), nil
}

// Get implements store.SnapshotStore.Get
func (s *SnapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := s.Path(key)
	if err != nil {
		return nil, store.NewStoreError(backendName, "get", key, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, store.NewStoreError(backendName, "get", key, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, store.NewStoreError(backendName, "get", key, store.ErrSnapshotNotFound)
		}
		return nil, store.NewStoreError(backendName, "get", key, err)
	}
	return data, nil
}

// Set implements store.SnapshotStore.Set
func (s *SnapshotStore) Set(ctx context.Context, key string, value []byte) error {
	path, err := s.Path(key)
	if err != nil {
		return store.NewStoreError(backendName, "set", key, err)
	}
	if err := ctx.Err(); err != nil {
		return store.NewStoreError(backendName, "set", key, err)
	}

	if err := writeAtomic(path, value); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to write snapshot file",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return store.NewStoreError(backendName, "set", key, err)
	}
	return nil
}

func writeAtomic(path string, value []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(value); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
