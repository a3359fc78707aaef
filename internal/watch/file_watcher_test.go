package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phrazzld/scry-vocab/internal/events"
	"github.com/phrazzld/scry-vocab/internal/platform/file"
	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/phrazzld/scry-vocab/internal/watch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcher_ReportsAtomicWrites(t *testing.T) {
	t.Parallel()
	snapshots, err := file.NewSnapshotStore(t.TempDir(), logger.Discard())
	require.NoError(t, err)
	path, err := snapshots.Path("oxford3000")
	require.NoError(t, err)

	emitter := events.NewInMemoryEventEmitter(logger.Discard())
	ch, unsubscribe := emitter.Subscribe(8)
	defer unsubscribe()

	w, err := watch.NewFileWatcher(path, "oxford3000", 20*time.Millisecond, emitter, logger.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(snapshots.Dir(), "other.json"), []byte(`[]`), 0o600))
	require.NoError(t, snapshots.Set(context.Background(), "oxford3000", []byte(`[]`)))

	select {
	case e := <-ch:
		var payload events.SnapshotChangedPayload
		require.NoError(t, e.UnmarshalPayload(&payload))
		assert.Equal(t, watch.DetectorFSNotify, payload.Detector)
		assert.Equal(t, "oxford3000", payload.Key)
	case <-time.After(3 * time.Second):
		t.Fatal("file watcher did not report the write")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("file watcher did not stop")
	}
	assert.NoError(t, w.Close(), "Close after Run is a no-op")
}

func TestNewFileWatcher_Validation(t *testing.T) {
	t.Parallel()
	emitter := events.NewInMemoryEventEmitter(logger.Discard())

	_, err := watch.NewFileWatcher("", "k", 0, emitter, nil)
	assert.Error(t, err)
	_, err = watch.NewFileWatcher(filepath.Join(t.TempDir(), "k.json"), "k", 0, nil, nil)
	assert.Error(t, err)
	_, err = watch.NewFileWatcher(filepath.Join(t.TempDir(), "missing", "k.json"), "k", 0, emitter, nil)
	assert.Error(t, err, "the directory must exist")
}
