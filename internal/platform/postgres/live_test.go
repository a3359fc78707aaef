package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/phrazzld/scry-vocab/internal/platform/postgres"
	"github.com/phrazzld/scry-vocab/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPostgresSnapshotStore_Live exercises the migrations and the store
// against a real database when SCRY_TEST_DATABASE_URL is set.
func TestPostgresSnapshotStore_Live(t *testing.T) {
	url := os.Getenv("SCRY_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("SCRY_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	db, err := postgres.Open(ctx, url, 5*time.Second)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	require.NoError(t, postgres.Migrate(ctx, db, postgres.MigrateUp, logger.Discard()))

	s := postgres.NewPostgresSnapshotStore(db, logger.Discard())
	key := "live-test-" + time.Now().Format("150405.000000000")
	t.Cleanup(func() {
		_, _ = db.ExecContext(context.Background(), `DELETE FROM snapshots WHERE key = $1`, key)
	})

	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, store.ErrSnapshotNotFound)

	require.NoError(t, s.Set(ctx, key, []byte(`[{"word":"abandon","learned":true,"learnedAt":100}]`)))
	require.NoError(t, s.Set(ctx, key, []byte(`[{"word":"abandon","learned":true,"learnedAt":200}]`)))

	data, err := s.Get(ctx, key)
	require.NoError(t, err)
	c, err := store.DecodeSnapshot(data)
	require.NoError(t, err)
	require.Len(t, c, 1)
	assert.Equal(t, int64(200), c[0].LearnedAtMillis())
}
