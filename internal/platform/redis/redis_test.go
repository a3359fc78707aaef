package redis_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/phrazzld/scry-vocab/internal/platform/redis"
	"github.com/phrazzld/scry-vocab/internal/store"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient answers Get/Set from a map using go-redis result types.
type fakeClient struct {
	mu   sync.Mutex
	data map[string]string
	err  error
}

func (f *fakeClient) Get(ctx context.Context, key string) *goredis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := goredis.NewStringCmd(ctx, "get", key)
	switch v, ok := f.data[key]; {
	case f.err != nil:
		cmd.SetErr(f.err)
	case !ok:
		cmd.SetErr(goredis.Nil)
	default:
		cmd.SetVal(v)
	}
	return cmd
}

func (f *fakeClient) Set(ctx context.Context, key string, value interface{}, _ time.Duration) *goredis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := goredis.NewStatusCmd(ctx, "set", key, value)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	f.data[key] = string(value.([]byte))
	cmd.SetVal("OK")
	return cmd
}

func TestSnapshotStore_Fake(t *testing.T) {
	t.Parallel()
	client := &fakeClient{data: map[string]string{}}
	s := redis.NewSnapshotStore(client, logger.Discard())
	ctx := context.Background()

	_, err := s.Get(ctx, "oxford3000")
	assert.ErrorIs(t, err, store.ErrSnapshotNotFound)

	require.NoError(t, s.Set(ctx, "oxford3000", []byte(`[]`)))
	assert.Contains(t, client.data, redis.KeyPrefix+"oxford3000")

	got, err := s.Get(ctx, "oxford3000")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	boom := errors.New("connection reset by peer")
	client.err = boom
	_, err = s.Get(ctx, "oxford3000")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, s.Set(ctx, "oxford3000", []byte(`[]`)), boom)

	assert.ErrorIs(t, s.Set(ctx, "", nil), store.ErrInvalidKey)
}

func TestNewClient_RequiresAddr(t *testing.T) {
	t.Parallel()
	_, err := redis.NewClient(context.Background(), " ")
	assert.Error(t, err)
}

// TestSnapshotStore_Live runs against a real server when SCRY_TEST_REDIS_ADDR is set.
func TestSnapshotStore_Live(t *testing.T) {
	addr := os.Getenv("SCRY_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SCRY_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()

	rdb, err := redis.NewClient(ctx, addr)
	require.NoError(t, err)
	defer func() { _ = rdb.Close() }()

	key := "live-test-" + time.Now().Format("150405.000000000")
	t.Cleanup(func() { rdb.Del(context.Background(), redis.KeyPrefix+key) })

	s := redis.NewSnapshotStore(rdb, logger.Discard())
	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, store.ErrSnapshotNotFound)

	require.NoError(t, s.Set(ctx, key, []byte(`[{"word":"abandon"}]`)))
	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `[{"word":"abandon"}]`, string(got))
}
