package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/phrazzld/scry-vocab/internal/platform/postgres"
	"github.com/phrazzld/scry-vocab/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	selectPattern = `SELECT value FROM snapshots WHERE key = \$1`
	upsertPattern = `INSERT INTO snapshots \(key, value, updated_at\)`
)

func newMockStore(t *testing.T) (*postgres.PostgresSnapshotStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return postgres.NewPostgresSnapshotStore(db, logger.Discard()), mock
}

func TestNewPostgresSnapshotStore_NilDBPanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { postgres.NewPostgresSnapshotStore(nil, nil) })
}

func TestPostgresSnapshotStore_Get(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)
		payload := []byte(`[{"word":"abandon","pronunciation":"","meaning":"","example":"","learned":false}]`)
		mock.ExpectQuery(selectPattern).
			WithArgs("oxford3000").
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(payload))

		got, err := s.Get(context.Background(), "oxford3000")
		require.NoError(t, err)
		assert.Equal(t, payload, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)
		mock.ExpectQuery(selectPattern).
			WithArgs("oxford3000").
			WillReturnRows(sqlmock.NewRows([]string{"value"}))

		_, err := s.Get(context.Background(), "oxford3000")
		assert.ErrorIs(t, err, store.ErrSnapshotNotFound)
		var storeErr *store.StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "get", storeErr.Operation)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)
		boom := errors.New("connection refused")
		mock.ExpectQuery(selectPattern).WithArgs("oxford3000").WillReturnError(boom)

		_, err := s.Get(context.Background(), "oxford3000")
		assert.ErrorIs(t, err, boom)
		assert.False(t, store.IsNotFoundError(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid key", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		_, err := s.Get(context.Background(), "")
		assert.ErrorIs(t, err, store.ErrInvalidKey)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresSnapshotStore_Set(t *testing.T) {
	t.Parallel()
	payload := []byte(`[]`)

	t.Run("commits upsert", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec(upsertPattern).
			WithArgs("oxford3000", payload).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, s.Set(context.Background(), "oxford3000", payload))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on exec error", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec(upsertPattern).
			WithArgs("oxford3000", payload).
			WillReturnError(newPgError("23514"))
		mock.ExpectRollback()

		err := s.Set(context.Background(), "oxford3000", payload)
		assert.ErrorIs(t, err, store.ErrInvalidKey)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when nothing was written", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec(upsertPattern).
			WithArgs("oxford3000", payload).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := s.Set(context.Background(), "oxford3000", payload)
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)
		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		err := s.Set(context.Background(), "oxford3000", payload)
		assert.ErrorIs(t, err, store.ErrTransactionFailed)
		var storeErr *store.StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "postgres", storeErr.Backend)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("commit failure", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec(upsertPattern).
			WithArgs("oxford3000", payload).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

		err := s.Set(context.Background(), "oxford3000", payload)
		assert.ErrorIs(t, err, store.ErrTransactionFailed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMigrate_UnknownCommand(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	err = postgres.Migrate(context.Background(), db, "sideways", logger.Discard())
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`unknown migration command: sideways`), err.Error())
}
