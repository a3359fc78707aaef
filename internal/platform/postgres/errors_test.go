package postgres_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/scry-vocab/internal/platform/postgres"
	"github.com/phrazzld/scry-vocab/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock PgError creation helper
func newPgError(code string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		SchemaName:     "public",
		TableName:      "snapshots",
		ColumnName:     "key",
		ConstraintName: "snapshots_key_check",
	}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{name: "no rows", err: sql.ErrNoRows, expected: store.ErrSnapshotNotFound},
		{name: "check violation", err: newPgError("23514"), expected: store.ErrInvalidKey},
		{name: "not null violation", err: newPgError("23502"), expected: store.ErrInvalidKey},
		{name: "invalid json", err: newPgError("22P02"), expected: store.ErrMalformedSnapshot},
		{name: "missing table", err: newPgError("42P01"), expected: postgres.ErrSchemaMissing},
		{
			name:     "wrapped pg error",
			err:      fmt.Errorf("exec: %w", newPgError("23514")),
			expected: store.ErrInvalidKey,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mapped := postgres.MapError(tt.err)
			assert.ErrorIs(t, mapped, tt.expected)
			assert.ErrorIs(t, mapped, tt.err, "original error must stay reachable")
		})
	}
}

func TestMapError_Passthrough(t *testing.T) {
	t.Parallel()

	assert.NoError(t, postgres.MapError(nil))

	generic := errors.New("connection reset")
	assert.Same(t, generic, postgres.MapError(generic))

	unmapped := newPgError("40001")
	assert.Equal(t, error(unmapped), postgres.MapError(unmapped))
}

func TestIsHelpers(t *testing.T) {
	t.Parallel()

	assert.True(t, postgres.IsCheckConstraintViolation(newPgError("23514")))
	assert.False(t, postgres.IsCheckConstraintViolation(newPgError("23502")))
	assert.True(t, postgres.IsNotNullViolation(newPgError("23502")))
	assert.False(t, postgres.IsNotNullViolation(errors.New("generic")))
	assert.True(t, postgres.IsNotFoundError(sql.ErrNoRows))
	assert.True(t, postgres.IsNotFoundError(store.ErrSnapshotNotFound))
	assert.False(t, postgres.IsNotFoundError(nil))
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	assert.Error(t, postgres.CheckRowsAffected(nil, "k"))
	assert.NoError(t, postgres.CheckRowsAffected(sqlmock.NewResult(0, 1), "k"))

	err := postgres.CheckRowsAffected(sqlmock.NewResult(0, 0), "k")
	assert.ErrorIs(t, err, store.ErrNotFound)

	boom := errors.New("driver does not support rows affected")
	err = postgres.CheckRowsAffected(sqlmock.NewErrorResult(boom), "k")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
