package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrSnapshotNotFound indicates that no snapshot is stored under the key.
	ErrSnapshotNotFound = fmt.Errorf("%w: snapshot", ErrNotFound)

	// ErrInvalidKey is returned when a snapshot key is empty or unusable by
	// the backend (for example, contains a path separator for the file store).
	ErrInvalidKey = errors.New("invalid snapshot key")

	// ErrMalformedSnapshot is returned when stored bytes cannot be decoded
	// into a valid corpus.
	ErrMalformedSnapshot = errors.New("malformed snapshot")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StoreError is a custom error type for backend failures with additional context.
type StoreError struct {
	Backend   string // The backend that failed (e.g., "sqlite", "redis")
	Operation string // The operation that failed (e.g., "get", "set")
	Key       string // Snapshot key involved
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s of snapshot %q failed: %v", e.Backend, e.Operation, e.Key, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(backend, operation, key string, err error) *StoreError {
	return &StoreError{
		Backend:   backend,
		Operation: operation,
		Key:       key,
		Err:       err,
	}
}
