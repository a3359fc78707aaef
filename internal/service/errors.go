package service

import (
	"errors"
	"fmt"
)

// Sentinel errors callers check with errors.Is. None of them is fatal: the
// learner always has a usable corpus to look at.
var (
	// ErrWordNotFound indicates the mutation target is not in the current
	// corpus, typically a stale reference from a view computed before the
	// store was reset. The corpus is left unchanged.
	// API layer should map this to HTTP 404 Not Found.
	ErrWordNotFound = errors.New("word not found in corpus")

	// ErrSnapshotWrite indicates the updated corpus could not be persisted.
	// The write is not retried.
	// API layer should map this to HTTP 503 Service Unavailable.
	ErrSnapshotWrite = errors.New("failed to persist corpus snapshot")
)

// LearningServiceError is a custom error type for mutation failures.
type LearningServiceError struct {
	Operation string
	Word      string
	Message   string
	Err       error
}

// Error implements the error interface for LearningServiceError.
func (e *LearningServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("learning service %s %q failed: %s: %v", e.Operation, e.Word, e.Message, e.Err)
	}
	return fmt.Sprintf("learning service %s %q failed: %s", e.Operation, e.Word, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *LearningServiceError) Unwrap() error {
	return e.Err
}

// NewLearningServiceError creates a new LearningServiceError.
func NewLearningServiceError(operation, word, message string, err error) *LearningServiceError {
	return &LearningServiceError{
		Operation: operation,
		Word:      word,
		Message:   message,
		Err:       err,
	}
}

// LoadFailure records why the reconciler fell back to the reference corpus.
// It is reported, never returned from Load.
type LoadFailure struct {
	Key string
	Err error
}

// Error implements the error interface for LoadFailure.
func (e *LoadFailure) Error() string {
	return fmt.Sprintf("load of snapshot %q failed: %v", e.Key, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *LoadFailure) Unwrap() error {
	return e.Err
}
