package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/service"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrWordNotFound):
		return http.StatusNotFound

	// A failed write is not retried; the client may try again later.
	case errors.Is(err, service.ErrSnapshotWrite):
		return http.StatusServiceUnavailable

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrEmptyWord):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, service.ErrWordNotFound):
		return "Word not found"
	case errors.Is(err, service.ErrSnapshotWrite):
		return "Learning progress could not be saved"
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrEmptyWord):
		return "Invalid word"
	default:
		return "An unexpected error occurred"
	}
}
