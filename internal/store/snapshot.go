package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/phrazzld/scry-vocab/internal/domain"
)

// SnapshotStore is the persistence gateway. Implementations must replace the
// whole value atomically on Set; readers never observe a partial snapshot.
type SnapshotStore interface {
	// Get returns the serialized snapshot stored under key.
	// Returns ErrSnapshotNotFound when nothing has been stored yet.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the snapshot stored under key.
	Set(ctx context.Context, key string, value []byte) error
}

// ValidateKey rejects keys no backend can address.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	return nil
}

// EncodeSnapshot serializes the full corpus. The output is a JSON array in
// corpus order; an empty corpus encodes as [] rather than null.
func EncodeSnapshot(c domain.Corpus) ([]byte, error) {
	if c == nil {
		c = domain.Corpus{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses stored bytes back into a corpus. Anything that is
// not a JSON array of entries with unique, non-empty words is reported as
// ErrMalformedSnapshot. A learnedAt stored on an unlearned entry is dropped
// rather than rejected so the rest of the progress survives.
func DecodeSnapshot(data []byte) (domain.Corpus, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrMalformedSnapshot)
	}

	var c domain.Corpus
	if err := json.Unmarshal(trimmed, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	c.Normalize()
	return c, nil
}
