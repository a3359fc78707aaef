package corpus

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/phrazzld/scry-vocab/internal/domain"
)

//go:embed data/oxford3000.json
var embeddedOxford3000 []byte

// EmbeddedSource names the built-in corpus in logs.
const EmbeddedSource = "embedded:oxford3000"

// Format identifies how a corpus document is encoded.
type Format string

// Supported corpus formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnsupportedFormat is returned for corpus files that are neither JSON nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported corpus format")

// Reference is an immutable reference corpus. Every accessor hands out a
// copy so callers can never alter the seed data.
type Reference struct {
	entries domain.Corpus
	source  string
}

// Embedded returns the reference corpus compiled into the binary.
func Embedded() (*Reference, error) {
	return Parse(embeddedOxford3000, FormatJSON, EmbeddedSource)
}

// LoadFile reads a reference corpus from disk. The format is chosen from
// the file extension.
func LoadFile(path string) (*Reference, error) {
	var format Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		format = FormatJSON
	case ".yaml", ".yml":
		format = FormatYAML
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file: %w", err)
	}
	return Parse(data, format, path)
}

// Parse decodes and validates a reference corpus document.
func Parse(data []byte, format Format, source string) (*Reference, error) {
	var entries domain.Corpus
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("failed to decode JSON corpus %s: %w", source, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("failed to decode YAML corpus %s: %w", source, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if len(entries) == 0 {
		return nil, domain.NewValidationError("corpus", "has no entries", domain.ErrValidation)
	}
	if err := entries.ValidateReference(); err != nil {
		return nil, fmt.Errorf("invalid corpus %s: %w", source, err)
	}

	return &Reference{entries: entries, source: source}, nil
}

// Corpus returns a fresh copy of the reference entries.
func (r *Reference) Corpus() domain.Corpus {
	return r.entries.Clone()
}

// Len returns the number of entries.
func (r *Reference) Len() int {
	return len(r.entries)
}

// Source describes where the corpus was loaded from.
func (r *Reference) Source() string {
	return r.source
}
