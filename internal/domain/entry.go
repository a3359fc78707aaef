package domain

import (
	"strings"
	"time"
)

// VocabularyEntry is one item of the corpus. Word is its identity; the
// display fields never change after the entry is created from the reference
// corpus. Learned and LearnedAt are the only mutable state.
type VocabularyEntry struct {
	Word          string `json:"word" yaml:"word"`
	Pronunciation string `json:"pronunciation" yaml:"pronunciation"`
	Meaning       string `json:"meaning" yaml:"meaning"`
	Example       string `json:"example" yaml:"example"`
	Learned       bool   `json:"learned" yaml:"learned"`

	// LearnedAt is epoch milliseconds, nil until the entry is learned.
	LearnedAt *int64 `json:"learnedAt,omitempty" yaml:"learnedAt,omitempty"`
}

// Validate checks that the entry carries a usable identity.
func (e VocabularyEntry) Validate() error {
	if strings.TrimSpace(e.Word) == "" {
		return NewValidationError("word", "is required", ErrEmptyWord)
	}
	return nil
}

// MarkLearned transitions the entry to learned at the given instant and
// reports whether anything changed. An entry that is already learned is left
// untouched, so its timestamp never moves once recorded.
func (e *VocabularyEntry) MarkLearned(at time.Time) bool {
	if e.Learned {
		return false
	}
	ms := at.UnixMilli()
	e.Learned = true
	e.LearnedAt = &ms
	return true
}

// Normalize drops a LearnedAt left on an unlearned entry and reports whether
// it did. A learned entry without LearnedAt is kept; it sorts as 0.
func (e *VocabularyEntry) Normalize() bool {
	if e.Learned || e.LearnedAt == nil {
		return false
	}
	e.LearnedAt = nil
	return true
}

// LearnedAtMillis returns LearnedAt, or 0 when it is missing.
func (e VocabularyEntry) LearnedAtMillis() int64 {
	if e.LearnedAt == nil {
		return 0
	}
	return *e.LearnedAt
}

// LearnedTime returns LearnedAt as a UTC time.
func (e VocabularyEntry) LearnedTime() (time.Time, bool) {
	if e.LearnedAt == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*e.LearnedAt).UTC(), true
}

// Clone returns a deep copy; the LearnedAt pointer is never shared.
func (e VocabularyEntry) Clone() VocabularyEntry {
	if e.LearnedAt != nil {
		ms := *e.LearnedAt
		e.LearnedAt = &ms
	}
	return e
}
