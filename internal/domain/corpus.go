package domain

import "fmt"

// Corpus is the full ordered collection of entries, learned and unlearned.
// Order is insertion order and is preserved by every operation.
type Corpus []VocabularyEntry

// Clone returns a deep copy of the corpus.
func (c Corpus) Clone() Corpus {
	if c == nil {
		return nil
	}
	out := make(Corpus, len(c))
	for i, e := range c {
		out[i] = e.Clone()
	}
	return out
}

// IndexOf returns the position of word in the corpus, or -1.
func (c Corpus) IndexOf(word string) int {
	for i := range c {
		if c[i].Word == word {
			return i
		}
	}
	return -1
}

// Normalize applies VocabularyEntry.Normalize to every entry in place and
// returns the words that were repaired.
func (c Corpus) Normalize() []string {
	var repaired []string
	for i := range c {
		if c[i].Normalize() {
			repaired = append(repaired, c[i].Word)
		}
	}
	return repaired
}

// Words returns the identities in corpus order.
func (c Corpus) Words() []string {
	words := make([]string, len(c))
	for i, e := range c {
		words[i] = e.Word
	}
	return words
}

// Validate checks every entry and that no word appears twice.
func (c Corpus) Validate() error {
	seen := make(map[string]int, len(c))
	for i, e := range c {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		if first, ok := seen[e.Word]; ok {
			return NewValidationError(
				"word",
				fmt.Sprintf("%q appears at positions %d and %d", e.Word, first, i),
				ErrDuplicateWord,
			)
		}
		seen[e.Word] = i
	}
	return nil
}

// ValidateReference applies Validate and additionally requires every entry
// to be unlearned with no LearnedAt, as shipped seed data must be.
func (c Corpus) ValidateReference() error {
	if err := c.Validate(); err != nil {
		return err
	}
	for _, e := range c {
		if e.Learned || e.LearnedAt != nil {
			return NewValidationError("learned", fmt.Sprintf("set on %q", e.Word), ErrUnexpectedLearnedState)
		}
	}
	return nil
}
