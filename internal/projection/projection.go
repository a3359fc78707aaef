// Package projection derives the "to learn" and "learned" views from a
// corpus. Every function is pure: the input is never modified and the same
// input always yields the same output.
package projection

import (
	"sort"

	"github.com/phrazzld/scry-vocab/internal/domain"
)

// Unlearned returns the entries not yet learned, in corpus order.
func Unlearned(c domain.Corpus) []domain.VocabularyEntry {
	out := make([]domain.VocabularyEntry, 0, len(c))
	for _, e := range c {
		if !e.Learned {
			out = append(out, e.Clone())
		}
	}
	return out
}

// Learned returns the learned entries, most recently learned first. A
// missing LearnedAt sorts as 0. Ties keep corpus order.
func Learned(c domain.Corpus) []domain.VocabularyEntry {
	out := make([]domain.VocabularyEntry, 0, len(c))
	for _, e := range c {
		if e.Learned {
			out = append(out, e.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LearnedAtMillis() > out[j].LearnedAtMillis()
	})
	return out
}

// Progress summarizes how far through the corpus a learner is.
type Progress struct {
	Total     int `json:"total"`
	Learned   int `json:"learned"`
	Unlearned int `json:"unlearned"`

	// LastLearnedAt is the newest learnedAt in epoch ms, nil when nothing is learned.
	LastLearnedAt *int64 `json:"lastLearnedAt,omitempty"`
}

// Percent returns the learned share of the corpus in [0, 100].
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Learned) * 100 / float64(p.Total)
}

// Summarize counts learned and unlearned entries.
func Summarize(c domain.Corpus) Progress {
	p := Progress{Total: len(c)}
	for _, e := range c {
		if !e.Learned {
			p.Unlearned++
			continue
		}
		p.Learned++
		if e.LearnedAt != nil && (p.LastLearnedAt == nil || *e.LearnedAt > *p.LastLearnedAt) {
			ms := *e.LearnedAt
			p.LastLearnedAt = &ms
		}
	}
	return p
}
