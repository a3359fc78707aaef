package api

import (
	"time"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/projection"
)

// WordResponse is one vocabulary entry as returned to clients.
type WordResponse struct {
	Word          string     `json:"word"`
	Pronunciation string     `json:"pronunciation"`
	Meaning       string     `json:"meaning"`
	Example       string     `json:"example"`
	Learned       bool       `json:"learned"`
	LearnedAt     *int64     `json:"learnedAt,omitempty"`
	LearnedTime   *time.Time `json:"learnedTime,omitempty"`
}

// WordListResponse wraps a projected view.
type WordListResponse struct {
	Words []WordResponse `json:"words"`
	Count int            `json:"count"`
}

// MarkLearnedResponse is returned by POST /api/words/{word}/learned.
type MarkLearnedResponse struct {
	Word    WordResponse `json:"word"`
	Changed bool         `json:"changed"`
}

// ProgressResponse summarizes learning progress.
type ProgressResponse struct {
	Total         int     `json:"total"`
	Learned       int     `json:"learned"`
	Unlearned     int     `json:"unlearned"`
	Percent       float64 `json:"percent"`
	LastLearnedAt *int64  `json:"lastLearnedAt,omitempty"`
}

// wordPathParams validates the {word} path parameter.
type wordPathParams struct {
	Word string `validate:"required,max=128"`
}

func wordToResponse(e domain.VocabularyEntry) WordResponse {
	resp := WordResponse{
		Word:          e.Word,
		Pronunciation: e.Pronunciation,
		Meaning:       e.Meaning,
		Example:       e.Example,
		Learned:       e.Learned,
		LearnedAt:     e.Clone().LearnedAt,
	}
	if t, ok := e.LearnedTime(); ok {
		resp.LearnedTime = &t
	}
	return resp
}

func wordsToResponse(entries []domain.VocabularyEntry) WordListResponse {
	words := make([]WordResponse, len(entries))
	for i, e := range entries {
		words[i] = wordToResponse(e)
	}
	return WordListResponse{Words: words, Count: len(words)}
}

func progressToResponse(p projection.Progress) ProgressResponse {
	return ProgressResponse{
		Total:         p.Total,
		Learned:       p.Learned,
		Unlearned:     p.Unlearned,
		Percent:       p.Percent(),
		LastLearnedAt: p.LastLearnedAt,
	}
}
