package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/events"
	"github.com/phrazzld/scry-vocab/internal/projection"
)

// CorpusCache holds the one in-memory copy of the corpus that every view is
// projected from. It loads lazily through a CorpusLoader and is invalidated
// by events, so both views always agree with each other.
type CorpusCache struct {
	loader CorpusLoader
	logger *slog.Logger

	mu         sync.Mutex
	corpus     domain.Corpus
	loaded     bool
	generation uint64
}

var _ events.EventHandler = (*CorpusCache)(nil)

// NewCorpusCache creates an empty cache backed by loader.
func NewCorpusCache(loader CorpusLoader, logger *slog.Logger) (*CorpusCache, error) {
	if loader == nil {
		return nil, domain.NewValidationError("loader", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CorpusCache{
		loader: loader,
		logger: logger.With(slog.String("component", "corpus_cache")),
	}, nil
}

// Current returns a copy of the cached corpus, loading it on first use or
// after an invalidation.
func (c *CorpusCache) Current(ctx context.Context) domain.Corpus {
	c.mu.Lock()
	if c.loaded {
		out := c.corpus.Clone()
		c.mu.Unlock()
		return out
	}
	gen := c.generation
	c.mu.Unlock()

	corpus := c.loader.Load(ctx)

	c.mu.Lock()
	// An invalidation that raced with the load wins; the next read reloads.
	if c.generation == gen {
		c.corpus = corpus
		c.loaded = true
	}
	c.mu.Unlock()

	return corpus.Clone()
}

// Invalidate drops the cached copy.
func (c *CorpusCache) Invalidate() {
	c.mu.Lock()
	c.corpus = nil
	c.loaded = false
	c.generation++
	c.mu.Unlock()
}

// HandleEvent invalidates the cache on any corpus event.
func (c *CorpusCache) HandleEvent(_ context.Context, event *events.CorpusEvent) error {
	c.logger.Debug("invalidating corpus cache",
		slog.String("event_type", string(event.Type)),
		slog.String("word", event.Word))
	c.Invalidate()
	return nil
}

// ToLearn returns the unlearned view.
func (c *CorpusCache) ToLearn(ctx context.Context) []domain.VocabularyEntry {
	return projection.Unlearned(c.Current(ctx))
}

// Learned returns the learned view, most recent first.
func (c *CorpusCache) Learned(ctx context.Context) []domain.VocabularyEntry {
	return projection.Learned(c.Current(ctx))
}

// Progress summarizes the cached corpus.
func (c *CorpusCache) Progress(ctx context.Context) projection.Progress {
	return projection.Summarize(c.Current(ctx))
}
