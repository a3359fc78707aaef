package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/events"
	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/phrazzld/scry-vocab/internal/store"
)

// MarkResult is the outcome of a MarkLearned call.
type MarkResult struct {
	// Corpus is the full corpus after the call. On a write failure it is the
	// optimistic, unpersisted corpus.
	Corpus domain.Corpus

	// Entry is the target entry after the call, nil when it was not found.
	Entry *domain.VocabularyEntry

	// Changed reports whether the entry transitioned to learned.
	Changed bool
}

// LearningService applies learning-state mutations to the corpus.
type LearningService interface {
	// MarkLearned marks the entry identified by word as learned.
	// Returns ErrWordNotFound if no entry has that word.
	// Returns ErrSnapshotWrite, together with the unpersisted result, if the
	// updated corpus could not be written.
	MarkLearned(ctx context.Context, word string) (*MarkResult, error)
}

// Clock supplies the current time.
type Clock func() time.Time

// LearningOption configures a learningServiceImpl.
type LearningOption func(*learningServiceImpl)

// WithClock overrides the time source used for learnedAt.
func WithClock(clock Clock) LearningOption {
	return func(s *learningServiceImpl) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithEmitter sets the emitter notified after every successful mutation.
func WithEmitter(emitter events.EventEmitter) LearningOption {
	return func(s *learningServiceImpl) {
		s.emitter = emitter
	}
}

// learningServiceImpl implements the LearningService interface
type learningServiceImpl struct {
	loader    CorpusLoader
	snapshots store.SnapshotStore
	key       string
	emitter   events.EventEmitter
	now       Clock
	logger    *slog.Logger

	// mu serializes read-modify-write cycles issued by this process.
	mu sync.Mutex
}

// NewLearningService creates a new LearningService.
// It returns an error if any of the required dependencies are nil.
func NewLearningService(
	loader CorpusLoader,
	snapshots store.SnapshotStore,
	key string,
	logger *slog.Logger,
	opts ...LearningOption,
) (LearningService, error) {
	if loader == nil {
		return nil, domain.NewValidationError("loader", "cannot be nil", domain.ErrValidation)
	}
	if snapshots == nil {
		return nil, domain.NewValidationError("snapshots", "cannot be nil", domain.ErrValidation)
	}
	if err := store.ValidateKey(key); err != nil {
		return nil, domain.NewValidationError("key", "is invalid", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &learningServiceImpl{
		loader:    loader,
		snapshots: snapshots,
		key:       key,
		now:       time.Now,
		logger:    logger.With(slog.String("component", "learning_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// MarkLearned implements LearningService.MarkLearned
func (s *learningServiceImpl) MarkLearned(ctx context.Context, word string) (*MarkResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("word", word))

	s.mu.Lock()
	defer s.mu.Unlock()

	// Always start from the freshest snapshot, never a cached view.
	corpus := s.loader.Load(ctx)

	idx := -1
	if strings.TrimSpace(word) != "" {
		idx = corpus.IndexOf(word)
	}
	if idx < 0 {
		log.Info("word not found, nothing to mark")
		return &MarkResult{Corpus: corpus}, NewLearningServiceError(
			"mark_learned", word, "no entry with this word", ErrWordNotFound)
	}

	entry := &corpus[idx]
	if !entry.MarkLearned(s.now()) {
		log.Debug("word already learned")
		current := entry.Clone()
		return &MarkResult{Corpus: corpus, Entry: &current}, nil
	}

	result := &MarkResult{Corpus: corpus, Changed: true}
	updated := entry.Clone()
	result.Entry = &updated

	data, err := store.EncodeSnapshot(corpus)
	if err == nil {
		err = s.snapshots.Set(ctx, s.key, data)
	}
	if err != nil {
		log.Error("failed to persist learned word",
			slog.String("key", s.key),
			slog.String("error", err.Error()))
		return result, NewLearningServiceError(
			"mark_learned", word, "snapshot write failed", fmt.Errorf("%w: %w", ErrSnapshotWrite, err))
	}

	log.Info("word marked learned", slog.Int64("learned_at", updated.LearnedAtMillis()))
	s.emitLearned(ctx, log, updated)
	return result, nil
}

func (s *learningServiceImpl) emitLearned(ctx context.Context, log *slog.Logger, entry domain.VocabularyEntry) {
	if s.emitter == nil {
		return
	}
	event, err := events.NewCorpusEvent(events.EventWordLearned, entry.Word,
		events.WordLearnedPayload{LearnedAt: entry.LearnedAtMillis()})
	if err != nil {
		log.Error("failed to build word learned event", slog.String("error", err.Error()))
		return
	}
	// The write already succeeded; a handler failure does not undo it.
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.Warn("word learned event handler failed", slog.String("error", err.Error()))
	}
}
