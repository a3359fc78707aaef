package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/phrazzld/scry-vocab/internal/store"
)

// ReferenceCorpus supplies the read-only seed corpus. Corpus must return a
// copy the caller may modify.
type ReferenceCorpus interface {
	Corpus() domain.Corpus
}

// CorpusLoader yields the current authoritative corpus.
type CorpusLoader interface {
	Load(ctx context.Context) domain.Corpus
}

// Source says where a reconciled corpus came from.
type Source string

const (
	// SourcePersisted means the snapshot in the store was used.
	SourcePersisted Source = "persisted"

	// SourceReference means the reference corpus was used as a fallback.
	SourceReference Source = "reference"
)

// Reconciliation is the outcome of one reconcile pass.
type Reconciliation struct {
	Corpus domain.Corpus
	Source Source

	// Failure is the swallowed load error, nil when the snapshot was used
	// or simply absent.
	Failure *LoadFailure
}

// Reconciler combines the persisted snapshot with the reference corpus.
type Reconciler struct {
	snapshots store.SnapshotStore
	reference ReferenceCorpus
	key       string
	logger    *slog.Logger
}

var _ CorpusLoader = (*Reconciler)(nil)

// NewReconciler creates a Reconciler reading the snapshot stored under key.
// It returns an error if any of the required dependencies are missing.
func NewReconciler(
	snapshots store.SnapshotStore,
	reference ReferenceCorpus,
	key string,
	logger *slog.Logger,
) (*Reconciler, error) {
	if snapshots == nil {
		return nil, domain.NewValidationError("snapshots", "cannot be nil", domain.ErrValidation)
	}
	if reference == nil {
		return nil, domain.NewValidationError("reference", "cannot be nil", domain.ErrValidation)
	}
	if err := store.ValidateKey(key); err != nil {
		return nil, domain.NewValidationError("key", "is invalid", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Reconciler{
		snapshots: snapshots,
		reference: reference,
		key:       key,
		logger:    logger.With(slog.String("component", "reconciler")),
	}, nil
}

// Key returns the snapshot key this reconciler reads.
func (r *Reconciler) Key() string {
	return r.key
}

// Load returns the authoritative corpus. It never fails: an absent,
// unreadable or malformed snapshot yields a fresh copy of the reference corpus.
func (r *Reconciler) Load(ctx context.Context) domain.Corpus {
	return r.Reconcile(ctx).Corpus
}

// Reconcile is Load with diagnostics about which source won and why.
func (r *Reconciler) Reconcile(ctx context.Context) Reconciliation {
	log := logger.FromContextOrDefault(ctx, r.logger)

	data, err := r.snapshots.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, store.ErrSnapshotNotFound) {
			log.Debug("no persisted snapshot, using reference corpus",
				slog.String("key", r.key))
			return r.fallback(nil)
		}
		log.Warn("failed to read snapshot, using reference corpus",
			slog.String("key", r.key),
			slog.String("error", err.Error()))
		return r.fallback(&LoadFailure{Key: r.key, Err: err})
	}

	corpus, err := store.DecodeSnapshot(data)
	if err != nil {
		log.Warn("persisted snapshot is malformed, using reference corpus",
			slog.String("key", r.key),
			slog.Int("bytes", len(data)),
			slog.String("error", err.Error()))
		return r.fallback(&LoadFailure{Key: r.key, Err: err})
	}

	log.Debug("loaded persisted snapshot",
		slog.String("key", r.key),
		slog.Int("entries", len(corpus)))
	return Reconciliation{Corpus: corpus, Source: SourcePersisted}
}

func (r *Reconciler) fallback(failure *LoadFailure) Reconciliation {
	return Reconciliation{
		Corpus:  r.reference.Corpus(),
		Source:  SourceReference,
		Failure: failure,
	}
}
