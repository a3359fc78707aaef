package watch

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/events"
	"github.com/phrazzld/scry-vocab/internal/store"
)

// DetectorPoll identifies changes found by the Poller.
const DetectorPoll = "poll"

// Poller compares the stored snapshot bytes between reads.
type Poller struct {
	snapshots store.SnapshotStore
	key       string
	interval  time.Duration
	emitter   events.EventEmitter
	logger    *slog.Logger

	mu      sync.Mutex
	primed  bool
	present bool
	last    []byte
}

// NewPoller creates a poller for the snapshot under key.
func NewPoller(
	snapshots store.SnapshotStore,
	key string,
	interval time.Duration,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (*Poller, error) {
	if snapshots == nil {
		return nil, domain.NewValidationError("snapshots", "cannot be nil", domain.ErrValidation)
	}
	if emitter == nil {
		return nil, domain.NewValidationError("emitter", "cannot be nil", domain.ErrValidation)
	}
	if err := store.ValidateKey(key); err != nil {
		return nil, domain.NewValidationError("key", "is invalid", err)
	}
	if interval <= 0 {
		return nil, domain.NewValidationError("interval", "must be positive", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		snapshots: snapshots,
		key:       key,
		interval:  interval,
		emitter:   emitter,
		logger:    logger.With(slog.String("component", "snapshot_poller")),
	}, nil
}

// Poll reads the snapshot once and reports whether it differs from the
// previous read. The first successful read only records a baseline. A read
// error leaves the baseline untouched.
func (p *Poller) Poll(ctx context.Context) (bool, error) {
	data, err := p.snapshots.Get(ctx, p.key)
	present := true
	if err != nil {
		if !errors.Is(err, store.ErrSnapshotNotFound) {
			return false, err
		}
		present = false
		data = nil
	}

	p.mu.Lock()
	changed := p.primed && (present != p.present || !bytes.Equal(data, p.last))
	p.primed = true
	p.present = present
	p.last = data
	p.mu.Unlock()

	if !changed {
		return false, nil
	}

	p.logger.Debug("snapshot changed", slog.String("key", p.key), slog.Bool("present", present))
	event, err := events.NewCorpusEvent(events.EventSnapshotChanged, "",
		events.SnapshotChangedPayload{Key: p.key, Detector: DetectorPoll})
	if err != nil {
		return true, err
	}
	return true, p.emitter.EmitEvent(ctx, event)
}

// Run polls every interval until ctx is canceled. Read errors are logged
// and polling continues.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("starting snapshot poller",
		slog.String("key", p.key),
		slog.Duration("interval", p.interval))

	if _, err := p.Poll(ctx); err != nil && ctx.Err() == nil {
		p.logger.Warn("initial snapshot poll failed", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("snapshot poller stopped")
			return nil
		case <-ticker.C:
			if _, err := p.Poll(ctx); err != nil && ctx.Err() == nil {
				p.logger.Warn("snapshot poll failed", slog.String("error", err.Error()))
			}
		}
	}
}
