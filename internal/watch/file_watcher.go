package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/events"
)

// DetectorFSNotify identifies changes found by the FileWatcher.
const DetectorFSNotify = "fsnotify"

// DefaultDebounce coalesces the burst of events produced by one atomic write.
const DefaultDebounce = 50 * time.Millisecond

// FileWatcher emits SnapshotChanged when the snapshot file is written,
// replaced or removed. It watches the parent directory because atomic
// writes replace the file, which drops a watch on the file itself.
type FileWatcher struct {
	path     string
	key      string
	debounce time.Duration
	emitter  events.EventEmitter
	logger   *slog.Logger
	watcher  *fsnotify.Watcher

	closeOnce sync.Once
}

// NewFileWatcher starts watching the directory that contains path. The
// caller must call Run to process events and Close when done.
func NewFileWatcher(
	path string,
	key string,
	debounce time.Duration,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (*FileWatcher, error) {
	if path == "" {
		return nil, domain.NewValidationError("path", "is required", domain.ErrValidation)
	}
	if emitter == nil {
		return nil, domain.NewValidationError("emitter", "cannot be nil", domain.ErrValidation)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve snapshot path %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch directory %s: %w", filepath.Dir(abs), err)
	}

	return &FileWatcher{
		path:     abs,
		key:      key,
		debounce: debounce,
		emitter:  emitter,
		logger:   logger.With(slog.String("component", "file_watcher"), slog.String("path", abs)),
		watcher:  watcher,
	}, nil
}

// Run processes file events until ctx is canceled or Close is called.
func (w *FileWatcher) Run(ctx context.Context) error {
	defer func() { _ = w.Close() }()
	w.logger.Info("watching snapshot file")

	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			w.emit(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", slog.String("error", err.Error()))
		}
	}
}

// Close stops the underlying fsnotify watcher. It is safe to call more than once.
func (w *FileWatcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.watcher.Close()
	})
	return err
}

func (w *FileWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)
}

func (w *FileWatcher) emit(ctx context.Context) {
	w.logger.Debug("snapshot file changed")
	event, err := events.NewCorpusEvent(events.EventSnapshotChanged, "",
		events.SnapshotChangedPayload{Key: w.key, Detector: DetectorFSNotify})
	if err != nil {
		w.logger.Error("failed to build snapshot changed event", slog.String("error", err.Error()))
		return
	}
	if err := w.emitter.EmitEvent(ctx, event); err != nil {
		w.logger.Warn("snapshot changed handler failed", slog.String("error", err.Error()))
	}
}
