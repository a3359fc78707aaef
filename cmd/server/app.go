package main

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/phrazzld/scry-vocab/internal/config"
	"github.com/phrazzld/scry-vocab/internal/corpus"
	"github.com/phrazzld/scry-vocab/internal/events"
	"github.com/phrazzld/scry-vocab/internal/service"
	"github.com/phrazzld/scry-vocab/internal/watch"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	backend   *snapshotBackend
	reference *corpus.Reference

	// Event system
	eventEmitter *events.InMemoryEventEmitter

	reconciler      *service.Reconciler
	cache           *service.CorpusCache
	learningService service.LearningService
}

// newApplication creates a new application instance with all dependencies initialized.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	app.reference, err = loadReference(cfg.Corpus)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference corpus: %w", err)
	}
	logger.Info("reference corpus loaded",
		slog.String("source", app.reference.Source()),
		slog.Int("entries", app.reference.Len()))

	app.backend, err = openSnapshotBackend(ctx, cfg.Store, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)

	app.reconciler, err = service.NewReconciler(app.backend.store, app.reference, cfg.Store.Key, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create reconciler: %w", err)
	}

	app.cache, err = service.NewCorpusCache(app.reconciler, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create corpus cache: %w", err)
	}
	app.eventEmitter.RegisterHandler(app.cache)

	app.learningService, err = service.NewLearningService(
		app.reconciler,
		app.backend.store,
		cfg.Store.Key,
		logger,
		service.WithEmitter(app.eventEmitter),
	)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create learning service: %w", err)
	}

	return app, nil
}

func loadReference(cfg config.CorpusConfig) (*corpus.Reference, error) {
	if cfg.Path != "" {
		return corpus.LoadFile(cfg.Path)
	}
	return corpus.Embedded()
}

// run serves HTTP and runs change detection until ctx is canceled or one
// of them fails.
func (app *application) run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.startHTTPServer(ctx, app.setupRouter())
	})

	if err := app.startDetectors(ctx, g); err != nil {
		return err
	}

	return g.Wait()
}

// startDetectors runs the poller, the file watcher and backend background
// tasks in g.
func (app *application) startDetectors(ctx context.Context, g *errgroup.Group) error {
	if app.backend.shared {
		poller, err := watch.NewPoller(app.backend.store, app.config.Store.Key,
			app.config.Watch.PollInterval, app.eventEmitter, app.logger)
		if err != nil {
			return fmt.Errorf("failed to create snapshot poller: %w", err)
		}
		g.Go(func() error { return poller.Run(ctx) })
	}

	if app.backend.filePath != "" && app.config.Watch.FSNotify {
		watcher, err := watch.NewFileWatcher(app.backend.filePath, app.config.Store.Key,
			watch.DefaultDebounce, app.eventEmitter, app.logger)
		if err != nil {
			// The poller still covers this case.
			app.logger.Warn("file watcher unavailable", slog.String("error", err.Error()))
		} else {
			g.Go(func() error { return watcher.Run(ctx) })
		}
	}

	for _, task := range app.backend.background {
		task := task
		g.Go(func() error {
			task(ctx)
			return nil
		})
	}
	return nil
}

// cleanup releases the snapshot store.
func (app *application) cleanup() {
	if app.backend == nil {
		return
	}
	if err := app.backend.close(); err != nil {
		app.logger.Error("failed to close snapshot store", slog.String("error", err.Error()))
	}
}
