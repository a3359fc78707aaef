package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/phrazzld/scry-vocab/internal/events"
	"github.com/phrazzld/scry-vocab/internal/projection"
)

// watchBuffer is the subscriber channel size for the watch command.
const watchBuffer = 16

var errNotShared = errors.New("watch needs a store other processes can write (file, sqlite, postgres or redis)")

// watchChanges prints a progress line for every change the detectors report
// until ctx is canceled.
func (app *application) watchChanges(ctx context.Context, w io.Writer) error {
	if !app.backend.shared {
		return errNotShared
	}

	changes, unsubscribe := app.eventEmitter.Subscribe(watchBuffer)
	defer unsubscribe()

	g, ctx := errgroup.WithContext(ctx)
	if err := app.startDetectors(ctx, g); err != nil {
		return err
	}
	g.Go(func() error {
		return app.printChanges(ctx, w, changes)
	})
	return g.Wait()
}

// printChanges writes one line per event. Progress is read straight from the
// store because subscribers may run before the cache is invalidated.
func (app *application) printChanges(ctx context.Context, w io.Writer, changes <-chan *events.CorpusEvent) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-changes:
			if !ok {
				return nil
			}
			if _, err := fmt.Fprintf(w, "%s %s: ", event.CreatedAt.Local().Format(time.DateTime), describeEvent(event)); err != nil {
				return err
			}
			if err := writeProgress(w, projection.Summarize(app.reconciler.Load(ctx))); err != nil {
				return err
			}
		}
	}
}

func describeEvent(event *events.CorpusEvent) string {
	switch event.Type {
	case events.EventWordLearned:
		return "learned " + event.Word
	case events.EventSnapshotChanged:
		var payload events.SnapshotChangedPayload
		if err := event.UnmarshalPayload(&payload); err == nil && payload.Detector != "" {
			return "snapshot changed (" + payload.Detector + ")"
		}
		return "snapshot changed"
	default:
		return string(event.Type)
	}
}
