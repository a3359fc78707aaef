package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-vocab/internal/events"
	"github.com/phrazzld/scry-vocab/internal/watch"
)

func TestWatchChanges_RequiresSharedStore(t *testing.T) {
	app := newTestApplication(t)

	err := app.watchChanges(context.Background(), &bytes.Buffer{})
	assert.ErrorIs(t, err, errNotShared)
}

func TestPrintChanges_WritesProgressPerEvent(t *testing.T) {
	app := newTestApplication(t)
	ctx := context.Background()

	_, err := app.learningService.MarkLearned(ctx, "abandon")
	require.NoError(t, err)

	learned, err := events.NewCorpusEvent(events.EventWordLearned, "abandon", events.WordLearnedPayload{LearnedAt: 1})
	require.NoError(t, err)
	changed, err := events.NewCorpusEvent(events.EventSnapshotChanged, "",
		events.SnapshotChangedPayload{Key: "oxford3000", Detector: watch.DetectorPoll})
	require.NoError(t, err)

	changes := make(chan *events.CorpusEvent, 2)
	changes <- learned
	changes <- changed
	close(changes)

	var out bytes.Buffer
	require.NoError(t, app.printChanges(ctx, &out, changes))

	assert.Contains(t, out.String(), "learned abandon: learned 1 of 30 words (3.3%), 29 to go\n")
	assert.Contains(t, out.String(), "snapshot changed (poll): learned 1 of 30 words")
}

func TestDescribeEvent(t *testing.T) {
	plain, err := events.NewCorpusEvent(events.EventSnapshotChanged, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "snapshot changed", describeEvent(plain))

	other := &events.CorpusEvent{Type: events.EventType("reset")}
	assert.Equal(t, "reset", describeEvent(other))
}
