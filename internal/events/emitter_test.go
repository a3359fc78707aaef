package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryEventEmitter(t *testing.T) {
	// Create a minimal logger that discards output
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	newEvent := func(t *testing.T) *CorpusEvent {
		t.Helper()
		event, err := NewCorpusEvent(EventWordLearned, "abandon", WordLearnedPayload{LearnedAt: 1})
		require.NoError(t, err)
		return event
	}

	t.Run("emit event with no handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		assert.NoError(t, emitter.EmitEvent(context.Background(), newEvent(t)))
	})

	t.Run("emit event with successful handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		handler1 := &MockEventHandler{}
		handler2 := &MockEventHandler{}
		emitter.RegisterHandler(handler1)
		emitter.RegisterHandler(handler2)

		event := newEvent(t)
		assert.NoError(t, emitter.EmitEvent(context.Background(), event))

		assert.Equal(t, 1, handler1.HandledCount)
		assert.Equal(t, 1, handler2.HandledCount)
		assert.Equal(t, event, handler1.LastEvent)
		assert.Equal(t, event, handler2.LastEvent)
	})

	t.Run("emit event with failing handler", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		successHandler := &MockEventHandler{}
		failingHandler := &MockEventHandler{HandlerError: errors.New("handler error")}
		emitter.RegisterHandler(failingHandler)
		emitter.RegisterHandler(successHandler)

		err := emitter.EmitEvent(context.Background(), newEvent(t))
		assert.EqualError(t, err, "handler error")

		// Both handlers should still have received the event
		assert.Equal(t, 1, successHandler.HandledCount)
		assert.Equal(t, 1, failingHandler.HandledCount)
	})

	t.Run("nil logger uses default", func(t *testing.T) {
		assert.NotNil(t, NewInMemoryEventEmitter(nil))
	})
}

func TestInMemoryEventEmitterSubscribe(t *testing.T) {
	emitter := NewInMemoryEventEmitter(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	ch, cancel := emitter.Subscribe(2)

	first, err := NewCorpusEvent(EventWordLearned, "abandon", nil)
	require.NoError(t, err)
	second, err := NewCorpusEvent(EventSnapshotChanged, "", nil)
	require.NoError(t, err)
	third, err := NewCorpusEvent(EventWordLearned, "able", nil)
	require.NoError(t, err)

	require.NoError(t, emitter.EmitEvent(ctx, first))
	require.NoError(t, emitter.EmitEvent(ctx, second))
	// Buffer is full; this one is dropped rather than blocking the emitter.
	require.NoError(t, emitter.EmitEvent(ctx, third))

	assert.Same(t, first, <-ch)
	assert.Same(t, second, <-ch)

	cancel()
	_, open := <-ch
	assert.False(t, open, "channel should be closed after cancel")

	// Emitting after cancel must not panic, and cancel is idempotent.
	assert.NoError(t, emitter.EmitEvent(ctx, third))
	cancel()
}
