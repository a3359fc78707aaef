package events

import (
	"context"
	"log/slog"
	"sync"
)

// InMemoryEventEmitter dispatches events synchronously to registered
// handlers and asynchronously to channel subscribers.
type InMemoryEventEmitter struct {
	handlers    []EventHandler
	subscribers map[int]chan *CorpusEvent
	nextSubID   int
	mu          sync.RWMutex
	logger      *slog.Logger
}

// NewInMemoryEventEmitter creates a new instance of InMemoryEventEmitter.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventEmitter{
		handlers:    make([]EventHandler, 0),
		subscribers: make(map[int]chan *CorpusEvent),
		logger:      logger.With("component", "in_memory_event_emitter"),
	}
}

// RegisterHandler adds a new event handler to receive events.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
	e.logger.Debug("registered new event handler", "handler_count", len(e.handlers))
}

// Subscribe returns a channel that receives every subsequent event and a
// cancel function that unsubscribes and closes the channel. Delivery never
// blocks the emitter: when the buffer is full the event is dropped for that
// subscriber and a warning is logged.
func (e *InMemoryEventEmitter) Subscribe(buffer int) (<-chan *CorpusEvent, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan *CorpusEvent, buffer)

	e.mu.Lock()
	id := e.nextSubID
	e.nextSubID++
	e.subscribers[id] = ch
	e.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.subscribers, id)
			e.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// EmitEvent publishes the given event to all registered handlers and subscribers.
// If any handler returns an error, the event will still be sent to all other handlers,
// and the first error encountered will be returned.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *CorpusEvent) error {
	e.mu.RLock()
	handlers := make([]EventHandler, len(e.handlers))
	copy(handlers, e.handlers)
	for id, ch := range e.subscribers {
		select {
		case ch <- event:
		default:
			e.logger.Warn("subscriber buffer full, dropping event",
				"subscriber_id", id,
				"event_id", event.ID,
				"event_type", event.Type)
		}
	}
	subscriberCount := len(e.subscribers)
	e.mu.RUnlock()

	e.logger.Debug("emitting event",
		"event_id", event.ID,
		"event_type", event.Type,
		"word", event.Word,
		"handler_count", len(handlers),
		"subscriber_count", subscriberCount)

	var firstErr error
	for i, handler := range handlers {
		if err := handler.HandleEvent(ctx, event); err != nil {
			e.logger.Error("handler failed to process event",
				"error", err,
				"handler_index", i,
				"event_id", event.ID,
				"event_type", event.Type)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
