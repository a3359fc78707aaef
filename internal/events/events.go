package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType classifies a CorpusEvent.
type EventType string

const (
	// EventWordLearned is emitted after a learned transition has been persisted.
	EventWordLearned EventType = "word_learned"

	// EventSnapshotChanged is emitted when a watcher or poller observes that
	// the persisted snapshot changed without an in-process mutation.
	EventSnapshotChanged EventType = "snapshot_changed"
)

// CorpusEvent describes a change to the persisted corpus.
type CorpusEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type indicates what changed
	Type EventType `json:"type"`

	// Word is the affected identity; empty for whole-snapshot changes
	Word string `json:"word,omitempty"`

	// Payload carries type-specific details serialized as JSON
	Payload json.RawMessage `json:"payload,omitempty"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// WordLearnedPayload is the payload of an EventWordLearned event.
type WordLearnedPayload struct {
	LearnedAt int64 `json:"learnedAt"`
}

// SnapshotChangedPayload is the payload of an EventSnapshotChanged event.
type SnapshotChangedPayload struct {
	Key      string `json:"key"`
	Detector string `json:"detector"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *CorpusEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewCorpusEvent creates a new CorpusEvent with the specified type, word and payload.
// A nil payload leaves Payload empty.
func NewCorpusEvent(eventType EventType, word string, payload interface{}) (*CorpusEvent, error) {
	var payloadBytes json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		payloadBytes = b
	}

	return &CorpusEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Word:      word,
		Payload:   payloadBytes,
		CreatedAt: time.Now(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *CorpusEvent) error
}

// HandlerFunc adapts an ordinary function to EventHandler.
type HandlerFunc func(ctx context.Context, event *CorpusEvent) error

// HandleEvent calls f(ctx, event).
func (f HandlerFunc) HandleEvent(ctx context.Context, event *CorpusEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *CorpusEvent) error
}
