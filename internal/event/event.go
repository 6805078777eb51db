package event

import (
	"time"

	"github.com/google/uuid"
)

// Metadata contains standard information attached to every event.
type Metadata struct {
	// ID is a unique identifier for this event instance.
	ID string

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Source identifies the component that published the event.
	Source string
}

// Envelope carries a topic and a type-erased payload.
type Envelope struct {
	Topic    Topic
	Payload  any
	Metadata Metadata
}

// NewEnvelope creates an envelope with a fresh ID and the current time.
func NewEnvelope(t Topic, payload any, source string) Envelope {
	return Envelope{
		Topic:   t,
		Payload: payload,
		Metadata: Metadata{
			ID:        uuid.NewString(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
}

// TypingPayload describes the engine at the time of a lifecycle event.
type TypingPayload struct {
	// EngineID identifies the engine instance.
	EngineID string

	// State is the engine state name.
	State string

	// ArrayPos is the position in the current pass.
	ArrayPos int

	// StringIndex is the index of the current string in the strings list.
	StringIndex int

	// StrPos is the rendered character offset, where the hook reports one.
	StrPos int

	// CurLoop is the number of completed passes.
	CurLoop int

	// Text is the rendered text.
	Text string
}

// SourcePayload describes a strings source event.
type SourcePayload struct {
	// Path is the watched file.
	Path string

	// Count is the number of strings loaded.
	Count int

	// Err is set for source errors.
	Err error
}
