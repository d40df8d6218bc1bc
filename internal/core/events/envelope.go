package events

import (
	"time"

	"github.com/google/uuid"
)

const producer = "quote-desk"

type Meta struct {
	// Trace / request correlation ID
	CorrelationID *string `json:"correlation_id,omitempty"`
	// Unique event ID
	ID string `json:"id"`
	// Emitting service
	Producer *string `json:"producer,omitempty"`
	// Timestamp when the event was emitted
	Time time.Time `json:"time"`
	// Event name and version, e.g. support.quote.created.v1
	Type string `json:"type"`
}

type Envelope struct {
	Meta Meta `json:"meta"`
	Data any  `json:"data"`
}

// NewEnvelope stamps data with a fresh id and the current time. The event
// type doubles as the routing key.
func NewEnvelope(eventType string, correlationID string, data any) Envelope {
	p := producer
	meta := Meta{
		ID:       uuid.NewString(),
		Producer: &p,
		Time:     time.Now().UTC(),
		Type:     eventType,
	}
	if correlationID != "" {
		meta.CorrelationID = &correlationID
	}
	return Envelope{Meta: meta, Data: data}
}
