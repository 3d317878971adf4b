package streaming

import "context"

// Event types published by the service.
const (
	EventValidationPassed = "validation.passed"
	EventValidationFailed = "validation.failed"
)

// VerdictEvent is a real-time event emitted after each validation.
type VerdictEvent struct {
	RequestID   string `json:"request_id,omitempty"`
	DiagramType string `json:"diagram_type,omitempty"`
	EventType   string `json:"event_type"`
	Payload     any    `json:"payload,omitempty"`
}

// EventFilter specifies which events a subscriber wants to receive.
type EventFilter struct {
	DiagramType string   `json:"diagram_type,omitempty"`
	EventTypes  []string `json:"event_types,omitempty"`
}

// EventHub provides pub/sub for real-time verdict events.
type EventHub interface {
	Publish(ctx context.Context, event VerdictEvent) error
	Subscribe(ctx context.Context, filter EventFilter) (<-chan VerdictEvent, func(), error)
}
