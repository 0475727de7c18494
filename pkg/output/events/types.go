// Package events defines the event types emitted by the evaluation
// pipeline. All events are designed for JSON serialization and CI/CD
// integration.
//
// BaseEvent is embedded in specific event types (ScoreEvent,
// ForecastEvent, etc.) and carries the fields shared by all of them.
package events

import "time"

// EventType represents the type of pipeline event.
type EventType string

const (
	// EventTypeStart indicates an evaluation has started.
	EventTypeStart EventType = "start"
	// EventTypeFallback indicates a severity fell back to the default
	// mapping during normalization.
	EventTypeFallback EventType = "fallback"
	// EventTypeScore indicates a compliance score was computed.
	EventTypeScore EventType = "score"
	// EventTypeBenchmark indicates an industry comparison was computed.
	EventTypeBenchmark EventType = "benchmark"
	// EventTypeForecast indicates a forecast was generated.
	EventTypeForecast EventType = "forecast"
	// EventTypeBreach indicates a breach-risk assessment was computed.
	EventTypeBreach EventType = "breach"
	// EventTypeError indicates an error occurred.
	EventTypeError EventType = "error"
	// EventTypeSummary carries the full evaluation outcome.
	EventTypeSummary EventType = "summary"
	// EventTypeComplete indicates an evaluation has finished.
	EventTypeComplete EventType = "complete"
)

// Event is the base interface for all events.
type Event interface {
	EventType() EventType
	Timestamp() time.Time
	EvaluationID() string
}

// BaseEvent contains common fields for all events.
// It is designed to be embedded in specific event types.
type BaseEvent struct {
	Type EventType `json:"type"`
	Time time.Time `json:"timestamp"`
	Eval string    `json:"evaluation_id"`
}

// EventType returns the type of this event.
func (e BaseEvent) EventType() EventType { return e.Type }

// Timestamp returns when this event occurred.
func (e BaseEvent) Timestamp() time.Time { return e.Time }

// EvaluationID returns the identifier of the evaluation that produced
// this event.
func (e BaseEvent) EvaluationID() string { return e.Eval }

// NewBase stamps a BaseEvent for the given type and evaluation.
func NewBase(t EventType, evaluationID string) BaseEvent {
	return BaseEvent{Type: t, Time: time.Now().UTC(), Eval: evaluationID}
}
