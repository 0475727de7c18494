package events

import (
	"github.com/complyscan/complyscan/pkg/advise"
	"github.com/complyscan/complyscan/pkg/benchmark"
	"github.com/complyscan/complyscan/pkg/breach"
	"github.com/complyscan/complyscan/pkg/forecast"
)

// BenchmarkEvent is emitted when an industry comparison completes.
type BenchmarkEvent struct {
	BaseEvent
	OrganizationID string           `json:"organization_id"`
	Result         benchmark.Result `json:"result"`
}

// ForecastEvent is emitted when a compliance forecast is generated.
// Insufficient history produces no ForecastEvent; the pipeline emits an
// ErrorEvent with Fatal=false instead.
type ForecastEvent struct {
	BaseEvent
	OrganizationID string          `json:"organization_id"`
	Result         forecast.Result `json:"result"`
}

// BreachEvent is emitted when a breach-risk assessment completes.
type BreachEvent struct {
	BaseEvent
	OrganizationID string        `json:"organization_id"`
	Result         breach.Result `json:"result"`
}

// SummaryEvent carries the consolidated evaluation outcome for the
// reporting layer. Optional sections are nil when the corresponding
// stage was skipped or degraded.
type SummaryEvent struct {
	BaseEvent
	OrganizationID  string                  `json:"organization_id"`
	Score           float64                 `json:"score"`
	Status          string                  `json:"status"`
	FindingCount    int                     `json:"finding_count"`
	Benchmark       *benchmark.Result       `json:"benchmark,omitempty"`
	Forecast        *forecast.Result        `json:"forecast,omitempty"`
	Breach          *breach.Result          `json:"breach,omitempty"`
	Recommendations []advise.Recommendation `json:"recommendations,omitempty"`
	DurationMs      int64                   `json:"duration_ms"`
}

// CompleteEvent is the final event of an evaluation.
type CompleteEvent struct {
	BaseEvent
	Success    bool   `json:"success"`
	ExitReason string `json:"exit_reason,omitempty"`
}
