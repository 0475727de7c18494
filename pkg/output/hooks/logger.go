// Package hooks provides event hooks for real-time integrations.
// Hooks are called during evaluation to send events to external
// systems such as webhooks, metrics endpoints, and trace collectors.
package hooks

import (
	"context"
	"log/slog"

	"github.com/complyscan/complyscan/pkg/output/dispatcher"
	"github.com/complyscan/complyscan/pkg/output/events"
)

// Compile-time interface check.
var _ dispatcher.Hook = (*LoggerHook)(nil)

// LoggerHook mirrors pipeline events into structured logs. It is the
// cheapest observability sink and is registered by default.
type LoggerHook struct {
	logger *slog.Logger
}

// NewLoggerHook creates a LoggerHook. A nil logger uses slog.Default.
func NewLoggerHook(logger *slog.Logger) *LoggerHook {
	return &LoggerHook{logger: orDefault(logger)}
}

// OnEvent logs the event at a level matching its significance.
func (h *LoggerHook) OnEvent(_ context.Context, event events.Event) error {
	switch e := event.(type) {
	case *events.StartEvent:
		h.logger.Info("evaluation started",
			"evaluation", e.EvaluationID(),
			"organization", e.OrganizationID,
			"findings", e.FindingCount)
	case *events.FallbackEvent:
		h.logger.Warn("severity fallback",
			"evaluation", e.EvaluationID(),
			"vocabulary", e.Vocabulary,
			"raw_severity", e.RawSeverity,
			"assigned", string(e.AssignedLevel))
	case *events.ScoreEvent:
		h.logger.Info("compliance score computed",
			"evaluation", e.EvaluationID(),
			"organization", e.OrganizationID,
			"score", e.Result.Score,
			"status", string(e.Result.Status),
			"findings", e.Result.SourceFindingCount)
	case *events.BenchmarkEvent:
		h.logger.Info("benchmark comparison",
			"evaluation", e.EvaluationID(),
			"industry", string(e.Result.Industry),
			"deviation", e.Result.Deviation,
			"risk", string(e.Result.RiskLevel))
	case *events.ForecastEvent:
		h.logger.Info("forecast generated",
			"evaluation", e.EvaluationID(),
			"trend", string(e.Result.Trend),
			"predicted", e.Result.SeasonallyAdjustedScore,
			"horizon_days", e.Result.HorizonDays)
	case *events.BreachEvent:
		h.logger.Info("breach risk assessed",
			"evaluation", e.EvaluationID(),
			"anomaly_score", e.Result.AnomalyScore,
			"risk", string(e.Result.RiskLevel),
			"time_to_impact", e.Result.TimeToImpact)
	case *events.ErrorEvent:
		if e.Fatal {
			h.logger.Error("evaluation failed", "evaluation", e.EvaluationID(), "stage", e.Stage, "error", e.Message)
		} else {
			h.logger.Warn("evaluation degraded", "evaluation", e.EvaluationID(), "stage", e.Stage, "error", e.Message)
		}
	case *events.SummaryEvent:
		h.logger.Info("evaluation summary",
			"evaluation", e.EvaluationID(),
			"organization", e.OrganizationID,
			"score", e.Score,
			"status", e.Status,
			"duration_ms", e.DurationMs)
	case *events.CompleteEvent:
		h.logger.Info("evaluation complete",
			"evaluation", e.EvaluationID(),
			"success", e.Success)
	}
	return nil
}

// EventTypes returns nil so the hook receives everything.
func (h *LoggerHook) EventTypes() []events.EventType {
	return nil
}

// orDefault returns l if non-nil, otherwise slog.Default().
func orDefault(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}
