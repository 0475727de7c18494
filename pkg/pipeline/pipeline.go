// Package pipeline orchestrates one full evaluation: normalize raw
// findings, aggregate the compliance score, benchmark it, forecast the
// trajectory, assess breach risk, and produce the remediation plan.
// Every stage emits events through the dispatcher so sinks observe the
// evaluation in real time.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/complyscan/complyscan/pkg/advise"
	"github.com/complyscan/complyscan/pkg/benchmark"
	"github.com/complyscan/complyscan/pkg/breach"
	"github.com/complyscan/complyscan/pkg/config"
	"github.com/complyscan/complyscan/pkg/duration"
	"github.com/complyscan/complyscan/pkg/forecast"
	"github.com/complyscan/complyscan/pkg/output/dispatcher"
	"github.com/complyscan/complyscan/pkg/output/events"
	"github.com/complyscan/complyscan/pkg/score"
	"github.com/complyscan/complyscan/pkg/series"
	"github.com/complyscan/complyscan/pkg/taxonomy"
)

// ScannerInput is one scanner's contribution to an evaluation.
type ScannerInput struct {
	// Name identifies the scanner (e.g. "code", "db-scan").
	Name string

	// Vocabulary declares which severity vocabulary the scanner emits.
	Vocabulary taxonomy.Vocabulary

	// Findings is the raw finding list.
	Findings []taxonomy.Finding
}

// Input is everything one evaluation consumes.
type Input struct {
	OrganizationID string
	Scanners       []ScannerInput

	// Metrics is the current posture snapshot for breach assessment.
	// Nil skips the breach stage.
	Metrics *breach.SecurityMetrics
}

// Evaluation is the consolidated outcome handed to callers. Optional
// sections are nil when their stage was skipped or degraded.
type Evaluation struct {
	ID             string
	OrganizationID string

	Score     score.ComplianceScoreResult
	Fallbacks int

	Benchmark       *benchmark.Result
	Forecast        *forecast.Result
	Breach          *breach.Result
	Recommendations []advise.Recommendation

	Duration time.Duration
}

// Pipeline wires the engine stages together.
type Pipeline struct {
	cfg        *config.Config
	store      *series.Store
	dispatcher *dispatcher.Dispatcher
	comparator *benchmark.Comparator
	forecaster *forecast.Forecaster
	detector   *breach.Detector
	generator  *advise.Generator
	logger     *slog.Logger
}

// New assembles a Pipeline from configuration. The store may be nil,
// which disables persistence and forecasting.
func New(cfg *config.Config, store *series.Store, d *dispatcher.Dispatcher, logger *slog.Logger) *Pipeline {
	logger = orDefault(logger)
	return &Pipeline{
		cfg:        cfg,
		store:      store,
		dispatcher: d,
		comparator: benchmark.NewComparator(cfg.Benchmarks, logger),
		forecaster: forecast.New(logger, forecast.WithSeasonal(
			cfg.Seasonal.Q1, cfg.Seasonal.Q2, cfg.Seasonal.Q3, cfg.Seasonal.Q4)),
		detector:   breach.NewDetector(cfg.BreachBaseline, logger),
		generator:  advise.NewGenerator(logger),
		logger:     logger,
	}
}

// Run executes one evaluation end to end. Per-stage data problems
// degrade gracefully (event + log, stage skipped); only storage
// failures abort the run.
func (p *Pipeline) Run(ctx context.Context, in Input) (*Evaluation, error) {
	started := time.Now()
	evalID := uuid.NewString()

	findingCount := 0
	scanners := make([]string, 0, len(in.Scanners))
	for _, s := range in.Scanners {
		scanners = append(scanners, s.Name)
		findingCount += len(s.Findings)
	}

	p.emit(ctx, &events.StartEvent{
		BaseEvent:      events.NewBase(events.EventTypeStart, evalID),
		OrganizationID: in.OrganizationID,
		Industry:       p.cfg.Industry,
		Scanners:       scanners,
		FindingCount:   findingCount,
	})

	// Normalize and aggregate.
	merged, fallbacks, perScanner := p.normalize(ctx, evalID, in.Scanners)
	result := score.CalculateWeighted(merged, p.cfg.Weights())

	p.emit(ctx, &events.ScoreEvent{
		BaseEvent:      events.NewBase(events.EventTypeScore, evalID),
		OrganizationID: in.OrganizationID,
		Result:         result,
		Fallbacks:      fallbacks,
		PerScanner:     perScanner,
	})

	eval := &Evaluation{
		ID:             evalID,
		OrganizationID: in.OrganizationID,
		Score:          result,
		Fallbacks:      fallbacks,
	}

	// Benchmark against the configured sector.
	bm := p.comparator.Compare(result.Score, benchmark.Industry(p.cfg.Industry))
	eval.Benchmark = &bm
	p.emit(ctx, &events.BenchmarkEvent{
		BaseEvent:      events.NewBase(events.EventTypeBenchmark, evalID),
		OrganizationID: in.OrganizationID,
		Result:         bm,
	})

	// Persist and forecast.
	if p.store != nil {
		if err := p.persistAndForecast(ctx, evalID, in.OrganizationID, result, eval); err != nil {
			p.emit(ctx, &events.ErrorEvent{
				BaseEvent: events.NewBase(events.EventTypeError, evalID),
				Stage:     "store",
				Message:   err.Error(),
				Fatal:     true,
			})
			p.emit(ctx, &events.CompleteEvent{
				BaseEvent:  events.NewBase(events.EventTypeComplete, evalID),
				ExitReason: err.Error(),
			})
			return nil, err
		}
	}

	// Breach risk from the current posture snapshot.
	if in.Metrics != nil {
		br := p.detector.Assess(*in.Metrics)
		eval.Breach = &br
		p.emit(ctx, &events.BreachEvent{
			BaseEvent:      events.NewBase(events.EventTypeBreach, evalID),
			OrganizationID: in.OrganizationID,
			Result:         br,
		})
	}

	// Remediation plan from whatever stages produced output.
	var breachResult breach.Result
	if eval.Breach != nil {
		breachResult = *eval.Breach
	}
	eval.Recommendations = p.generator.Generate(result, eval.Forecast, breachResult)

	eval.Duration = time.Since(started)

	p.emit(ctx, &events.SummaryEvent{
		BaseEvent:       events.NewBase(events.EventTypeSummary, evalID),
		OrganizationID:  in.OrganizationID,
		Score:           result.Score,
		Status:          string(result.Status),
		FindingCount:    result.SourceFindingCount,
		Benchmark:       eval.Benchmark,
		Forecast:        eval.Forecast,
		Breach:          eval.Breach,
		Recommendations: eval.Recommendations,
		DurationMs:      eval.Duration.Milliseconds(),
	})
	p.emit(ctx, &events.CompleteEvent{
		BaseEvent: events.NewBase(events.EventTypeComplete, evalID),
		Success:   true,
	})

	return eval, nil
}

// normalize maps every scanner's findings onto the canonical taxonomy,
// deduplicates by finding ID, and merges the per-scanner counts.
// Unmappable severities fall back to the default level, each one
// surfaced as a FallbackEvent.
func (p *Pipeline) normalize(ctx context.Context, evalID string, scanners []ScannerInput) (taxonomy.RiskCount, int, map[string]taxonomy.RiskCount) {
	merged := taxonomy.NewRiskCount()
	perScanner := make(map[string]taxonomy.RiskCount, len(scanners))
	fallbacks := 0

	for _, s := range scanners {
		counts := taxonomy.NewRiskCount()
		for _, f := range taxonomy.Dedupe(s.Findings) {
			level, fellBack := taxonomy.NormalizeOrFallback(f.RawSeverity, s.Vocabulary, p.logger)
			if fellBack {
				fallbacks++
				p.emit(ctx, &events.FallbackEvent{
					BaseEvent:     events.NewBase(events.EventTypeFallback, evalID),
					SourceScanner: s.Name,
					Vocabulary:    string(s.Vocabulary),
					RawSeverity:   f.RawSeverity,
					AssignedLevel: level,
				})
			}
			counts[level]++
		}
		perScanner[s.Name] = counts
		merged = score.Merge(merged, counts)
	}

	return merged, fallbacks, perScanner
}

// persistAndForecast appends the scan to the organization's series and
// forecasts from the updated history. Insufficient history degrades to
// a non-fatal error event; storage failures propagate.
func (p *Pipeline) persistAndForecast(ctx context.Context, evalID, orgID string, result score.ComplianceScoreResult, eval *Evaluation) error {
	_, err := p.store.Save(&series.ScanRecord{
		OrganizationID: orgID,
		Score:          result.Score,
		Status:         result.Status,
		RiskCounts:     result.RiskBreakdown,
		FindingCount:   result.SourceFindingCount,
	})
	if err != nil {
		return err
	}

	lookback := time.Duration(p.cfg.LookbackDays) * duration.Day
	horizon := time.Duration(p.cfg.HorizonDays) * duration.Day

	history, err := p.store.Series(orgID, lookback)
	if err != nil {
		return err
	}

	fc, err := p.forecaster.Predict(history, horizon)
	if err != nil {
		if errors.Is(err, forecast.ErrInsufficientHistory) {
			p.emit(ctx, &events.ErrorEvent{
				BaseEvent: events.NewBase(events.EventTypeError, evalID),
				Stage:     "forecast",
				Message:   err.Error(),
			})
			return nil
		}
		return err
	}

	eval.Forecast = fc
	p.emit(ctx, &events.ForecastEvent{
		BaseEvent:      events.NewBase(events.EventTypeForecast, evalID),
		OrganizationID: orgID,
		Result:         *fc,
	})
	return nil
}

// emit dispatches an event when a dispatcher is attached.
func (p *Pipeline) emit(ctx context.Context, event events.Event) {
	if p.dispatcher == nil {
		return
	}
	_ = p.dispatcher.Dispatch(ctx, event)
}

// orDefault returns l if non-nil, otherwise slog.Default().
func orDefault(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}
