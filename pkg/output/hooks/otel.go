package hooks

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/complyscan/complyscan/pkg/defaults"
	"github.com/complyscan/complyscan/pkg/duration"
	"github.com/complyscan/complyscan/pkg/output/dispatcher"
	"github.com/complyscan/complyscan/pkg/output/events"
)

// Compile-time interface check.
var _ dispatcher.Hook = (*OTelHook)(nil)

// OTelHook exports evaluation telemetry to an OpenTelemetry collector.
// It opens a root span per evaluation and records pipeline stages as
// span events with attributes.
type OTelHook struct {
	opts           OTelOptions
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer

	mu       sync.Mutex
	rootSpan trace.Span
	rootCtx  context.Context
	closed   bool
}

// OTelOptions configures the OpenTelemetry hook behavior.
type OTelOptions struct {
	// Endpoint is the OTLP endpoint (e.g., "localhost:4317").
	Endpoint string

	// ServiceName is the service name for traces (default: "complyscan").
	ServiceName string

	// Insecure uses insecure connection (no TLS).
	Insecure bool

	// Headers contains additional headers for the OTLP exporter.
	Headers map[string]string
}

// NewOTelHook creates an OpenTelemetry hook exporting to the configured
// endpoint. The exporter connects immediately but handles connection
// failures gracefully without blocking evaluations.
func NewOTelHook(opts OTelOptions) (*OTelHook, error) {
	if opts.ServiceName == "" {
		opts.ServiceName = defaults.ToolName
	}
	if opts.Endpoint == "" {
		opts.Endpoint = "localhost:4317"
	}

	grpcOpts := []grpc.DialOption{}
	if opts.Insecure {
		grpcOpts = append(grpcOpts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}

	exporterOpts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(opts.Endpoint),
		otlptracegrpc.WithDialOption(grpcOpts...),
	}
	if opts.Insecure {
		exporterOpts = append(exporterOpts, otlptracegrpc.WithInsecure())
	}
	if len(opts.Headers) > 0 {
		exporterOpts = append(exporterOpts, otlptracegrpc.WithHeaders(opts.Headers))
	}

	ctx, cancel := context.WithTimeout(context.Background(), duration.OTelConnect)
	defer cancel()

	exporter, err := otlptracegrpc.New(ctx, exporterOpts...)
	if err != nil {
		return nil, err
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(opts.ServiceName),
		semconv.ServiceVersion(defaults.Version),
		attribute.String("service.component", "engine"),
	)

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tracerProvider)

	return &OTelHook{
		opts:           opts,
		tracerProvider: tracerProvider,
		tracer:         tracerProvider.Tracer("complyscan/engine"),
	}, nil
}

// OnEvent exports telemetry for pipeline events.
func (h *OTelHook) OnEvent(ctx context.Context, event events.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}

	switch e := event.(type) {
	case *events.StartEvent:
		return h.handleStart(ctx, e)
	case *events.FallbackEvent:
		return h.handleFallback(e)
	case *events.ScoreEvent:
		return h.handleScore(e)
	case *events.BenchmarkEvent:
		return h.handleBenchmark(e)
	case *events.ForecastEvent:
		return h.handleForecast(e)
	case *events.BreachEvent:
		return h.handleBreach(e)
	case *events.ErrorEvent:
		return h.handleError(e)
	case *events.CompleteEvent:
		return h.handleComplete(e)
	default:
		return nil
	}
}

// handleStart creates the root span for the evaluation.
func (h *OTelHook) handleStart(ctx context.Context, start *events.StartEvent) error {
	spanCtx, span := h.tracer.Start(ctx, "complyscan.evaluation",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("evaluation_id", start.EvaluationID()),
			attribute.String("organization", start.OrganizationID),
			attribute.String("industry", start.Industry),
			attribute.StringSlice("scanners", start.Scanners),
			attribute.Int("finding_count", start.FindingCount),
		),
	)

	h.rootSpan = span
	h.rootCtx = spanCtx
	return nil
}

func (h *OTelHook) handleFallback(e *events.FallbackEvent) error {
	if h.rootSpan == nil {
		return nil
	}
	h.rootSpan.AddEvent("severity_fallback", trace.WithAttributes(
		attribute.String("vocabulary", e.Vocabulary),
		attribute.String("raw_severity", e.RawSeverity),
		attribute.String("assigned_level", string(e.AssignedLevel)),
	))
	return nil
}

func (h *OTelHook) handleScore(e *events.ScoreEvent) error {
	if h.rootSpan == nil {
		return nil
	}
	h.rootSpan.SetAttributes(
		attribute.Float64("score", e.Result.Score),
		attribute.String("status", string(e.Result.Status)),
		attribute.Int("source_finding_count", e.Result.SourceFindingCount),
		attribute.Int("fallback_count", e.Fallbacks),
	)
	h.rootSpan.AddEvent("score_computed", trace.WithAttributes(
		attribute.Float64("score", e.Result.Score),
		attribute.String("status", string(e.Result.Status)),
	))
	return nil
}

func (h *OTelHook) handleBenchmark(e *events.BenchmarkEvent) error {
	if h.rootSpan == nil {
		return nil
	}
	h.rootSpan.AddEvent("benchmark_compared", trace.WithAttributes(
		attribute.String("industry", string(e.Result.Industry)),
		attribute.Float64("industry_average", e.Result.IndustryAverage),
		attribute.Float64("deviation", e.Result.Deviation),
		attribute.String("risk_level", string(e.Result.RiskLevel)),
	))
	return nil
}

func (h *OTelHook) handleForecast(e *events.ForecastEvent) error {
	if h.rootSpan == nil {
		return nil
	}
	h.rootSpan.AddEvent("forecast_generated", trace.WithAttributes(
		attribute.String("trend", string(e.Result.Trend)),
		attribute.Float64("predicted_score", e.Result.PredictedScore),
		attribute.Float64("seasonally_adjusted_score", e.Result.SeasonallyAdjustedScore),
		attribute.Float64("lower_bound", e.Result.LowerBound),
		attribute.Float64("upper_bound", e.Result.UpperBound),
		attribute.Int("horizon_days", e.Result.HorizonDays),
		attribute.Int("data_points", e.Result.DataPoints),
	))
	if e.Result.Trend == "Critical" {
		h.rootSpan.SetStatus(codes.Error, "critical compliance trend")
	}
	return nil
}

func (h *OTelHook) handleBreach(e *events.BreachEvent) error {
	if h.rootSpan == nil {
		return nil
	}
	h.rootSpan.AddEvent("breach_risk_assessed", trace.WithAttributes(
		attribute.Float64("anomaly_score", e.Result.AnomalyScore),
		attribute.String("risk_level", string(e.Result.RiskLevel)),
		attribute.String("time_to_impact", e.Result.TimeToImpact),
	))
	if e.Result.RiskLevel == "Critical" {
		h.rootSpan.SetStatus(codes.Error, "critical breach risk")
	}
	return nil
}

func (h *OTelHook) handleError(e *events.ErrorEvent) error {
	if h.rootSpan == nil {
		return nil
	}
	h.rootSpan.AddEvent("stage_error", trace.WithAttributes(
		attribute.String("stage", e.Stage),
		attribute.String("message", e.Message),
		attribute.Bool("fatal", e.Fatal),
	))
	if e.Fatal {
		h.rootSpan.SetStatus(codes.Error, e.Message)
	}
	return nil
}

// handleComplete finalizes the evaluation span.
func (h *OTelHook) handleComplete(complete *events.CompleteEvent) error {
	if h.rootSpan == nil {
		return nil
	}

	if complete.Success {
		h.rootSpan.SetStatus(codes.Ok, "evaluation completed")
	} else {
		h.rootSpan.SetStatus(codes.Error, complete.ExitReason)
	}

	h.rootSpan.End()
	h.rootSpan = nil
	return nil
}

// EventTypes returns the event types this hook handles.
func (h *OTelHook) EventTypes() []events.EventType {
	return []events.EventType{
		events.EventTypeStart,
		events.EventTypeFallback,
		events.EventTypeScore,
		events.EventTypeBenchmark,
		events.EventTypeForecast,
		events.EventTypeBreach,
		events.EventTypeError,
		events.EventTypeComplete,
	}
}

// Close ends any active span and shuts down the tracer provider,
// flushing pending telemetry.
func (h *OTelHook) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	if h.rootSpan != nil {
		h.rootSpan.End()
		h.rootSpan = nil
	}

	if h.tracerProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), duration.WebhookShutdown)
		defer cancel()

		if err := h.tracerProvider.Shutdown(ctx); err != nil {
			return fmt.Errorf("otel: shutdown tracer provider: %w", err)
		}
	}

	return nil
}
