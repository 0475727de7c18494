package hooks

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/complyscan/complyscan/pkg/defaults"
	"github.com/complyscan/complyscan/pkg/duration"
	"github.com/complyscan/complyscan/pkg/output/dispatcher"
	"github.com/complyscan/complyscan/pkg/output/events"
)

// Compile-time interface check.
var _ dispatcher.Hook = (*PrometheusHook)(nil)

// PrometheusHook exposes evaluation metrics for Prometheus scraping.
// It starts an HTTP server serving metrics at the configured path.
// Metrics include counters for evaluations/fallbacks/errors and gauges
// for the latest compliance score, anomaly score, and deviation.
type PrometheusHook struct {
	server   *http.Server
	registry *prometheus.Registry
	opts     PrometheusOptions

	// Counters
	evaluationsTotal *prometheus.CounterVec
	fallbacksTotal   *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec

	// Gauges
	complianceScore    *prometheus.GaugeVec
	breachAnomalyScore *prometheus.GaugeVec
	benchmarkDeviation *prometheus.GaugeVec
	forecastScore      *prometheus.GaugeVec

	mu     sync.Mutex
	closed bool
}

// PrometheusOptions configures the Prometheus hook behavior.
type PrometheusOptions struct {
	// Port for the metrics server (default: 9090).
	Port int

	// Path for the metrics endpoint (default: "/metrics").
	Path string

	// ReadTimeout for the HTTP server (default: 5s).
	ReadTimeout time.Duration

	// WriteTimeout for the HTTP server (default: 10s).
	WriteTimeout time.Duration
}

// NewPrometheusHook creates a Prometheus hook exposing metrics at the
// configured endpoint. The server starts immediately and runs until
// Close is called.
func NewPrometheusHook(opts PrometheusOptions) (*PrometheusHook, error) {
	if opts.Port == 0 {
		opts.Port = defaults.MetricsPort
	}
	if opts.Path == "" {
		opts.Path = "/metrics"
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = duration.WebhookShutdown
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = duration.WebhookTimeout
	}

	// Custom registry, don't pollute the default one.
	registry := prometheus.NewRegistry()

	hook := &PrometheusHook{
		registry: registry,
		opts:     opts,
	}

	if err := hook.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	if err := hook.startServer(); err != nil {
		return nil, fmt.Errorf("failed to start metrics server: %w", err)
	}

	return hook, nil
}

// initMetrics creates and registers all Prometheus metrics.
func (h *PrometheusHook) initMetrics() error {
	h.evaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "complyscan_evaluations_total",
			Help: "Total number of evaluations run",
		},
		[]string{"organization"},
	)

	h.fallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "complyscan_severity_fallbacks_total",
			Help: "Total number of raw severities that fell back to the default level",
		},
		[]string{"vocabulary"},
	)

	h.errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "complyscan_errors_total",
			Help: "Total number of evaluation errors",
		},
		[]string{"stage"},
	)

	h.complianceScore = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "complyscan_compliance_score",
			Help: "Latest aggregated compliance score (0-100)",
		},
		[]string{"organization"},
	)

	h.breachAnomalyScore = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "complyscan_breach_anomaly_score",
			Help: "Latest breach-risk anomaly score (0-1)",
		},
		[]string{"organization"},
	)

	h.benchmarkDeviation = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "complyscan_benchmark_deviation",
			Help: "Latest deviation from the industry average score",
		},
		[]string{"organization", "industry"},
	)

	h.forecastScore = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "complyscan_forecast_score",
			Help: "Latest seasonally adjusted forecast score (0-100)",
		},
		[]string{"organization", "trend"},
	)

	collectors := []prometheus.Collector{
		h.evaluationsTotal,
		h.fallbacksTotal,
		h.errorsTotal,
		h.complianceScore,
		h.breachAnomalyScore,
		h.benchmarkDeviation,
		h.forecastScore,
	}

	for _, c := range collectors {
		if err := h.registry.Register(c); err != nil {
			return err
		}
	}

	return nil
}

// startServer starts the HTTP server for metrics.
func (h *PrometheusHook) startServer() error {
	mux := http.NewServeMux()
	mux.Handle(h.opts.Path, promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))

	h.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", h.opts.Port),
		Handler:      mux,
		ReadTimeout:  h.opts.ReadTimeout,
		WriteTimeout: h.opts.WriteTimeout,
	}

	go func() {
		if err := h.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("prometheus: metrics server error: %v", err)
		}
	}()

	return nil
}

// OnEvent processes events and updates Prometheus metrics.
func (h *PrometheusHook) OnEvent(_ context.Context, event events.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}

	switch e := event.(type) {
	case *events.StartEvent:
		h.evaluationsTotal.WithLabelValues(e.OrganizationID).Inc()
	case *events.FallbackEvent:
		h.fallbacksTotal.WithLabelValues(e.Vocabulary).Inc()
	case *events.ErrorEvent:
		h.errorsTotal.WithLabelValues(e.Stage).Inc()
	case *events.ScoreEvent:
		h.complianceScore.WithLabelValues(e.OrganizationID).Set(e.Result.Score)
	case *events.BreachEvent:
		h.breachAnomalyScore.WithLabelValues(e.OrganizationID).Set(e.Result.AnomalyScore)
	case *events.BenchmarkEvent:
		h.benchmarkDeviation.WithLabelValues(e.OrganizationID, string(e.Result.Industry)).Set(e.Result.Deviation)
	case *events.ForecastEvent:
		h.forecastScore.WithLabelValues(e.OrganizationID, string(e.Result.Trend)).Set(e.Result.SeasonallyAdjustedScore)
	}

	return nil
}

// EventTypes returns the event types this hook handles.
func (h *PrometheusHook) EventTypes() []events.EventType {
	return []events.EventType{
		events.EventTypeStart,
		events.EventTypeFallback,
		events.EventTypeError,
		events.EventTypeScore,
		events.EventTypeBreach,
		events.EventTypeBenchmark,
		events.EventTypeForecast,
	}
}

// Close shuts down the metrics server.
func (h *PrometheusHook) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	if h.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), duration.WebhookShutdown)
		defer cancel()
		return h.server.Shutdown(ctx)
	}

	return nil
}

// Registry exposes the hook's registry for testing.
func (h *PrometheusHook) Registry() *prometheus.Registry {
	return h.registry
}

// MetricsAddr returns the full URL of the metrics endpoint.
func (h *PrometheusHook) MetricsAddr() string {
	return fmt.Sprintf("http://localhost:%d%s", h.opts.Port, h.opts.Path)
}
