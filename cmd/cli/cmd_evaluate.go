package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/complyscan/complyscan/pkg/config"
	"github.com/complyscan/complyscan/pkg/output/dispatcher"
	"github.com/complyscan/complyscan/pkg/output/hooks"
	"github.com/complyscan/complyscan/pkg/output/writers"
	"github.com/complyscan/complyscan/pkg/pipeline"
	"github.com/complyscan/complyscan/pkg/series"
	"github.com/complyscan/complyscan/pkg/ui"
)

// runEvaluate executes the evaluate command: normalize raw findings,
// score them, benchmark, forecast, assess breach risk and print the
// remediation plan.
func runEvaluate() {
	fs := flag.NewFlagSet("evaluate", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML configuration file")
	inputPath := fs.String("input", "", "Findings input JSON file")
	org := fs.String("org", "", "Organization ID (overrides config)")
	industry := fs.String("industry", "", "Benchmark industry (overrides config)")
	historyDir := fs.String("history", "", "Scan history directory (overrides config)")
	noStore := fs.Bool("no-store", false, "Skip persisting this scan (also disables forecasting)")
	format := fs.String("format", "console", "Output format: console, json")
	jsonlPath := fs.String("jsonl", "", "Stream events to a JSON Lines file")
	webhookURL := fs.String("webhook", "", "POST events to an HTTP endpoint")
	metricsPort := fs.Int("metrics-port", 0, "Expose Prometheus metrics on this port")
	otelEndpoint := fs.String("otel-endpoint", "", "OTLP gRPC endpoint for trace export")
	noColor := fs.Bool("no-color", false, "Disable colored output")
	silent := fs.Bool("silent", false, "Suppress the banner")
	verbose := fs.Bool("verbose", false, "Log every pipeline stage")

	fs.Parse(os.Args[2:])

	ui.SetNoColor(*noColor)
	ui.SetSilent(*silent)

	if *inputPath == "" && fs.NArg() > 0 {
		*inputPath = fs.Arg(0)
	}
	if *inputPath == "" {
		exitWithUsage(
			"An input file is required.",
			"complyscan evaluate -input findings.json [-org acme-corp]",
		)
	}
	switch *format {
	case "console", "json":
	default:
		exitWithError("Unknown format %q. Supported: console, json", *format)
	}

	cfg := loadConfig(*configPath)
	if *org != "" {
		cfg.Organization = *org
	}
	if *industry != "" {
		cfg.Industry = *industry
	}
	if *historyDir != "" {
		cfg.HistoryDir = *historyDir
	}
	if *jsonlPath != "" {
		cfg.Output.JSONLPath = *jsonlPath
	}
	if *webhookURL != "" {
		cfg.Output.WebhookURL = *webhookURL
	}
	if *metricsPort != 0 {
		cfg.Output.MetricsPort = *metricsPort
	}
	if *otelEndpoint != "" {
		cfg.Output.OTelEndpoint = *otelEndpoint
	}

	in, err := loadInput(*inputPath)
	if err != nil {
		exitWithError("Loading input: %v", err)
	}
	if in.OrganizationID == "" {
		in.OrganizationID = cfg.Organization
	}
	if in.OrganizationID == "" {
		exitWithError("No organization ID: set -org, config, or organization_id in the input file")
	}

	logger := newLogger(*verbose)

	if *format == "console" {
		ui.PrintBanner()
	}

	d := buildDispatcher(cfg, logger, *verbose && *format == "console")
	defer d.Close()

	var store *series.Store
	if !*noStore {
		store, err = series.NewStore(cfg.HistoryDir)
		if err != nil {
			exitWithError("Opening history store: %v", err)
		}
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eval, err := pipeline.New(cfg, store, d, logger).Run(ctx, *in)
	if err != nil {
		exitWithError("Evaluation failed: %v", err)
	}

	switch *format {
	case "json":
		data, err := json.Marshal(eval, jsontext.WithIndent("  "))
		if err != nil {
			exitWithError("Marshaling result: %v", err)
		}
		fmt.Println(string(data))
	default:
		fmt.Print(ui.RenderEvaluation(eval))
	}
}

// loadConfig loads the YAML config when a path is given, otherwise the
// built-in defaults.
func loadConfig(path string) *config.Config {
	if path == "" {
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		exitWithError("Loading config: %v", err)
	}
	return cfg
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// buildDispatcher wires the configured event sinks. Sink construction
// failures are fatal: an operator who asked for a sink wants to know it
// is not delivering.
func buildDispatcher(cfg *config.Config, logger *slog.Logger, logEvents bool) *dispatcher.Dispatcher {
	d := dispatcher.New(dispatcher.Config{Logger: logger})

	if logEvents {
		d.RegisterHook(hooks.NewLoggerHook(logger))
	}
	if cfg.Output.JSONLPath != "" {
		f, err := os.OpenFile(cfg.Output.JSONLPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			exitWithError("Opening JSONL output: %v", err)
		}
		d.RegisterWriter(writers.NewJSONLWriter(f, writers.JSONLOptions{}))
	}
	if cfg.Output.WebhookURL != "" {
		d.RegisterHook(hooks.NewWebhookHook(cfg.Output.WebhookURL, hooks.WebhookOptions{Logger: logger}))
	}
	if cfg.Output.MetricsPort != 0 {
		h, err := hooks.NewPrometheusHook(hooks.PrometheusOptions{Port: cfg.Output.MetricsPort})
		if err != nil {
			exitWithError("Starting metrics server: %v", err)
		}
		d.RegisterHook(h)
	}
	if cfg.Output.OTelEndpoint != "" {
		h, err := hooks.NewOTelHook(hooks.OTelOptions{Endpoint: cfg.Output.OTelEndpoint, Insecure: true})
		if err != nil {
			exitWithError("Connecting trace exporter: %v", err)
		}
		d.RegisterHook(h)
	}
	return d
}
