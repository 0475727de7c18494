// Package config loads and validates the engine configuration. Every
// numeric assumption the engine makes (severity weights, blend profile,
// seasonal multipliers, benchmark baselines, status thresholds) is
// overridable here; a misconfigured weighting scheme fails startup
// rather than silently skewing every downstream score.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/complyscan/complyscan/pkg/benchmark"
	"github.com/complyscan/complyscan/pkg/breach"
	"github.com/complyscan/complyscan/pkg/defaults"
	"github.com/complyscan/complyscan/pkg/score"
	"github.com/complyscan/complyscan/pkg/taxonomy"
)

// Config is the full engine configuration.
type Config struct {
	// Organization identifies whose scans are being processed.
	Organization string `yaml:"organization"`

	// Industry selects the benchmark baseline sector.
	Industry string `yaml:"industry"`

	// SeverityWeights maps risk levels to issue points.
	SeverityWeights map[taxonomy.RiskLevel]int `yaml:"severity_weights"`

	// Blend is the five-factor organizational risk profile. Must sum
	// to 1.0.
	Blend score.WeightProfile `yaml:"blend"`

	// Seasonal holds the quarterly forecast multipliers.
	Seasonal SeasonalConfig `yaml:"seasonal"`

	// Benchmarks overrides the built-in sector baseline table.
	Benchmarks benchmark.Table `yaml:"benchmarks"`

	// BreachBaseline overrides the healthy posture reference.
	BreachBaseline breach.Baseline `yaml:"breach_baseline"`

	// HistoryDir is where scan series are persisted.
	HistoryDir string `yaml:"history_dir"`

	// LookbackDays bounds the forecast window.
	LookbackDays int `yaml:"lookback_days"`

	// HorizonDays is the default forecast horizon.
	HorizonDays int `yaml:"horizon_days"`

	// Output configures event delivery.
	Output OutputConfig `yaml:"output"`
}

// SeasonalConfig holds the per-quarter pressure multipliers.
type SeasonalConfig struct {
	Q1 float64 `yaml:"q1"`
	Q2 float64 `yaml:"q2"`
	Q3 float64 `yaml:"q3"`
	Q4 float64 `yaml:"q4"`
}

// OutputConfig configures the event sinks.
type OutputConfig struct {
	// JSONLPath streams events to a JSON Lines file when set.
	JSONLPath string `yaml:"jsonl_path"`

	// WebhookURL posts events to an HTTP endpoint when set.
	WebhookURL string `yaml:"webhook_url"`

	// MetricsPort exposes Prometheus metrics when non-zero.
	MetricsPort int `yaml:"metrics_port"`

	// OTelEndpoint enables trace export when set (host:port, gRPC).
	OTelEndpoint string `yaml:"otel_endpoint"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Industry: defaults.DefaultIndustry,
		SeverityWeights: map[taxonomy.RiskLevel]int{
			taxonomy.Critical: defaults.WeightCritical,
			taxonomy.High:     defaults.WeightHigh,
			taxonomy.Medium:   defaults.WeightMedium,
			taxonomy.Low:      defaults.WeightLow,
			taxonomy.None:     defaults.WeightNone,
		},
		Blend: score.DefaultProfile(),
		Seasonal: SeasonalConfig{
			Q1: defaults.SeasonalQ1,
			Q2: defaults.SeasonalQ2,
			Q3: defaults.SeasonalQ3,
			Q4: defaults.SeasonalQ4,
		},
		Benchmarks:     benchmark.DefaultTable(),
		BreachBaseline: breach.DefaultBaseline(),
		HistoryDir:     ".complyscan/history",
		LookbackDays:   90,
		HorizonDays:    30,
	}
}

// Load reads a YAML configuration file, layers it over Default, and
// validates the result. Validation failures are fatal by contract.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes over the default configuration.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration invariants. It is called by Load
// but exported so programmatically built configs get the same checks.
func (c *Config) Validate() error {
	if err := c.Blend.Validate(); err != nil {
		return err
	}

	for level, w := range c.SeverityWeights {
		if !level.IsValid() {
			return fmt.Errorf("%w: unknown severity level %q in weight table", ErrInvalidConfig, level)
		}
		if w < 0 {
			return fmt.Errorf("%w: negative weight %d for level %q", ErrInvalidConfig, w, level)
		}
	}

	for _, q := range []struct {
		name  string
		value float64
	}{
		{"q1", c.Seasonal.Q1},
		{"q2", c.Seasonal.Q2},
		{"q3", c.Seasonal.Q3},
		{"q4", c.Seasonal.Q4},
	} {
		if q.value <= 0 {
			return fmt.Errorf("%w: seasonal multiplier %s must be positive, got %v", ErrInvalidConfig, q.name, q.value)
		}
	}

	if c.LookbackDays <= 0 {
		return fmt.Errorf("%w: lookback_days must be positive", ErrInvalidConfig)
	}
	if c.HorizonDays <= 0 {
		return fmt.Errorf("%w: horizon_days must be positive", ErrInvalidConfig)
	}
	if c.HistoryDir == "" {
		return fmt.Errorf("%w: history_dir", ErrMissingRequired)
	}

	return nil
}

// Weights converts the configured severity weights into the scorer's
// weight table.
func (c *Config) Weights() score.WeightTable {
	t := make(score.WeightTable, len(c.SeverityWeights))
	for level, w := range c.SeverityWeights {
		t[level] = w
	}
	return t
}
