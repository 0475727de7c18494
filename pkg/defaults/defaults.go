// Package defaults provides canonical default values for the entire codebase.
// This is the SINGLE SOURCE OF TRUTH for scoring weights, thresholds, and
// banding cut-offs.
//
// Usage:
//
//	points := count * defaults.WeightHigh
//	if score >= defaults.StatusCompliantMin { ... }
//
// DO NOT use hardcoded values like `weight := 5` anywhere.
// Instead, reference the appropriate constant from this package.
// Every table here is overridable at runtime through pkg/config.
package defaults

// Version is the current complyscan version
const Version = "1.3.0"

// ToolName is the canonical tool name used in logs, telemetry service
// names, and persisted record metadata.
const ToolName = "complyscan"

// ============================================================================
// SEVERITY ISSUE-POINT WEIGHTS
// ============================================================================
//
// Issue points per finding at each canonical risk level. The compliance
// score subtracts accumulated issue points from 100, floored at 0.
// ============================================================================

const (
	// WeightCritical is issue points per critical finding (8)
	WeightCritical = 8

	// WeightHigh is issue points per high finding (5)
	WeightHigh = 5

	// WeightMedium is issue points per medium finding (3)
	WeightMedium = 3

	// WeightLow is issue points per low finding (1)
	WeightLow = 1

	// WeightNone is issue points per informational finding (0)
	WeightNone = 0
)

// ============================================================================
// COMPLIANCE STATUS THRESHOLDS
// ============================================================================
//
// Closed-open intervals except the top boundary: 100 and 90 are both
// Compliant, 89.99 is Largely Compliant, and so on down the ladder.
// ============================================================================

const (
	// StatusCompliantMin is the minimum score for Compliant (90)
	StatusCompliantMin = 90.0

	// StatusLargelyCompliantMin is the minimum score for Largely Compliant (70)
	StatusLargelyCompliantMin = 70.0

	// StatusNeedsImprovementMin is the minimum score for Needs Improvement (50)
	StatusNeedsImprovementMin = 50.0
)

// ============================================================================
// FIVE-FACTOR BLEND WEIGHTS
// ============================================================================
//
// Default organizational risk blend. Any configured blend must sum to
// exactly 1.0 (±WeightSumTolerance) or configuration load fails.
// ============================================================================

const (
	// BlendSecurity is the security posture weight (0.30)
	BlendSecurity = 0.30

	// BlendCompliance is the regulatory compliance weight (0.25)
	BlendCompliance = 0.25

	// BlendDataProcessing is the data processing practices weight (0.25)
	BlendDataProcessing = 0.25

	// BlendFinancialStability is the financial stability weight (0.10)
	BlendFinancialStability = 0.10

	// BlendServiceQuality is the service quality weight (0.10)
	BlendServiceQuality = 0.10

	// WeightSumTolerance is the permitted deviation from 1.0 when
	// validating a weight profile (1e-6)
	WeightSumTolerance = 1e-6
)

// ============================================================================
// BLENDED RISK BANDING
// ============================================================================

const (
	// BandMinimalMin is the minimum blended score for Minimal risk (80)
	BandMinimalMin = 80.0

	// BandLowMin is the minimum blended score for Low risk (60)
	BandLowMin = 60.0

	// BandMediumMin is the minimum blended score for Medium risk (40)
	BandMediumMin = 40.0

	// BandHighMin is the minimum blended score for High risk (20)
	BandHighMin = 20.0
)

// ============================================================================
// FORECASTING
// ============================================================================

const (
	// MinForecastPoints is the minimum history length for a forecast (3).
	// Fewer points is statistically meaningless and is rejected, never
	// silently degraded.
	MinForecastPoints = 3

	// ConfidenceZ is the z-value for the 95% confidence interval (1.96)
	ConfidenceZ = 1.96

	// TrendStableBand is the |slope| below which the trend is Stable (0.1)
	TrendStableBand = 0.1

	// TrendCriticalSlope is the slope at or below which the trend is
	// Critical (-1.0)
	TrendCriticalSlope = -1.0
)

// Seasonal multipliers by calendar quarter of the forecast target date.
// Applied to the delta from the current score, never the absolute score.
const (
	SeasonalQ1 = 1.2
	SeasonalQ2 = 0.9
	SeasonalQ3 = 0.8
	SeasonalQ4 = 1.1
)

// ============================================================================
// BENCHMARKING
// ============================================================================

const (
	// DefaultIndustry is the fallback sector when an unknown industry is
	// requested ("technology")
	DefaultIndustry = "technology"

	// BenchmarkHighRiskDeviation is the deviation below which benchmark
	// risk is High (-10)
	BenchmarkHighRiskDeviation = -10.0
)

// ============================================================================
// BREACH-RISK DETECTION
// ============================================================================

const (
	// BreachCriticalScore is the anomaly score at or above which breach
	// risk is Critical (0.7)
	BreachCriticalScore = 0.7

	// BreachHighScore is the anomaly score at or above which breach risk
	// is High (0.5)
	BreachHighScore = 0.5
)

// ============================================================================
// DISPATCH AND HOOKS
// ============================================================================

const (
	// WebhookRetryMax is the retry ceiling for webhook delivery (3)
	WebhookRetryMax = 3

	// MetricsPort is the default Prometheus metrics port (9090)
	MetricsPort = 9090

	// ContentTypeJSON is the JSON content type header value
	ContentTypeJSON = "application/json"
)
