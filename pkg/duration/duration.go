// Package duration provides canonical time constants for the entire codebase.
// This is the SINGLE SOURCE OF TRUTH for all time-based configuration.
//
// Usage:
//
//	since := time.Now().Add(-duration.LookbackWindow)
//	ctx, cancel := context.WithTimeout(ctx, duration.WebhookTimeout)
//
// DO NOT use hardcoded time.Duration values like `30 * time.Second`
// anywhere. Instead, reference the appropriate constant from this package.
package duration

import "time"

// ============================================================================
// FORECASTING WINDOWS
// ============================================================================

const (
	// Day is the unit for converting configured day counts to durations
	Day = 24 * time.Hour

	// LookbackWindow is the historical window a forecast considers (90 days)
	LookbackWindow = 90 * Day

	// ForecastHorizon is the default projection horizon (30 days)
	ForecastHorizon = 30 * Day

	// MinScanSpacing is the spacing below which two scans are considered
	// duplicates for scan-frequency feature extraction (1h)
	MinScanSpacing = time.Hour
)

// ============================================================================
// HISTORY RETENTION
// ============================================================================

const (
	// HistoryRetention is how long scan records are kept before Prune
	// removes them (365 days)
	HistoryRetention = 365 * Day
)

// ============================================================================
// HOOK AND SHUTDOWN TIMEOUTS
// ============================================================================

const (
	// WebhookTimeout bounds a single webhook delivery attempt (10s)
	WebhookTimeout = 10 * time.Second

	// WebhookShutdown bounds graceful shutdown of hook servers and
	// exporters (5s)
	WebhookShutdown = 5 * time.Second

	// WebhookBackoff is the base backoff between webhook retries (500ms)
	WebhookBackoff = 500 * time.Millisecond

	// OTelConnect bounds OTLP exporter connection establishment (10s)
	OTelConnect = 10 * time.Second
)
