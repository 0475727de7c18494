package taxonomy

import (
	"log/slog"
	"strings"
)

// RiskCount maps each canonical risk level to a non-negative finding
// count. After normalization every canonical level is present; a zero is
// always an explicit zero, never a missing key.
type RiskCount map[RiskLevel]int

// NewRiskCount returns a RiskCount with every canonical level present
// at zero.
func NewRiskCount() RiskCount {
	rc := make(RiskCount, len(Levels()))
	for _, l := range Levels() {
		rc[l] = 0
	}
	return rc
}

// NormalizeCounts converts a raw level-count map into a canonical
// RiskCount. Keys are matched against the canonical level names
// case-insensitively; every canonical level is filled with 0 if absent.
// Unrecognized keys are never dropped silently: their counts bucket into
// Medium and each is logged at Warn as an observable side effect.
//
// Normalizing an already-normalized map is a no-op.
func NormalizeCounts(counts map[string]int, logger *slog.Logger) RiskCount {
	rc := NewRiskCount()
	for raw, n := range counts {
		if n <= 0 {
			continue
		}
		level := RiskLevel(strings.ToLower(strings.TrimSpace(raw)))
		if !level.IsValid() {
			orDefault(logger).Warn("unrecognized severity key bucketed into medium",
				"key", raw,
				"count", n)
			level = Medium
		}
		rc[level] += n
	}
	return rc
}

// Total returns the number of findings across all levels. This is the
// only source for a result's finding count: it is always derived from
// the breakdown, never tracked separately where it could drift.
func (rc RiskCount) Total() int {
	total := 0
	for _, n := range rc {
		total += n
	}
	return total
}

// AsMap returns the count keyed by the canonical level names, with every
// level present. Suitable for re-normalization round trips and JSON output.
func (rc RiskCount) AsMap() map[string]int {
	m := make(map[string]int, len(Levels()))
	for _, l := range Levels() {
		m[l.String()] = rc[l]
	}
	return m
}

// Clone returns an independent copy with every canonical level present.
func (rc RiskCount) Clone() RiskCount {
	out := NewRiskCount()
	for l, n := range rc {
		out[l] = n
	}
	return out
}

// Highest returns the most severe level with a non-zero count, or None
// when the count is empty.
func (rc RiskCount) Highest() RiskLevel {
	for _, l := range Levels() {
		if rc[l] > 0 {
			return l
		}
	}
	return None
}

// CountFindings normalizes a deduplicated finding list into a RiskCount
// using each finding's source vocabulary. Unmappable severities fall back
// to Medium (observable via the logger). The returned int is the number
// of fallbacks taken.
func CountFindings(findings []Finding, vocab Vocabulary, logger *slog.Logger) (RiskCount, int) {
	rc := NewRiskCount()
	fallbacks := 0
	for _, f := range findings {
		level, fellBack := NormalizeOrFallback(f.RawSeverity, vocab, logger)
		if fellBack {
			fallbacks++
		}
		rc[level]++
	}
	return rc, fallbacks
}
