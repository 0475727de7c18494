// Package score aggregates normalized risk counts into a single weighted
// compliance score with a status label, and blends independent factor
// scores into one organizational risk figure.
//
// All functions are pure: merging is pointwise addition, scoring is a
// fixed linear penalty clamped to [0,100], and the status label is a pure
// function of the score.
package score

import (
	"math"

	"github.com/complyscan/complyscan/pkg/defaults"
	"github.com/complyscan/complyscan/pkg/taxonomy"
)

// Status is the compliance status label derived from a score.
type Status string

const (
	// Compliant indicates a score of 90 or above.
	Compliant Status = "Compliant"

	// LargelyCompliant indicates a score in [70, 90).
	LargelyCompliant Status = "Largely Compliant"

	// NeedsImprovement indicates a score in [50, 70).
	NeedsImprovement Status = "Needs Improvement"

	// NonCompliant indicates a score below 50.
	NonCompliant Status = "Non-Compliant"
)

// WeightTable maps each canonical risk level to its issue points per
// finding. The zero value of a missing level counts for nothing, so
// tables should always carry all five levels.
type WeightTable map[taxonomy.RiskLevel]int

// DefaultWeights returns the documented issue-point weights:
// critical=8, high=5, medium=3, low=1, none=0.
func DefaultWeights() WeightTable {
	return WeightTable{
		taxonomy.Critical: defaults.WeightCritical,
		taxonomy.High:     defaults.WeightHigh,
		taxonomy.Medium:   defaults.WeightMedium,
		taxonomy.Low:      defaults.WeightLow,
		taxonomy.None:     defaults.WeightNone,
	}
}

// ComplianceScoreResult is the aggregated outcome for one scan pass.
// SourceFindingCount is always derived by summing the breakdown.
type ComplianceScoreResult struct {
	Score              float64            `json:"score"`
	Status             Status             `json:"status"`
	RiskBreakdown      taxonomy.RiskCount `json:"risk_breakdown"`
	SourceFindingCount int                `json:"source_finding_count"`
}

// Merge combines risk counts from two scan passes by pointwise addition.
// Merge is commutative and associative; callers deduplicate findings by
// ID before counting so combining a baseline scan with an enhanced scan
// never double-counts.
func Merge(a, b taxonomy.RiskCount) taxonomy.RiskCount {
	out := taxonomy.NewRiskCount()
	for _, l := range taxonomy.Levels() {
		out[l] = a[l] + b[l]
	}
	return out
}

// IssuePoints returns the weighted issue points for the counts.
func IssuePoints(counts taxonomy.RiskCount, weights WeightTable) int {
	points := 0
	for _, l := range taxonomy.Levels() {
		points += counts[l] * weights[l]
	}
	return points
}

// Calculate computes the compliance score for the counts using the
// default weight table. See CalculateWeighted.
func Calculate(counts taxonomy.RiskCount) ComplianceScoreResult {
	return CalculateWeighted(counts, DefaultWeights())
}

// CalculateWeighted computes the compliance score:
//
//	score = max(0, 100 − min(issuePoints, 100))
//
// Once issue points reach 100 the score floors at 0: total violation
// saturates rather than going negative. The score is monotonically
// non-increasing in issue points and always within [0,100].
func CalculateWeighted(counts taxonomy.RiskCount, weights WeightTable) ComplianceScoreResult {
	breakdown := counts.Clone()
	points := IssuePoints(breakdown, weights)

	penalty := math.Min(float64(points), 100)
	s := math.Max(0, 100-penalty)

	return ComplianceScoreResult{
		Score:              s,
		Status:             StatusFor(s),
		RiskBreakdown:      breakdown,
		SourceFindingCount: breakdown.Total(),
	}
}

// StatusFor maps a score to its status label. Intervals are closed-open
// except the top boundary (100 inclusive in Compliant).
func StatusFor(s float64) Status {
	switch {
	case s >= defaults.StatusCompliantMin:
		return Compliant
	case s >= defaults.StatusLargelyCompliantMin:
		return LargelyCompliant
	case s >= defaults.StatusNeedsImprovementMin:
		return NeedsImprovement
	default:
		return NonCompliant
	}
}
