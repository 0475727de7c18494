// Package benchmark contextualizes an organization's compliance score
// against sector baselines. Comparison is stateless and recomputed on
// demand: deviation from the sector average, a banded risk level, and a
// percentile from a normal approximation when the sector's spread is known.
package benchmark

import (
	"errors"
	"log/slog"
	"math"
	"strings"

	"github.com/complyscan/complyscan/pkg/defaults"
)

// ErrInvalidIndustry indicates the requested industry has no baseline.
// It is recovered internally by falling back to the default sector; the
// fallback is logged, never silent.
var ErrInvalidIndustry = errors.New("benchmark: unknown industry")

// Industry identifies a business sector.
type Industry string

const (
	Technology    Industry = "technology"
	Healthcare    Industry = "healthcare"
	Finance       Industry = "finance"
	Retail        Industry = "retail"
	Manufacturing Industry = "manufacturing"
	Education     Industry = "education"
	Government    Industry = "government"
)

// Baseline holds a sector's known score statistics. A zero StdDev means
// the spread is unknown and the percentile is omitted, never fabricated.
type Baseline struct {
	Average float64 `yaml:"average" json:"average"`
	StdDev  float64 `yaml:"stddev" json:"stddev,omitempty"`
}

// Table maps industries to their baselines.
type Table map[Industry]Baseline

// DefaultTable returns the built-in sector baselines. Values are
// overridable through pkg/config.
func DefaultTable() Table {
	return Table{
		Technology:    {Average: 81.2, StdDev: 9.4},
		Healthcare:    {Average: 76.8, StdDev: 8.1},
		Finance:       {Average: 84.5, StdDev: 7.3},
		Retail:        {Average: 72.4, StdDev: 11.0},
		Manufacturing: {Average: 70.1, StdDev: 10.2},
		Education:     {Average: 68.9, StdDev: 12.5},
		Government:    {Average: 74.6}, // spread unavailable for this sector
	}
}

// RiskLevel is the banded interpretation of the deviation from the
// sector average.
type RiskLevel string

const (
	// RiskHigh indicates the organization trails its sector by more
	// than 10 points.
	RiskHigh RiskLevel = "High"

	// RiskMedium indicates the organization trails its sector by up to
	// 10 points.
	RiskMedium RiskLevel = "Medium"

	// RiskLow indicates the organization meets or beats its sector.
	RiskLow RiskLevel = "Low"
)

// Result is the outcome of one benchmark comparison. Percentile is nil
// when the sector's standard deviation is unknown.
type Result struct {
	OrganizationScore float64   `json:"organization_score"`
	Industry          Industry  `json:"industry"`
	IndustryAverage   float64   `json:"industry_average"`
	Deviation         float64   `json:"deviation"`
	Percentile        *float64  `json:"percentile,omitempty"`
	RiskLevel         RiskLevel `json:"risk_level"`
}

// Comparator compares scores against a baseline table.
type Comparator struct {
	table  Table
	logger *slog.Logger
}

// NewComparator returns a Comparator over the given table. A nil or
// empty table uses DefaultTable; a nil logger uses slog.Default.
func NewComparator(table Table, logger *slog.Logger) *Comparator {
	if len(table) == 0 {
		table = DefaultTable()
	}
	return &Comparator{table: table, logger: orDefault(logger)}
}

// Compare contextualizes score against the industry's baseline. An
// unknown industry falls back to the default sector (technology) with a
// logged warning rather than failing the comparison.
func (c *Comparator) Compare(orgScore float64, industry Industry) Result {
	key := Industry(strings.ToLower(strings.TrimSpace(string(industry))))
	baseline, ok := c.table[key]
	if !ok {
		c.logger.Warn("industry fallback",
			"requested", string(industry),
			"fallback", defaults.DefaultIndustry,
			"error", ErrInvalidIndustry)
		key = Industry(defaults.DefaultIndustry)
		baseline = c.table[key]
	}

	deviation := orgScore - baseline.Average

	r := Result{
		OrganizationScore: orgScore,
		Industry:          key,
		IndustryAverage:   baseline.Average,
		Deviation:         deviation,
		RiskLevel:         riskFor(deviation),
	}

	if baseline.StdDev > 0 {
		p := normalPercentile(orgScore, baseline.Average, baseline.StdDev)
		r.Percentile = &p
	}

	return r
}

// riskFor bands the deviation: < −10 High, [−10, 0) Medium, ≥ 0 Low.
func riskFor(deviation float64) RiskLevel {
	switch {
	case deviation < defaults.BenchmarkHighRiskDeviation:
		return RiskHigh
	case deviation < 0:
		return RiskMedium
	default:
		return RiskLow
	}
}

// normalPercentile returns the percentile of x under N(mean, stddev²)
// via the error function, clamped to [0,100].
func normalPercentile(x, mean, stddev float64) float64 {
	z := (x - mean) / (stddev * math.Sqrt2)
	p := 0.5 * (1 + math.Erf(z)) * 100
	return math.Max(0, math.Min(100, p))
}

// orDefault returns l if non-nil, otherwise slog.Default().
func orDefault(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}
