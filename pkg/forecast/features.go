package forecast

import (
	"github.com/complyscan/complyscan/pkg/taxonomy"
)

// Features summarizes the signals extracted from a scan series that
// feed downstream risk models.
type Features struct {
	// FindingCount is the total findings in the latest scan.
	FindingCount int `json:"finding_count"`

	// SeverityDistribution is the share of each risk level across the
	// latest scan, values in [0, 1].
	SeverityDistribution map[taxonomy.RiskLevel]float64 `json:"severity_distribution"`

	// RemediationRate is the fraction of findings resolved between the
	// first and latest scan, in [0, 1]. Zero when findings grew.
	RemediationRate float64 `json:"remediation_rate"`

	// ScanFrequency is the average number of scans per 30 days over
	// the series' observed span.
	ScanFrequency float64 `json:"scan_frequency"`
}

// ExtractFeatures derives Features from a series. An empty series yields
// zero Features with an empty distribution.
func ExtractFeatures(series Series) Features {
	f := Features{
		SeverityDistribution: make(map[taxonomy.RiskLevel]float64),
	}
	if len(series.Points) == 0 {
		return f
	}

	latest := series.Points[0]
	first := series.Points[0]
	for _, p := range series.Points[1:] {
		if p.Timestamp.After(latest.Timestamp) {
			latest = p
		}
		if p.Timestamp.Before(first.Timestamp) {
			first = p
		}
	}

	f.FindingCount = latest.FindingCount

	if total := latest.RiskCounts.Total(); total > 0 {
		for level, n := range latest.RiskCounts {
			f.SeverityDistribution[level] = float64(n) / float64(total)
		}
	}

	if first.FindingCount > 0 && latest.FindingCount < first.FindingCount {
		resolved := first.FindingCount - latest.FindingCount
		f.RemediationRate = float64(resolved) / float64(first.FindingCount)
	}

	span := latest.Timestamp.Sub(first.Timestamp)
	if span > 0 {
		f.ScanFrequency = float64(len(series.Points)) / (span.Hours() / 24) * 30
	} else {
		f.ScanFrequency = float64(len(series.Points))
	}

	return f
}

// SpanDays returns the number of days between the oldest and newest
// points in the series.
func SpanDays(series Series) float64 {
	if len(series.Points) < 2 {
		return 0
	}
	oldest, newest := series.Points[0].Timestamp, series.Points[0].Timestamp
	for _, p := range series.Points[1:] {
		if p.Timestamp.Before(oldest) {
			oldest = p.Timestamp
		}
		if p.Timestamp.After(newest) {
			newest = p.Timestamp
		}
	}
	return newest.Sub(oldest).Hours() / 24
}
