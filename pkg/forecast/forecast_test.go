package forecast

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/complyscan/complyscan/pkg/taxonomy"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func day(origin time.Time, d int) time.Time {
	return origin.Add(time.Duration(d) * 24 * time.Hour)
}

func TestPredictRequiresThreePoints(t *testing.T) {
	f := New(discard())
	origin := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)

	series := Series{
		OrganizationID: "org-1",
		Points: []Point{
			{Timestamp: day(origin, 0), Score: 80},
			{Timestamp: day(origin, 10), Score: 82},
		},
	}

	_, err := f.Predict(series, 30*24*time.Hour)
	if !errors.Is(err, ErrInsufficientHistory) {
		t.Fatalf("err = %v, want ErrInsufficientHistory", err)
	}
}

func TestPredictLinearImprovement(t *testing.T) {
	// Points fall on an exact line: slope 0.5 per day, intercept 50.
	origin := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	now := day(origin, 20)
	f := New(discard(), WithClock(func() time.Time { return now }))

	series := Series{
		OrganizationID: "org-1",
		Points: []Point{
			{Timestamp: day(origin, 0), Score: 50},
			{Timestamp: day(origin, 10), Score: 55},
			{Timestamp: day(origin, 20), Score: 60},
		},
	}

	r, err := f.Predict(series, 30*24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(r.Slope-0.5) > 1e-9 {
		t.Fatalf("slope = %v, want 0.5", r.Slope)
	}
	if r.Trend != TrendImproving {
		t.Fatalf("trend = %s, want Improving", r.Trend)
	}
	if r.CurrentScore != 60 {
		t.Fatalf("current = %v, want 60", r.CurrentScore)
	}

	// Horizon lands on 2026-04-05, second quarter, factor 0.9.
	// Raw projection is 50 + 0.5*50 = 75; adjusted 60 + 15*0.9 = 73.5.
	if r.SeasonalFactor != 0.9 {
		t.Fatalf("seasonal factor = %v, want 0.9", r.SeasonalFactor)
	}
	if math.Abs(r.PredictedScore-75) > 1e-9 {
		t.Fatalf("predicted = %v, want 75", r.PredictedScore)
	}
	if math.Abs(r.SeasonallyAdjustedScore-73.5) > 1e-9 {
		t.Fatalf("adjusted = %v, want 73.5", r.SeasonallyAdjustedScore)
	}
	if r.HorizonDays != 30 {
		t.Fatalf("horizon days = %d, want 30", r.HorizonDays)
	}

	// A perfect fit has zero residual spread, so the interval collapses.
	if math.Abs(r.LowerBound-r.SeasonallyAdjustedScore) > 1e-9 || math.Abs(r.UpperBound-r.SeasonallyAdjustedScore) > 1e-9 {
		t.Fatalf("bounds [%v, %v] should equal adjusted %v", r.LowerBound, r.UpperBound, r.SeasonallyAdjustedScore)
	}
}

func TestPredictUnsortedInputHandled(t *testing.T) {
	origin := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	now := day(origin, 20)
	f := New(discard(), WithClock(func() time.Time { return now }))

	series := Series{
		OrganizationID: "org-1",
		Points: []Point{
			{Timestamp: day(origin, 20), Score: 60},
			{Timestamp: day(origin, 0), Score: 50},
			{Timestamp: day(origin, 10), Score: 55},
		},
	}

	r, err := f.Predict(series, 30*24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if r.CurrentScore != 60 {
		t.Fatalf("current = %v, want latest point 60", r.CurrentScore)
	}
	if math.Abs(r.Slope-0.5) > 1e-9 {
		t.Fatalf("slope = %v, want 0.5", r.Slope)
	}
}

func TestPredictStable(t *testing.T) {
	origin := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	f := New(discard(), WithClock(func() time.Time { return day(origin, 20) }))

	series := Series{
		OrganizationID: "org-1",
		Points: []Point{
			{Timestamp: day(origin, 0), Score: 72},
			{Timestamp: day(origin, 10), Score: 72},
			{Timestamp: day(origin, 20), Score: 72},
		},
	}

	r, err := f.Predict(series, 30*24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if r.Trend != TrendStable {
		t.Fatalf("trend = %s, want Stable", r.Trend)
	}
	if math.Abs(r.SeasonallyAdjustedScore-72) > 1e-9 {
		t.Fatalf("adjusted = %v, want 72", r.SeasonallyAdjustedScore)
	}
}

func TestPredictBoundsClamped(t *testing.T) {
	origin := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	f := New(discard(), WithClock(func() time.Time { return day(origin, 20) }))

	series := Series{
		OrganizationID: "org-1",
		Points: []Point{
			{Timestamp: day(origin, 0), Score: 40},
			{Timestamp: day(origin, 10), Score: 20},
			{Timestamp: day(origin, 20), Score: 2},
		},
	}

	r, err := f.Predict(series, 30*24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if r.Trend != TrendCritical {
		t.Fatalf("trend = %s, want Critical (slope %v)", r.Trend, r.Slope)
	}
	if r.PredictedScore < 0 || r.SeasonallyAdjustedScore < 0 || r.LowerBound < 0 {
		t.Fatalf("prediction not clamped: predicted %v adjusted %v lower %v",
			r.PredictedScore, r.SeasonallyAdjustedScore, r.LowerBound)
	}
	if r.UpperBound > 100 {
		t.Fatalf("upper bound %v exceeds 100", r.UpperBound)
	}
	if r.LowerBound > r.SeasonallyAdjustedScore || r.SeasonallyAdjustedScore > r.UpperBound {
		t.Fatalf("bounds [%v, %v] do not bracket %v", r.LowerBound, r.UpperBound, r.SeasonallyAdjustedScore)
	}
}

func TestTrendClassification(t *testing.T) {
	tests := []struct {
		slope float64
		want  Trend
	}{
		{0, TrendStable},
		{0.05, TrendStable},
		{-0.05, TrendStable},
		{0.1, TrendImproving},
		{2.5, TrendImproving},
		{-0.1, TrendDeteriorating},
		{-0.99, TrendDeteriorating},
		{-1.0, TrendCritical},
		{-3, TrendCritical},
	}
	for _, tt := range tests {
		if got := trendFor(tt.slope); got != tt.want {
			t.Errorf("trendFor(%v) = %s, want %s", tt.slope, got, tt.want)
		}
	}
}

func TestSeasonalFactors(t *testing.T) {
	tests := []struct {
		month time.Month
		want  float64
	}{
		{time.January, 1.2},
		{time.March, 1.2},
		{time.April, 0.9},
		{time.June, 0.9},
		{time.July, 0.8},
		{time.September, 0.8},
		{time.October, 1.1},
		{time.December, 1.1},
	}
	f := New(discard())
	for _, tt := range tests {
		d := time.Date(2026, tt.month, 15, 0, 0, 0, 0, time.UTC)
		if got := f.seasonalFactor(d); got != tt.want {
			t.Errorf("seasonalFactor(%s) = %v, want %v", tt.month, got, tt.want)
		}
	}
}

func TestWithSeasonalOverride(t *testing.T) {
	f := New(discard(), WithSeasonal(1, 1, 1, 2))
	d := time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC)
	if got := f.seasonalFactor(d); got != 2 {
		t.Errorf("seasonalFactor with override = %v, want 2", got)
	}
}

func TestExtractFeatures(t *testing.T) {
	origin := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	counts := taxonomy.NewRiskCount()
	counts[taxonomy.Critical] = 1
	counts[taxonomy.High] = 3

	series := Series{
		OrganizationID: "org-1",
		Points: []Point{
			{Timestamp: day(origin, 0), Score: 50, FindingCount: 20},
			{Timestamp: day(origin, 15), Score: 60, FindingCount: 12},
			{Timestamp: day(origin, 30), Score: 70, FindingCount: 4, RiskCounts: counts},
		},
	}

	f := ExtractFeatures(series)

	if f.FindingCount != 4 {
		t.Fatalf("finding count = %d, want latest scan's 4", f.FindingCount)
	}
	if math.Abs(f.RemediationRate-0.8) > 1e-9 {
		t.Fatalf("remediation rate = %v, want 0.8", f.RemediationRate)
	}
	if math.Abs(f.ScanFrequency-3.0) > 1e-9 {
		t.Fatalf("scan frequency = %v, want 3 per 30 days", f.ScanFrequency)
	}
	if math.Abs(f.SeverityDistribution[taxonomy.Critical]-0.25) > 1e-9 {
		t.Fatalf("critical share = %v, want 0.25", f.SeverityDistribution[taxonomy.Critical])
	}

	var sum float64
	for _, share := range f.SeverityDistribution {
		sum += share
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("distribution sums to %v, want 1", sum)
	}
}

func TestExtractFeaturesEmptySeries(t *testing.T) {
	f := ExtractFeatures(Series{OrganizationID: "org-1"})
	if f.FindingCount != 0 || f.RemediationRate != 0 || f.ScanFrequency != 0 {
		t.Fatalf("empty series produced non-zero features: %+v", f)
	}
}
