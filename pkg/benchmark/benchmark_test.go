package benchmark

import (
	"io"
	"log/slog"
	"math"
	"testing"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCompareTechnologyTrailing(t *testing.T) {
	c := NewComparator(nil, discard())
	r := c.Compare(65, Technology)

	if r.IndustryAverage != 81.2 {
		t.Fatalf("average = %v, want 81.2", r.IndustryAverage)
	}
	if math.Abs(r.Deviation-(-16.2)) > 1e-9 {
		t.Fatalf("deviation = %v, want -16.2", r.Deviation)
	}
	if r.RiskLevel != RiskHigh {
		t.Fatalf("risk = %s, want High", r.RiskLevel)
	}
}

func TestRiskBanding(t *testing.T) {
	tests := []struct {
		deviation float64
		want      RiskLevel
	}{
		{-16.2, RiskHigh},
		{-10.1, RiskHigh},
		{-10.0, RiskMedium},
		{-0.5, RiskMedium},
		{0, RiskLow},
		{4.2, RiskLow},
	}
	for _, tt := range tests {
		if got := riskFor(tt.deviation); got != tt.want {
			t.Errorf("riskFor(%v) = %s, want %s", tt.deviation, got, tt.want)
		}
	}
}

func TestUnknownIndustryFallsBack(t *testing.T) {
	c := NewComparator(nil, discard())
	r := c.Compare(65, "quantum-agriculture")

	if r.Industry != Technology {
		t.Fatalf("industry = %s, want technology fallback", r.Industry)
	}
	if r.IndustryAverage != 81.2 {
		t.Fatalf("average = %v, want technology baseline 81.2", r.IndustryAverage)
	}
}

func TestIndustryNameNormalized(t *testing.T) {
	c := NewComparator(nil, discard())
	r := c.Compare(80, " Finance ")
	if r.Industry != Finance {
		t.Fatalf("industry = %s, want finance", r.Industry)
	}
}

func TestPercentileOmittedWithoutSpread(t *testing.T) {
	c := NewComparator(nil, discard())
	r := c.Compare(74.6, Government)
	if r.Percentile != nil {
		t.Fatalf("percentile = %v, want nil when stddev unknown", *r.Percentile)
	}
}

func TestPercentileAtMeanIsFifty(t *testing.T) {
	c := NewComparator(nil, discard())
	r := c.Compare(81.2, Technology)
	if r.Percentile == nil {
		t.Fatal("percentile missing")
	}
	if math.Abs(*r.Percentile-50) > 1e-9 {
		t.Fatalf("percentile at mean = %v, want 50", *r.Percentile)
	}
}

func TestPercentileBounded(t *testing.T) {
	c := NewComparator(nil, discard())
	for _, score := range []float64{0, 10, 50, 81.2, 99, 100} {
		r := c.Compare(score, Technology)
		if r.Percentile == nil {
			t.Fatalf("score %v: percentile missing", score)
		}
		if *r.Percentile < 0 || *r.Percentile > 100 {
			t.Fatalf("score %v: percentile %v out of range", score, *r.Percentile)
		}
	}
}

func TestCustomTable(t *testing.T) {
	table := Table{Technology: {Average: 90, StdDev: 5}}
	c := NewComparator(table, discard())
	r := c.Compare(85, Technology)
	if r.Deviation != -5 {
		t.Fatalf("deviation = %v, want -5", r.Deviation)
	}
	if r.RiskLevel != RiskMedium {
		t.Fatalf("risk = %s, want Medium", r.RiskLevel)
	}
}
