package breach

import (
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"testing"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHealthyPostureIsMediumAtWorst(t *testing.T) {
	d := NewDetector(Baseline{}, discard())
	r := d.Assess(SecurityMetrics{
		AccessControlScore:    98,
		EncryptionCoverage:    100,
		VulnerabilityCount:    0,
		FailedAccessAttempts:  2,
		DataVolumeProcessedGB: 400,
	})

	if r.AnomalyScore > 0.1 {
		t.Fatalf("healthy posture scored %v, want near zero", r.AnomalyScore)
	}
	if r.RiskLevel != RiskMedium {
		t.Fatalf("risk = %s, want Medium", r.RiskLevel)
	}
	if r.TimeToImpact != "14-30 days" {
		t.Fatalf("time to impact = %q, want 14-30 days", r.TimeToImpact)
	}
}

func TestDegradedPostureIsCritical(t *testing.T) {
	d := NewDetector(Baseline{}, discard())
	r := d.Assess(SecurityMetrics{
		AccessControlScore:    5,
		EncryptionCoverage:    0,
		VulnerabilityCount:    80,
		FailedAccessAttempts:  500,
		DataVolumeProcessedGB: 5000,
	})

	if r.RiskLevel != RiskCritical {
		t.Fatalf("risk = %s (score %v), want Critical", r.RiskLevel, r.AnomalyScore)
	}
	if r.TimeToImpact != "0-7 days" {
		t.Fatalf("time to impact = %q, want 0-7 days", r.TimeToImpact)
	}
	if r.AnomalyScore < 0.7 || r.AnomalyScore > 1 {
		t.Fatalf("anomaly score %v out of Critical band", r.AnomalyScore)
	}
}

func TestAnomalyScoreBounded(t *testing.T) {
	d := NewDetector(Baseline{}, discard())
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		m := SecurityMetrics{
			AccessControlScore:    rng.Float64()*300 - 100,
			EncryptionCoverage:    rng.Float64()*300 - 100,
			VulnerabilityCount:    rng.Intn(2000) - 500,
			FailedAccessAttempts:  rng.Intn(10000) - 1000,
			DataVolumeProcessedGB: rng.Float64()*1e6 - 1000,
		}
		r := d.Assess(m)
		if r.AnomalyScore < 0 || r.AnomalyScore > 1 {
			t.Fatalf("anomaly score %v out of [0,1] for %+v", r.AnomalyScore, m)
		}
		if r.Probability < 0 || r.Probability > 1 {
			t.Fatalf("probability %v out of [0,1]", r.Probability)
		}
	}
}

func TestWorseAccessControlRaisesScore(t *testing.T) {
	d := NewDetector(Baseline{}, discard())
	base := SecurityMetrics{
		AccessControlScore:   90,
		EncryptionCoverage:   90,
		VulnerabilityCount:   5,
		FailedAccessAttempts: 10,
	}
	degraded := base
	degraded.AccessControlScore = 30

	if d.Assess(degraded).AnomalyScore <= d.Assess(base).AnomalyScore {
		t.Fatal("lower access control score did not raise anomaly score")
	}
}

func TestClassifyThresholds(t *testing.T) {
	tests := []struct {
		score  float64
		level  RiskLevel
		window string
	}{
		{0.0, RiskMedium, "14-30 days"},
		{0.49, RiskMedium, "14-30 days"},
		{0.5, RiskHigh, "7-14 days"},
		{0.69, RiskHigh, "7-14 days"},
		{0.7, RiskCritical, "0-7 days"},
		{1.0, RiskCritical, "0-7 days"},
	}
	for _, tt := range tests {
		level, window := classify(tt.score)
		if level != tt.level || window != tt.window {
			t.Errorf("classify(%v) = (%s, %s), want (%s, %s)",
				tt.score, level, window, tt.level, tt.window)
		}
	}
}

func TestActionsReflectWeakMetrics(t *testing.T) {
	d := NewDetector(Baseline{}, discard())
	r := d.Assess(SecurityMetrics{
		AccessControlScore:   40,
		EncryptionCoverage:   95,
		FailedAccessAttempts: 120,
	})

	joined := strings.Join(r.RecommendedActions, "\n")
	if !strings.Contains(joined, "multi-factor") {
		t.Fatalf("expected MFA action for weak access control, got:\n%s", joined)
	}
	if !strings.Contains(joined, "failed access attempts") {
		t.Fatalf("expected failed-access investigation action, got:\n%s", joined)
	}
	if strings.Contains(joined, "encryption at rest") {
		t.Fatalf("encryption action should not fire at 95%% coverage, got:\n%s", joined)
	}
	if len(r.RecommendedActions) == 0 {
		t.Fatal("no recommended actions returned")
	}
}

func TestDataVolumeBelowBaselineIgnored(t *testing.T) {
	d := NewDetector(Baseline{ExpectedDataVolumeGB: 500}, discard())
	low := d.Assess(SecurityMetrics{AccessControlScore: 100, EncryptionCoverage: 100, DataVolumeProcessedGB: 10})
	at := d.Assess(SecurityMetrics{AccessControlScore: 100, EncryptionCoverage: 100, DataVolumeProcessedGB: 500})
	if low.AnomalyScore != at.AnomalyScore {
		t.Fatalf("volume below baseline changed score: %v vs %v", low.AnomalyScore, at.AnomalyScore)
	}
}
