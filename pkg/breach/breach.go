// Package breach assesses near-term breach risk from a snapshot of
// current security-posture metrics. Unlike pkg/forecast it looks at no
// history: it scores how far the snapshot sits from a healthy baseline
// and calibrates that distance into a bounded anomaly score.
package breach

import (
	"log/slog"
	"math"

	"github.com/complyscan/complyscan/pkg/defaults"
)

// SecurityMetrics is the posture snapshot consumed by the detector.
// Scores and coverage are percentages in [0, 100]; counts are absolute.
type SecurityMetrics struct {
	AccessControlScore   float64 `json:"access_control_score" yaml:"access_control_score"`
	EncryptionCoverage   float64 `json:"encryption_coverage" yaml:"encryption_coverage"`
	VulnerabilityCount   int     `json:"vulnerability_count" yaml:"vulnerability_count"`
	FailedAccessAttempts int     `json:"failed_access_attempts" yaml:"failed_access_attempts"`

	// DataVolumeProcessedGB is the volume handled in the observation
	// window. Volumes far above the expected baseline raise suspicion
	// of exfiltration or runaway processing.
	DataVolumeProcessedGB float64 `json:"data_volume_processed_gb" yaml:"data_volume_processed_gb"`
}

// RiskLevel classifies the anomaly score.
type RiskLevel string

const (
	RiskCritical RiskLevel = "Critical"
	RiskHigh     RiskLevel = "High"
	RiskMedium   RiskLevel = "Medium"
)

// Result is the outcome of one breach-risk assessment.
type Result struct {
	// AnomalyScore is in [0, 1]; higher means more anomalous.
	AnomalyScore float64 `json:"anomaly_score"`

	RiskLevel RiskLevel `json:"risk_level"`

	// Probability is the calibrated likelihood of a breach materializing
	// within the time-to-impact window.
	Probability float64 `json:"probability"`

	// TimeToImpact is the categorical urgency bucket.
	TimeToImpact string `json:"time_to_impact"`

	RecommendedActions []string `json:"recommended_actions"`
}

// Baseline defines the healthy reference posture the detector measures
// distance from. Overridable through pkg/config.
type Baseline struct {
	// VulnerabilityScale is the open-vulnerability count at which that
	// feature saturates to maximum badness.
	VulnerabilityScale float64 `yaml:"vulnerability_scale" json:"vulnerability_scale"`

	// FailedAttemptScale is the failed-access count at which that
	// feature saturates.
	FailedAttemptScale float64 `yaml:"failed_attempt_scale" json:"failed_attempt_scale"`

	// ExpectedDataVolumeGB is the normal processing volume; badness
	// grows with volume above this level.
	ExpectedDataVolumeGB float64 `yaml:"expected_data_volume_gb" json:"expected_data_volume_gb"`
}

// DefaultBaseline returns the built-in healthy reference posture.
func DefaultBaseline() Baseline {
	return Baseline{
		VulnerabilityScale:   25,
		FailedAttemptScale:   100,
		ExpectedDataVolumeGB: 500,
	}
}

// Feature weights for the distance computation. Access control and
// encryption dominate because they gate every other control.
const (
	wAccessControl = 0.25
	wEncryption    = 0.25
	wVulnerability = 0.20
	wFailedAccess  = 0.20
	wDataVolume    = 0.10

	// distanceGain maps the weighted distance onto [0, 1) so that a
	// half-degraded posture lands near the High threshold and a fully
	// degraded one deep into Critical.
	distanceGain = 2.0
)

// Detector scores posture snapshots against a baseline.
type Detector struct {
	baseline Baseline
	logger   *slog.Logger
}

// NewDetector returns a Detector. A zero baseline field falls back to
// its default; a nil logger uses slog.Default.
func NewDetector(baseline Baseline, logger *slog.Logger) *Detector {
	def := DefaultBaseline()
	if baseline.VulnerabilityScale <= 0 {
		baseline.VulnerabilityScale = def.VulnerabilityScale
	}
	if baseline.FailedAttemptScale <= 0 {
		baseline.FailedAttemptScale = def.FailedAttemptScale
	}
	if baseline.ExpectedDataVolumeGB <= 0 {
		baseline.ExpectedDataVolumeGB = def.ExpectedDataVolumeGB
	}
	return &Detector{baseline: baseline, logger: orDefault(logger)}
}

// Assess computes the breach-risk result for one snapshot. The anomaly
// score is always in [0, 1] regardless of input range.
func (d *Detector) Assess(m SecurityMetrics) Result {
	dist := d.distance(m)

	// Exponential calibration keeps the score strictly below 1 and
	// spreads resolution across the common low-distance region.
	score := 1 - math.Exp(-distanceGain*dist)
	score = math.Max(0, math.Min(1, score))

	level, window := classify(score)

	r := Result{
		AnomalyScore:       score,
		RiskLevel:          level,
		Probability:        score,
		TimeToImpact:       window,
		RecommendedActions: actionsFor(level, m),
	}

	d.logger.Debug("breach risk assessed",
		"anomaly_score", score,
		"risk_level", string(level),
		"time_to_impact", window)

	return r
}

// distance is the weighted sum of per-feature badness values, each
// normalized to [0, 1].
func (d *Detector) distance(m SecurityMetrics) float64 {
	access := unit((100 - m.AccessControlScore) / 100)
	encryption := unit((100 - m.EncryptionCoverage) / 100)
	vulns := unit(float64(m.VulnerabilityCount) / d.baseline.VulnerabilityScale)
	failed := unit(float64(m.FailedAccessAttempts) / d.baseline.FailedAttemptScale)

	var volume float64
	if m.DataVolumeProcessedGB > d.baseline.ExpectedDataVolumeGB {
		volume = unit((m.DataVolumeProcessedGB - d.baseline.ExpectedDataVolumeGB) / d.baseline.ExpectedDataVolumeGB)
	}

	return wAccessControl*access +
		wEncryption*encryption +
		wVulnerability*vulns +
		wFailedAccess*failed +
		wDataVolume*volume
}

// classify maps an anomaly score onto a risk level and urgency window.
func classify(score float64) (RiskLevel, string) {
	switch {
	case score >= defaults.BreachCriticalScore:
		return RiskCritical, "0-7 days"
	case score >= defaults.BreachHighScore:
		return RiskHigh, "7-14 days"
	default:
		return RiskMedium, "14-30 days"
	}
}

// actionsFor returns the remediation playbook for a risk level, with
// metric-specific items appended when a single feature stands out.
func actionsFor(level RiskLevel, m SecurityMetrics) []string {
	var actions []string
	switch level {
	case RiskCritical:
		actions = append(actions,
			"Activate incident response team",
			"Rotate privileged credentials immediately",
			"Enable enhanced audit logging on all data stores")
	case RiskHigh:
		actions = append(actions,
			"Schedule emergency patch window within 7 days",
			"Review access grants for least privilege")
	default:
		actions = append(actions,
			"Include findings in next remediation sprint",
			"Re-run posture assessment after remediation")
	}

	if m.AccessControlScore < 60 {
		actions = append(actions, "Enforce multi-factor authentication on all administrative accounts")
	}
	if m.EncryptionCoverage < 60 {
		actions = append(actions, "Extend encryption at rest to uncovered data stores")
	}
	if m.FailedAccessAttempts > 50 {
		actions = append(actions, "Investigate repeated failed access attempts for credential stuffing")
	}

	return actions
}

// unit clamps v to [0, 1].
func unit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// orDefault returns l if non-nil, otherwise slog.Default().
func orDefault(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}
