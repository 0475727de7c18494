package taxonomy

// RiskLevel represents the canonical risk classification used across all
// scanners. All values are lowercase strings matching the convention used
// throughout the codebase.
type RiskLevel string

const (
	// Critical represents findings demanding immediate remediation
	// (exposed credentials, unprotected special-category data).
	Critical RiskLevel = "critical"

	// High represents significant exposure requiring prompt fix
	// (unencrypted personal data, missing consent checks).
	High RiskLevel = "high"

	// Medium represents moderate exposure (incomplete retention policy,
	// weak pseudonymization).
	Medium RiskLevel = "medium"

	// Low represents limited exposure (verbose logging, minor metadata leak).
	Low RiskLevel = "low"

	// None represents informational findings with no compliance impact.
	None RiskLevel = "none"
)

// Levels returns all canonical risk levels in descending order of severity.
// The order is the total order used for comparison and aggregation.
func Levels() []RiskLevel {
	return []RiskLevel{Critical, High, Medium, Low, None}
}

// IsValid reports whether l is a recognized canonical risk level.
func (l RiskLevel) IsValid() bool {
	switch l {
	case Critical, High, Medium, Low, None:
		return true
	}
	return false
}

// Rank returns a numeric rank for sorting and comparison.
// Critical=5, High=4, Medium=3, Low=2, None=1, unknown=0.
func (l RiskLevel) Rank() int {
	switch l {
	case Critical:
		return 5
	case High:
		return 4
	case Medium:
		return 3
	case Low:
		return 2
	case None:
		return 1
	default:
		return 0
	}
}

// String returns the risk level as a string.
func (l RiskLevel) String() string {
	return string(l)
}

// RemediationPriority maps the risk level to the remediation priority
// bucket used by the recommendation generator.
// Critical → Immediate, High → 7 days, Medium → 30 days, Low/None → 90 days.
func (l RiskLevel) RemediationPriority() string {
	switch l {
	case Critical:
		return "Immediate"
	case High:
		return "7 days"
	case Medium:
		return "30 days"
	default:
		return "90 days"
	}
}
