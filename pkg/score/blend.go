package score

import (
	"fmt"
	"math"

	"github.com/complyscan/complyscan/pkg/defaults"
)

// WeightProfile is a five-factor blend used to combine independent
// component scores (0–100 each) into one organizational risk figure.
// Weights must sum to exactly 1.0; Validate enforces this at
// configuration load.
type WeightProfile struct {
	Security           float64 `yaml:"security" json:"security"`
	Compliance         float64 `yaml:"compliance" json:"compliance"`
	DataProcessing     float64 `yaml:"data_processing" json:"data_processing"`
	FinancialStability float64 `yaml:"financial_stability" json:"financial_stability"`
	ServiceQuality     float64 `yaml:"service_quality" json:"service_quality"`
}

// DefaultProfile returns the documented organizational risk blend:
// security .30, compliance .25, data_processing .25,
// financial_stability .10, service_quality .10.
func DefaultProfile() WeightProfile {
	return WeightProfile{
		Security:           defaults.BlendSecurity,
		Compliance:         defaults.BlendCompliance,
		DataProcessing:     defaults.BlendDataProcessing,
		FinancialStability: defaults.BlendFinancialStability,
		ServiceQuality:     defaults.BlendServiceQuality,
	}
}

// Sum returns the total of all five weights.
func (p WeightProfile) Sum() float64 {
	return p.Security + p.Compliance + p.DataProcessing +
		p.FinancialStability + p.ServiceQuality
}

// Validate returns ErrInvalidWeightConfig unless the weights sum to
// 1.0 within tolerance and every weight is non-negative.
func (p WeightProfile) Validate() error {
	for name, w := range map[string]float64{
		"security":            p.Security,
		"compliance":          p.Compliance,
		"data_processing":     p.DataProcessing,
		"financial_stability": p.FinancialStability,
		"service_quality":     p.ServiceQuality,
	} {
		if w < 0 {
			return fmt.Errorf("%w: %s is negative (%v)", ErrInvalidWeightConfig, name, w)
		}
	}
	if diff := math.Abs(p.Sum() - 1.0); diff > defaults.WeightSumTolerance {
		return fmt.Errorf("%w: got %v", ErrInvalidWeightConfig, p.Sum())
	}
	return nil
}

// FactorScores holds the five independent component scores (0–100).
type FactorScores struct {
	Security           float64 `json:"security"`
	Compliance         float64 `json:"compliance"`
	DataProcessing     float64 `json:"data_processing"`
	FinancialStability float64 `json:"financial_stability"`
	ServiceQuality     float64 `json:"service_quality"`
}

// RiskBand is the banded interpretation of a blended score.
type RiskBand string

const (
	// BandMinimal indicates a blended score of 80 or above.
	BandMinimal RiskBand = "Minimal"

	// BandLow indicates a blended score in [60, 80).
	BandLow RiskBand = "Low"

	// BandMedium indicates a blended score in [40, 60).
	BandMedium RiskBand = "Medium"

	// BandHigh indicates a blended score in [20, 40).
	BandHigh RiskBand = "High"

	// BandCritical indicates a blended score below 20.
	BandCritical RiskBand = "Critical"
)

// Blend combines the factor scores under the profile. The profile is
// validated first; a profile that fails validation yields an error, never
// a silently mis-weighted score.
func Blend(s FactorScores, p WeightProfile) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	overall := s.Security*p.Security +
		s.Compliance*p.Compliance +
		s.DataProcessing*p.DataProcessing +
		s.FinancialStability*p.FinancialStability +
		s.ServiceQuality*p.ServiceQuality
	return overall, nil
}

// BandFor maps a blended score onto the documented banding:
// ≥80 Minimal, ≥60 Low, ≥40 Medium, ≥20 High, else Critical.
func BandFor(blended float64) RiskBand {
	switch {
	case blended >= defaults.BandMinimalMin:
		return BandMinimal
	case blended >= defaults.BandLowMin:
		return BandLow
	case blended >= defaults.BandMediumMin:
		return BandMedium
	case blended >= defaults.BandHighMin:
		return BandHigh
	default:
		return BandCritical
	}
}
