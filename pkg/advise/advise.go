// Package advise turns aggregation, forecast, and breach-risk outputs
// into a prioritized, costed remediation plan. Generation is fully
// deterministic: identical inputs always yield the identical plan.
package advise

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/complyscan/complyscan/pkg/breach"
	"github.com/complyscan/complyscan/pkg/forecast"
	"github.com/complyscan/complyscan/pkg/score"
	"github.com/complyscan/complyscan/pkg/taxonomy"
)

// Priority is the remediation urgency bucket.
type Priority string

const (
	PriorityImmediate Priority = "Immediate"
	PrioritySevenDays Priority = "7 days"
	PriorityMonth     Priority = "30 days"
	PriorityQuarter   Priority = "90 days"
)

// rank orders priorities for sorting, most urgent first.
func (p Priority) rank() int {
	switch p {
	case PriorityImmediate:
		return 0
	case PrioritySevenDays:
		return 1
	case PriorityMonth:
		return 2
	default:
		return 3
	}
}

// Recommendation is one costed remediation action.
type Recommendation struct {
	Priority Priority `json:"priority"`
	Action   string   `json:"action"`

	// EstimatedCost is the projected remediation spend in USD.
	EstimatedCost float64 `json:"estimated_cost"`

	// EstimatedImpact is the expected compliance-score improvement.
	EstimatedImpact float64 `json:"estimated_impact"`

	// PreventedExposure is the cost exposure avoided by acting, in USD.
	PreventedExposure float64 `json:"prevented_exposure"`

	// ROI = (prevented_exposure − estimated_cost) / estimated_cost.
	ROI float64 `json:"roi"`
}

// Per-finding remediation economics by risk level. Exposure figures
// reflect typical regulatory penalty plus incident handling cost.
var economics = map[taxonomy.RiskLevel]struct {
	cost     float64
	exposure float64
	impact   float64
}{
	taxonomy.Critical: {cost: 12000, exposure: 150000, impact: 8},
	taxonomy.High:     {cost: 6000, exposure: 45000, impact: 5},
	taxonomy.Medium:   {cost: 2500, exposure: 9000, impact: 3},
	taxonomy.Low:      {cost: 800, exposure: 1600, impact: 1},
}

// Generator produces remediation plans.
type Generator struct {
	logger *slog.Logger
}

// NewGenerator returns a Generator. A nil logger uses slog.Default.
func NewGenerator(logger *slog.Logger) *Generator {
	return &Generator{logger: orDefault(logger)}
}

// Generate builds the remediation plan from the three upstream results.
// forecastResult may be nil when history was insufficient; the plan then
// omits trend-driven actions. Output ordering is priority ascending in
// urgency, then ROI descending, with the action text as the final
// tie-break so the plan is stable across runs.
func (g *Generator) Generate(aggregate score.ComplianceScoreResult, forecastResult *forecast.Result, breachResult breach.Result) []Recommendation {
	var recs []Recommendation

	recs = append(recs, g.findingActions(aggregate)...)

	if r := g.breachAction(breachResult); r != nil {
		recs = append(recs, *r)
	}

	if forecastResult != nil {
		if r := g.trendAction(forecastResult); r != nil {
			recs = append(recs, *r)
		}
	}

	if aggregate.Status == score.NonCompliant {
		recs = append(recs, Recommendation{
			Priority:          PriorityImmediate,
			Action:            "Launch a formal compliance remediation program with executive sponsorship",
			EstimatedCost:     25000,
			EstimatedImpact:   15,
			PreventedExposure: 400000,
			ROI:               roi(400000, 25000),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Priority.rank() != recs[j].Priority.rank() {
			return recs[i].Priority.rank() < recs[j].Priority.rank()
		}
		if recs[i].ROI != recs[j].ROI {
			return recs[i].ROI > recs[j].ROI
		}
		return recs[i].Action < recs[j].Action
	})

	g.logger.Debug("remediation plan generated", "actions", len(recs))
	return recs
}

// findingActions emits one batched action per risk level with open
// findings, costed by that level's economics.
func (g *Generator) findingActions(aggregate score.ComplianceScoreResult) []Recommendation {
	var recs []Recommendation
	for _, level := range taxonomy.Levels() {
		n := aggregate.RiskBreakdown[level]
		if n <= 0 {
			continue
		}
		econ, ok := economics[level]
		if !ok {
			continue
		}

		cost := econ.cost * float64(n)
		exposure := econ.exposure * float64(n)
		recs = append(recs, Recommendation{
			Priority:          Priority(level.RemediationPriority()),
			Action:            fmt.Sprintf("Remediate %d %s-severity findings", n, level),
			EstimatedCost:     cost,
			EstimatedImpact:   econ.impact * float64(n),
			PreventedExposure: exposure,
			ROI:               roi(exposure, cost),
		})
	}
	return recs
}

// breachAction emits a containment action when breach risk is elevated.
func (g *Generator) breachAction(b breach.Result) *Recommendation {
	switch b.RiskLevel {
	case breach.RiskCritical:
		return &Recommendation{
			Priority:          PriorityImmediate,
			Action:            fmt.Sprintf("Contain elevated breach risk (anomaly %.2f, impact window %s)", b.AnomalyScore, b.TimeToImpact),
			EstimatedCost:     18000,
			EstimatedImpact:   10,
			PreventedExposure: 500000,
			ROI:               roi(500000, 18000),
		}
	case breach.RiskHigh:
		return &Recommendation{
			Priority:          PrioritySevenDays,
			Action:            fmt.Sprintf("Harden security posture against breach indicators (anomaly %.2f)", b.AnomalyScore),
			EstimatedCost:     9000,
			EstimatedImpact:   6,
			PreventedExposure: 120000,
			ROI:               roi(120000, 9000),
		}
	default:
		return nil
	}
}

// trendAction emits a course-correction action when the forecast points
// downward.
func (g *Generator) trendAction(f *forecast.Result) *Recommendation {
	switch f.Trend {
	case forecast.TrendCritical:
		return &Recommendation{
			Priority:          PriorityImmediate,
			Action:            fmt.Sprintf("Reverse critical compliance decline (projected score %.1f in %d days)", f.SeasonallyAdjustedScore, f.HorizonDays),
			EstimatedCost:     15000,
			EstimatedImpact:   12,
			PreventedExposure: 250000,
			ROI:               roi(250000, 15000),
		}
	case forecast.TrendDeteriorating:
		return &Recommendation{
			Priority:          PriorityMonth,
			Action:            fmt.Sprintf("Address deteriorating compliance trend (projected score %.1f in %d days)", f.SeasonallyAdjustedScore, f.HorizonDays),
			EstimatedCost:     7500,
			EstimatedImpact:   6,
			PreventedExposure: 60000,
			ROI:               roi(60000, 7500),
		}
	default:
		return nil
	}
}

// roi computes (exposure − cost) / cost; zero cost yields zero to keep
// the output finite.
func roi(exposure, cost float64) float64 {
	if cost <= 0 {
		return 0
	}
	return (exposure - cost) / cost
}

// orDefault returns l if non-nil, otherwise slog.Default().
func orDefault(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}
