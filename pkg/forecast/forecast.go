// Package forecast predicts future compliance posture from scan history.
// The model is an ordinary least squares fit over score-vs-time with a
// seasonal adjustment on the projected delta and a normal confidence
// interval from the fit residuals.
package forecast

import (
	"errors"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/complyscan/complyscan/pkg/defaults"
	"github.com/complyscan/complyscan/pkg/taxonomy"
)

// ErrInsufficientHistory indicates too few scans to fit a trend.
var ErrInsufficientHistory = errors.New("forecast: insufficient scan history")

// Trend classifies the direction of the fitted score trajectory.
type Trend string

const (
	TrendImproving     Trend = "Improving"
	TrendStable        Trend = "Stable"
	TrendDeteriorating Trend = "Deteriorating"
	TrendCritical      Trend = "Critical"
)

// Point is one historical scan observation.
type Point struct {
	Timestamp    time.Time          `json:"timestamp"`
	Score        float64            `json:"score"`
	FindingCount int                `json:"finding_count"`
	RiskCounts   taxonomy.RiskCount `json:"risk_counts,omitempty"`
}

// Series is an organization's ordered scan history.
type Series struct {
	OrganizationID string  `json:"organization_id"`
	Points         []Point `json:"points"`
}

// Result is the outcome of one forecast.
type Result struct {
	OrganizationID string    `json:"organization_id"`
	GeneratedAt    time.Time `json:"generated_at"`
	Horizon        time.Time `json:"horizon"`
	HorizonDays    int       `json:"forecast_horizon_days"`

	CurrentScore float64 `json:"current_score"`

	// PredictedScore is the raw regression projection at the horizon.
	PredictedScore float64 `json:"predicted_score"`

	// SeasonallyAdjustedScore is the projection with the quarterly
	// multiplier applied to the delta from the current score. This is
	// the headline number the interval brackets.
	SeasonallyAdjustedScore float64 `json:"seasonally_adjusted_score"`

	// Confidence interval on the prediction, clamped to [0, 100].
	LowerBound float64 `json:"lower_bound"`
	UpperBound float64 `json:"upper_bound"`

	Trend Trend `json:"trend"`

	// Slope is the fitted score change per day.
	Slope float64 `json:"slope"`

	// SeasonalFactor is the multiplier applied to the projected delta
	// for the quarter the horizon falls in.
	SeasonalFactor float64 `json:"seasonal_factor"`

	DataPoints int `json:"data_points"`
}

// Forecaster fits trends over scan series. The zero value is not usable;
// construct with New.
type Forecaster struct {
	logger   *slog.Logger
	now      func() time.Time
	seasonal [4]float64
}

// Option configures a Forecaster.
type Option func(*Forecaster)

// WithClock overrides the time source. Used by tests to pin quarters.
func WithClock(now func() time.Time) Option {
	return func(f *Forecaster) { f.now = now }
}

// WithSeasonal overrides the quarterly pressure multipliers (Q1..Q4).
func WithSeasonal(q1, q2, q3, q4 float64) Option {
	return func(f *Forecaster) { f.seasonal = [4]float64{q1, q2, q3, q4} }
}

// New returns a Forecaster. A nil logger uses slog.Default.
func New(logger *slog.Logger, opts ...Option) *Forecaster {
	f := &Forecaster{
		logger: orDefault(logger),
		now:    time.Now,
		seasonal: [4]float64{
			defaults.SeasonalQ1,
			defaults.SeasonalQ2,
			defaults.SeasonalQ3,
			defaults.SeasonalQ4,
		},
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Predict forecasts the series' score at now+horizon. It returns
// ErrInsufficientHistory when the series has fewer than three points.
func (f *Forecaster) Predict(series Series, horizon time.Duration) (*Result, error) {
	if len(series.Points) < defaults.MinForecastPoints {
		return nil, ErrInsufficientHistory
	}

	points := make([]Point, len(series.Points))
	copy(points, series.Points)
	sort.Slice(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})

	// Fit score against days elapsed since the first scan.
	origin := points[0].Timestamp
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.Timestamp.Sub(origin).Hours() / 24
		ys[i] = p.Score
	}

	slope, intercept := leastSquares(xs, ys)
	sigma := residualStdDev(xs, ys, slope, intercept)

	now := f.now().UTC()
	target := now.Add(horizon)
	tFuture := target.Sub(origin).Hours() / 24

	current := points[len(points)-1].Score
	predicted := intercept + slope*tFuture

	// Seasonal pressure scales how far the score drifts from where it
	// is today, not the absolute level.
	factor := f.seasonalFactor(target)
	adjusted := current + (predicted-current)*factor

	lower := adjusted - defaults.ConfidenceZ*sigma
	upper := adjusted + defaults.ConfidenceZ*sigma

	r := &Result{
		OrganizationID:          series.OrganizationID,
		GeneratedAt:             now,
		Horizon:                 target,
		HorizonDays:             int(horizon.Hours() / 24),
		CurrentScore:            current,
		PredictedScore:          clamp(predicted),
		SeasonallyAdjustedScore: clamp(adjusted),
		LowerBound:              clamp(lower),
		UpperBound:              clamp(upper),
		Trend:                   trendFor(slope),
		Slope:                   slope,
		SeasonalFactor:          factor,
		DataPoints:              len(points),
	}

	f.logger.Debug("forecast generated",
		"organization", series.OrganizationID,
		"points", r.DataPoints,
		"slope", slope,
		"predicted", r.SeasonallyAdjustedScore,
		"trend", string(r.Trend))

	return r, nil
}

// leastSquares fits y = slope*x + intercept by ordinary least squares.
// A degenerate x spread yields a flat line at the mean.
func leastSquares(xs, ys []float64) (slope, intercept float64) {
	n := float64(len(xs))
	var sumX, sumY, sumXY, sumXX float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumXX += xs[i] * xs[i]
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

// residualStdDev returns the standard deviation of the fit residuals.
func residualStdDev(xs, ys []float64, slope, intercept float64) float64 {
	var sum float64
	for i := range xs {
		r := ys[i] - (intercept + slope*xs[i])
		sum += r * r
	}
	return math.Sqrt(sum / float64(len(xs)))
}

// trendFor classifies the per-day slope.
func trendFor(slope float64) Trend {
	switch {
	case math.Abs(slope) < defaults.TrendStableBand:
		return TrendStable
	case slope >= defaults.TrendStableBand:
		return TrendImproving
	case slope <= defaults.TrendCriticalSlope:
		return TrendCritical
	default:
		return TrendDeteriorating
	}
}

// seasonalFactor returns the quarterly pressure multiplier for the
// calendar quarter t falls in (UTC).
func (f *Forecaster) seasonalFactor(t time.Time) float64 {
	return f.seasonal[(int(t.UTC().Month())-1)/3]
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

// orDefault returns l if non-nil, otherwise slog.Default().
func orDefault(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}
