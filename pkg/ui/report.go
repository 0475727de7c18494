package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/complyscan/complyscan/pkg/advise"
	"github.com/complyscan/complyscan/pkg/benchmark"
	"github.com/complyscan/complyscan/pkg/breach"
	"github.com/complyscan/complyscan/pkg/forecast"
	"github.com/complyscan/complyscan/pkg/pipeline"
	"github.com/complyscan/complyscan/pkg/taxonomy"
)

// RenderEvaluation produces the human-readable report for a completed
// evaluation. Output goes through the caller so tests can capture it.
func RenderEvaluation(ev *pipeline.Evaluation) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(" Compliance Report "))
	b.WriteString("  ")
	b.WriteString(MutedStyle.Render(SanitizeString(ev.OrganizationID)))
	b.WriteString("\n\n")

	renderScore(&b, ev)
	renderBreakdown(&b, ev.Score.RiskBreakdown)

	if ev.Benchmark != nil {
		renderBenchmark(&b, ev.Benchmark)
	}
	if ev.Forecast != nil {
		renderForecast(&b, ev.Forecast)
	}
	if ev.Breach != nil {
		renderBreach(&b, ev.Breach)
	}
	if len(ev.Recommendations) > 0 {
		renderRecommendations(&b, ev.Recommendations)
	}

	b.WriteString("\n")
	b.WriteString(MutedStyle.Render(fmt.Sprintf("evaluation %s completed in %s",
		ev.ID, ev.Duration.Round(timeRounding))))
	b.WriteString("\n")
	return b.String()
}

func renderScore(b *strings.Builder, ev *pipeline.Evaluation) {
	b.WriteString(LabelStyle.Render("Score"))
	b.WriteString(ScoreStyle(ev.Score.Score).Render(fmt.Sprintf("%.1f / 100", ev.Score.Score)))
	b.WriteString("  ")
	b.WriteString(statusStyle(ev.Score.Score).Render(string(ev.Score.Status)))
	b.WriteString("\n")
	b.WriteString(LabelStyle.Render("Findings"))
	b.WriteString(ValueStyle.Render(fmt.Sprintf("%d", ev.Score.SourceFindingCount)))
	if ev.Fallbacks > 0 {
		b.WriteString(WarnStyle.Render(fmt.Sprintf("  (%d severity fallbacks)", ev.Fallbacks)))
	}
	b.WriteString("\n")
}

func renderBreakdown(b *strings.Builder, counts taxonomy.RiskCount) {
	b.WriteString(SectionStyle.Render("Risk Breakdown"))
	b.WriteString("\n")
	for _, level := range taxonomy.Levels() {
		n := counts[level]
		if n == 0 {
			continue
		}
		b.WriteString("  ")
		b.WriteString(SeverityStyle(string(level)).Render(fmt.Sprintf("%-10s", level)))
		b.WriteString(fmt.Sprintf("%d\n", n))
	}
	if counts.Total() == 0 {
		b.WriteString(MutedStyle.Render("  no findings\n"))
	}
}

func renderBenchmark(b *strings.Builder, r *benchmark.Result) {
	b.WriteString(SectionStyle.Render("Industry Benchmark"))
	b.WriteString("\n")
	b.WriteString(LabelStyle.Render("Industry"))
	b.WriteString(ValueStyle.Render(string(r.Industry)))
	b.WriteString("\n")
	b.WriteString(LabelStyle.Render("Average"))
	b.WriteString(ValueStyle.Render(fmt.Sprintf("%.1f", r.IndustryAverage)))
	b.WriteString("\n")
	b.WriteString(LabelStyle.Render("Deviation"))
	b.WriteString(deviationStyle(r.Deviation).Render(fmt.Sprintf("%+.1f", r.Deviation)))
	b.WriteString(MutedStyle.Render(fmt.Sprintf("  (%s relative risk)", r.RiskLevel)))
	b.WriteString("\n")
	if r.Percentile != nil {
		b.WriteString(LabelStyle.Render("Percentile"))
		b.WriteString(ValueStyle.Render(fmt.Sprintf("%.0fth", *r.Percentile)))
		b.WriteString("\n")
	}
}

func renderForecast(b *strings.Builder, r *forecast.Result) {
	b.WriteString(SectionStyle.Render(fmt.Sprintf("Forecast (%d days)", r.HorizonDays)))
	b.WriteString("\n")
	b.WriteString(LabelStyle.Render("Projected"))
	b.WriteString(ScoreStyle(r.SeasonallyAdjustedScore).Render(fmt.Sprintf("%.1f", r.SeasonallyAdjustedScore)))
	b.WriteString(MutedStyle.Render(fmt.Sprintf("  [%.1f, %.1f]", r.LowerBound, r.UpperBound)))
	b.WriteString("\n")
	b.WriteString(LabelStyle.Render("Trend"))
	b.WriteString(trendStyle(r.Trend).Render(string(r.Trend)))
	b.WriteString(MutedStyle.Render(fmt.Sprintf("  (slope %+.2f/day, %d data points)", r.Slope, r.DataPoints)))
	b.WriteString("\n")
}

func renderBreach(b *strings.Builder, r *breach.Result) {
	b.WriteString(SectionStyle.Render("Breach Risk"))
	b.WriteString("\n")
	b.WriteString(LabelStyle.Render("Anomaly"))
	b.WriteString(anomalyStyle(r.AnomalyScore).Render(fmt.Sprintf("%.2f", r.AnomalyScore)))
	b.WriteString(MutedStyle.Render(fmt.Sprintf("  %s risk, impact window %s", r.RiskLevel, r.TimeToImpact)))
	b.WriteString("\n")
	for _, a := range r.RecommendedActions {
		b.WriteString("  ")
		b.WriteString(Icon("•", "*"))
		b.WriteString(" ")
		b.WriteString(SanitizeString(a))
		b.WriteString("\n")
	}
}

func renderRecommendations(b *strings.Builder, recs []advise.Recommendation) {
	b.WriteString(SectionStyle.Render("Remediation Plan"))
	b.WriteString("\n")
	for _, r := range recs {
		b.WriteString("  ")
		b.WriteString(priorityStyle(r.Priority).Render(fmt.Sprintf("%-10s", r.Priority)))
		b.WriteString(SanitizeString(r.Action))
		b.WriteString(MutedStyle.Render(fmt.Sprintf("  ($%.0f, ROI %.1fx)", r.EstimatedCost, r.ROI)))
		b.WriteString("\n")
	}
}

const timeRounding = time.Millisecond

func statusStyle(score float64) lipgloss.Style {
	return ScoreStyle(score)
}

func deviationStyle(d float64) lipgloss.Style {
	switch {
	case d >= 0:
		return GoodStyle
	case d >= -10:
		return WarnStyle
	default:
		return BadStyle
	}
}

func trendStyle(t forecast.Trend) lipgloss.Style {
	switch t {
	case forecast.TrendImproving:
		return GoodStyle
	case forecast.TrendStable:
		return ValueStyle
	case forecast.TrendDeteriorating:
		return WarnStyle
	default:
		return BadStyle
	}
}

func anomalyStyle(s float64) lipgloss.Style {
	switch {
	case s >= 0.7:
		return BadStyle
	case s >= 0.5:
		return WarnStyle
	default:
		return GoodStyle
	}
}

func priorityStyle(p advise.Priority) lipgloss.Style {
	switch p {
	case advise.PriorityImmediate:
		return BadStyle
	case advise.PrioritySevenDays:
		return SeverityStyle("high")
	case advise.PriorityMonth:
		return WarnStyle
	default:
		return MutedStyle
	}
}
