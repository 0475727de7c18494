package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	// Brand colors
	Primary   = lipgloss.Color("#7D56F4") // Purple
	Secondary = lipgloss.Color("#00D4AA") // Cyan/Teal

	// Severity colors
	CriticalColor = lipgloss.Color("#FF0000")
	HighColor     = lipgloss.Color("#FF6B6B")
	MediumColor   = lipgloss.Color("#FFD93D")
	LowColor      = lipgloss.Color("#6BCB77")
	NoneColor     = lipgloss.Color("#4D96FF")

	// Status colors
	Success = lipgloss.Color("#00D26A")
	Warning = lipgloss.Color("#FFB800")
	Error   = lipgloss.Color("#FF3838")
	Muted   = lipgloss.Color("#6B7280")
)

// Pre-configured styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(Primary).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	BannerStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	VersionStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	SectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true).
			MarginTop(1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Width(18)

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true)

	GoodStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	WarnStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	BadStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Muted)
)

// SeverityStyle returns the render style for a canonical risk level.
func SeverityStyle(level string) lipgloss.Style {
	switch level {
	case "critical":
		return lipgloss.NewStyle().Foreground(CriticalColor).Bold(true)
	case "high":
		return lipgloss.NewStyle().Foreground(HighColor).Bold(true)
	case "medium":
		return lipgloss.NewStyle().Foreground(MediumColor)
	case "low":
		return lipgloss.NewStyle().Foreground(LowColor)
	default:
		return lipgloss.NewStyle().Foreground(NoneColor)
	}
}

// ScoreStyle colors a compliance score by its status band.
func ScoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= 90:
		return GoodStyle
	case score >= 70:
		return lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	case score >= 50:
		return WarnStyle
	default:
		return BadStyle
	}
}
