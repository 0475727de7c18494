package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Build metadata, overridden at link time via -ldflags.
var (
	Version   = "1.3.0"
	BuildDate = "unknown"
	Commit    = "unknown"
)

var silent bool

// SetSilent suppresses banner output entirely.
func SetSilent(v bool) {
	silent = v
}

// SetNoColor forces plain ASCII output for pipelines and CI logs.
func SetNoColor(v bool) {
	if v {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

const banner = `
  ___ ___  _  _ _   _    _____ ___ ___   _   _  _
 / __/ _ \| \/| | |_| | | |_  / __/ __| / \ | \| |
| (_| (_) | |\/  |  _  |_  _|\__ \ (__ / ^ \| .  |
 \___\___/|_|  |_|_| |_| |_|  |___/\___/_/ \_\_|\_|
`

// PrintBanner writes the startup banner to stderr so stdout stays clean
// for machine-readable output.
func PrintBanner() {
	if silent {
		return
	}
	fmt.Fprintln(os.Stderr, BannerStyle.Render(banner))
	fmt.Fprintf(os.Stderr, "  %s %s\n\n",
		SubtitleStyle.Render("compliance risk engine"),
		VersionStyle.Render("v"+Version))
}

// PrintVersion writes detailed build information to stdout.
func PrintVersion() {
	fmt.Printf("complyscan %s (built %s, commit %s)\n", Version, BuildDate, Commit)
}
