package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/complyscan/complyscan/pkg/duration"
	"github.com/complyscan/complyscan/pkg/series"
	"github.com/complyscan/complyscan/pkg/taxonomy"
	"github.com/complyscan/complyscan/pkg/ui"
)

// runHistory lists persisted scan records for an organization, newest
// first.
func runHistory() {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML configuration file")
	org := fs.String("org", "", "Organization ID")
	historyDir := fs.String("history", "", "Scan history directory (overrides config)")
	limit := fs.Int("limit", 20, "Maximum records to show")
	days := fs.Int("days", 0, "Only show scans from the last N days")
	format := fs.String("format", "console", "Output format: console, json")
	noColor := fs.Bool("no-color", false, "Disable colored output")

	fs.Parse(os.Args[2:])

	ui.SetNoColor(*noColor)

	cfg := loadConfig(*configPath)
	if *org == "" {
		*org = cfg.Organization
	}
	if *org == "" {
		exitWithUsage("An organization ID is required.", "complyscan history -org acme-corp [-limit 20]")
	}
	if *historyDir != "" {
		cfg.HistoryDir = *historyDir
	}

	store, err := series.NewStore(cfg.HistoryDir)
	if err != nil {
		exitWithError("Opening history store: %v", err)
	}
	defer store.Close()

	var since time.Time
	if *days > 0 {
		since = time.Now().UTC().Add(-time.Duration(*days) * duration.Day)
	}

	records, err := store.List(*org, since, time.Time{}, *limit)
	if err != nil {
		exitWithError("Listing history: %v", err)
	}

	if *format == "json" {
		data, err := json.Marshal(records, jsontext.WithIndent("  "))
		if err != nil {
			exitWithError("Marshaling records: %v", err)
		}
		fmt.Println(string(data))
		return
	}

	if len(records) == 0 {
		fmt.Println(ui.Sanitizef("no scans recorded for %q", *org))
		return
	}

	fmt.Printf("%s\n\n", ui.TitleStyle.Render(" Scan History "))
	for _, r := range records {
		fmt.Printf("  %s  %s  %s  %3d findings  %s\n",
			r.Timestamp.Format("2006-01-02 15:04"),
			r.ID[:8],
			ui.ScoreStyle(r.Score).Render(fmt.Sprintf("%5.1f", r.Score)),
			r.FindingCount,
			ui.MutedStyle.Render(string(r.Status)))
	}
}

// runCompare diffs two persisted scan records.
func runCompare() {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML configuration file")
	historyDir := fs.String("history", "", "Scan history directory (overrides config)")
	baseID := fs.String("base", "", "Baseline scan ID")
	compareID := fs.String("with", "", "Scan ID to compare against the baseline")
	format := fs.String("format", "console", "Output format: console, json")
	noColor := fs.Bool("no-color", false, "Disable colored output")

	fs.Parse(os.Args[2:])

	ui.SetNoColor(*noColor)

	// Positional form: complyscan compare <base-id> <compare-id>
	args := fs.Args()
	if *baseID == "" && *compareID == "" && len(args) >= 2 {
		*baseID = args[0]
		*compareID = args[1]
	}
	if *baseID == "" || *compareID == "" {
		exitWithUsage(
			"Two scan IDs are required.",
			"complyscan compare <base-id> <compare-id>",
		)
	}

	cfg := loadConfig(*configPath)
	if *historyDir != "" {
		cfg.HistoryDir = *historyDir
	}

	store, err := series.NewStore(cfg.HistoryDir)
	if err != nil {
		exitWithError("Opening history store: %v", err)
	}
	defer store.Close()

	result, err := store.Compare(*baseID, *compareID)
	if err != nil {
		exitWithError("Comparing scans: %v", err)
	}

	if *format == "json" {
		data, err := json.Marshal(result, jsontext.WithIndent("  "))
		if err != nil {
			exitWithError("Marshaling result: %v", err)
		}
		fmt.Println(string(data))
		return
	}

	printCompareConsole(result)
}

func printCompareConsole(r *series.ComparisonResult) {
	fmt.Printf("%s\n\n", ui.TitleStyle.Render(" Scan Comparison "))
	fmt.Printf("  Base     %s  (%s)\n", r.BaseID[:8], r.BaseTimestamp.Format("2006-01-02 15:04"))
	fmt.Printf("  Compare  %s  (%s)\n", r.CompareID[:8], r.CompareTimestamp.Format("2006-01-02 15:04"))

	deltaStyle := ui.BadStyle
	if r.Improved {
		deltaStyle = ui.GoodStyle
	}
	fmt.Printf("  Score    %s\n", deltaStyle.Render(fmt.Sprintf("%+.1f", r.ScoreDelta)))
	fmt.Printf("  Findings %+d\n", r.FindingDelta)

	for _, level := range taxonomy.Levels() {
		delta := r.LevelDeltas[string(level)]
		if delta == 0 {
			continue
		}
		fmt.Printf("    %s %+d\n",
			ui.SeverityStyle(string(level)).Render(fmt.Sprintf("%-10s", level)), delta)
	}
}
