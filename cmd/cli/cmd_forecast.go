package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/complyscan/complyscan/pkg/duration"
	"github.com/complyscan/complyscan/pkg/forecast"
	"github.com/complyscan/complyscan/pkg/series"
	"github.com/complyscan/complyscan/pkg/ui"
)

// runForecast projects an organization's compliance score from its
// persisted scan history.
func runForecast() {
	fs := flag.NewFlagSet("forecast", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML configuration file")
	org := fs.String("org", "", "Organization ID")
	historyDir := fs.String("history", "", "Scan history directory (overrides config)")
	horizonDays := fs.Int("horizon", 0, "Forecast horizon in days (overrides config)")
	lookbackDays := fs.Int("lookback", 0, "History window in days (overrides config)")
	format := fs.String("format", "console", "Output format: console, json")
	noColor := fs.Bool("no-color", false, "Disable colored output")

	fs.Parse(os.Args[2:])

	ui.SetNoColor(*noColor)

	cfg := loadConfig(*configPath)
	if *org == "" {
		*org = cfg.Organization
	}
	if *org == "" {
		exitWithUsage("An organization ID is required.", "complyscan forecast -org acme-corp [-horizon 30]")
	}
	if *historyDir != "" {
		cfg.HistoryDir = *historyDir
	}
	if *horizonDays == 0 {
		*horizonDays = cfg.HorizonDays
	}
	if *lookbackDays == 0 {
		*lookbackDays = cfg.LookbackDays
	}

	store, err := series.NewStore(cfg.HistoryDir)
	if err != nil {
		exitWithError("Opening history store: %v", err)
	}
	defer store.Close()

	s, err := store.Series(*org, time.Duration(*lookbackDays)*duration.Day)
	if err != nil {
		exitWithError("Loading history: %v", err)
	}

	forecaster := forecast.New(newLogger(false),
		forecast.WithSeasonal(cfg.Seasonal.Q1, cfg.Seasonal.Q2, cfg.Seasonal.Q3, cfg.Seasonal.Q4))

	result, err := forecaster.Predict(s, time.Duration(*horizonDays)*duration.Day)
	if err != nil {
		if errors.Is(err, forecast.ErrInsufficientHistory) {
			exitWithError("Not enough history for %q: at least 3 scans are required (%d found)",
				*org, len(s.Points))
		}
		exitWithError("Forecast failed: %v", err)
	}

	switch *format {
	case "json":
		data, err := json.Marshal(result, jsontext.WithIndent("  "))
		if err != nil {
			exitWithError("Marshaling result: %v", err)
		}
		fmt.Println(string(data))
	default:
		printForecastConsole(result)
	}
}

func printForecastConsole(r *forecast.Result) {
	fmt.Printf("%s\n\n", ui.TitleStyle.Render(" Compliance Forecast "))
	fmt.Printf("  Organization   %s\n", ui.SanitizeString(r.OrganizationID))
	fmt.Printf("  Current score  %.1f\n", r.CurrentScore)
	fmt.Printf("  In %d days     %s  [%.1f, %.1f]\n",
		r.HorizonDays,
		ui.ScoreStyle(r.SeasonallyAdjustedScore).Render(fmt.Sprintf("%.1f", r.SeasonallyAdjustedScore)),
		r.LowerBound, r.UpperBound)
	fmt.Printf("  Trend          %s (slope %+.2f/day over %d scans)\n",
		r.Trend, r.Slope, r.DataPoints)
	fmt.Printf("  Seasonal       x%.2f for the target quarter\n", r.SeasonalFactor)
}
