package main

import (
	"fmt"
	"os"

	"github.com/complyscan/complyscan/pkg/ui"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "evaluate", "eval", "scan":
		runEvaluate()
	case "forecast", "predict":
		runForecast()
	case "history", "list":
		runHistory()
	case "compare", "diff":
		runCompare()
	case "config":
		runConfig()
	case "-h", "--help", "help":
		printUsage()
		os.Exit(0)
	case "-v", "--version", "version":
		ui.PrintVersion()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `complyscan - compliance risk scoring, benchmarking and forecasting

Usage:
  complyscan <command> [flags]

Commands:
  evaluate   Score a set of scan findings and produce the full report
  forecast   Project the compliance score for an organization's history
  history    List persisted scan records for an organization
  compare    Diff two persisted scan records
  config     Print or validate the effective configuration
  version    Print build information

Run 'complyscan <command> -h' for command flags.

Examples:
  complyscan evaluate -input findings.json -org acme-corp
  complyscan evaluate -input findings.json -jsonl events.jsonl -metrics-port 9090
  complyscan forecast -org acme-corp -horizon 30
  complyscan compare <scan-id> <scan-id>
`)
}
