package main

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/complyscan/complyscan/pkg/config"
)

// runConfig prints the effective configuration, or validates a file
// when -check is set.
func runConfig() {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML configuration file")
	check := fs.Bool("check", false, "Validate the file and exit")

	fs.Parse(os.Args[2:])

	if *configPath == "" && fs.NArg() > 0 {
		*configPath = fs.Arg(0)
	}

	if *check {
		if *configPath == "" {
			exitWithUsage("A config file is required with -check.", "complyscan config -check complyscan.yaml")
		}
		if _, err := config.Load(*configPath); err != nil {
			exitWithError("Invalid configuration: %v", err)
		}
		fmt.Printf("%s is valid\n", *configPath)
		return
	}

	cfg := loadConfig(*configPath)
	data, err := yaml.Marshal(cfg)
	if err != nil {
		exitWithError("Marshaling config: %v", err)
	}
	os.Stdout.Write(data)
}
