package main

import (
	"fmt"
	"os"
)

// exitWithError prints a formatted error message to stderr and exits
// with code 1.
func exitWithError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}

// exitWithUsage prints an error message followed by a usage hint, then
// exits.
func exitWithUsage(msg, usage string) {
	fmt.Fprintln(os.Stderr, "Error:", msg)
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Usage:", usage)
	os.Exit(1)
}
