package main

import (
	"fmt"
	"os"

	"github.com/go-json-experiment/json"

	"github.com/complyscan/complyscan/pkg/breach"
	"github.com/complyscan/complyscan/pkg/pipeline"
	"github.com/complyscan/complyscan/pkg/taxonomy"
)

// evaluationInput is the on-disk shape of an evaluate run: the raw
// findings from each scanner plus an optional posture snapshot for
// breach assessment.
type evaluationInput struct {
	OrganizationID string                  `json:"organization_id"`
	Scanners       []scannerInput          `json:"scanners"`
	Metrics        *breach.SecurityMetrics `json:"metrics,omitempty"`
}

type scannerInput struct {
	Name       string              `json:"name"`
	Vocabulary string              `json:"vocabulary"`
	Findings   []taxonomy.Finding  `json:"findings"`
}

// loadInput reads and validates an evaluation input file.
func loadInput(path string) (*pipeline.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	var raw evaluationInput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}

	if len(raw.Scanners) == 0 {
		return nil, fmt.Errorf("input has no scanners")
	}

	in := &pipeline.Input{
		OrganizationID: raw.OrganizationID,
		Metrics:        raw.Metrics,
	}
	for _, s := range raw.Scanners {
		vocab := taxonomy.Vocabulary(s.Vocabulary)
		if !vocab.IsValid() {
			return nil, fmt.Errorf("scanner %q: unknown vocabulary %q", s.Name, s.Vocabulary)
		}
		in.Scanners = append(in.Scanners, pipeline.ScannerInput{
			Name:       s.Name,
			Vocabulary: vocab,
			Findings:   s.Findings,
		})
	}
	return in, nil
}
