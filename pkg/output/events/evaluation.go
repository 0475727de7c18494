package events

import (
	"github.com/complyscan/complyscan/pkg/score"
	"github.com/complyscan/complyscan/pkg/taxonomy"
)

// StartEvent is emitted when an evaluation begins.
type StartEvent struct {
	BaseEvent
	OrganizationID string   `json:"organization_id"`
	Industry       string   `json:"industry,omitempty"`
	Scanners       []string `json:"scanners,omitempty"`
	FindingCount   int      `json:"finding_count"`
}

// FallbackEvent is emitted when normalization cannot map a raw severity
// and substitutes the default level. These events are the observable
// trail the normalizer leaves instead of failing or staying silent.
type FallbackEvent struct {
	BaseEvent
	SourceScanner string             `json:"source_scanner,omitempty"`
	Vocabulary    string             `json:"vocabulary"`
	RawSeverity   string             `json:"raw_severity"`
	AssignedLevel taxonomy.RiskLevel `json:"assigned_level"`
}

// ScoreEvent is emitted when the aggregated compliance score is ready.
type ScoreEvent struct {
	BaseEvent
	OrganizationID string                       `json:"organization_id"`
	Result         score.ComplianceScoreResult  `json:"result"`
	Blended        *float64                     `json:"blended_score,omitempty"`
	Band           score.RiskBand               `json:"risk_band,omitempty"`
	Fallbacks      int                          `json:"fallback_count"`
	PerScanner     map[string]taxonomy.RiskCount `json:"per_scanner,omitempty"`
}

// ErrorEvent is emitted when an evaluation step fails. It can represent
// both recoverable and fatal errors.
type ErrorEvent struct {
	BaseEvent
	Stage   string `json:"stage"`
	Message string `json:"message"`
	Fatal   bool   `json:"fatal"`
}
