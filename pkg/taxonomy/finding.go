package taxonomy

import "time"

// Finding is one detected issue reported by a scanner. Findings are owned
// by the scanner that produced them; the core references them read-only
// and never mutates one after creation.
type Finding struct {
	// ID uniquely identifies the finding across scan passes. Merging
	// baseline and enhanced scan results deduplicates on this field.
	ID string `json:"id"`

	// SourceScanner names the scanner that produced the finding.
	SourceScanner string `json:"source_scanner"`

	// Category is the regulatory article or rule id the finding maps to
	// (free text, e.g. "GDPR-Art.32").
	Category string `json:"category"`

	// RawSeverity is the scanner-specific severity string, interpreted
	// through the scanner's declared Vocabulary.
	RawSeverity string `json:"raw_severity"`

	// Description is the scanner's human-readable explanation.
	Description string `json:"description,omitempty"`

	// DetectedAt is when the scanner observed the issue.
	DetectedAt time.Time `json:"detected_at"`
}

// Dedupe returns findings with duplicate IDs removed, keeping the first
// occurrence. Callers combine a baseline scan with an enhanced scan by
// deduplicating before counting, so Merge never double-counts.
func Dedupe(findings []Finding) []Finding {
	seen := make(map[string]struct{}, len(findings))
	out := make([]Finding, 0, len(findings))
	for _, f := range findings {
		if _, ok := seen[f.ID]; ok && f.ID != "" {
			continue
		}
		seen[f.ID] = struct{}{}
		out = append(out, f)
	}
	return out
}
