// Package taxonomy defines the canonical risk taxonomy shared by every
// scanner: the RiskLevel enum, per-scanner severity vocabularies with
// explicit mapping tables, and count normalization.
//
// Each scanner declares its Vocabulary; raw severity strings are resolved
// through that vocabulary's table, never by runtime string sniffing.
// Unknown strings route to Medium with an observable log entry.
package taxonomy

import (
	"fmt"
	"log/slog"
	"strings"
)

// Vocabulary identifies the severity vocabulary a scanner emits.
// One value per scanner family in the product.
type Vocabulary string

const (
	// VocabCode is the source-code scanner vocabulary.
	VocabCode Vocabulary = "code"

	// VocabDatabase is the database scanner vocabulary.
	VocabDatabase Vocabulary = "database"

	// VocabWebsite is the website scanner vocabulary.
	VocabWebsite Vocabulary = "website"

	// VocabDocument is the document scanner vocabulary.
	VocabDocument Vocabulary = "document"

	// VocabImage is the image scanner vocabulary.
	VocabImage Vocabulary = "image"

	// VocabAIModel is the AI-model scanner vocabulary.
	VocabAIModel Vocabulary = "aimodel"
)

// vocabularies maps each scanner vocabulary to its severity table.
// Every table also accepts the canonical level names so a scanner that
// already emits canonical levels round-trips cleanly.
var vocabularies = map[Vocabulary]map[string]RiskLevel{
	VocabCode: {
		"blocker": Critical,
		"error":   High,
		"warning": Medium,
		"minor":   Low,
		"note":    None,
	},
	VocabDatabase: {
		"severe":   Critical,
		"elevated": High,
		"moderate": Medium,
		"limited":  Low,
		"clean":    None,
	},
	VocabWebsite: {
		"high_risk": Critical,
		"risk":      High,
		"warning":   Medium,
		"notice":    Low,
		"ok":        None,
	},
	VocabDocument: {
		"restricted":   Critical,
		"confidential": High,
		"internal":     Medium,
		"public":       Low,
		"empty":        None,
	},
	VocabImage: {
		"explicit_pii": Critical,
		"probable_pii": High,
		"possible_pii": Medium,
		"unlikely":     Low,
		"no_match":     None,
	},
	VocabAIModel: {
		"leakage":      Critical,
		"memorization": High,
		"exposure":     Medium,
		"weak_signal":  Low,
		"no_signal":    None,
	},
}

// IsValid reports whether v has a registered severity table.
func (v Vocabulary) IsValid() bool {
	_, ok := vocabularies[v]
	return ok
}

// Normalize maps a scanner's raw severity string onto the canonical
// taxonomy through the declared vocabulary's table.
//
// It returns ErrUnknownVocabulary if the vocabulary has no table and
// ErrUnknownSeverity if the string has no entry. Callers must supply a
// fallback (Medium by convention, see NormalizeOrFallback) rather than
// letting either error reach end users.
func Normalize(raw string, vocab Vocabulary) (RiskLevel, error) {
	table, ok := vocabularies[vocab]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownVocabulary, vocab)
	}

	key := strings.ToLower(strings.TrimSpace(raw))

	// Canonical names are accepted in every vocabulary.
	if l := RiskLevel(key); l.IsValid() {
		return l, nil
	}

	if level, ok := table[key]; ok {
		return level, nil
	}
	return "", fmt.Errorf("%w: %q (vocabulary %q)", ErrUnknownSeverity, raw, vocab)
}

// NormalizeOrFallback resolves raw through Normalize and falls back to
// Medium on failure. The fallback is logged at Warn so it is observable,
// never silent; the returned bool reports whether the fallback was taken
// so callers can feed a metric.
func NormalizeOrFallback(raw string, vocab Vocabulary, logger *slog.Logger) (RiskLevel, bool) {
	level, err := Normalize(raw, vocab)
	if err != nil {
		orDefault(logger).Warn("severity fallback",
			"raw_severity", raw,
			"vocabulary", string(vocab),
			"fallback", Medium.String(),
			"error", err)
		return Medium, true
	}
	return level, false
}

// orDefault returns l if non-nil, otherwise slog.Default().
func orDefault(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}
