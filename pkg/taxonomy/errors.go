package taxonomy

import "errors"

// Sentinel errors for normalization failure modes.
// Callers should use errors.Is() to check for these.
var (
	// ErrUnknownSeverity indicates a raw severity string has no entry in
	// the mapping table for the declared scanner vocabulary. Callers are
	// expected to fall back to Medium rather than surface this to end
	// users; scanner vocabularies evolve independently of the core.
	ErrUnknownSeverity = errors.New("taxonomy: unknown severity")

	// ErrUnknownVocabulary indicates the declared scanner vocabulary has
	// no registered mapping table.
	ErrUnknownVocabulary = errors.New("taxonomy: unknown scanner vocabulary")
)
