package score

import "errors"

// Sentinel errors for scoring failure modes.
// Callers should use errors.Is() to check for these.
var (
	// ErrInvalidWeightConfig indicates a weight profile does not sum to
	// 1.0. A misconfigured blend invalidates every downstream score, so
	// configuration load must fail fast on this instead of degrading.
	ErrInvalidWeightConfig = errors.New("score: weight profile must sum to 1.0")
)
