package taxonomy

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRiskLevel_Rank_TotalOrder(t *testing.T) {
	levels := Levels()
	for i := 1; i < len(levels); i++ {
		if levels[i-1].Rank() <= levels[i].Rank() {
			t.Errorf("Levels() not in descending rank order at %d: %s <= %s",
				i, levels[i-1], levels[i])
		}
	}
}

func TestNormalize_KnownVocabularies(t *testing.T) {
	tests := []struct {
		raw   string
		vocab Vocabulary
		want  RiskLevel
	}{
		{"blocker", VocabCode, Critical},
		{"error", VocabCode, High},
		{"warning", VocabCode, Medium},
		{"minor", VocabCode, Low},
		{"note", VocabCode, None},
		{"severe", VocabDatabase, Critical},
		{"moderate", VocabDatabase, Medium},
		{"high_risk", VocabWebsite, Critical},
		{"notice", VocabWebsite, Low},
		{"restricted", VocabDocument, Critical},
		{"explicit_pii", VocabImage, Critical},
		{"memorization", VocabAIModel, High},
		// canonical names pass through any vocabulary
		{"critical", VocabDatabase, Critical},
		{"HIGH", VocabImage, High},
		{"  low  ", VocabCode, Low},
	}

	for _, tt := range tests {
		got, err := Normalize(tt.raw, tt.vocab)
		if err != nil {
			t.Errorf("Normalize(%q, %q) error: %v", tt.raw, tt.vocab, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Normalize(%q, %q) = %s, want %s", tt.raw, tt.vocab, got, tt.want)
		}
	}
}

func TestNormalize_UnknownSeverity(t *testing.T) {
	_, err := Normalize("bogus", VocabCode)
	if !errors.Is(err, ErrUnknownSeverity) {
		t.Errorf("Normalize(bogus) error = %v, want ErrUnknownSeverity", err)
	}
}

func TestNormalize_UnknownVocabulary(t *testing.T) {
	_, err := Normalize("warning", Vocabulary("telepathy"))
	if !errors.Is(err, ErrUnknownVocabulary) {
		t.Errorf("Normalize with unknown vocabulary error = %v, want ErrUnknownVocabulary", err)
	}
}

func TestNormalizeOrFallback(t *testing.T) {
	level, fellBack := NormalizeOrFallback("???", VocabWebsite, discard())
	if level != Medium {
		t.Errorf("fallback level = %s, want medium", level)
	}
	if !fellBack {
		t.Error("fellBack = false, want true")
	}

	level, fellBack = NormalizeOrFallback("risk", VocabWebsite, discard())
	if level != High || fellBack {
		t.Errorf("NormalizeOrFallback(risk) = %s, %v; want high, false", level, fellBack)
	}
}

func TestNormalizeCounts_FillsAllLevels(t *testing.T) {
	rc := NormalizeCounts(map[string]int{"high": 2}, discard())

	for _, l := range Levels() {
		if _, ok := rc[l]; !ok {
			t.Errorf("level %s missing from normalized count", l)
		}
	}
	if rc[High] != 2 {
		t.Errorf("high = %d, want 2", rc[High])
	}
	if rc[Critical] != 0 {
		t.Errorf("critical = %d, want explicit 0", rc[Critical])
	}
}

func TestNormalizeCounts_UnrecognizedBucketsIntoMedium(t *testing.T) {
	rc := NormalizeCounts(map[string]int{"medium": 1, "wat": 4}, discard())
	if rc[Medium] != 5 {
		t.Errorf("medium = %d, want 5 (1 recognized + 4 bucketed)", rc[Medium])
	}
	if rc.Total() != 5 {
		t.Errorf("Total() = %d, want 5", rc.Total())
	}
}

func TestNormalizeCounts_Idempotent(t *testing.T) {
	in := map[string]int{"HIGH": 3, "weird": 2, "low": 1}
	once := NormalizeCounts(in, discard())
	twice := NormalizeCounts(once.AsMap(), discard())

	for _, l := range Levels() {
		if once[l] != twice[l] {
			t.Errorf("level %s: once=%d twice=%d, normalization not idempotent",
				l, once[l], twice[l])
		}
	}
}

func TestRiskCount_Highest(t *testing.T) {
	rc := NewRiskCount()
	if got := rc.Highest(); got != None {
		t.Errorf("Highest() on empty = %s, want none", got)
	}
	rc[Low] = 1
	rc[High] = 1
	if got := rc.Highest(); got != High {
		t.Errorf("Highest() = %s, want high", got)
	}
}

func TestDedupe(t *testing.T) {
	now := time.Now()
	findings := []Finding{
		{ID: "f-1", RawSeverity: "error", DetectedAt: now},
		{ID: "f-2", RawSeverity: "warning", DetectedAt: now},
		{ID: "f-1", RawSeverity: "error", DetectedAt: now}, // duplicate from enhanced pass
	}

	out := Dedupe(findings)
	if len(out) != 2 {
		t.Fatalf("Dedupe() kept %d findings, want 2", len(out))
	}
	if out[0].ID != "f-1" || out[1].ID != "f-2" {
		t.Errorf("Dedupe() order changed: %v", out)
	}
}

func TestCountFindings(t *testing.T) {
	findings := []Finding{
		{ID: "a", RawSeverity: "blocker"},
		{ID: "b", RawSeverity: "error"},
		{ID: "c", RawSeverity: "mystery"},
	}

	rc, fallbacks := CountFindings(findings, VocabCode, discard())
	if rc[Critical] != 1 || rc[High] != 1 || rc[Medium] != 1 {
		t.Errorf("counts = %v, want 1 critical, 1 high, 1 medium", rc)
	}
	if fallbacks != 1 {
		t.Errorf("fallbacks = %d, want 1", fallbacks)
	}
}

func TestRemediationPriority(t *testing.T) {
	tests := []struct {
		level RiskLevel
		want  string
	}{
		{Critical, "Immediate"},
		{High, "7 days"},
		{Medium, "30 days"},
		{Low, "90 days"},
		{None, "90 days"},
	}
	for _, tt := range tests {
		if got := tt.level.RemediationPriority(); got != tt.want {
			t.Errorf("%s.RemediationPriority() = %q, want %q", tt.level, got, tt.want)
		}
	}
}
