package hooks

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complyscan/complyscan/pkg/output/events"
	"github.com/complyscan/complyscan/pkg/score"
	"github.com/complyscan/complyscan/pkg/taxonomy"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoggerHookLogsScore(t *testing.T) {
	var buf bytes.Buffer
	h := NewLoggerHook(slog.New(slog.NewTextHandler(&buf, nil)))

	counts := taxonomy.NewRiskCount()
	counts[taxonomy.Medium] = 3
	ev := &events.ScoreEvent{
		BaseEvent:      events.NewBase(events.EventTypeScore, "eval-1"),
		OrganizationID: "acme",
		Result:         score.Calculate(counts),
	}

	require.NoError(t, h.OnEvent(context.Background(), ev))
	out := buf.String()
	assert.Contains(t, out, "compliance score computed")
	assert.Contains(t, out, "acme")
	assert.Contains(t, out, "score=91")
}

func TestLoggerHookFallbackIsWarning(t *testing.T) {
	var buf bytes.Buffer
	h := NewLoggerHook(slog.New(slog.NewTextHandler(&buf, nil)))

	ev := &events.FallbackEvent{
		BaseEvent:     events.NewBase(events.EventTypeFallback, "eval-1"),
		Vocabulary:    "code",
		RawSeverity:   "wat",
		AssignedLevel: taxonomy.Medium,
	}

	require.NoError(t, h.OnEvent(context.Background(), ev))
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "severity fallback")
}

func TestLoggerHookFatalErrorIsError(t *testing.T) {
	var buf bytes.Buffer
	h := NewLoggerHook(slog.New(slog.NewTextHandler(&buf, nil)))

	ev := &events.ErrorEvent{
		BaseEvent: events.NewBase(events.EventTypeError, "eval-1"),
		Stage:     "forecast",
		Message:   "boom",
		Fatal:     true,
	}

	require.NoError(t, h.OnEvent(context.Background(), ev))
	assert.Contains(t, buf.String(), "level=ERROR")
}

func TestLoggerHookReceivesAllTypes(t *testing.T) {
	h := NewLoggerHook(discardLogger())
	assert.Nil(t, h.EventTypes())
}
