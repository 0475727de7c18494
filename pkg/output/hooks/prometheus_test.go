package hooks

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complyscan/complyscan/pkg/output/events"
	"github.com/complyscan/complyscan/pkg/score"
	"github.com/complyscan/complyscan/pkg/taxonomy"
)

func scrape(t *testing.T, hook *PrometheusHook) string {
	t.Helper()
	resp, err := http.Get(hook.MetricsAddr())
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestPrometheusHookServesMetrics(t *testing.T) {
	hook, err := NewPrometheusHook(PrometheusOptions{Port: 19190})
	require.NoError(t, err)
	defer hook.Close()

	time.Sleep(100 * time.Millisecond)

	ctx := context.Background()
	require.NoError(t, hook.OnEvent(ctx, &events.StartEvent{
		BaseEvent:      events.NewBase(events.EventTypeStart, "eval-1"),
		OrganizationID: "acme",
	}))
	require.NoError(t, hook.OnEvent(ctx, &events.FallbackEvent{
		BaseEvent:  events.NewBase(events.EventTypeFallback, "eval-1"),
		Vocabulary: "code",
	}))

	counts := taxonomy.NewRiskCount()
	counts[taxonomy.High] = 2
	require.NoError(t, hook.OnEvent(ctx, &events.ScoreEvent{
		BaseEvent:      events.NewBase(events.EventTypeScore, "eval-1"),
		OrganizationID: "acme",
		Result:         score.Calculate(counts),
	}))

	body := scrape(t, hook)
	assert.Contains(t, body, `complyscan_evaluations_total{organization="acme"} 1`)
	assert.Contains(t, body, `complyscan_severity_fallbacks_total{vocabulary="code"} 1`)
	assert.Contains(t, body, `complyscan_compliance_score{organization="acme"} 90`)
}

func TestPrometheusHookDefaults(t *testing.T) {
	hook, err := NewPrometheusHook(PrometheusOptions{Port: 19191})
	require.NoError(t, err)
	defer hook.Close()

	assert.Equal(t, "/metrics", hook.opts.Path)
	assert.Equal(t, 5*time.Second, hook.opts.ReadTimeout)
	assert.Equal(t, 10*time.Second, hook.opts.WriteTimeout)
	assert.True(t, strings.HasSuffix(hook.MetricsAddr(), ":19191/metrics"))
}

func TestPrometheusHookIgnoresEventsAfterClose(t *testing.T) {
	hook, err := NewPrometheusHook(PrometheusOptions{Port: 19192})
	require.NoError(t, err)
	require.NoError(t, hook.Close())

	// Must not panic or error after shutdown.
	assert.NoError(t, hook.OnEvent(context.Background(), &events.StartEvent{
		BaseEvent:      events.NewBase(events.EventTypeStart, "eval-1"),
		OrganizationID: "acme",
	}))
}
