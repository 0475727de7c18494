package hooks

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/go-json-experiment/json"

	"github.com/complyscan/complyscan/pkg/defaults"
	"github.com/complyscan/complyscan/pkg/duration"
	"github.com/complyscan/complyscan/pkg/output/dispatcher"
	"github.com/complyscan/complyscan/pkg/output/events"
)

// Compile-time interface check.
var _ dispatcher.Hook = (*WebhookHook)(nil)

// WebhookHook posts events to an HTTP endpoint. It supports retries
// with exponential backoff, custom headers, and event-type filtering.
type WebhookHook struct {
	endpoint string
	client   *http.Client
	opts     WebhookOptions
	logger   *slog.Logger
}

// WebhookOptions configures the webhook hook behavior.
type WebhookOptions struct {
	// Headers to include in requests.
	Headers map[string]string

	// Timeout for HTTP requests (default: 10s).
	Timeout time.Duration

	// RetryCount for failed requests (default: 3).
	RetryCount int

	// Types restricts delivery to the listed event types.
	// Nil or empty delivers everything.
	Types []events.EventType

	// Logger receives delivery failures. Nil uses slog.Default.
	Logger *slog.Logger
}

// NewWebhookHook creates a webhook hook posting to the given endpoint.
// The hook is safe for concurrent use.
func NewWebhookHook(endpoint string, opts WebhookOptions) *WebhookHook {
	if opts.Timeout == 0 {
		opts.Timeout = duration.WebhookTimeout
	}
	if opts.RetryCount == 0 {
		opts.RetryCount = defaults.WebhookRetryMax
	}

	return &WebhookHook{
		endpoint: endpoint,
		client:   &http.Client{Timeout: opts.Timeout},
		opts:     opts,
		logger:   orDefault(opts.Logger),
	}
}

// OnEvent posts the event to the configured endpoint. Delivery failures
// are logged but never propagated; a flaky webhook must not fail an
// evaluation.
func (h *WebhookHook) OnEvent(ctx context.Context, event events.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		h.logger.Warn("webhook: failed to marshal event", "error", err)
		return nil
	}

	if err := h.sendWithRetry(ctx, event.EventType(), body); err != nil {
		h.logger.Warn("webhook: failed to send event after retries", "error", err)
		return nil
	}

	return nil
}

// EventTypes returns the configured type filter.
func (h *WebhookHook) EventTypes() []events.EventType {
	return h.opts.Types
}

// sendWithRetry sends the request with exponential backoff retries.
// 5xx responses retry; 4xx responses fail immediately.
func (h *WebhookHook) sendWithRetry(ctx context.Context, eventType events.EventType, body []byte) error {
	var lastErr error

	for attempt := 0; attempt < h.opts.RetryCount; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * duration.WebhookBackoff
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Content-Type", defaults.ContentTypeJSON)
		req.Header.Set("User-Agent", defaults.ToolName+"/"+defaults.Version)
		req.Header.Set("X-Complyscan-Event-Type", string(eventType))

		for key, value := range h.opts.Headers {
			req.Header.Set(key, value)
		}

		resp, err := h.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
			continue
		}

		return fmt.Errorf("client error: %d", resp.StatusCode)
	}

	return lastErr
}
