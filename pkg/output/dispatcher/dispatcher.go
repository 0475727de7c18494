// Package dispatcher provides the central event routing for pipeline
// output. It receives events from the evaluation pipeline and routes
// them to registered writers and hooks. Writers handle file output
// (JSONL, etc.), while hooks handle real-time integrations (webhooks,
// metrics, tracing).
//
// The dispatcher decouples event generation from event consumption: the
// pipeline never knows which sinks are attached.
package dispatcher

import (
	"context"
	"log/slog"
	"sync"

	"github.com/complyscan/complyscan/pkg/output/events"
)

// Writer is the interface for all output writers. Writers persist
// events to output formats such as JSONL or console output.
type Writer interface {
	// Write writes an event to the output.
	Write(event events.Event) error

	// Flush ensures all buffered events are written.
	Flush() error

	// Close closes the writer and releases any resources.
	Close() error

	// SupportsEvent returns true if the writer handles this event type.
	SupportsEvent(eventType events.EventType) bool
}

// Hook is the interface for event hooks. Hooks are used for real-time
// integrations such as webhooks, metrics exposition, or trace export.
type Hook interface {
	// OnEvent is called for each matching event.
	OnEvent(ctx context.Context, event events.Event) error

	// EventTypes returns the event types this hook handles.
	// Return nil or empty slice to receive all events.
	EventTypes() []events.EventType
}

// Dispatcher routes events to writers and hooks.
// It is safe for concurrent use.
type Dispatcher struct {
	writers []Writer
	hooks   []Hook
	mu      sync.RWMutex

	async  bool
	logger *slog.Logger

	// hookWG tracks in-flight async hook calls so Close can wait for
	// them instead of dropping events on shutdown.
	hookWG sync.WaitGroup
}

// Config configures the dispatcher behavior.
type Config struct {
	// Async enables asynchronous hook processing.
	// When true, hooks are called in goroutines.
	Async bool

	// Logger receives sink failures. Nil uses slog.Default.
	Logger *slog.Logger
}

// New creates an event dispatcher with the given configuration.
func New(cfg Config) *Dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		writers: make([]Writer, 0),
		hooks:   make([]Hook, 0),
		async:   cfg.Async,
		logger:  logger,
	}
}

// RegisterWriter adds a writer to the dispatcher.
// Writers receive events that match their SupportsEvent filter.
func (d *Dispatcher) RegisterWriter(w Writer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writers = append(d.writers, w)
}

// RegisterHook adds a hook to the dispatcher.
// Hooks receive events that match their EventTypes filter.
func (d *Dispatcher) RegisterHook(h Hook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hooks = append(d.hooks, h)
}

// Dispatch sends an event to all registered writers and hooks. Sink
// failures are logged, never propagated: every consumer gets a chance
// to receive the event regardless of what its peers do.
func (d *Dispatcher) Dispatch(ctx context.Context, event events.Event) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, w := range d.writers {
		if w.SupportsEvent(event.EventType()) {
			if err := w.Write(event); err != nil {
				d.logger.Warn("writer failed", "event", string(event.EventType()), "error", err)
			}
		}
	}

	for _, h := range d.hooks {
		if !hookSupportsEvent(h, event.EventType()) {
			continue
		}
		if d.async {
			d.hookWG.Add(1)
			go func(hook Hook) {
				defer d.hookWG.Done()
				if err := hook.OnEvent(ctx, event); err != nil {
					d.logger.Warn("hook failed", "event", string(event.EventType()), "error", err)
				}
			}(h)
		} else {
			if err := h.OnEvent(ctx, event); err != nil {
				d.logger.Warn("hook failed", "event", string(event.EventType()), "error", err)
			}
		}
	}

	return nil
}

// hookSupportsEvent checks if a hook handles the given event type.
func hookSupportsEvent(h Hook, eventType events.EventType) bool {
	types := h.EventTypes()
	if len(types) == 0 {
		return true
	}
	for _, et := range types {
		if et == eventType {
			return true
		}
	}
	return false
}

// Flush flushes all registered writers.
func (d *Dispatcher) Flush() error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, w := range d.writers {
		if err := w.Flush(); err != nil {
			d.logger.Warn("writer flush failed", "error", err)
		}
	}

	return nil
}

// Close waits for in-flight async hooks, then flushes and closes all
// writers. After Close the dispatcher must not be used.
func (d *Dispatcher) Close() error {
	d.hookWG.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, w := range d.writers {
		if err := w.Flush(); err != nil {
			d.logger.Warn("writer flush failed", "error", err)
		}
		if err := w.Close(); err != nil {
			d.logger.Warn("writer close failed", "error", err)
		}
	}

	return nil
}
