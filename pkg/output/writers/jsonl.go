// Package writers provides output writers for pipeline events.
//
// This package contains implementations of the dispatcher.Writer
// interface for formats suitable for CI/CD integration, currently
// JSONL (newline-delimited JSON).
package writers

import (
	"io"
	"sync"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/complyscan/complyscan/pkg/output/dispatcher"
	"github.com/complyscan/complyscan/pkg/output/events"
)

// Compile-time interface check.
var _ dispatcher.Writer = (*JSONLWriter)(nil)

// JSONLWriter writes events as newline-delimited JSON. Each event is
// one complete JSON object per line, so jq, grep, and streaming parsers
// can process the output in real time.
type JSONLWriter struct {
	w    io.Writer
	mu   sync.Mutex
	opts JSONLOptions
}

// JSONLOptions configures the JSONL writer behavior.
type JSONLOptions struct {
	// Pretty enables indented JSON output.
	// Note: This is not JSONL compliant but useful for debugging.
	Pretty bool

	// Types restricts output to the listed event types.
	// Nil or empty writes everything.
	Types []events.EventType
}

// NewJSONLWriter creates a JSONL writer that writes to w.
// The writer is safe for concurrent use.
func NewJSONLWriter(w io.Writer, opts JSONLOptions) *JSONLWriter {
	return &JSONLWriter{w: w, opts: opts}
}

// Write writes an event as a single JSON line.
func (jw *JSONLWriter) Write(event events.Event) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	var err error
	if jw.opts.Pretty {
		err = json.MarshalWrite(jw.w, event, jsontext.WithIndent("  "))
	} else {
		err = json.MarshalWrite(jw.w, event)
	}
	if err != nil {
		return err
	}
	_, err = jw.w.Write([]byte{'\n'})
	return err
}

// Flush is a no-op; JSONL writes through immediately.
func (jw *JSONLWriter) Flush() error {
	return nil
}

// Close closes the underlying writer if it implements io.Closer.
func (jw *JSONLWriter) Close() error {
	if closer, ok := jw.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// SupportsEvent applies the configured type filter.
func (jw *JSONLWriter) SupportsEvent(eventType events.EventType) bool {
	if len(jw.opts.Types) == 0 {
		return true
	}
	for _, t := range jw.opts.Types {
		if t == eventType {
			return true
		}
	}
	return false
}
