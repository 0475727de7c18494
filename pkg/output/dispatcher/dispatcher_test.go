package dispatcher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complyscan/complyscan/pkg/output/events"
)

type recordingWriter struct {
	mu      sync.Mutex
	written []events.Event
	types   []events.EventType
	failing bool
	flushed bool
	closed  bool
}

func (w *recordingWriter) Write(e events.Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failing {
		return errors.New("write failed")
	}
	w.written = append(w.written, e)
	return nil
}

func (w *recordingWriter) Flush() error { w.flushed = true; return nil }
func (w *recordingWriter) Close() error { w.closed = true; return nil }

func (w *recordingWriter) SupportsEvent(t events.EventType) bool {
	if len(w.types) == 0 {
		return true
	}
	for _, et := range w.types {
		if et == t {
			return true
		}
	}
	return false
}

type recordingHook struct {
	mu    sync.Mutex
	seen  []events.Event
	types []events.EventType
	err   error
	delay time.Duration
}

func (h *recordingHook) OnEvent(_ context.Context, e events.Event) error {
	if h.delay > 0 {
		time.Sleep(h.delay)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, e)
	return h.err
}

func (h *recordingHook) EventTypes() []events.EventType { return h.types }

func (h *recordingHook) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.seen)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func scoreEvent() *events.ScoreEvent {
	return &events.ScoreEvent{BaseEvent: events.NewBase(events.EventTypeScore, "eval-1")}
}

func TestDispatchRoutesToWriterAndHook(t *testing.T) {
	d := New(Config{Logger: discard()})
	w := &recordingWriter{}
	h := &recordingHook{}
	d.RegisterWriter(w)
	d.RegisterHook(h)

	require.NoError(t, d.Dispatch(context.Background(), scoreEvent()))

	assert.Len(t, w.written, 1)
	assert.Equal(t, 1, h.count())
}

func TestDispatchRespectsWriterFilter(t *testing.T) {
	d := New(Config{Logger: discard()})
	w := &recordingWriter{types: []events.EventType{events.EventTypeBreach}}
	d.RegisterWriter(w)

	require.NoError(t, d.Dispatch(context.Background(), scoreEvent()))
	assert.Empty(t, w.written)
}

func TestDispatchRespectsHookFilter(t *testing.T) {
	d := New(Config{Logger: discard()})
	h := &recordingHook{types: []events.EventType{events.EventTypeBreach}}
	all := &recordingHook{}
	d.RegisterHook(h)
	d.RegisterHook(all)

	require.NoError(t, d.Dispatch(context.Background(), scoreEvent()))

	assert.Equal(t, 0, h.count())
	assert.Equal(t, 1, all.count(), "empty filter receives everything")
}

func TestDispatchSurvivesFailingSinks(t *testing.T) {
	d := New(Config{Logger: discard()})
	bad := &recordingWriter{failing: true}
	good := &recordingWriter{}
	hook := &recordingHook{err: errors.New("hook failed")}
	after := &recordingHook{}
	d.RegisterWriter(bad)
	d.RegisterWriter(good)
	d.RegisterHook(hook)
	d.RegisterHook(after)

	require.NoError(t, d.Dispatch(context.Background(), scoreEvent()))

	assert.Len(t, good.written, 1, "failure of one sink must not starve the others")
	assert.Equal(t, 1, after.count())
}

func TestAsyncCloseWaitsForHooks(t *testing.T) {
	d := New(Config{Async: true, Logger: discard()})
	h := &recordingHook{delay: 50 * time.Millisecond}
	d.RegisterHook(h)

	require.NoError(t, d.Dispatch(context.Background(), scoreEvent()))
	require.NoError(t, d.Close())

	assert.Equal(t, 1, h.count(), "Close must wait for in-flight async hooks")
}

func TestCloseFlushesAndClosesWriters(t *testing.T) {
	d := New(Config{Logger: discard()})
	w := &recordingWriter{}
	d.RegisterWriter(w)

	require.NoError(t, d.Close())
	assert.True(t, w.flushed)
	assert.True(t, w.closed)
}

func TestConcurrentDispatch(t *testing.T) {
	d := New(Config{Logger: discard()})
	w := &recordingWriter{}
	d.RegisterWriter(w)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = d.Dispatch(context.Background(), scoreEvent())
		}()
	}
	wg.Wait()

	assert.Len(t, w.written, 20)
}
