// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"encoding/json"
	"io"
	"strings"
	"sync"
	"time"
)

// TraceEvent records a single subscription to a traced stream.
type TraceEvent struct {
	// Names is the name path of the traced stream (see [Named]).
	Names []string `json:"stream_names"`

	// Start is when the subscription began.
	Start time.Time `json:"start"`

	// Duration is how long the subscription took to complete.
	// Zero while the subscription has not completed.
	Duration time.Duration `json:"duration"`

	// Values is the number of values delivered so far.
	Values int `json:"values"`

	// Completed reports whether the stream signaled completion.
	Completed bool `json:"completed"`
}

// Name returns the event's name path joined with dots.
func (e TraceEvent) Name() string {
	return strings.Join(e.Names, ".")
}

// TraceOption configures trace behavior.
type TraceOption func(*traceOptions)

type traceOptions struct {
	// streamTo receives events as JSON Lines as subscriptions complete.
	streamTo io.Writer
}

// WithStreamTo configures the trace to stream events as JSON Lines to the
// given writer.
//
// An event is written when its subscription completes, so traces are
// preserved even if the process crashes later. This is different from
// [Trace.WriteTo], which writes a pretty-printed JSON array of all events.
// All events are also retained in memory.
//
// Write failures are best-effort and never affect the traced stream.
//
// Example:
//
//	f, _ := os.Create("trace.jsonl")
//	defer f.Close()
//	s, trace := stream.Traced(source, stream.WithStreamTo(f))
//
//	// trace.jsonl contains one JSON object per line:
//	// {"stream_names":["orders"],"start":"...","duration":45000000,"values":3,"completed":true}
func WithStreamTo(w io.Writer) TraceOption {
	return func(opts *traceOptions) {
		opts.streamTo = w
	}
}

// Trace is the set of events recorded for a traced stream.
//
// Fields may change while traced subscriptions are still running; read them
// once the subscriptions have completed, or use [Trace.Snapshot].
type Trace struct {
	// Events lists one event per subscription, in subscription order.
	Events []TraceEvent

	// Start is when the trace was created.
	Start time.Time

	// TotalSubscriptions is the number of recorded subscriptions.
	TotalSubscriptions int

	// TotalCompleted is the number of subscriptions that completed.
	TotalCompleted int

	mu      sync.Mutex
	encoder *json.Encoder
}

// eventIdx is a type-safe index into the trace's event array.
type eventIdx int

// Traced wraps a stream and records a [TraceEvent] for every subscription
// to the returned stream.
//
// This enables debugging and performance analysis: how often a stream is
// subscribed to (cold streams re-run their producers every time), how many
// values each subscription saw and how long it took to complete.
//
// Example:
//
//	orders, trace := stream.Traced(stream.Named("orders", source))
//	values, err := stream.Collect(ctx, orders)
//	_, _ = trace.WriteText(os.Stdout)
func Traced[T any](s Stream[T], opts ...TraceOption) (Stream[T], *Trace) {
	options := traceOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	tr := &Trace{
		Start:  time.Now(),
		Events: make([]TraceEvent, 0),
	}
	if options.streamTo != nil {
		tr.encoder = json.NewEncoder(options.streamTo)
	}

	out := New(func(next func(T), done func()) {
		idx := tr.newEvent(s.Names())
		s.Subscribe(
			func(v T) {
				tr.recordValue(idx)
				next(v)
			},
			func() {
				tr.recordFinish(idx)
				done()
			},
		)
	})
	out.names = s.names
	return out, tr
}

// Snapshot returns a copy of the trace that is safe to read while traced
// subscriptions are still running.
func (t *Trace) Snapshot() *Trace {
	t.mu.Lock()
	defer t.mu.Unlock()
	return &Trace{
		Events:             append([]TraceEvent(nil), t.Events...),
		Start:              t.Start,
		TotalSubscriptions: t.TotalSubscriptions,
		TotalCompleted:     t.TotalCompleted,
	}
}

func (t *Trace) newEvent(names []string) eventIdx {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := len(t.Events)
	t.Events = append(t.Events, TraceEvent{
		Names: names,
		Start: time.Now(),
	})
	t.TotalSubscriptions++
	return eventIdx(idx)
}

func (t *Trace) recordValue(idx eventIdx) {
	t.mu.Lock()
	t.Events[idx].Values++
	t.mu.Unlock()
}

func (t *Trace) recordFinish(idx eventIdx) {
	t.mu.Lock()
	defer t.mu.Unlock()

	event := &t.Events[idx]
	event.Duration = time.Since(event.Start)
	event.Completed = true
	t.TotalCompleted++

	if t.encoder != nil {
		_ = t.encoder.Encode(event)
	}
}
