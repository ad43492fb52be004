// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"bufio"
	"bytes"
	"encoding/json"
	"slices"
	"sync"
	"testing"
)

func TestTraced(t *testing.T) {
	t.Parallel()
	s, trace := Traced(Named("numbers", FromSlice([]int{1, 2, 3})))
	if s.Name() != "numbers" {
		t.Errorf("got %q, want numbers", s.Name())
	}
	if trace.TotalSubscriptions != 0 {
		t.Fatal("tracing should not subscribe")
	}

	var r1, r2 recorder[int]
	r1.subscribe(s)
	r2.subscribe(s)
	r1.expect(t, []int{1, 2, 3}, 1)
	r2.expect(t, []int{1, 2, 3}, 1)

	snap := trace.Snapshot()
	if snap.TotalSubscriptions != 2 || snap.TotalCompleted != 2 {
		t.Errorf("got %d subscriptions and %d completions, want 2 and 2",
			snap.TotalSubscriptions, snap.TotalCompleted)
	}
	for i, event := range snap.Events {
		if !slices.Equal(event.Names, []string{"numbers"}) {
			t.Errorf("event %d: got names %v", i, event.Names)
		}
		if event.Values != 3 || !event.Completed {
			t.Errorf("event %d: got %+v", i, event)
		}
		if event.Start.Before(snap.Start) {
			t.Errorf("event %d started before the trace", i)
		}
	}
}

func TestTracedIncomplete(t *testing.T) {
	t.Parallel()
	var src manual[int]
	s, trace := Traced(src.stream())
	s.Subscribe(nil, nil)
	src.emit(1, 2)

	snap := trace.Snapshot()
	if len(snap.Events) != 1 {
		t.Fatalf("got %d events, want 1", len(snap.Events))
	}
	event := snap.Events[0]
	if event.Completed || event.Values != 2 || event.Duration != 0 {
		t.Errorf("got %+v, want 2 values and not completed", event)
	}
	if snap.TotalCompleted != 0 {
		t.Errorf("got %d completions, want 0", snap.TotalCompleted)
	}

	src.complete()
	if trace.Snapshot().TotalCompleted != 1 {
		t.Error("expected the subscription to be completed")
	}
}

func TestTracedCountsUpstreamSubscriptions(t *testing.T) {
	t.Parallel()
	// A cold stream subscribed through two paths runs its producer twice,
	// while split outputs share one run.
	cold, coldTrace := Traced(Named("cold", FromSlice([]int{1})))
	merged := cold.Merge(Map(cold, func(n int) int { return n * 10 }))
	merged.Subscribe(nil, nil)
	if got := coldTrace.Snapshot().TotalSubscriptions; got != 2 {
		t.Errorf("got %d cold subscriptions, want 2", got)
	}

	var src manual[int]
	shared, sharedTrace := Traced(Named("shared", src.stream()))
	streams := shared.Split(2)
	streams[0].Merge(streams[1]).Subscribe(nil, nil)
	if got := sharedTrace.Snapshot().TotalSubscriptions; got != 1 {
		t.Errorf("got %d shared subscriptions, want 1", got)
	}
}

func TestTracedStreaming(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	s, trace := Traced(Named("lines", FromSlice([]string{"a", "b"})), WithStreamTo(&buf))
	s.Subscribe(nil, nil)
	s.Subscribe(nil, nil)

	scanner := bufio.NewScanner(&buf)
	var events []TraceEvent
	for scanner.Scan() {
		var event TraceEvent
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			t.Fatalf("invalid JSON line %q: %v", scanner.Text(), err)
		}
		events = append(events, event)
	}
	if len(events) != 2 {
		t.Fatalf("got %d streamed events, want 2", len(events))
	}
	for _, event := range events {
		if !event.Completed || event.Values != 2 || !slices.Equal(event.Names, []string{"lines"}) {
			t.Errorf("unexpected streamed event %+v", event)
		}
	}
	if len(trace.Snapshot().Events) != 2 {
		t.Error("streamed events should also be kept in memory")
	}
}

func TestTraceThreadSafety(t *testing.T) {
	t.Parallel()
	s, trace := Traced(FromSlice([]int{1, 2, 3}))

	const subscribers = 20
	var wg sync.WaitGroup
	for range subscribers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Subscribe(nil, nil)
			_ = trace.Snapshot()
		}()
	}
	wg.Wait()

	snap := trace.Snapshot()
	if snap.TotalSubscriptions != subscribers || snap.TotalCompleted != subscribers {
		t.Errorf("got %d/%d, want %d/%d",
			snap.TotalSubscriptions, snap.TotalCompleted, subscribers, subscribers)
	}
}
