// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"path/filepath"
	"time"
)

// TraceFilter is a predicate function for filtering trace events.
type TraceFilter = Predicate[TraceEvent]

// FindEvent returns the first event matching all provided filters, or nil
// if none match.
//
// Example:
//
//	// Find the first slow subscription to a decoding stream
//	event := trace.FindEvent(
//	    stream.NameMatches("*.decode"),
//	    stream.MinDuration(time.Second),
//	)
func (t *Trace) FindEvent(filters ...TraceFilter) *TraceEvent {
	match := And(filters...)
	for _, event := range t.Snapshot().Events {
		if match(event) {
			return &event
		}
	}
	return nil
}

// Filter returns a new Trace containing only events matching all provided
// filters. The original trace is not modified.
//
// The returned trace's totals count only the filtered events. Its Start is
// the earliest start time of the filtered events, or the original Start if
// no events match.
func (t *Trace) Filter(filters ...TraceFilter) *Trace {
	snap := t.Snapshot()
	match := And(filters...)

	filtered := &Trace{
		Events: make([]TraceEvent, 0, len(snap.Events)),
		Start:  snap.Start,
	}
	var earliest time.Time
	for _, event := range snap.Events {
		if !match(event) {
			continue
		}
		filtered.Events = append(filtered.Events, event)
		filtered.TotalSubscriptions++
		if event.Completed {
			filtered.TotalCompleted++
		}
		if earliest.IsZero() || event.Start.Before(earliest) {
			earliest = event.Start
		}
	}
	if !earliest.IsZero() {
		filtered.Start = earliest
	}
	return filtered
}

// MinDuration returns a filter that matches events with duration >= d.
func MinDuration(d time.Duration) TraceFilter {
	return func(event TraceEvent) bool {
		return event.Duration >= d
	}
}

// MaxDuration returns a filter that matches events with duration <= d.
func MaxDuration(d time.Duration) TraceFilter {
	return func(event TraceEvent) bool {
		return event.Duration <= d
	}
}

// Completed returns a filter that matches completed subscriptions.
func Completed() TraceFilter {
	return func(event TraceEvent) bool {
		return event.Completed
	}
}

// Incomplete returns a filter that matches subscriptions that have not
// completed.
func Incomplete() TraceFilter {
	return Not(Completed())
}

// MinValues returns a filter that matches events with at least n values.
func MinValues(n int) TraceFilter {
	return func(event TraceEvent) bool {
		return event.Values >= n
	}
}

// NameMatches returns a filter that matches events whose dotted name path
// matches the glob pattern.
//
// Patterns use filepath.Match semantics. If the pattern is malformed, no
// events match.
func NameMatches(pattern string) TraceFilter {
	return func(event TraceEvent) bool {
		if len(event.Names) == 0 {
			return false
		}
		matched, err := filepath.Match(pattern, event.Name())
		return err == nil && matched
	}
}

// NamePrefix returns a filter that matches events whose name path starts
// with the given names.
//
// Example:
//
//	// Match every stream named under "ingest"
//	filter := stream.NamePrefix("ingest")
func NamePrefix(prefix ...string) TraceFilter {
	return func(event TraceEvent) bool {
		if len(event.Names) < len(prefix) {
			return false
		}
		for i, p := range prefix {
			if event.Names[i] != p {
				return false
			}
		}
		return true
	}
}

// TimeRange returns a filter that matches events that started within the
// given time range, both ends inclusive.
func TimeRange(start, end time.Time) TraceFilter {
	return func(event TraceEvent) bool {
		return !event.Start.Before(start) && !event.Start.After(end)
	}
}
