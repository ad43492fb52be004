// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteTo serializes the trace's events as a pretty-printed JSON array.
//
// Returns the number of bytes written and any error. Unlike streaming via
// [WithStreamTo], it includes subscriptions that have not completed.
func (t *Trace) WriteTo(w io.Writer) (int64, error) {
	snap := t.Snapshot()
	data, err := json.MarshalIndent(snap.Events, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("failed to marshal trace: %w", err)
	}
	data = append(data, '\n')

	n, err := w.Write(data)
	if err != nil {
		return int64(n), fmt.Errorf("failed to write trace: %w", err)
	}
	return int64(n), nil
}

// WriteText outputs a human-readable list of the trace's events, one line
// per subscription, in subscription order.
//
// Example output:
//
//	orders (45ms, 3 values)
//	orders.decoded (120ms, 3 values)
//	ticks (0s, 7 values) [INCOMPLETE]
func (t *Trace) WriteText(w io.Writer) (int64, error) {
	var totalBytes int64
	for _, event := range t.Snapshot().Events {
		name := displayName(event.Name())
		line := fmt.Sprintf("%s (%s, %d values)", name, event.Duration, event.Values)
		if !event.Completed {
			line += " [INCOMPLETE]"
		}
		line += "\n"

		n, err := io.WriteString(w, line)
		totalBytes += int64(n)
		if err != nil {
			return totalBytes, fmt.Errorf("failed to write text: %w", err)
		}
	}
	return totalBytes, nil
}
