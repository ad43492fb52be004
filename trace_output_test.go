// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("write failed")
}

func TestTraceOutputFormats(t *testing.T) {
	t.Parallel()

	var src manual[int]
	done, trace := Traced(Named("parent", Named("child", FromSlice([]int{1, 2}))))
	done.Subscribe(nil, nil)
	pending, pendingTrace := Traced(Named("ticks", src.stream()))
	pending.Subscribe(nil, nil)
	src.emit(1)

	t.Run("WriteTo JSON", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		n, err := trace.WriteTo(&buf)
		if err != nil {
			t.Fatalf("WriteTo failed: %v", err)
		}
		if n != int64(buf.Len()) {
			t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
		}
		var events []TraceEvent
		if err := json.Unmarshal(buf.Bytes(), &events); err != nil {
			t.Fatalf("failed to parse JSON: %v", err)
		}
		if len(events) != 1 || events[0].Values != 2 {
			t.Errorf("got %+v", events)
		}
		if !strings.Contains(buf.String(), `"stream_names"`) {
			t.Error("expected stream_names key in JSON output")
		}
	})

	t.Run("WriteText", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if _, err := trace.WriteText(&buf); err != nil {
			t.Fatalf("WriteText failed: %v", err)
		}
		line := strings.TrimSpace(buf.String())
		if !strings.HasPrefix(line, "parent.child (") || !strings.HasSuffix(line, ", 2 values)") {
			t.Errorf("unexpected line %q", line)
		}
	})

	t.Run("WriteText Incomplete", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if _, err := pendingTrace.WriteText(&buf); err != nil {
			t.Fatalf("WriteText failed: %v", err)
		}
		if got := strings.TrimSpace(buf.String()); got != "ticks (0s, 1 values) [INCOMPLETE]" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("WriteErrors", func(t *testing.T) {
		t.Parallel()
		if _, err := trace.WriteTo(failingWriter{}); err == nil {
			t.Error("expected WriteTo error")
		}
		if _, err := trace.WriteText(failingWriter{}); err == nil {
			t.Error("expected WriteText error")
		}
	})
}
