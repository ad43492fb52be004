// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"runtime"
	"strings"
)

// Names returns a copy of the stream's name path, outermost name first.
// Returns nil if the stream is unnamed.
func (s Stream[T]) Names() []string {
	if len(s.names) == 0 {
		return nil
	}
	return append([]string{}, s.names...)
}

// Name returns the stream's name path joined with dots, or the empty string
// if the stream is unnamed.
func (s Stream[T]) Name() string {
	return strings.Join(s.names, ".")
}

// Named returns a copy of s labeled with name.
//
// When Named decorators are nested, the outer name comes first, creating a
// hierarchical path (e.g., "ingest.decode"). Names are used by
// [WithLogging], [WithSlogging] and [Traced]. Streams derived from a named
// stream by an operator are unnamed.
func Named[T any](name string, s Stream[T]) Stream[T] {
	s.names = append([]string{name}, s.names...)
	return s
}

type autoNamedOptions struct {
	callerSkip int
}

// An AutoNamedOption is a function option for [AutoNamed].
type AutoNamedOption func(*autoNamedOptions)

// SkipCaller adds a delta to the number of skipped stack frames.
//
// This is useful when wrapping AutoNamed inside helper functions, allowing
// it to skip intermediate layers and identify the original caller.
//
// Example:
//
//	func Orders() stream.Stream[Order] {
//	    return instrumented(ordersFromQueue())
//	}
//
//	func instrumented[T any](s stream.Stream[T]) stream.Stream[T] {
//	    // Skip instrumented so AutoNamed picks Orders instead
//	    return stream.AutoNamed(s, stream.SkipCaller(1))
//	}
func SkipCaller(delta int) AutoNamedOption {
	return func(o *autoNamedOptions) {
		o.callerSkip += delta
	}
}

// AutoNamed labels s with the name of the function that calls AutoNamed.
//
// Example:
//
//	func Temperatures() stream.Stream[float64] {
//	    return stream.AutoNamed(stream.FromChan(readings))
//	}
//	// The stream is named "Temperatures".
//
// Note: AutoNamed only works when called directly from a named function.
// It will not work correctly when called from anonymous functions or closures.
func AutoNamed[T any](s Stream[T], opts ...AutoNamedOption) Stream[T] {
	const minimumCallerSkip = 1
	config := autoNamedOptions{callerSkip: minimumCallerSkip}
	for _, opt := range opts {
		opt(&config)
	}

	pc, _, _, ok := runtime.Caller(config.callerSkip)
	if !ok {
		return s
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return s
	}
	return Named(extractFunctionName(fn.Name()), s)
}

// extractFunctionName extracts the simple function name from a full Go function path.
//
// Examples:
//   - "github.com/sam-fredrickson/stream.Orders" -> "Orders"
//   - "main.(*Server).Events" -> "Events"
//   - "github.com/user/pkg.init.0" -> "0"
func extractFunctionName(fullName string) string {
	parts := strings.Split(fullName, "/")
	lastPart := parts[len(parts)-1]

	if idx := strings.LastIndex(lastPart, "."); idx != -1 {
		lastPart = lastPart[idx+1:]
	}
	return lastPart
}
