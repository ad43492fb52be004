// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"context"
	"log"
	"log/slog"
	"sync/atomic"
	"time"
)

func displayName(name string) string {
	if name == "" {
		return "<unknown>"
	}
	return name
}

// WithLogging wraps a stream with logging that prints a message when it is
// subscribed to and when it completes, including the number of values and
// the subscription's duration.
//
// The log messages use the stream's name path (see [Named]). If the stream
// is unnamed, logs show "<unknown>". If logger is nil, [log.Default] is used.
// The returned stream keeps the name of s.
//
// Log format:
//
//	[stream.name] subscribed
//	[stream.name] completed (3 values, took 123ms)
//
// Example:
//
//	orders := stream.WithLogging(nil, stream.Named("orders", source))
func WithLogging[T any](logger *log.Logger, s Stream[T]) Stream[T] {
	if logger == nil {
		logger = log.Default()
	}
	name := displayName(s.Name())
	out := New(func(next func(T), done func()) {
		logger.Printf("[%s] subscribed\n", name)
		start := time.Now()
		var count atomic.Int64
		s.Subscribe(
			func(v T) {
				count.Add(1)
				next(v)
			},
			func() {
				logger.Printf("[%s] completed (%d values, took %v)\n", name, count.Load(), time.Since(start))
				done()
			},
		)
	})
	out.names = s.names
	return out
}

// WithSlogging wraps a stream with structured logging.
//
// Records are emitted at level when the stream is subscribed to and when it
// completes, and at [slog.LevelDebug] for every value. Every record carries
// the stream's name path as a "name" attribute ("<unknown>" if unnamed).
// The completion record includes "values" and "duration_ms" attributes.
// If logger is nil, [slog.Default] is used.
//
// Example:
//
//	s := stream.WithSlogging(logger, slog.LevelInfo, stream.Named("orders", source))
//
// This would emit structured log records similar to:
//
//	{"level":"INFO","msg":"subscribed","name":"orders"}
//	{"level":"DEBUG","msg":"value","name":"orders","index":0}
//	{"level":"INFO","msg":"completed","name":"orders","values":1,"duration_ms":5}
func WithSlogging[T any](logger *slog.Logger, level slog.Level, s Stream[T]) Stream[T] {
	if logger == nil {
		logger = slog.Default()
	}
	name := displayName(s.Name())
	out := New(func(next func(T), done func()) {
		ctx := context.Background()
		logger.Log(ctx, level, "subscribed", "name", name)
		start := time.Now()
		var count atomic.Int64
		s.Subscribe(
			func(v T) {
				index := count.Add(1) - 1
				logger.Log(ctx, slog.LevelDebug, "value", "name", name, "index", index)
				next(v)
			},
			func() {
				logger.Log(ctx, level, "completed",
					"name", name,
					"values", count.Load(),
					"duration_ms", time.Since(start).Milliseconds(),
				)
				done()
			},
		)
	})
	out.names = s.names
	return out
}
