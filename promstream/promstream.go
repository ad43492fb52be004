// SPDX-License-Identifier: Apache-2.0

// Package promstream exports stream activity as Prometheus metrics.
package promstream

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sam-fredrickson/stream"
)

const streamLabel = "stream"

var durationBuckets = []float64{0.001, 0.002, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1, 2, 5, 10, 20, 60, 120, 600}

// Metrics holds the collectors updated by instrumented streams. Every
// metric carries a "stream" label.
type Metrics struct {
	subscriptions *prometheus.CounterVec
	values        *prometheus.CounterVec
	completions   *prometheus.CounterVec
	duration      *prometheus.HistogramVec
}

// NewMetrics creates the stream metrics and registers them with reg.
//
// A nil reg registers nothing, which is useful in tests. Registering twice
// with the same namespace panics, like [promauto].
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		subscriptions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_subscriptions_total",
			Help:      "Number of subscriptions to the stream.",
		}, []string{streamLabel}),
		values: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_values_total",
			Help:      "Number of values delivered by the stream.",
		}, []string{streamLabel}),
		completions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_completions_total",
			Help:      "Number of subscriptions that completed.",
		}, []string{streamLabel}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stream_subscription_duration_seconds",
			Help:      "Time from subscription to completion.",
			Buckets:   durationBuckets,
		}, []string{streamLabel}),
	}
}

// Instrument wraps s so that every subscription updates m under the given
// label. An empty name falls back to the stream's name path.
//
// Example:
//
//	metrics := promstream.NewMetrics(prometheus.DefaultRegisterer, "app")
//	orders = promstream.Instrument(metrics, "orders", orders)
func Instrument[T any](m *Metrics, name string, s stream.Stream[T]) stream.Stream[T] {
	if name == "" {
		name = s.Name()
	}
	subscriptions := m.subscriptions.WithLabelValues(name)
	values := m.values.WithLabelValues(name)
	completions := m.completions.WithLabelValues(name)
	duration := m.duration.WithLabelValues(name)

	out := stream.New(func(next func(T), done func()) {
		subscriptions.Inc()
		start := time.Now()
		s.Subscribe(
			func(v T) {
				values.Inc()
				next(v)
			},
			func() {
				completions.Inc()
				duration.Observe(time.Since(start).Seconds())
				done()
			},
		)
	})
	return rename(out, s.Names())
}

// rename labels s with names, outermost first.
func rename[T any](s stream.Stream[T], names []string) stream.Stream[T] {
	for i := len(names) - 1; i >= 0; i-- {
		s = stream.Named(names[i], s)
	}
	return s
}
