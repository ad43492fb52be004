// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// A RetryPredicate determines whether a failed stream should be subscribed
// to again.
//
// It receives the context, the number of failed attempts so far, and the
// error carried by the last failed [Item]. It returns true to retry, false
// to stop.
type RetryPredicate = func(context.Context, int, error) bool

// BackoffOption configures backoff behavior for retry predicates.
type BackoffOption func(*backoffConfig)

type backoffConfig struct {
	fullJitter    bool
	percentJitter float64       // 0 means no percentage jitter
	maxDelay      time.Duration // 0 means no max delay
	multiplier    float64
}

func newBackoffConfig(opts []BackoffOption) backoffConfig {
	cfg := backoffConfig{multiplier: 2.0}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithFullJitter makes the delay a random value between 0 and the
// calculated delay.
//
// Cancels out any [WithPercentageJitter] option; the last option wins.
func WithFullJitter() BackoffOption {
	return func(c *backoffConfig) {
		c.fullJitter = true
		c.percentJitter = 0
	}
}

// WithPercentageJitter adds ±percent randomness to the delay; for example
// 0.2 gives a delay between 80% and 120% of the calculated one.
//
// Cancels out any [WithFullJitter] option; the last option wins.
func WithPercentageJitter(percent float64) BackoffOption {
	return func(c *backoffConfig) {
		c.fullJitter = false
		c.percentJitter = percent
	}
}

// WithMaxDelay caps the delay, after jitter is applied.
func WithMaxDelay(max time.Duration) BackoffOption {
	return func(c *backoffConfig) {
		c.maxDelay = max
	}
}

// WithMultiplier sets the growth rate of [ExponentialBackoff] (default 2.0).
// It is ignored by [FixedBackoff].
func WithMultiplier(m float64) BackoffOption {
	return func(c *backoffConfig) {
		c.multiplier = m
	}
}

// delay applies jitter and the max delay cap to d.
//
// math/rand/v2 is auto-seeded and sufficient for jitter.
func (c *backoffConfig) delay(d time.Duration) time.Duration {
	switch {
	case d <= 0:
		d = 0
	case c.fullJitter:
		// #nosec G404 -- jitter does not need a secure source
		d = time.Duration(rand.Int64N(int64(d) + 1))
	case c.percentJitter > 0:
		spread := float64(d) * c.percentJitter
		// #nosec G404 -- jitter does not need a secure source
		d = time.Duration(max(0, float64(d)+rand.Float64()*2*spread-spread))
	}
	if c.maxDelay > 0 && d > c.maxDelay {
		d = c.maxDelay
	}
	return d
}

// sleep waits for d, returning false if ctx is done first.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// Retry subscribes to s again whenever it emits a failed [Item], as long as
// all predicates agree.
//
// Successful items are passed through. Once an attempt fails, the rest of
// that attempt is ignored; the predicates are evaluated on a new goroutine,
// so backoff delays never block the failing producer. If a predicate
// returns false, the failed item is emitted and the stream completes. A
// retried stream should be [Cold], so that resubscribing restarts it.
//
// If no predicates are provided, this defaults to retrying up to 3 times
// with exponential backoff starting at 100ms and full jitter.
//
// Example:
//
//	docs := stream.Retry(ctx, fetchDocuments(url),
//	    stream.UpTo(5),
//	    stream.ExponentialBackoff(time.Second, stream.WithMaxDelay(time.Minute)),
//	)
func Retry[T any](
	ctx context.Context,
	s Stream[Item[T]],
	predicates ...RetryPredicate,
) Stream[Item[T]] {
	if len(predicates) == 0 {
		predicates = []RetryPredicate{
			UpTo(3),
			ExponentialBackoff(100*time.Millisecond, WithFullJitter()),
		}
	}
	return New(func(next func(Item[T]), done func()) {
		attempts := 0
		var attempt func()
		attempt = func() {
			failed := false
			s.Subscribe(
				func(i Item[T]) {
					if failed {
						return
					}
					if !i.Failed() {
						next(i)
						return
					}
					failed = true
					attempts++
					n := attempts
					go func() {
						for _, p := range predicates {
							if !p(ctx, n, i.Err) {
								next(i)
								done()
								return
							}
						}
						attempt()
					}()
				},
				func() {
					if !failed {
						done()
					}
				},
			)
		}
		attempt()
	})
}

// UpTo limits retries to a maximum number of attempts.
//
// The predicate returns true if attempts < maxAttempts.
func UpTo(maxAttempts int) RetryPredicate {
	return func(_ context.Context, attempts int, _ error) bool {
		return attempts < maxAttempts
	}
}

// FixedBackoff waits for a fixed duration before each retry.
//
// If the context is cancelled during the wait, the predicate returns false.
func FixedBackoff(delay time.Duration, opts ...BackoffOption) RetryPredicate {
	cfg := newBackoffConfig(opts)
	return func(ctx context.Context, _ int, _ error) bool {
		return sleep(ctx, cfg.delay(delay))
	}
}

// ExponentialBackoff waits with exponentially increasing delays before each
// retry.
//
// By default, the delay for attempt N is base × 2^(N-1); [WithMultiplier]
// changes the base of the power. If the calculated delay overflows, it is
// capped at one year. If the context is cancelled during the wait, the
// predicate returns false.
func ExponentialBackoff(base time.Duration, opts ...BackoffOption) RetryPredicate {
	cfg := newBackoffConfig(opts)
	return func(ctx context.Context, attempts int, _ error) bool {
		attempts = max(attempts, 1)
		d := float64(base) * math.Pow(cfg.multiplier, float64(attempts-1))
		const ceiling = float64(365 * 24 * time.Hour)
		if math.IsInf(d, 0) || math.IsNaN(d) || d > ceiling {
			d = ceiling
		}
		return sleep(ctx, cfg.delay(time.Duration(d)))
	}
}

// OnlyIf retries only when check returns true for the error.
func OnlyIf(check func(error) bool) RetryPredicate {
	return func(_ context.Context, _ int, err error) bool {
		return check(err)
	}
}
