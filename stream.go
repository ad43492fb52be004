// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"sync"
)

// A Producer drives a stream's emissions.
//
// It calls next zero or more times, in emission order, and may call done once
// to signal that no further values will follow. A Producer may call its
// callbacks synchronously, or later from another goroutine.
type Producer[T any] = func(next func(T), done func())

// Kind distinguishes replayable streams from streams sharing one upstream
// subscription.
type Kind uint8

const (
	// Cold streams re-run their whole producer chain for every subscription.
	Cold Kind = iota

	// Shared streams share one upstream subscription among all of their
	// observers. Only [Stream.Split] produces them.
	Shared
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Cold:
		return "cold"
	case Shared:
		return "shared"
	default:
		return "unknown"
	}
}

// Stream is a lazily evaluated, push-based sequence of values.
//
// A Stream is an immutable value: operators never modify it, they wrap it.
// Nothing runs until an observer subscribes. The zero Stream emits nothing
// and completes immediately.
type Stream[T any] struct {
	subscribe Producer[T]
	kind      Kind
	names     []string
}

// New creates a cold stream from a producer.
//
// Example:
//
//	ticks := stream.New(func(next func(int), done func()) {
//	    for i := range 3 {
//	        next(i)
//	    }
//	    done()
//	})
func New[T any](p Producer[T]) Stream[T] {
	return Stream[T]{subscribe: p}
}

// Kind reports whether the stream is [Cold] or [Shared].
func (s Stream[T]) Kind() Kind {
	return s.kind
}

// Subscribe runs the stream's producer with the given observer.
//
// Either callback may be nil. The returned [Subscription] guarantees that
// done is delivered at most once and that next is never delivered after
// done, even if the producer misbehaves.
func (s Stream[T]) Subscribe(next func(T), done func()) *Subscription {
	sub := newSubscription()
	s.run(sub, next, done)
	return sub
}

// run subscribes to the producer, gating both callbacks through sub.
func (s Stream[T]) run(sub *Subscription, next func(T), done func()) {
	if sub.Detached() {
		return
	}
	if s.subscribe == nil {
		sub.finish(done)
		return
	}
	s.subscribe(
		func(v T) {
			if !sub.active() {
				return
			}
			if next != nil {
				next(v)
			}
		},
		func() {
			sub.finish(done)
		},
	)
}

// Subscription is the handle for a single subscription.
//
// There is no way to stop an upstream producer; Detach only stops delivery to
// this subscription's observer.
type Subscription struct {
	mu        sync.Mutex
	finished  bool
	detached  bool
	ch        chan struct{}
	closeOnce sync.Once
}

func newSubscription() *Subscription {
	return &Subscription{ch: make(chan struct{})}
}

// Detach stops delivering values and completion to the observer.
//
// Detach is safe to call multiple times and from any goroutine. Calling it
// after completion has no effect.
func (s *Subscription) Detach() {
	if s == nil {
		return
	}
	s.mu.Lock()
	if s.finished || s.detached {
		s.mu.Unlock()
		return
	}
	s.detached = true
	s.mu.Unlock()
	s.close()
}

// Detached reports whether Detach was called before completion.
func (s *Subscription) Detached() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detached
}

// Completed reports whether done has been delivered.
func (s *Subscription) Completed() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// Done returns a channel that is closed once the observer's done callback
// has returned, or once the subscription is detached.
func (s *Subscription) Done() <-chan struct{} {
	if s == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return s.ch
}

func (s *Subscription) active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.finished && !s.detached
}

// finish delivers done at most once.
func (s *Subscription) finish(done func()) {
	s.mu.Lock()
	if s.finished || s.detached {
		s.mu.Unlock()
		return
	}
	s.finished = true
	s.mu.Unlock()

	defer s.close()
	if done != nil {
		done()
	}
}

func (s *Subscription) close() {
	s.closeOnce.Do(func() {
		close(s.ch)
	})
}
