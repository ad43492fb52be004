// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"sync"
)

// FlatMap creates a stream that subscribes to f(a) for every value a of s
// and emits all of their values.
//
// The flattened stream completes as soon as s completes; the completion of
// the inner streams is not awaited. Inner values that arrive after that
// point are not delivered. Use [FlatMapAll] to wait for inner streams too.
//
// Example:
//
//	lines := stream.FlatMap(files, func(name string) stream.Stream[string] {
//	    return readLines(name)
//	})
//
// A synchronous s completes before an asynchronous inner stream emits, so
// nothing is delivered:
//
//	// emits nothing: FromSlice completes before the promise resolves
//	users := stream.FlatMap(stream.FromSlice(ids), func(id int) stream.Stream[User] {
//	    return stream.FromPromise(loadUser(id))
//	})
//
// FlatMapAll delivers those values.
func FlatMap[A, B any](s Stream[A], f func(A) Stream[B]) Stream[B] {
	if f == nil {
		panic("stream.FlatMap: nil function")
	}
	return New(func(next func(B), done func()) {
		var ser serializer
		s.Subscribe(
			func(a A) {
				f(a).Subscribe(func(b B) {
					ser.do(func() { next(b) })
				}, nil)
			},
			func() {
				ser.do(done)
			},
		)
	})
}

// FlatMapAll is like [FlatMap], but the flattened stream completes only
// once s and every inner stream have completed.
//
// An inner stream that never completes keeps the flattened stream open.
func FlatMapAll[A, B any](s Stream[A], f func(A) Stream[B]) Stream[B] {
	if f == nil {
		panic("stream.FlatMapAll: nil function")
	}
	return New(func(next func(B), done func()) {
		var ser serializer
		// pending counts the outer stream plus every unfinished inner stream.
		pending := 1
		finish := func() {
			pending--
			if pending == 0 {
				done()
			}
		}
		s.Subscribe(
			func(a A) {
				ser.do(func() { pending++ })
				f(a).Subscribe(
					func(b B) {
						ser.do(func() { next(b) })
					},
					func() {
						ser.do(finish)
					},
				)
			},
			func() {
				ser.do(finish)
			},
		)
	})
}

// Merge creates a stream that emits the values of s and all others as they
// arrive.
//
// s is subscribed to first, then each of others in order. Values are
// forwarded immediately; ordering across sources is whatever order they
// arrive in. The merged stream completes once every source has completed.
func (s Stream[T]) Merge(others ...Stream[T]) Stream[T] {
	return New(func(next func(T), done func()) {
		st := &mergeState{sources: len(others)}
		onNext := func(v T) {
			st.ser.do(func() { next(v) })
		}
		onDone := func() {
			st.ser.do(func() {
				if st.complete() {
					done()
				}
			})
		}
		s.Subscribe(onNext, onDone)
		for _, o := range others {
			o.Subscribe(onNext, onDone)
		}
	})
}

// mergeState counts completed sources for a single Merge subscription.
type mergeState struct {
	ser       serializer
	sources   int
	completed int
}

// complete records one completed source and reports whether every source,
// the receiver stream plus the others, has now completed.
func (m *mergeState) complete() bool {
	m.completed++
	return m.completed > m.sources
}

// Split creates n streams that share a single subscription to s.
//
// The upstream subscription starts when the first of the split streams is
// subscribed to, and is never repeated. Each value of s is broadcast to
// every observer registered by that time; observers that subscribe later
// miss earlier values. When s completes, every registered observer is
// notified.
//
// The returned streams are of kind [Shared]. Split panics if n is negative.
func (s Stream[T]) Split(n int) []Stream[T] {
	if n < 0 {
		panic("stream.Split: n must not be negative")
	}
	st := &splitState[T]{upstream: s}
	streams := make([]Stream[T], n)
	for i := range streams {
		streams[i] = Stream[T]{
			subscribe: st.subscribe,
			kind:      Shared,
		}
	}
	return streams
}

type observer[T any] struct {
	next func(T)
	done func()
}

// splitState is the shared subscription behind the streams of one Split.
type splitState[T any] struct {
	upstream  Stream[T]
	mu        sync.Mutex
	started   bool
	observers []observer[T]
}

func (st *splitState[T]) subscribe(next func(T), done func()) {
	st.mu.Lock()
	st.observers = append(st.observers, observer[T]{next: next, done: done})
	start := !st.started
	st.started = true
	st.mu.Unlock()

	if start {
		st.upstream.Subscribe(st.broadcast, st.complete)
	}
}

func (st *splitState[T]) snapshot() []observer[T] {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.observers[:len(st.observers):len(st.observers)]
}

func (st *splitState[T]) broadcast(v T) {
	for _, o := range st.snapshot() {
		o.next(v)
	}
}

func (st *splitState[T]) complete() {
	for _, o := range st.snapshot() {
		o.done()
	}
}

// Zip creates a stream that combines s and others positionally, emitting
// one tuple per round.
//
// Source i always fills slot i of the tuple. Every value from any source
// updates its slot and counts towards the current round; once 1+len(others)
// values have arrived, the tuple is emitted and a new round starts. Zip
// assumes each source emits at most once per round: a source that emits
// twice before the others overwrites its own slot and closes the round
// early. Use [ZipStrict] when sources may run at different rates.
//
// The zipped stream completes as soon as the first source completes.
//
// Example:
//
//	// emits [x y] once both a and b have emitted
//	pairs := stream.Zip(a, b)
func Zip[T any](s Stream[T], others ...Stream[T]) Stream[[]T] {
	return New(func(next func([]T), done func()) {
		st := &zipState[T]{slots: make([]T, len(others)+1)}
		for i, src := range append([]Stream[T]{s}, others...) {
			src.Subscribe(
				func(v T) {
					st.ser.do(func() {
						if tuple, ok := st.put(i, v); ok {
							next(tuple)
						}
					})
				},
				func() {
					st.ser.do(func() {
						if st.finish() {
							done()
						}
					})
				},
			)
		}
	})
}

// zipState holds the positional buffer and round counter of one Zip
// subscription.
type zipState[T any] struct {
	ser   serializer
	slots []T
	count int
	done  bool
}

// put stores v in slot i and returns a copy of the tuple when the round is
// complete.
func (z *zipState[T]) put(i int, v T) ([]T, bool) {
	z.slots[i] = v
	z.count++
	if z.count < len(z.slots) {
		return nil, false
	}
	z.count = 0
	return append([]T(nil), z.slots...), true
}

// finish reports whether this is the first completion.
func (z *zipState[T]) finish() bool {
	if z.done {
		return false
	}
	z.done = true
	return true
}

// ZipStrict is like [Zip], but buffers the values of every source
// separately, so a tuple always holds the n-th value of each source.
//
// The zipped stream completes once a source has completed and all of its
// buffered values have been used, since no further tuple can be formed.
//
// Example:
//
//	// [1 10], [2 20]
//	pairs := stream.ZipStrict(stream.FromSlice([]int{1, 2}), stream.FromSlice([]int{10, 20}))
func ZipStrict[T any](s Stream[T], others ...Stream[T]) Stream[[]T] {
	return New(func(next func([]T), done func()) {
		n := len(others) + 1
		st := &strictZipState[T]{
			queues:   make([][]T, n),
			finished: make([]bool, n),
		}
		for i, src := range append([]Stream[T]{s}, others...) {
			src.Subscribe(
				func(v T) {
					st.ser.do(func() {
						if st.done {
							return
						}
						st.queues[i] = append(st.queues[i], v)
						for {
							tuple, ok := st.pop()
							if !ok {
								break
							}
							next(tuple)
						}
						if st.exhausted() {
							st.done = true
							done()
						}
					})
				},
				func() {
					st.ser.do(func() {
						if st.done {
							return
						}
						st.finished[i] = true
						if st.exhausted() {
							st.done = true
							done()
						}
					})
				},
			)
		}
	})
}

// strictZipState holds one FIFO buffer per source.
type strictZipState[T any] struct {
	ser      serializer
	queues   [][]T
	finished []bool
	done     bool
}

// pop removes the head of every buffer when all of them are non-empty.
func (z *strictZipState[T]) pop() ([]T, bool) {
	for _, q := range z.queues {
		if len(q) == 0 {
			return nil, false
		}
	}
	tuple := make([]T, len(z.queues))
	for i, q := range z.queues {
		tuple[i] = q[0]
		var zero T
		q[0] = zero
		z.queues[i] = q[1:]
	}
	return tuple, true
}

// exhausted reports whether a completed source has nothing left to pair.
func (z *strictZipState[T]) exhausted() bool {
	for i, q := range z.queues {
		if z.finished[i] && len(q) == 0 {
			return true
		}
	}
	return false
}
