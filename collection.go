// SPDX-License-Identifier: Apache-2.0

package stream

// Map creates a stream that applies f to each value of s.
//
// Completion is passed through unchanged.
//
// Example:
//
//	lengths := stream.Map(words, func(w string) int { return len(w) })
func Map[A, B any](s Stream[A], f func(A) B) Stream[B] {
	if f == nil {
		panic("stream.Map: nil function")
	}
	return New(func(next func(B), done func()) {
		s.Subscribe(func(a A) {
			next(f(a))
		}, done)
	})
}

// Filter creates a stream that emits only the values for which p returns
// true, preserving their order.
//
// Completion is passed through unchanged.
func (s Stream[T]) Filter(p Predicate[T]) Stream[T] {
	if p == nil {
		panic("stream.Filter: nil predicate")
	}
	return New(func(next func(T), done func()) {
		s.Subscribe(func(v T) {
			if p(v) {
				next(v)
			}
		}, done)
	})
}

// Tap creates a stream that calls f for each value of s before passing the
// value on unchanged.
func (s Stream[T]) Tap(f func(T)) Stream[T] {
	if f == nil {
		panic("stream.Tap: nil function")
	}
	return New(func(next func(T), done func()) {
		s.Subscribe(func(v T) {
			f(v)
			next(v)
		}, done)
	})
}

// Fold creates a stream that reduces s with the starting value seed and the
// binary function f.
//
// Nothing is emitted until s completes; then the final accumulator is
// emitted once, followed by completion. If s never completes, neither does
// the folded stream. Each subscription starts again from seed.
//
// Example:
//
//	sum := stream.Fold(numbers, 0, func(acc, n int) int { return acc + n })
func Fold[T, A any](s Stream[T], seed A, f func(A, T) A) Stream[A] {
	if f == nil {
		panic("stream.Fold: nil function")
	}
	return New(func(next func(A), done func()) {
		acc := seed
		s.Subscribe(
			func(v T) {
				acc = f(acc, v)
			},
			func() {
				next(acc)
				done()
			},
		)
	})
}

// Scan creates a stream that emits seed as soon as it is subscribed to,
// followed by every intermediate result of applying f to the accumulator
// and each value of s.
//
// The scanned stream emits one more value than s. Completion is passed
// through unchanged. Each subscription starts again from seed.
//
// Example:
//
//	// 0, 1, 3, 6
//	totals := stream.Scan(stream.FromSlice([]int{1, 2, 3}), 0,
//	    func(acc, n int) int { return acc + n })
func Scan[T, A any](s Stream[T], seed A, f func(A, T) A) Stream[A] {
	if f == nil {
		panic("stream.Scan: nil function")
	}
	return New(func(next func(A), done func()) {
		acc := seed
		next(acc)
		s.Subscribe(func(v T) {
			acc = f(acc, v)
			next(acc)
		}, done)
	})
}
