// SPDX-License-Identifier: Apache-2.0

package stream

// An Operator transforms one stream into another.
//
// Go methods cannot introduce type parameters, so type-changing operators
// such as [Map] are package-level functions. Operators turn them into values
// that can be stored, passed around and composed with [Chain].
type Operator[A, B any] = func(Stream[A]) Stream[B]

// Pipe applies op to s.
func Pipe[A, B any](s Stream[A], op Operator[A, B]) Stream[B] {
	return op(s)
}

// Mapping returns an [Operator] that applies [Map] with f.
func Mapping[A, B any](f func(A) B) Operator[A, B] {
	return func(s Stream[A]) Stream[B] {
		return Map(s, f)
	}
}

// Filtering returns an [Operator] that applies [Stream.Filter] with p.
func Filtering[T any](p Predicate[T]) Operator[T, T] {
	return func(s Stream[T]) Stream[T] {
		return s.Filter(p)
	}
}

// Folding returns an [Operator] that applies [Fold] with seed and f.
func Folding[T, A any](seed A, f func(A, T) A) Operator[T, A] {
	return func(s Stream[T]) Stream[A] {
		return Fold(s, seed, f)
	}
}

// Scanning returns an [Operator] that applies [Scan] with seed and f.
func Scanning[T, A any](seed A, f func(A, T) A) Operator[T, A] {
	return func(s Stream[T]) Stream[A] {
		return Scan(s, seed, f)
	}
}

// FlatMapping returns an [Operator] that applies [FlatMap] with f.
func FlatMapping[A, B any](f func(A) Stream[B]) Operator[A, B] {
	return func(s Stream[A]) Stream[B] {
		return FlatMap(s, f)
	}
}

// Chain composes two Operators into a single [Operator].
//
// Example:
//
//	evenSquares := stream.Chain(
//	    stream.Filtering(isEven),              // Operator[int, int]
//	    stream.Mapping(func(n int) int { return n * n }),
//	)                                          // Operator[int, int]
func Chain[A, B, C any](
	first Operator[A, B],
	second Operator[B, C],
) Operator[A, C] {
	return func(s Stream[A]) Stream[C] {
		return second(first(s))
	}
}

// Chain3 composes three Operators into a single [Operator].
func Chain3[A, B, C, D any](
	first Operator[A, B],
	second Operator[B, C],
	third Operator[C, D],
) Operator[A, D] {
	return func(s Stream[A]) Stream[D] {
		return third(second(first(s)))
	}
}

// Chain4 composes four Operators into a single [Operator].
//
// For longer pipelines, nest [Chain] calls:
//
//	Chain(
//	    Chain4(o1, o2, o3, o4),
//	    Chain4(o5, o6, o7, o8),
//	)
func Chain4[A, B, C, D, E any](
	first Operator[A, B],
	second Operator[B, C],
	third Operator[C, D],
	fourth Operator[D, E],
) Operator[A, E] {
	return func(s Stream[A]) Stream[E] {
		return fourth(third(second(first(s))))
	}
}
