// SPDX-License-Identifier: Apache-2.0

package stream

// A Predicate reports whether a value should be kept.
type Predicate[T any] = func(T) bool

// Not negates a predicate.
//
// Example:
//
//	odd := stream.FromSlice(numbers).Filter(stream.Not(isEven))
func Not[T any](predicate Predicate[T]) Predicate[T] {
	return func(v T) bool {
		return !predicate(v)
	}
}

// And combines multiple predicates with logical AND.
//
// Evaluation short-circuits on the first false. And with no predicates
// accepts every value.
func And[T any](predicates ...Predicate[T]) Predicate[T] {
	return func(v T) bool {
		for _, p := range predicates {
			if !p(v) {
				return false
			}
		}
		return true
	}
}

// Or combines multiple predicates with logical OR.
//
// Evaluation short-circuits on the first true. Or with no predicates
// rejects every value.
func Or[T any](predicates ...Predicate[T]) Predicate[T] {
	return func(v T) bool {
		for _, p := range predicates {
			if p(v) {
				return true
			}
		}
		return false
	}
}
