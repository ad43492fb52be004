// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"fmt"
)

// Item is a value that may carry a failure.
//
// Streams have no error channel: a failure is modeled by emitting an Item
// whose Err is set, and interpreting it downstream.
type Item[T any] struct {
	Value T
	Err   error
}

// Ok wraps a successful value.
func Ok[T any](v T) Item[T] {
	return Item[T]{Value: v}
}

// Failed wraps an error.
func Failed[T any](err error) Item[T] {
	return Item[T]{Err: err}
}

// Failed reports whether the item carries an error.
func (i Item[T]) Failed() bool {
	return i.Err != nil
}

// Get returns the value and error.
func (i Item[T]) Get() (T, error) {
	return i.Value, i.Err
}

// RecoveredPanic is an error type that wraps a panic value.
type RecoveredPanic struct {
	Value any
}

func (p *RecoveredPanic) Error() string {
	return fmt.Sprintf("panic recovered: %v", p.Value)
}

// Unwrap returns the panic value if it is an error.
func (p *RecoveredPanic) Unwrap() error {
	err, _ := p.Value.(error)
	return err
}

// IndexedError wraps an error with the index of the stream it came from.
//
// Example:
//
//	_, err := stream.CollectAll(ctx, stream.ParallelOptions{}, a, b, c)
//	var ie *stream.IndexedError
//	if errors.As(err, &ie) {
//	    fmt.Printf("stream %d failed: %v\n", ie.Index, ie.Err)
//	}
type IndexedError struct {
	Index int
	Err   error
}

// Error implements the error interface.
func (e *IndexedError) Error() string {
	return fmt.Sprintf("stream %d: %v", e.Index, e.Err)
}

// Unwrap returns the underlying error for error inspection via errors.Is and errors.As.
func (e *IndexedError) Unwrap() error {
	return e.Err
}

// Catch converts a panic raised while subscribing to s into a failed [Item].
//
// Values of s are wrapped with [Ok]. If the producer chain of s panics
// during the subscription call, a failed Item holding a [*RecoveredPanic]
// is emitted and the stream completes. Panics raised by the downstream
// observer itself are not recovered. Catch only observes panics raised on
// the subscribing goroutine.
func Catch[T any](s Stream[T]) Stream[Item[T]] {
	return New(func(next func(Item[T]), done func()) {
		downstream := false
		defer func() {
			if downstream {
				return
			}
			if r := recover(); r != nil {
				next(Failed[T](&RecoveredPanic{Value: r}))
				done()
			}
		}()
		s.Subscribe(
			func(v T) {
				downstream = true
				next(Ok(v))
				downstream = false
			},
			func() {
				downstream = true
				done()
				downstream = false
			},
		)
	})
}

// Values keeps the successful values of an Item stream and drops failures.
func Values[T any](s Stream[Item[T]]) Stream[T] {
	return New(func(next func(T), done func()) {
		s.Subscribe(func(i Item[T]) {
			if !i.Failed() {
				next(i.Value)
			}
		}, done)
	})
}

// Errors keeps the failures of an Item stream.
func Errors[T any](s Stream[Item[T]]) Stream[error] {
	return New(func(next func(error), done func()) {
		s.Subscribe(func(i Item[T]) {
			if i.Failed() {
				next(i.Err)
			}
		}, done)
	})
}
