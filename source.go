// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"reflect"
)

// FromSlice creates a stream that emits each element of values in order and
// then completes, all synchronously.
func FromSlice[T any](values []T) Stream[T] {
	return New(func(next func(T), done func()) {
		for _, v := range values {
			next(v)
		}
		done()
	})
}

// Of creates a stream that emits value, unless it is the zero value of T,
// and then completes.
//
// Dropping zero values is intentional: Of(0), Of("") and Of[*T](nil) are all
// empty streams. Use [Just] to always emit the value.
func Of[T any](value T) Stream[T] {
	return New(func(next func(T), done func()) {
		if !isZero(value) {
			next(value)
		}
		done()
	})
}

// Just creates a stream that emits value and then completes.
func Just[T any](value T) Stream[T] {
	return New(func(next func(T), done func()) {
		next(value)
		done()
	})
}

func isZero[T any](v T) bool {
	rv := reflect.ValueOf(&v).Elem()
	return rv.IsZero()
}

// FromCallback creates a stream from a callback-style producer.
//
// f is called once per subscription with the observer's next callback. The
// stream never completes, since a callback has no completion signal.
func FromCallback[T any](f func(next func(T))) Stream[T] {
	return New(func(next func(T), _ func()) {
		f(next)
	})
}

// A Registrar registers handlers for named events, in the style of an
// event emitter.
type Registrar[T any] interface {
	On(eventType string, handler func(T))
}

// CustomEvent is an event carrying its payload in Detail.
type CustomEvent[T any] struct {
	Type   string
	Detail T
}

// An EventTarget registers listeners that receive [CustomEvent] values.
type EventTarget[T any] interface {
	AddEventListener(eventType string, listener func(CustomEvent[T]))
}

// FromEvent creates a stream of the events of eventType raised by target.
//
// target must implement [Registrar] or [EventTarget]; for an EventTarget
// the stream carries each event's Detail. The stream never completes.
//
// FromEvent does not validate target up front: subscribing to a stream
// built from any other kind of target panics.
func FromEvent[T any](target any, eventType string) Stream[T] {
	return New(func(next func(T), _ func()) {
		switch t := target.(type) {
		case Registrar[T]:
			t.On(eventType, next)
		case EventTarget[T]:
			t.AddEventListener(eventType, func(e CustomEvent[T]) {
				next(e.Detail)
			})
		default:
			panic(fmt.Sprintf("stream.FromEvent: unsupported event target %T", target))
		}
	})
}

// A Deferred is a value that becomes available later.
//
// Then registers f to be called with the value once it has resolved.
type Deferred[T any] interface {
	Then(f func(T))
}

// FromPromise creates a stream that emits the resolved value of d.
//
// The stream never completes; a rejected promise emits nothing.
func FromPromise[T any](d Deferred[T]) Stream[T] {
	return New(func(next func(T), _ func()) {
		d.Then(next)
	})
}

// FromChan creates a stream that emits values received from ch and
// completes when ch is closed.
//
// Each subscription starts its own goroutine receiving from ch, so
// concurrent subscriptions compete for the channel's values.
func FromChan[T any](ch <-chan T) Stream[T] {
	return New(func(next func(T), done func()) {
		go func() {
			for v := range ch {
				next(v)
			}
			done()
		}()
	})
}

// FromSeq creates a stream that emits the values of seq, synchronously,
// and then completes.
func FromSeq[T any](seq iter.Seq[T]) Stream[T] {
	return New(func(next func(T), done func()) {
		for v := range seq {
			next(v)
		}
		done()
	})
}

// A Decoder is able to hydrate an arbitrary variable, for example
// [encoding/json.Decoder].
type Decoder interface {
	Decode(v any) error
}

// FromDecoder creates a stream of the values decoded from d.
//
// The stream completes when d returns [io.EOF]. Any other decoding error is
// emitted as a failed [Item] before the stream completes.
func FromDecoder[T any](d Decoder) Stream[Item[T]] {
	return New(func(next func(Item[T]), done func()) {
		for {
			var v T
			err := d.Decode(&v)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				next(Failed[T](err))
				break
			}
			next(Ok(v))
		}
		done()
	})
}
