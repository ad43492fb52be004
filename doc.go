// SPDX-License-Identifier: Apache-2.0

// Package stream provides push-based observable streams: lazily constructed
// producers of values, composable with type-safe transformation and
// combination operators.
//
// # The Problem
//
// Events, callbacks, channels and deferred results all deliver values over
// time, but each has its own API. Code that needs to transform, combine or
// fan out such values ends up with bespoke goroutines, counters and
// callback lists, and the bookkeeping of "how many sources are left" and
// "has this one finished" gets mixed into the business logic.
//
// Stream gives all of these sources one shape, and moves that bookkeeping
// into small, well-defined operators.
//
// # Core Concepts
//
// A [Stream] is defined by its subscribe behavior, a [Producer]:
//
//	type Producer[T any] = func(next func(T), done func())
//
// An observer subscribes with two callbacks: next is called once per value,
// in emission order, and done is called at most once, after which no more
// values arrive. Nothing happens until someone subscribes, and every
// subscription to a [Cold] stream re-runs the whole producer chain from its
// source. The streams returned by [Stream.Split] are the exception: they
// are [Shared], and all of them observe one upstream subscription.
//
// Sources:
//
//   - [FromSlice], [Of], [Just], [FromSeq] emit known values and complete
//
//   - [FromCallback], [FromEvent], [FromPromise] adapt callback-style,
//     event-emitting and deferred values; they never complete
//
//   - [FromChan] and [FromDecoder] pump channels and decoders
//
// Transformations: [Map], [Stream.Filter], [Fold], [Scan], [Stream.Tap].
//
// Combinations: [FlatMap], [FlatMapAll], [Stream.Merge], [Stream.Split],
// [Zip], [ZipStrict].
//
// Because Go methods cannot have type parameters, type-changing operators
// are package-level functions. [Operator] values and [Chain] make them
// composable:
//
//	normalize := stream.Chain3(
//	    stream.Filtering(isValid),
//	    stream.Mapping(parse),
//	    stream.Scanning(Totals{}, accumulate),
//	)
//	totals := stream.Pipe(readings, normalize)
//
// # Example
//
//	words := stream.FromSlice([]string{"go", "stream", "", "merge"})
//	lengths := stream.Map(words.Filter(func(w string) bool { return w != "" }),
//	    func(w string) int { return len(w) })
//	total := stream.Fold(lengths, 0, func(acc, n int) int { return acc + n })
//
//	total.Subscribe(func(n int) {
//	    fmt.Println(n) // 13
//	}, nil)
//
// # Subscriptions
//
// [Stream.Subscribe] returns a [Subscription]. It guarantees the observer
// contract even for misbehaving producers, and offers Detach to stop
// listening. There is no way to stop an upstream producer: detaching only
// stops delivery. [SubscribeContext] detaches when a context ends, and
// [Collect], [ForEach] and [CollectAll] block until streams complete.
//
// # Errors
//
// Streams have no error channel. Failures are modeled as values with
// [Item]; see [Catch], [Values], [Errors] and [Retry]. A panic inside a
// producer or observer propagates to whoever called it.
//
// # Concurrency
//
// Operators never block and never start goroutines, except where noted
// ([FromChan], [Retry]). Producers may call their callbacks from any
// goroutine. [Stream.Merge], [Zip] and [FlatMap] serialize delivery,
// so their observers are never called concurrently.
//
// # Observability
//
// [Named] labels streams; [WithLogging], [WithSlogging] and [Traced] log
// and record subscriptions.
package stream
