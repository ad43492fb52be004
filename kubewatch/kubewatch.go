// SPDX-License-Identifier: Apache-2.0

// Package kubewatch adapts Kubernetes watches to streams.
package kubewatch

import (
	"context"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/watch"

	"github.com/sam-fredrickson/stream"
)

// FromWatch creates a stream of the events delivered by w.
//
// The stream completes when w's result channel is closed. Each
// subscription receives from the same channel on its own goroutine, so a
// watch should be subscribed to once; use [Watch] for a replayable stream.
func FromWatch(w watch.Interface) stream.Stream[watch.Event] {
	return stream.New(func(next func(watch.Event), done func()) {
		go func() {
			for event := range w.ResultChan() {
				next(event)
			}
			done()
		}()
	})
}

// A Starter starts a new watch.
type Starter func(ctx context.Context) (watch.Interface, error)

// Watch creates a stream that starts a new watch for every subscription
// and stops it when ctx is done.
//
// A watch that fails to start is reported as a failed item, after which
// the stream completes. Events are wrapped with [stream.Ok].
func Watch(ctx context.Context, start Starter) stream.Stream[stream.Item[watch.Event]] {
	return stream.New(func(next func(stream.Item[watch.Event]), done func()) {
		w, err := start(ctx)
		if err != nil {
			next(stream.Failed[watch.Event](err))
			done()
			return
		}
		stop := context.AfterFunc(ctx, w.Stop)
		FromWatch(w).Subscribe(
			func(event watch.Event) {
				next(stream.Ok(event))
			},
			func() {
				stop()
				done()
			},
		)
	})
}

// OfType returns a predicate matching events of any of the given types.
func OfType(types ...watch.EventType) stream.Predicate[watch.Event] {
	return func(event watch.Event) bool {
		for _, t := range types {
			if event.Type == t {
				return true
			}
		}
		return false
	}
}

// Objects creates a stream of the objects carried by the events of s that
// are of type T. Other objects, such as the status of an error event, are
// dropped.
//
// Example:
//
//	pods := kubewatch.Objects[*corev1.Pod](
//	    kubewatch.FromWatch(w).Filter(kubewatch.OfType(watch.Added)),
//	)
func Objects[T runtime.Object](s stream.Stream[watch.Event]) stream.Stream[T] {
	return stream.New(func(next func(T), done func()) {
		s.Subscribe(func(event watch.Event) {
			if obj, ok := event.Object.(T); ok {
				next(obj)
			}
		}, done)
	})
}

// Errors creates a stream of the errors reported by the [watch.Error]
// events of s.
func Errors(s stream.Stream[watch.Event]) stream.Stream[error] {
	return stream.Map(
		s.Filter(OfType(watch.Error)),
		func(event watch.Event) error {
			return apierrors.FromObject(event.Object)
		},
	)
}
