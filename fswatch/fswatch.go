// SPDX-License-Identifier: Apache-2.0

// Package fswatch turns file-system notifications into streams.
//
// Events and watcher errors travel together as [stream.Item] values, so a
// failing watcher does not end the stream by itself.
package fswatch

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/sam-fredrickson/stream"
)

// Event is a single file-system notification, or a watcher error.
type Event = stream.Item[fsnotify.Event]

// FromWatcher creates a stream of the events and errors reported by w.
//
// The stream completes once w is closed. Every subscription starts its own
// goroutine receiving from w's channels, so concurrent subscriptions
// compete for events; use [stream.Stream.Split] to share them.
func FromWatcher(w *fsnotify.Watcher) stream.Stream[Event] {
	return stream.New(func(next func(Event), done func()) {
		go pump(w, next, done)
	})
}

// pump forwards w's events and errors until both channels are closed.
func pump(w *fsnotify.Watcher, next func(Event), done func()) {
	events, errs := w.Events, w.Errors
	for events != nil || errs != nil {
		select {
		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			next(stream.Ok(event))
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			next(stream.Failed[fsnotify.Event](err))
		}
	}
	done()
}

// Watch creates a stream of the events for the given paths.
//
// Each subscription creates a new watcher, which is closed when ctx is
// done; the stream then completes. If the watcher cannot be created or a
// path cannot be watched, a failed item is emitted and the stream
// completes.
//
// Example:
//
//	writes := stream.Values(fswatch.Watch(ctx, "/etc/app")).
//	    Filter(fswatch.Ops(fsnotify.Write | fsnotify.Create))
func Watch(ctx context.Context, paths ...string) stream.Stream[Event] {
	return stream.New(func(next func(Event), done func()) {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			next(stream.Failed[fsnotify.Event](fmt.Errorf("failed to create watcher: %w", err)))
			done()
			return
		}
		for _, path := range paths {
			if err := w.Add(path); err != nil {
				_ = w.Close()
				next(stream.Failed[fsnotify.Event](fmt.Errorf("failed to watch %s: %w", path, err)))
				done()
				return
			}
		}
		stop := context.AfterFunc(ctx, func() {
			_ = w.Close()
		})
		FromWatcher(w).Subscribe(next, func() {
			stop()
			done()
		})
	})
}

// Ops returns a predicate matching events with any of the bits of op.
func Ops(op fsnotify.Op) stream.Predicate[fsnotify.Event] {
	return func(event fsnotify.Event) bool {
		return event.Op&op != 0
	}
}

// Named returns a predicate matching events for the given file name.
func Named(name string) stream.Predicate[fsnotify.Event] {
	return func(event fsnotify.Event) bool {
		return event.Name == name
	}
}
