// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Collect subscribes to s and returns all of its values once it completes.
//
// Collect blocks until s completes or ctx is done, in which case it returns
// ctx's error. A stream that never completes therefore needs a ctx with a
// deadline.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(ctx, time.Second)
//	defer cancel()
//	values, err := stream.Collect(ctx, stream.FromChan(results))
func Collect[T any](ctx context.Context, s Stream[T]) ([]T, error) {
	var (
		mu     sync.Mutex
		values []T
	)
	err := ForEach(ctx, s, func(v T) error {
		mu.Lock()
		values = append(values, v)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	mu.Lock()
	defer mu.Unlock()
	return values, nil
}

// ForEach subscribes to s, calls fn for each value, and blocks until s
// completes or ctx is done.
//
// If fn returns an error, the subscription is detached and that error is
// returned; fn is not called again.
func ForEach[T any](ctx context.Context, s Stream[T], fn func(T) error) error {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var failed atomic.Bool
	sub := SubscribeContext(ctx, s, func(v T) {
		if failed.Load() {
			return
		}
		if err := fn(v); err != nil {
			failed.Store(true)
			cancel(err)
		}
	}, nil)
	<-sub.Done()

	if !failed.Load() && sub.Completed() {
		return nil
	}
	return context.Cause(ctx)
}

// ParallelOptions specifies how streams are collected concurrently.
type ParallelOptions struct {
	// Limit controls how many goroutines may run.
	//
	// Numbers less than or equal to zero indicate no limit.
	Limit int

	// JoinErrors controls error handling.
	//
	// By default, when false, the first stream that fails cancels the rest,
	// and this first error is returned. (This is the behavior of the
	// `errgroup` package.)
	//
	// If enabled, all streams are collected regardless of errors, and a
	// combined `errors.Join` error of all failures is returned.
	JoinErrors bool
}

// CollectAll subscribes to every stream on its own goroutine and returns
// their values, in the order the streams were given.
//
// Each stream is collected with [Collect]; failures are wrapped in
// [IndexedError] identifying the stream.
//
// Example:
//
//	results, err := stream.CollectAll(ctx,
//	    stream.ParallelOptions{Limit: 4},
//	    fetch("a"), fetch("b"), fetch("c"),
//	)
func CollectAll[T any](
	ctx context.Context,
	opts ParallelOptions,
	streams ...Stream[T],
) ([][]T, error) {
	results := make([][]T, len(streams))

	group, subCtx := errgroup.WithContext(ctx)
	if opts.JoinErrors {
		group, subCtx = new(errgroup.Group), ctx
	}
	if opts.Limit > 0 {
		group.SetLimit(opts.Limit)
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	for i, s := range streams {
		group.Go(func() error {
			values, err := Collect(subCtx, s)
			if err != nil {
				err = &IndexedError{Index: i, Err: err}
				if opts.JoinErrors {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
					return nil
				}
				return err
			}
			results[i] = values
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := errors.Join(errs...); err != nil {
		return results, err
	}
	return results, nil
}
