// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"context"
	"errors"
	"sync"
)

// ErrPromiseSettled is returned when resolving or rejecting a [Promise] that
// has already settled.
var ErrPromiseSettled = errors.New("promise already settled")

// ErrPromiseRejected is the error of a [Promise] rejected with a nil error.
var ErrPromiseRejected = errors.New("promise rejected")

var _ Deferred[int] = (*Promise[int])(nil)

// Promise is a value that is resolved or rejected exactly once.
//
// It implements [Deferred], so it can be turned into a stream with
// [FromPromise]. It is safe for concurrent use.
type Promise[T any] struct {
	mu        sync.Mutex
	settled   bool
	value     T
	err       error
	onResolve []func(T)
	onReject  []func(error)
	settledCh chan struct{}
}

// NewPromise creates a pending Promise.
func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{settledCh: make(chan struct{})}
}

// Go runs f in a new goroutine and returns a Promise of its result.
//
// Example:
//
//	user := stream.FromPromise(stream.Go(func() (User, error) {
//	    return loadUser(ctx, id)
//	}))
func Go[T any](f func() (T, error)) *Promise[T] {
	p := NewPromise[T]()
	go func() {
		v, err := f()
		if err != nil {
			_ = p.Reject(err)
			return
		}
		_ = p.Resolve(v)
	}()
	return p
}

// Resolve settles the promise with v and calls every function registered
// with Then.
func (p *Promise[T]) Resolve(v T) error {
	p.mu.Lock()
	if p.settled {
		p.mu.Unlock()
		return ErrPromiseSettled
	}
	p.settled = true
	p.value = v
	callbacks := p.onResolve
	p.onResolve, p.onReject = nil, nil
	close(p.settledCh)
	p.mu.Unlock()

	for _, f := range callbacks {
		f(v)
	}
	return nil
}

// Reject settles the promise with err and calls every function registered
// with Catch. A nil err is replaced with [ErrPromiseRejected].
func (p *Promise[T]) Reject(err error) error {
	if err == nil {
		err = ErrPromiseRejected
	}
	p.mu.Lock()
	if p.settled {
		p.mu.Unlock()
		return ErrPromiseSettled
	}
	p.settled = true
	p.err = err
	callbacks := p.onReject
	p.onResolve, p.onReject = nil, nil
	close(p.settledCh)
	p.mu.Unlock()

	for _, f := range callbacks {
		f(err)
	}
	return nil
}

// Then registers f to be called with the resolved value.
//
// If the promise has already resolved, f is called immediately. If it was
// rejected, f is never called.
func (p *Promise[T]) Then(f func(T)) {
	p.mu.Lock()
	if !p.settled {
		p.onResolve = append(p.onResolve, f)
		p.mu.Unlock()
		return
	}
	v, err := p.value, p.err
	p.mu.Unlock()
	if err == nil {
		f(v)
	}
}

// Catch registers f to be called with the rejection error.
func (p *Promise[T]) Catch(f func(error)) {
	p.mu.Lock()
	if !p.settled {
		p.onReject = append(p.onReject, f)
		p.mu.Unlock()
		return
	}
	err := p.err
	p.mu.Unlock()
	if err != nil {
		f(err)
	}
}

// Wait blocks until the promise settles or ctx is done.
func (p *Promise[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-p.settledCh:
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.value, p.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
