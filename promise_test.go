// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"context"
	"testing"
	"time"
)

func TestPromise(t *testing.T) {
	t.Parallel()

	t.Run("ResolveOnce", func(t *testing.T) {
		t.Parallel()
		p := NewPromise[int]()
		var got []int
		p.Then(func(n int) { got = append(got, n) })

		if err := p.Resolve(1); err != nil {
			t.Fatal(err)
		}
		if err := matches(ErrPromiseSettled)(p.Resolve(2)); err != nil {
			t.Error(err)
		}
		if err := matches(ErrPromiseSettled)(p.Reject(error1)); err != nil {
			t.Error(err)
		}
		p.Then(func(n int) { got = append(got, n*10) })

		if len(got) != 2 || got[0] != 1 || got[1] != 10 {
			t.Errorf("got %v, want [1 10]", got)
		}
	})

	t.Run("Reject", func(t *testing.T) {
		t.Parallel()
		p := NewPromise[int]()
		var caught []error
		p.Catch(func(err error) { caught = append(caught, err) })
		p.Then(func(int) { t.Error("Then should not run for a rejected promise") })

		_ = p.Reject(error1)
		p.Catch(func(err error) { caught = append(caught, err) })

		if len(caught) != 2 {
			t.Fatalf("got %d errors, want 2", len(caught))
		}
		for _, err := range caught {
			if verr := matches(error1)(err); verr != nil {
				t.Error(verr)
			}
		}
		_, err := p.Wait(t.Context())
		if verr := matches(error1)(err); verr != nil {
			t.Error(verr)
		}
	})

	t.Run("RejectNil", func(t *testing.T) {
		t.Parallel()
		p := NewPromise[int]()
		calls := 0
		p.Then(func(int) { calls++ })
		_ = p.Reject(nil)
		p.Then(func(int) { calls++ })
		if calls != 0 {
			t.Errorf("Then called %d times, want 0", calls)
		}

		var caught error
		p.Catch(func(err error) { caught = err })
		if err := matches(ErrPromiseRejected)(caught); err != nil {
			t.Error(err)
		}
		_, err := p.Wait(t.Context())
		if verr := matches(ErrPromiseRejected)(err); verr != nil {
			t.Error(verr)
		}

		var r recorder[int]
		r.subscribe(FromPromise[int](p))
		r.expect(t, nil, 0)
	})

	t.Run("Go", func(t *testing.T) {
		t.Parallel()
		v, err := Go(func() (string, error) { return "done", nil }).Wait(t.Context())
		if err != nil || v != "done" {
			t.Errorf("got (%q, %v), want (done, nil)", v, err)
		}
		_, err = Go(func() (string, error) { return "", error2 }).Wait(t.Context())
		if verr := matches(error2)(err); verr != nil {
			t.Error(verr)
		}
	})

	t.Run("WaitCanceled", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
		defer cancel()
		_, err := NewPromise[int]().Wait(ctx)
		if verr := matches(context.DeadlineExceeded)(err); verr != nil {
			t.Error(verr)
		}
	})

	t.Run("AsStream", func(t *testing.T) {
		t.Parallel()
		p := Go(func() (int, error) { return 7, nil })
		sub := FromPromise[int](p).Subscribe(nil, nil)
		ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
		defer cancel()

		values := make(chan int, 1)
		SubscribeContext(ctx, FromPromise[int](p), func(n int) { values <- n }, nil)
		select {
		case n := <-values:
			if n != 7 {
				t.Errorf("got %d, want 7", n)
			}
		case <-ctx.Done():
			t.Fatal("promise value was not delivered")
		}
		if sub.Completed() {
			t.Error("promise streams never complete")
		}
	})
}
