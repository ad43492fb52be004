// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"
)

// ==== Test Helpers: Recorder ====

// recorder is an observer that records every value and completion.
type recorder[T any] struct {
	mu     sync.Mutex
	values []T
	dones  int
	// valuesAfterDone counts values delivered after done.
	valuesAfterDone int
}

func (r *recorder[T]) next(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dones > 0 {
		r.valuesAfterDone++
	}
	r.values = append(r.values, v)
}

func (r *recorder[T]) done() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dones++
}

// subscribe subscribes the recorder to s.
func (r *recorder[T]) subscribe(s Stream[T]) *Subscription {
	return s.Subscribe(r.next, r.done)
}

func (r *recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.values)
}

func (r *recorder[T]) Dones() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dones
}

// expect checks the recorded values and completions.
func (r *recorder[T]) expect(t *testing.T, values []T, dones int) {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if fmt.Sprint(r.values) != fmt.Sprint(values) || len(r.values) != len(values) {
		t.Errorf("got values %v, want %v", r.values, values)
	}
	if r.dones != dones {
		t.Errorf("got %d completions, want %d", r.dones, dones)
	}
	if r.valuesAfterDone != 0 {
		t.Errorf("got %d values after completion", r.valuesAfterDone)
	}
}

// ==== Test Helpers: Manual Source ====

// manual is a source driven by the test: every subscription registers its
// observer, and emit/complete call every registered observer.
type manual[T any] struct {
	mu            sync.Mutex
	subscriptions int
	nexts         []func(T)
	dones         []func()
}

func (m *manual[T]) stream() Stream[T] {
	return New(func(next func(T), done func()) {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.subscriptions++
		m.nexts = append(m.nexts, next)
		m.dones = append(m.dones, done)
	})
}

func (m *manual[T]) emit(values ...T) {
	m.mu.Lock()
	nexts := slices.Clone(m.nexts)
	m.mu.Unlock()
	for _, v := range values {
		for _, next := range nexts {
			next(v)
		}
	}
}

func (m *manual[T]) complete() {
	m.mu.Lock()
	dones := slices.Clone(m.dones)
	m.mu.Unlock()
	for _, done := range dones {
		done()
	}
}

func (m *manual[T]) Subscriptions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subscriptions
}

// ==== Test Helpers: Sources ====

// counting wraps FromSlice and counts subscriptions.
func counting[T any](values []T, subscriptions *int) Stream[T] {
	return New(func(next func(T), done func()) {
		*subscriptions++
		FromSlice(values).Subscribe(next, done)
	})
}

// waitDone waits for a subscription to end.
func waitDone(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case <-sub.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for subscription to complete")
	}
}

// ==== Test Helpers: Error Variables ====

var error1 = errors.New("error 1")
var error2 = errors.New("error 2")

// ==== Test Helpers: Error Validators ====

// isNil validates that the error is nil.
func isNil(testErr error) error {
	if testErr != nil {
		return fmt.Errorf("unexpected error: %w", testErr)
	}
	return nil
}

// all returns a validator that passes only if all the given validators pass.
func all(validators ...func(error) error) func(error) error {
	return func(testErr error) error {
		for _, validator := range validators {
			if err := validator(testErr); err != nil {
				return err
			}
		}
		return nil
	}
}

// oneOf returns a validator that passes only if exactly one of the given validators passes.
func oneOf(validators ...func(error) error) func(error) error {
	return func(testErr error) error {
		count := 0
		for _, validator := range validators {
			if err := validator(testErr); err == nil {
				count++
			}
		}
		if count != 1 {
			return fmt.Errorf("expected 1 validator, got %d", count)
		}
		return nil
	}
}

// matches returns a validator that checks if the error matches the target error using errors.Is.
func matches(targetErr error) func(error) error {
	return func(testError error) error {
		if !errors.Is(testError, targetErr) {
			return fmt.Errorf("expected error %v to match error %v", testError, targetErr)
		}
		return nil
	}
}

// isIndexed validates that the error is an IndexedError for the given index.
func isIndexed(index int) func(error) error {
	return func(testErr error) error {
		var ie *IndexedError
		if !errors.As(testErr, &ie) {
			return fmt.Errorf("expected IndexedError, got %v", testErr)
		}
		if ie.Index != index {
			return fmt.Errorf("expected index %d, got %d", index, ie.Index)
		}
		return nil
	}
}

// isRecoveredPanic validates that the error is a RecoveredPanic.
func isRecoveredPanic(testErr error) error {
	var recoveredPanic *RecoveredPanic
	if !errors.As(testErr, &recoveredPanic) {
		return fmt.Errorf("expected RecoveredPanic error, got %v", testErr)
	}
	return nil
}

// contains returns a validator that checks if the error message contains the given substring.
func contains(substring string) func(error) error {
	return func(testErr error) error {
		if testErr == nil || !strings.Contains(testErr.Error(), substring) {
			return fmt.Errorf("expected error to contain %q, got %v", substring, testErr)
		}
		return nil
	}
}
