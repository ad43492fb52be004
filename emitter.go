// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"slices"
	"sync"
)

var _ Registrar[string] = (*Emitter[string])(nil)

// Emitter is an in-process event emitter that implements [Registrar].
//
// Handlers are called synchronously by Emit, in registration order. It is
// safe for concurrent use.
type Emitter[T any] struct {
	mu          sync.RWMutex
	handlers    map[string]map[uint64]func(T)
	order       map[string][]uint64
	nextHandler uint64
}

// NewEmitter creates an empty Emitter.
func NewEmitter[T any]() *Emitter[T] {
	return &Emitter[T]{
		handlers: map[string]map[uint64]func(T){},
		order:    map[string][]uint64{},
	}
}

// On registers handler for events of eventType.
func (e *Emitter[T]) On(eventType string, handler func(T)) {
	e.Listen(eventType, handler)
}

// Listen registers handler for events of eventType and returns a function
// that removes it.
func (e *Emitter[T]) Listen(eventType string, handler func(T)) (stop func()) {
	e.mu.Lock()
	key := e.nextHandler
	e.nextHandler++
	if e.handlers[eventType] == nil {
		e.handlers[eventType] = map[uint64]func(T){}
	}
	e.handlers[eventType][key] = handler
	e.order[eventType] = append(e.order[eventType], key)
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if _, ok := e.handlers[eventType][key]; !ok {
			return
		}
		delete(e.handlers[eventType], key)
		e.order[eventType] = slices.DeleteFunc(e.order[eventType], func(k uint64) bool { return k == key })
		if len(e.order[eventType]) == 0 {
			delete(e.order, eventType)
			delete(e.handlers, eventType)
		}
	}
}

// Emit calls every handler registered for eventType with v.
//
// Handlers registered or removed while Emit runs take effect from the next
// call.
func (e *Emitter[T]) Emit(eventType string, v T) {
	e.mu.RLock()
	handlers := make([]func(T), 0, len(e.handlers[eventType]))
	for _, key := range e.order[eventType] {
		if h, ok := e.handlers[eventType][key]; ok {
			handlers = append(handlers, h)
		}
	}
	e.mu.RUnlock()

	for _, h := range handlers {
		h(v)
	}
}

// Len returns the number of handlers registered for eventType.
func (e *Emitter[T]) Len(eventType string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.handlers[eventType])
}
