// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"sync"
)

// serializer runs submitted functions one at a time, in submission order.
//
// A goroutine that submits work while no other delivery is running becomes
// the emitter and drains the queue; work submitted meanwhile, including work
// submitted re-entrantly by the emitter itself, is queued and run by that
// emitter. No lock is held while submitted functions run.
type serializer struct {
	mu       sync.Mutex
	emitting bool
	queue    []func()
}

func (s *serializer) do(f func()) {
	s.mu.Lock()
	s.queue = append(s.queue, f)
	if s.emitting {
		s.mu.Unlock()
		return
	}
	s.emitting = true

	defer func() {
		// A panicking function leaves the queue usable by the next caller.
		if r := recover(); r != nil {
			s.mu.Lock()
			s.emitting = false
			s.queue = nil
			s.mu.Unlock()
			panic(r)
		}
	}()

	for len(s.queue) > 0 {
		batch := s.queue
		s.queue = nil
		s.mu.Unlock()
		for _, g := range batch {
			g()
		}
		s.mu.Lock()
	}
	s.emitting = false
	s.mu.Unlock()
}
