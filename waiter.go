package casus

import (
	"context"
	"sync"
)

// Waiter is a one-shot cell that delivers a single value to a suspended task.
//
// A Waiter is a handle: copies share the same underlying state, so the task polling it and the
// goroutine that eventually calls [Waiter.Wake] can each hold their own copy. Waiters must be
// created with [NewWaiter]; the zero value is not usable.
//
// A Waiter starts out pending and becomes woken, irreversibly, on the first call to Wake. It
// cannot be reset.
type Waiter[T any] struct {
	s *waiterState[T]
}

// waiterState is guarded as a whole by mu, so Wake and Poll never observe a completed flag
// without its value.
type waiterState[T any] struct {
	mu sync.Mutex

	completed bool
	waker     Waker
	value     T
	present   bool // true iff value has been set and not yet consumed by Poll
}

// NewWaiter creates a new pending Waiter
func NewWaiter[T any]() Waiter[T] {
	return Waiter[T]{s: &waiterState[T]{}}
}

func (w Waiter[T]) state() *waiterState[T] {
	if w.s == nil {
		panic("casus: use of Waiter not created with NewWaiter")
	}
	return w.s
}

// Wake completes the Waiter with v and, if a task is suspended on it, wakes that task.
//
// Calling Wake more than once is permitted: later calls overwrite the stored value but never wake
// anything, because the stored Waker is only taken once. Waking a Waiter that nobody is polling
// anymore is a no-op.
func (w Waiter[T]) Wake(v T) {
	s := w.state()

	s.mu.Lock()
	s.completed = true
	s.value = v
	s.present = true
	waker := s.waker
	s.waker = nil
	s.mu.Unlock()

	// Called without the lock held; the waker may re-poll synchronously.
	if waker != nil {
		waker.Wake()
	}
}

// Poll implements [Future]. Once the Waiter has been woken, Poll returns the value passed to
// [Waiter.Wake] and consumes it. Until then, Poll stores waker (replacing any earlier one) and
// returns false.
//
// Poll panics if the value was already consumed by an earlier Poll.
func (w Waiter[T]) Poll(waker Waker) (T, bool) {
	s := w.state()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.completed {
		s.waker = waker
		var zero T
		return zero, false
	}

	if !s.present {
		panic("casus: Waiter polled after its value was consumed")
	}

	v := s.value
	var zero T
	s.value = zero
	s.present = false
	return v, true
}

// Woken returns whether [Waiter.Wake] has been called
func (w Waiter[T]) Woken() bool {
	s := w.state()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

// Await blocks the calling goroutine until the Waiter is woken, returning the delivered value, or
// until ctx is canceled, returning ctx.Err().
//
// If the context is already canceled when Await is called, it always returns the context's error,
// even if the Waiter was already woken. A canceled Await does not consume the value; the Waiter
// may still be woken and polled afterwards.
func (w Waiter[T]) Await(ctx context.Context) (T, error) {
	return block[T](ctx, w)
}
