package casus

import (
	"context"
	"sync"

	"golang.org/x/exp/slices"
)

// Event is a level-triggered signal that can be set, cleared, and set again.
//
// While an Event is set, waiting on it completes immediately. While it is clear, waiting suspends
// until the next call to [Event.Set], which wakes every task waiting at that point.
//
// The zero value is an unset Event, ready to use. An Event must not be copied after first use.
//
// Each suspended wait registers a [Waiter] with the Event, and the Event keeps it after it has
// been woken: the registry only grows across Set/Clear cycles. Woken Waiters are inert, but still
// visited by every later Set. Use [Event.Compact] to drop them.
type Event struct {
	// Lock order: waitersMu, then mu.
	mu       sync.RWMutex
	signaled bool

	waitersMu sync.Mutex
	waiters   []Waiter[struct{}]
}

// NewEvent creates a new unset Event
func NewEvent() *Event {
	return &Event{}
}

// Set marks the Event as set and wakes every task currently waiting on it, in the order they
// started waiting.
//
// Tasks that start waiting after Set has updated the flag observe it immediately and never
// suspend; they are not left pending even if they register concurrently with this call.
func (e *Event) Set() {
	e.mu.Lock()
	e.signaled = true
	e.mu.Unlock()

	e.waitersMu.Lock()
	waiters := slices.Clone(e.waiters)
	e.waitersMu.Unlock()

	// Wake without holding waitersMu; wakers are allowed to call back into the Event.
	wakeAll(waiters)
}

// wakeAll wakes every Waiter in ws. If a waker panics, the remaining Waiters are still woken
// before the panic continues up to the caller.
func wakeAll(ws []Waiter[struct{}]) {
	i := 0
	defer func() {
		if i < len(ws) {
			wakeAll(ws[i+1:])
		}
	}()

	for ; i < len(ws); i += 1 {
		ws[i].Wake(struct{}{})
	}
}

// Clear marks the Event as unset. Tasks already woken are unaffected; later waits suspend until
// the next call to [Event.Set].
func (e *Event) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.signaled = false
}

// IsSet returns whether the Event is currently set
func (e *Event) IsSet() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.signaled
}

// Wait returns a [Future] that is ready once the Event has been set. It always yields true.
//
// Nothing happens until the returned EventWait is first polled: if the Event is set at that
// point, it is ready immediately and nothing is registered.
func (e *Event) Wait() *EventWait {
	return &EventWait{e: e}
}

// TryWait blocks until the Event is set, returning true, or until ctx is canceled, returning false
// and ctx.Err().
//
// If the context is already canceled when TryWait is called, this method will always return the
// context's error.
func (e *Event) TryWait(ctx context.Context) (bool, error) {
	return block[bool](ctx, e.Wait())
}

// Registered returns the number of Waiters held by the Event, including ones that have already
// been woken.
func (e *Event) Registered() int {
	e.waitersMu.Lock()
	defer e.waitersMu.Unlock()
	return len(e.waiters)
}

// Compact removes Waiters that have already been woken from the Event's registry, returning the
// number removed. Waiters still pending are kept, in order, and are woken by the next Set.
//
// Compact is never called implicitly.
func (e *Event) Compact() int {
	e.waitersMu.Lock()
	defer e.waitersMu.Unlock()

	kept := make([]Waiter[struct{}], 0, len(e.waiters))
	for _, w := range e.waiters {
		if !w.Woken() {
			kept = append(kept, w)
		}
	}

	removed := len(e.waiters) - len(kept)
	e.waiters = kept
	return removed
}

// register adds a fresh Waiter to the registry, unless the Event has been set in the meantime.
//
// The flag is checked again under waitersMu: a Set that updated it after our unlocked check would
// otherwise snapshot the registry before we append, leaving us pending until some later Set.
func (e *Event) register() (Waiter[struct{}], bool) {
	e.waitersMu.Lock()
	defer e.waitersMu.Unlock()

	if e.IsSet() {
		return Waiter[struct{}]{}, false
	}

	w := NewWaiter[struct{}]()
	e.waiters = append(e.waiters, w)
	return w, true
}

// EventWait is the [Future] returned by [Event.Wait]
type EventWait struct {
	e          *Event
	w          Waiter[struct{}]
	registered bool
	done       bool
}

// Poll implements [Future]. It returns true once the Event has fired for this wait; the boolean
// result is always true when ready.
//
// Poll panics if called again after returning ready.
func (ew *EventWait) Poll(waker Waker) (bool, bool) {
	if ew.done {
		panic("casus: EventWait polled after completion")
	}

	if !ew.registered {
		if ew.e.IsSet() {
			ew.done = true
			return true, true
		}

		w, ok := ew.e.register()
		if !ok {
			ew.done = true
			return true, true
		}
		ew.w = w
		ew.registered = true
	}

	if _, ok := ew.w.Poll(waker); !ok {
		return false, false
	}

	ew.done = true
	return true, true
}
