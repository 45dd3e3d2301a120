package casus

import (
	"context"
)

// Waker is the capability a suspended task hands to a [Future] when polling it. The Future calls
// Wake once it is ready to be polled again.
//
// Implementations must be safe to call from any goroutine. Wake may be called after the task has
// stopped caring about the result, in which case it should do nothing harmful.
type Waker interface {
	Wake()
}

// WakerFunc adapts an ordinary function into a [Waker]
type WakerFunc func()

func (f WakerFunc) Wake() { f() }

// Future is a value that may not be available yet.
//
// Poll returns the value and true if it is ready. Otherwise it returns false and arranges for w
// to be woken when the Future should be polled again. Only the most recently supplied Waker is
// guaranteed to be woken.
//
// Polling a Future again after it has returned true is a contract violation; implementations in
// this package panic.
type Future[T any] interface {
	Poll(w Waker) (T, bool)
}

// chanWaker is the Waker used when a plain goroutine is the task. Wakes are coalesced in the
// buffered channel so that Wake never blocks.
type chanWaker struct {
	ch chan struct{}
}

func newChanWaker() chanWaker {
	return chanWaker{ch: make(chan struct{}, 1)}
}

func (w chanWaker) Wake() {
	select {
	case w.ch <- struct{}{}:
	default:
	}
}

// block polls f from the calling goroutine until it is ready or ctx is canceled.
//
// If the context is already canceled when block is called, it always returns the context's error
// without polling.
func block[T any](ctx context.Context, f Future[T]) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	w := newChanWaker()
	for {
		if v, ok := f.Poll(w); ok {
			return v, nil
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-w.ch:
		}
	}
}
