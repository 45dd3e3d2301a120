// obligatory // comment

/*
Package casus provides a couple of small suspension primitives for tasks that are driven by some
external scheduler, with a focus on minimizing magic.

There are two of them:

- A resettable, broadcast signal: [Event] and [NewEvent]
- A one-shot cell delivering a single value: [Waiter] and [NewWaiter]

Neither starts goroutines, runs timers, or assumes a particular executor. The only coupling to
whatever drives the tasks is the [Waker] passed to [Future.Poll]: a task that isn't ready yet
stores its Waker and gets woken exactly when it's worth polling again. For plain goroutines,
[Event.TryWait] and [Waiter.Await] do that polling for you, and take a [context.Context] so that
deadlines can be composed from the outside.

# Event

An Event is either set or clear. Waiting on a set Event completes immediately; waiting on a clear
one suspends until the next [Event.Set], which wakes everyone waiting at that point. [Event.Clear]
re-arms it.

Each suspended wait leaves a [Waiter] in the Event's registry, and the registry is never pruned on
its own. That keeps Set simple, at the cost of memory for Events that cycle many times with many
waiters. [Event.Compact] drops the Waiters that have already been woken.

# Waiter

A Waiter is woken once, with a value, by [Waiter.Wake]. The task polling it receives that value
exactly once; polling again afterwards panics. Copies of a Waiter share the same state, so the
waiting and waking sides can each keep their own.

Waking more than once is allowed. Later calls overwrite the value but never wake the task again.
*/
package casus
