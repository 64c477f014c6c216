// Package watch provides the observable primitives the navigation core is
// built on: a zero-payload change signal and a generic watchable value.
//
// ARCHITECTURE:
//
// Synchronous single-threaded dispatch:
// Signals dispatch on the caller's goroutine, in subscription order, with no
// queueing. A handler may itself mutate entities and trigger further
// dispatches; any listener that both reads and writes the same entity must
// therefore carry its own reentrancy guard (see internal/link).
//
// Ordering guarantee:
// A handler always observes the fully-applied state of the entity that
// dispatched. Entities mutate first, dispatch last.
//
// There is no cancellation model. Mutations either apply fully and dispatch,
// or are rejected at the validation point and dispatch nothing.
package watch
