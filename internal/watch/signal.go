package watch

// Signal is a zero-payload change notification with multiple observers and
// synchronous dispatch. The zero value is ready to use.
//
// Handlers run in subscription order on the dispatching goroutine. Dispatch
// is re-entrant: a handler may cause further dispatches, including on the
// same signal. Signal itself does nothing to break cycles - that is the
// subscriber's responsibility.
//
// Not safe for concurrent use. The navigation core is a single-threaded,
// cooperative event model; all mutation and dispatch happen on one logical
// goroutine.
type Signal struct {
	handlers []handlerEntry
	nextID   int
}

type handlerEntry struct {
	id int
	fn func()
}

// Subscription identifies a registered handler so it can be removed.
type Subscription struct {
	signal *Signal
	id     int
}

// Add registers a handler and returns a subscription for later removal.
func (s *Signal) Add(fn func()) Subscription {
	s.nextID++
	id := s.nextID
	s.handlers = append(s.handlers, handlerEntry{id: id, fn: fn})
	return Subscription{signal: s, id: id}
}

// Remove unregisters the handler identified by the subscription.
// Removing an already-removed or zero subscription is a no-op.
func (s *Signal) Remove(sub Subscription) {
	if sub.signal != s {
		return
	}
	for i, h := range s.handlers {
		if h.id == sub.id {
			s.handlers = append(s.handlers[:i], s.handlers[i+1:]...)
			return
		}
	}
}

// Dispatch invokes every handler synchronously in subscription order.
//
// The handler slice is snapshotted first so that handlers which subscribe or
// unsubscribe during dispatch do not perturb the current round. A handler
// added during dispatch runs on the next dispatch, not this one.
func (s *Signal) Dispatch() {
	if len(s.handlers) == 0 {
		return
	}
	snapshot := make([]handlerEntry, len(s.handlers))
	copy(snapshot, s.handlers)
	for _, h := range snapshot {
		h.fn()
	}
}

// Len returns the current number of subscribed handlers.
// Useful for leak checks in tests.
func (s *Signal) Len() int {
	return len(s.handlers)
}

// Remove unregisters the subscription from its signal.
func (sub Subscription) Remove() {
	if sub.signal != nil {
		sub.signal.Remove(sub)
	}
}

// Observable is implemented by every entity that exposes a change signal.
// Downstream code treats position, orientation, zoom and dimension
// selections uniformly through this interface.
type Observable interface {
	Changed() *Signal
}
