package watch

// Value is a watchable container: a current value plus a change signal.
//
// This is the uniform ".value + changed" shape every collaborator exposes,
// including the coordinate-space provider the navigation entities observe.
type Value[T any] struct {
	value   T
	changed Signal
}

// NewValue creates a watchable value holding v.
func NewValue[T any](v T) *Value[T] {
	return &Value[T]{value: v}
}

// Get returns the current value.
func (w *Value[T]) Get() T {
	return w.value
}

// Set replaces the value and dispatches the change signal.
//
// No equality short-circuit: replacing a value with an equal one still
// dispatches. Callers that need coalescing compare before calling Set.
func (w *Value[T]) Set(v T) {
	w.value = v
	w.changed.Dispatch()
}

// Changed returns the change signal.
func (w *Value[T]) Changed() *Signal {
	return &w.changed
}
