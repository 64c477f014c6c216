package testutil

import "github.com/voxelview/voxelview/internal/watch"

// Recorder counts dispatches of a signal. Used to assert that an operation
// notifies exactly once, or that suppressed feedback paths stay silent.
type Recorder struct {
	count int
	sub   watch.Subscription
}

// Observe subscribes a recorder to the signal.
func Observe(s *watch.Signal) *Recorder {
	r := &Recorder{}
	r.sub = s.Add(func() { r.count++ })
	return r
}

// Count returns the number of dispatches seen so far.
func (r *Recorder) Count() int {
	return r.count
}

// Reset zeroes the dispatch count.
func (r *Recorder) Reset() {
	r.count = 0
}

// Release unsubscribes the recorder.
func (r *Recorder) Release() {
	r.sub.Remove()
}
