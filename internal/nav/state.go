package nav

import "github.com/voxelview/voxelview/internal/watch"

// State is the top-level navigation unit a viewport observes: a pose, the
// per-dimension scale factors feeding it, and the cross-section and
// projection zooms. It holds no independent state.
type State struct {
	ScaleFactors   *ScaleFactors
	Pose           *Pose
	Zoom           *Zoom
	ProjectionZoom *Zoom

	changed watch.Signal
	subs    []watch.Subscription
}

// NewState builds a full navigation state over the space provider.
func NewState(space *SpaceProvider) *State {
	factors := NewScaleFactors(space)
	pose := NewPose(space, factors)
	s := &State{
		ScaleFactors:   factors,
		Pose:           pose,
		Zoom:           NewZoom(pose.DisplayDimensions, CrossSectionZoom),
		ProjectionZoom: NewZoom(pose.DisplayDimensions, ProjectionZoom),
	}
	s.subs = []watch.Subscription{
		s.Pose.Changed().Add(s.changed.Dispatch),
		s.ScaleFactors.Changed().Add(s.changed.Dispatch),
		s.Zoom.Changed().Add(s.changed.Dispatch),
		s.ProjectionZoom.Changed().Add(s.changed.Dispatch),
	}
	return s
}

// Changed returns the aggregated change signal.
func (s *State) Changed() *watch.Signal {
	return &s.changed
}

// Release detaches the state and all owned children from their providers.
func (s *State) Release() {
	for _, sub := range s.subs {
		sub.Remove()
	}
	s.Zoom.Release()
	s.ProjectionZoom.Release()
	s.Pose.Release()
	s.ScaleFactors.Release()
}

// Reset restores every component to its default.
func (s *State) Reset() {
	s.Pose.Reset()
	s.ScaleFactors.Reset()
	s.Zoom.Reset()
	s.ProjectionZoom.Reset()
}
