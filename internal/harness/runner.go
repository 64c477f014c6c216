package harness

import (
	"fmt"

	"github.com/voxelview/voxelview/internal/coordspace"
	"github.com/voxelview/voxelview/internal/geom"
	"github.com/voxelview/voxelview/internal/link"
	"github.com/voxelview/voxelview/internal/nav"
	"github.com/voxelview/voxelview/internal/spacedef"
	"github.com/voxelview/voxelview/internal/watch"
)

// TraceEvent records the serialized state of both sides after one step.
type TraceEvent struct {
	Seq    int    `json:"seq"`
	Op     string `json:"op"`
	Target string `json:"target,omitempty"`
	Peer   any    `json:"peer"`
	View   any    `json:"view"`
}

// Result holds the trace produced by running a scenario.
type Result struct {
	Scenario *Scenario
	Trace    []TraceEvent
}

// runner holds the live navigation graph for one scenario execution.
type runner struct {
	spaces   []*coordspace.Space
	provider *nav.SpaceProvider
	peer     *nav.State
	view     *link.View
}

// Run executes the scenario and returns the per-step trace.
func Run(scenario *Scenario) (*Result, error) {
	spaces := make([]*coordspace.Space, len(scenario.Spaces))
	var prev *coordspace.Space
	for i, path := range scenario.Spaces {
		space, err := spacedef.LoadFile(path, prev)
		if err != nil {
			return nil, fmt.Errorf("compiling space %s: %w", path, err)
		}
		spaces[i] = space
		prev = space
	}

	provider := watch.NewValue(spaces[0])
	peer := nav.NewState(provider)
	defer peer.Release()
	view := link.NewView(peer, provider, link.ModeLinked)
	defer view.Release()

	r := &runner{spaces: spaces, provider: provider, peer: peer, view: view}
	for component, modeStr := range scenario.Links {
		mode, err := link.ParseMode(modeStr)
		if err != nil {
			return nil, err
		}
		if err := r.setLink(component, mode); err != nil {
			return nil, err
		}
	}

	result := &Result{Scenario: scenario}
	for i, step := range scenario.Steps {
		if err := r.apply(&step); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}
		result.Trace = append(result.Trace, TraceEvent{
			Seq:    i + 1,
			Op:     step.Op,
			Target: step.Target,
			Peer:   peer.EncodeState(),
			View:   view.EncodeState(),
		})
	}
	return result, nil
}

func (r *runner) apply(step *Step) error {
	onView := step.Target == "view"

	switch step.Op {
	case "set_position":
		coords := make([]float32, len(step.Coords))
		for i, c := range step.Coords {
			coords[i] = float32(c)
		}
		pos := r.peer.Pose.Position
		if onView {
			pos = r.view.Pose.Position
		}
		if !pos.SetCoordinates(coords) {
			return fmt.Errorf("coordinates rejected: %v", step.Coords)
		}

	case "set_orientation":
		q := geom.Quat{
			float32(step.Quat[0]), float32(step.Quat[1]),
			float32(step.Quat[2]), float32(step.Quat[3]),
		}
		o := r.peer.Pose.Orientation
		if onView {
			o = r.view.Pose.Orientation
		}
		if !o.Set(q) {
			return fmt.Errorf("quaternion rejected: %v", step.Quat)
		}

	case "set_zoom":
		z := r.zoomFor(step.Kind, onView)
		if !z.SetValue(step.Value) {
			return fmt.Errorf("zoom value rejected: %v", step.Value)
		}

	case "select_dimensions":
		d := r.peer.Pose.DisplayDimensions
		if onView {
			d = r.view.Pose.DisplayDimensions
		}
		return d.SetNames(step.Names)

	case "set_scale_factor":
		sf := r.peer.ScaleFactors
		if onView {
			sf = r.view.ScaleFactors.Value()
		}
		space := r.provider.Get()
		i := space.IndexOfName(step.Name)
		if i < 0 {
			return fmt.Errorf("unknown dimension %q", step.Name)
		}
		if !sf.SetFactor(i, step.Factor) {
			return fmt.Errorf("factor rejected: %v", step.Factor)
		}

	case "set_link":
		mode, err := link.ParseMode(step.Mode)
		if err != nil {
			return err
		}
		return r.setLink(step.Component, mode)

	case "replace_space":
		r.provider.Set(r.spaces[step.Space])

	case "translate":
		var delta geom.Vec3
		copy(delta[:], step.Delta)
		r.poseFor(onView).TranslateVoxelsRelative(delta)

	case "rotate":
		axis := geom.Vec3{step.Axis[0], step.Axis[1], step.Axis[2]}
		r.poseFor(onView).RotateRelative(axis, step.Angle)

	case "snap":
		r.poseFor(onView).Snap()

	case "reset":
		if onView {
			r.view.Pose.Reset()
		} else {
			r.peer.Reset()
		}

	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
	return nil
}

func (r *runner) poseFor(onView bool) *nav.Pose {
	if onView {
		return r.view.Pose
	}
	return r.peer.Pose
}

func (r *runner) zoomFor(kind string, onView bool) *nav.Zoom {
	projection := kind == "projection"
	if onView {
		if projection {
			return r.view.ProjectionZoom.Value()
		}
		return r.view.Zoom.Value()
	}
	if projection {
		return r.peer.ProjectionZoom
	}
	return r.peer.Zoom
}

func (r *runner) setLink(component string, mode link.Mode) error {
	switch component {
	case "position":
		r.view.Position.SetMode(mode)
	case "orientation":
		r.view.Orientation.SetMode(mode)
	case "scale_factors":
		r.view.ScaleFactors.SetMode(mode)
	case "display_dimensions":
		r.view.DisplayDimensions.SetMode(mode)
	case "zoom":
		r.view.Zoom.SetMode(mode)
	case "projection_zoom":
		r.view.ProjectionZoom.SetMode(mode)
	default:
		return fmt.Errorf("unknown link component %q", component)
	}
	return nil
}
