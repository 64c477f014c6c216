package link

import (
	"github.com/voxelview/voxelview/internal/geom"
	"github.com/voxelview/voxelview/internal/nav"
)

// Concrete constructors: one per entity type, each selecting its operation
// table and self-value factory explicitly. Delta types differ per entity:
// a voxel-offset vector for positions, a quaternion ratio for orientations,
// a physical-scale ratio for zooms, and nothing for selections (relative
// mode degenerates to mirroring there).

// PositionOps is the operation table for linked positions.
func PositionOps() Ops[*nav.Position, []float64] {
	return Ops[*nav.Position, []float64]{
		Assign:     nav.AssignPosition,
		IsValid:    (*nav.Position).Valid,
		Difference: nav.OffsetBetween,
		Add: func(dst, src *nav.Position, delta []float64) {
			nav.ApplyVoxelOffset(dst, src, delta, 1)
		},
		Subtract: func(dst, src *nav.Position, delta []float64) {
			nav.ApplyVoxelOffset(dst, src, delta, -1)
		},
	}
}

// NewPosition links a synthesized position (bound to the same space
// provider as the peer) to peer.
func NewPosition(peer *nav.Position, space *nav.SpaceProvider, mode Mode) *Linked[*nav.Position, []float64] {
	return New(peer, func() *nav.Position { return nav.NewPosition(space) }, PositionOps(), mode)
}

// OrientationOps is the operation table for linked orientations. The delta
// is the quaternion ratio d = inverse(b)*a, so a = b*d.
func OrientationOps() Ops[*nav.Orientation, geom.Quat] {
	return Ops[*nav.Orientation, geom.Quat]{
		Assign: func(dst, src *nav.Orientation) {
			dst.Set(src.Get())
		},
		IsValid: func(*nav.Orientation) bool { return true },
		Difference: func(a, b *nav.Orientation) geom.Quat {
			return b.Get().Inverse().Mul(a.Get())
		},
		Add: func(dst, src *nav.Orientation, delta geom.Quat) {
			dst.Set(src.Get().Mul(delta))
		},
		Subtract: func(dst, src *nav.Orientation, delta geom.Quat) {
			dst.Set(src.Get().Mul(delta.Inverse()))
		},
	}
}

// NewOrientation links a synthesized orientation to peer.
func NewOrientation(peer *nav.Orientation, mode Mode) *Linked[*nav.Orientation, geom.Quat] {
	return New(peer, nav.NewOrientation, OrientationOps(), mode)
}

// ZoomOps is the operation table for linked zooms. The delta is the ratio
// of physical scales, which survives differing display-dimension
// selections between the two views.
func ZoomOps() Ops[*nav.Zoom, float64] {
	return Ops[*nav.Zoom, float64]{
		Assign:     nav.AssignZoom,
		IsValid:    (*nav.Zoom).IsSet,
		Difference: nav.ZoomRatio,
		Add: func(dst, src *nav.Zoom, delta float64) {
			dst.SetPhysicalScale(src.Value()*delta, src.CanonicalVoxelSize())
		},
		Subtract: func(dst, src *nav.Zoom, delta float64) {
			dst.SetPhysicalScale(src.Value()/delta, src.CanonicalVoxelSize())
		},
	}
}

// NewZoom links a synthesized zoom to peer. The self zoom observes the
// linking view's own display dimensions, which generally differ from the
// peer view's.
func NewZoom(peer *nav.Zoom, dims *nav.DisplayDimensions, kind nav.ZoomKind, mode Mode) *Linked[*nav.Zoom, float64] {
	return New(peer, func() *nav.Zoom { return nav.NewZoom(dims, kind) }, ZoomOps(), mode)
}

// mirrorOps builds the degenerate table for entity types with no offset
// algebra: relative mode behaves like linked.
func mirrorOps[T Entity](assign func(dst, src T), isValid func(T) bool) Ops[T, struct{}] {
	return Ops[T, struct{}]{
		Assign:     assign,
		IsValid:    isValid,
		Difference: func(a, b T) struct{} { return struct{}{} },
		Add:        func(dst, src T, _ struct{}) { assign(dst, src) },
		Subtract:   func(dst, src T, _ struct{}) { assign(dst, src) },
	}
}

// NewDisplayDimensions links a synthesized display selection to peer.
func NewDisplayDimensions(peer *nav.DisplayDimensions, space *nav.SpaceProvider, factors *nav.ScaleFactors, mode Mode) *Linked[*nav.DisplayDimensions, struct{}] {
	ops := mirrorOps(
		nav.AssignDisplayDimensions,
		func(d *nav.DisplayDimensions) bool { return !d.IsDefault() },
	)
	return New(peer, func() *nav.DisplayDimensions { return nav.NewDisplayDimensions(space, factors) }, ops, mode)
}

// NewScaleFactors links synthesized scale factors to peer.
func NewScaleFactors(peer *nav.ScaleFactors, space *nav.SpaceProvider, mode Mode) *Linked[*nav.ScaleFactors, struct{}] {
	ops := mirrorOps(
		nav.AssignScaleFactors,
		func(s *nav.ScaleFactors) bool { return len(s.Factors()) > 0 },
	)
	return New(peer, func() *nav.ScaleFactors { return nav.NewScaleFactors(space) }, ops, mode)
}

// View is a complete secondary viewport: every navigation entity linked to
// the corresponding entity of a peer state, composed back into a Pose so
// viewport code can consume it like any other.
type View struct {
	Position          *Linked[*nav.Position, []float64]
	Orientation       *Linked[*nav.Orientation, geom.Quat]
	ScaleFactors      *Linked[*nav.ScaleFactors, struct{}]
	DisplayDimensions *Linked[*nav.DisplayDimensions, struct{}]
	Zoom              *Linked[*nav.Zoom, float64]
	ProjectionZoom    *Linked[*nav.Zoom, float64]

	Pose *nav.Pose
}

// NewView builds a view over peer with every link in the given mode.
func NewView(peer *nav.State, space *nav.SpaceProvider, mode Mode) *View {
	v := &View{}
	v.Position = NewPosition(peer.Pose.Position, space, mode)
	v.Orientation = NewOrientation(peer.Pose.Orientation, mode)
	v.ScaleFactors = NewScaleFactors(peer.ScaleFactors, space, mode)
	v.DisplayDimensions = NewDisplayDimensions(
		peer.Pose.DisplayDimensions, space, v.ScaleFactors.Value(), mode)
	v.Zoom = NewZoom(peer.Zoom, v.DisplayDimensions.Value(), nav.CrossSectionZoom, mode)
	v.ProjectionZoom = NewZoom(peer.ProjectionZoom, v.DisplayDimensions.Value(), nav.ProjectionZoom, mode)
	v.Pose = nav.NewPoseWith(v.Position.Value(), v.Orientation.Value(), v.DisplayDimensions.Value())
	return v
}

// Release detaches every link. Peer entities are borrowed and unaffected.
func (v *View) Release() {
	v.Position.Release()
	v.Orientation.Release()
	v.ScaleFactors.Release()
	v.DisplayDimensions.Release()
	v.Zoom.Release()
	v.ProjectionZoom.Release()
	v.Pose.Release()
}

// EncodeState serializes the view: one entry per non-linked entity.
func (v *View) EncodeState() any {
	out := make(map[string]any)
	put := func(key string, val any) {
		if val != nil {
			out[key] = val
		}
	}
	put("position", v.Position.EncodeState())
	put("orientation", v.Orientation.EncodeState())
	put("scaleFactors", v.ScaleFactors.EncodeState())
	put("displayDimensions", v.DisplayDimensions.EncodeState())
	put("zoom", v.Zoom.EncodeState())
	put("projectionZoom", v.ProjectionZoom.EncodeState())
	if len(out) == 0 {
		return nil
	}
	return out
}

// RestoreState restores the view; absent input relinks everything.
func (v *View) RestoreState(raw any) error {
	if raw == nil {
		v.Position.SetMode(ModeLinked)
		v.Orientation.SetMode(ModeLinked)
		v.ScaleFactors.SetMode(ModeLinked)
		v.DisplayDimensions.SetMode(ModeLinked)
		v.Zoom.SetMode(ModeLinked)
		v.ProjectionZoom.SetMode(ModeLinked)
		return nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return v.RestoreState(nil)
	}
	if err := v.DisplayDimensions.RestoreState(m["displayDimensions"]); err != nil {
		return err
	}
	if err := v.ScaleFactors.RestoreState(m["scaleFactors"]); err != nil {
		return err
	}
	if err := v.Position.RestoreState(m["position"]); err != nil {
		return err
	}
	if err := v.Orientation.RestoreState(m["orientation"]); err != nil {
		return err
	}
	if err := v.Zoom.RestoreState(m["zoom"]); err != nil {
		return err
	}
	return v.ProjectionZoom.RestoreState(m["projectionZoom"])
}
