package nav

import (
	"math"

	"github.com/voxelview/voxelview/internal/geom"
	"github.com/voxelview/voxelview/internal/watch"
)

// Pose composes Position, DisplayDimensions and Orientation into a camera.
// It holds no state of its own; its change signal aggregates the children.
type Pose struct {
	Position          *Position
	Orientation       *Orientation
	DisplayDimensions *DisplayDimensions

	changed    watch.Signal
	suppressed bool // coalesce child dispatches during combined operations
	pending    bool
	subs       []watch.Subscription
}

// NewPose creates a pose over freshly constructed children bound to the
// space provider.
func NewPose(space *SpaceProvider, factors *ScaleFactors) *Pose {
	p := &Pose{
		Position:          NewPosition(space),
		Orientation:       NewOrientation(),
		DisplayDimensions: NewDisplayDimensions(space, factors),
	}
	p.subscribe()
	return p
}

// NewPoseWith composes existing children. Used by the linking layer, where
// the children are themselves linked wrappers' values.
func NewPoseWith(position *Position, orientation *Orientation, dims *DisplayDimensions) *Pose {
	p := &Pose{Position: position, Orientation: orientation, DisplayDimensions: dims}
	p.subscribe()
	return p
}

func (p *Pose) subscribe() {
	p.subs = []watch.Subscription{
		p.Position.Changed().Add(p.childChanged),
		p.Orientation.Changed().Add(p.childChanged),
		p.DisplayDimensions.Changed().Add(p.childChanged),
	}
}

func (p *Pose) childChanged() {
	if p.suppressed {
		p.pending = true
		return
	}
	p.changed.Dispatch()
}

// Changed returns the aggregated change signal.
func (p *Pose) Changed() *watch.Signal {
	return &p.changed
}

// Release detaches the pose and its owned children from their providers.
func (p *Pose) Release() {
	for _, sub := range p.subs {
		sub.Remove()
	}
	p.Position.Release()
	p.DisplayDimensions.Release()
}

// coalesce runs fn with child dispatches coalesced into at most one pose
// dispatch.
func (p *Pose) coalesce(fn func()) {
	p.suppressed = true
	p.pending = false
	fn()
	p.suppressed = false
	if p.pending {
		p.pending = false
		p.changed.Dispatch()
	}
}

// Valid reports whether the pose has a usable position.
func (p *Pose) Valid() bool {
	return p.Position.Valid()
}

// ToMat3 builds the rotation-then-anisotropic-scale transform: the
// orientation matrix with column k scaled by the k-th canonical voxel
// factor.
func (p *Pose) ToMat3() geom.Mat3 {
	m := p.Orientation.Get().ToMat3()
	info := p.DisplayDimensions.RenderInfo()
	for col := 0; col < MaxDisplayDimensions; col++ {
		f := 1.0
		if col < info.Rank {
			f = info.CanonicalVoxelFactors[col]
		}
		m[col] *= f
		m[3+col] *= f
		m[6+col] *= f
	}
	return m
}

// ToMat4 extends ToMat3 with the translation to the current voxel
// coordinates on the display dimensions.
func (p *Pose) ToMat4() geom.Mat4 {
	m3 := p.ToMat3()
	m := geom.Identity4()
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			m[col*4+row] = m3[row*3+col]
		}
	}
	info := p.DisplayDimensions.RenderInfo()
	coords := p.Position.Coordinates()
	for k := 0; k < info.Rank; k++ {
		i := info.Indices[k]
		if i < len(coords) {
			m[12+k] = float64(coords[i])
		}
	}
	return m
}

// clampDelta limits a move on dimension i per the bound-clamping rule:
// moving positive clamps to ceil(upper-1) when the upper bound is finite,
// moving negative clamps to floor(lower) when the lower bound is finite.
// Unbounded directions pass through.
func clampDelta(lower, upper, cur, next float64) float64 {
	if next > cur {
		if !math.IsInf(upper, 0) {
			limit := math.Ceil(upper - 1)
			if next > limit {
				next = math.Max(cur, limit)
			}
		}
	} else if next < cur {
		if !math.IsInf(lower, 0) {
			limit := math.Floor(lower)
			if next < limit {
				next = math.Min(cur, limit)
			}
		}
	}
	return next
}

// TranslateDimensionRelative moves one dimension by a voxel delta, clamped
// to the dimension's bounds.
func (p *Pose) TranslateDimensionRelative(dim int, delta float64) {
	coords := p.Position.Coordinates()
	space := p.Position.Space()
	if space == nil || !space.Valid || dim < 0 || dim >= len(coords) {
		return
	}
	cur := float64(coords[dim])
	next := clampDelta(space.Bounds.Lower[dim], space.Bounds.Upper[dim], cur, cur+delta)
	p.Position.SetCoordinate(dim, float32(next))
}

// TranslateVoxelsRelative applies a view-space voxel delta: the delta is
// rotated by the current orientation into voxel space, then added to the
// display dimensions with per-dimension bound clamping.
//
// The rotated delta is applied directly in voxel units even when the voxel
// axes are non-uniformly scaled; this mirrors the viewer's long-standing
// behavior and is pinned by tests rather than corrected here.
func (p *Pose) TranslateVoxelsRelative(delta geom.Vec3) {
	rotated := p.Orientation.Get().Rotate(delta)
	coords := p.Position.Coordinates()
	space := p.Position.Space()
	if space == nil || !space.Valid {
		return
	}
	info := p.DisplayDimensions.RenderInfo()
	next := append([]float32(nil), coords...)
	for k := 0; k < info.Rank; k++ {
		i := info.Indices[k]
		if i >= len(next) {
			continue
		}
		cur := float64(next[i])
		moved := clampDelta(space.Bounds.Lower[i], space.Bounds.Upper[i], cur, cur+rotated[k])
		next[i] = float32(moved)
	}
	p.Position.SetCoordinates(next)
}

// RotateRelative rotates the camera by angle radians about axis, expressed
// in view space.
func (p *Pose) RotateRelative(axis geom.Vec3, angle float64) {
	rot := geom.FromAxisAngle(axis, angle)
	p.Orientation.Set(p.Orientation.Get().Mul(rot))
}

// RotateAbsolute rotates the camera about axis by angle while keeping
// fixedPoint (full-rank voxel coordinates) visually stationary: the
// view-space offset of the fixed point before and after the rotation is
// identical, so the position moves to compensate.
func (p *Pose) RotateAbsolute(axis geom.Vec3, angle float64, fixedPoint []float32) {
	space := p.Position.Space()
	coords := p.Position.Coordinates()
	if space == nil || !space.Valid || len(fixedPoint) != len(coords) {
		return
	}
	rot := geom.FromAxisAngle(axis, angle)
	oldQ := p.Orientation.Get()
	newQ := oldQ.Mul(rot)
	info := p.DisplayDimensions.RenderInfo()

	// World offset of the fixed point in physical units on the display
	// dimensions.
	var world geom.Vec3
	for k := 0; k < info.Rank; k++ {
		i := info.Indices[k]
		world[k] = (float64(fixedPoint[i]) - float64(coords[i])) * info.VoxelPhysicalScales[k]
	}

	// View-space offset under the old orientation must be preserved under
	// the new one.
	local := oldQ.Inverse().Rotate(world)
	newWorld := newQ.Rotate(local)

	next := append([]float32(nil), coords...)
	for k := 0; k < info.Rank; k++ {
		i := info.Indices[k]
		next[i] = float32(float64(fixedPoint[i]) - newWorld[k]/info.VoxelPhysicalScales[k])
	}

	p.coalesce(func() {
		p.Orientation.Set(newQ)
		p.Position.SetCoordinates(next)
	})
}

// Snap quantizes the orientation to the nearest axis-aligned frame and
// rounds the position to integer voxels, dispatching once.
func (p *Pose) Snap() {
	p.coalesce(func() {
		p.Orientation.Snap()
		p.Position.SnapToVoxel()
	})
}

// Reset restores position, orientation and display selection to defaults,
// dispatching once.
func (p *Pose) Reset() {
	p.coalesce(func() {
		p.Position.Reset()
		p.Orientation.Reset()
		p.DisplayDimensions.Reset()
	})
}
