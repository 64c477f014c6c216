package nav

import (
	"math"

	"github.com/voxelview/voxelview/internal/coordspace"
	"github.com/voxelview/voxelview/internal/watch"
)

// SpaceProvider is the watchable coordinate-space reference every entity
// in this package observes.
type SpaceProvider = watch.Value[*coordspace.Space]

// Position holds a voxel-coordinate vector sized to the rank of the current
// coordinate space.
//
// INVARIANTS:
//   - len(coords) == space.Rank whenever the space is valid and the
//     position has been read or mutated since the space changed
//   - coords is empty while the space is invalid
type Position struct {
	space   *SpaceProvider
	cur     *coordspace.Space // space the coords currently refer to
	coords  []float32
	changed watch.Signal
	sub     watch.Subscription
}

// NewPosition creates a position bound to a live coordinate-space provider.
// The initial value is the bounding-box center of each dimension.
func NewPosition(space *SpaceProvider) *Position {
	p := &Position{space: space}
	p.sub = space.Changed().Add(p.changed.Dispatch)
	return p
}

// Changed returns the position's change signal. It also fires when the
// coordinate space is replaced, before any lazy remap has run.
func (p *Position) Changed() *watch.Signal {
	return &p.changed
}

// Release detaches the position from its space provider.
func (p *Position) Release() {
	p.sub.Remove()
}

// handleSpaceChanged remaps coords onto the current space version.
// No-op when the space reference is unchanged since the last remap.
func (p *Position) handleSpaceChanged() {
	space := p.space.Get()
	if space == p.cur {
		return
	}
	prev := p.cur
	p.cur = space

	if space == nil || !space.Valid {
		p.coords = nil
		return
	}

	if prev == nil || !prev.Valid {
		// No prior space to match against: reuse coords when the length
		// already fits, otherwise start at the bounding-box center.
		if len(p.coords) == space.Rank {
			return
		}
		p.coords = make([]float32, space.Rank)
		for i := range p.coords {
			p.coords[i] = float32(space.Center(i))
		}
		return
	}

	old := p.coords
	next := make([]float32, space.Rank)
	for i := 0; i < space.Rank; i++ {
		j := prev.IndexOfID(space.IDs[i])
		if j >= 0 && j < len(old) {
			// Same dimension identity: preserve physical position across
			// the scale change.
			next[i] = float32(float64(old[j]) * (prev.Scales[j] / space.Scales[i]))
		} else {
			next[i] = float32(space.Center(i))
		}
	}
	p.coords = next
}

// Valid reports whether the position currently holds a usable coordinate
// vector.
func (p *Position) Valid() bool {
	p.handleSpaceChanged()
	return len(p.coords) > 0
}

// Coordinates returns the current voxel coordinates, remapping first if the
// space changed. The returned slice is owned by the position; callers must
// not mutate it.
func (p *Position) Coordinates() []float32 {
	p.handleSpaceChanged()
	return p.coords
}

// SetCoordinates replaces the coordinate vector and dispatches the change
// signal. The mutation is silently rejected when the space is invalid, the
// rank does not match, or any component is non-finite.
func (p *Position) SetCoordinates(v []float32) bool {
	p.handleSpaceChanged()
	space := p.cur
	if space == nil || !space.Valid || len(v) != space.Rank {
		return false
	}
	for _, c := range v {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	p.coords = append(p.coords[:0:0], v...)
	p.changed.Dispatch()
	return true
}

// SetCoordinate updates a single dimension, with the same validation rules
// as SetCoordinates.
func (p *Position) SetCoordinate(i int, v float32) bool {
	p.handleSpaceChanged()
	if i < 0 || i >= len(p.coords) {
		return false
	}
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	p.coords[i] = v
	p.changed.Dispatch()
	return true
}

// Reset clears the position to the undefined state. The next read
// re-initializes from the current space's bounding-box centers.
func (p *Position) Reset() {
	p.coords = nil
	p.cur = nil
	p.changed.Dispatch()
}

// SnapToVoxel rounds every coordinate to the nearest integer voxel.
func (p *Position) SnapToVoxel() {
	p.handleSpaceChanged()
	for i, c := range p.coords {
		p.coords[i] = float32(math.Round(float64(c)))
	}
	p.changed.Dispatch()
}

// Space returns the space version the coordinates currently refer to.
func (p *Position) Space() *coordspace.Space {
	p.handleSpaceChanged()
	return p.cur
}

// spatialUnitScale converts legacy spatial offsets (implicitly nanometers)
// into the physical unit of a dimension's scale.
const spatialUnitScale = 1e-9

// OffsetBetween returns the elementwise voxel difference a-b, valid only
// when both positions hold vectors of the same rank. A rank mismatch yields
// an empty offset, which makes ApplyVoxelOffset a no-op until the ranks
// realign.
func OffsetBetween(a, b *Position) []float64 {
	av, bv := a.Coordinates(), b.Coordinates()
	if len(av) == 0 || len(av) != len(bv) {
		return nil
	}
	offset := make([]float64, len(av))
	for i := range av {
		offset[i] = float64(av[i]) - float64(bv[i])
	}
	return offset
}

// ApplyVoxelOffset sets target := source + scale*offset, dimension by
// dimension. Empty or rank-mismatched offsets are a no-op.
func ApplyVoxelOffset(target, source *Position, offset []float64, scale float64) {
	sv := source.Coordinates()
	if len(offset) == 0 || len(sv) != len(offset) {
		return
	}
	next := make([]float32, len(sv))
	for i := range sv {
		next[i] = float32(float64(sv[i]) + scale*offset[i])
	}
	target.SetCoordinates(next)
}

// ApplySpatialOffset sets target := source + scale*offset where offset is
// expressed in legacy physical units (nanometers), converted into voxels by
// the source space's per-dimension scale.
func ApplySpatialOffset(target, source *Position, offset []float64, scale float64) {
	sv := source.Coordinates()
	space := source.Space()
	if space == nil || !space.Valid || len(offset) != len(sv) {
		return
	}
	next := make([]float32, len(sv))
	for i := range sv {
		next[i] = float32(float64(sv[i]) + scale*offset[i]*spatialUnitScale/space.Scales[i])
	}
	target.SetCoordinates(next)
}

// AssignPosition copies src's coordinates into dst. A rank mismatch is a
// silent no-op per the usual validation rules.
func AssignPosition(dst, src *Position) {
	coords := src.Coordinates()
	if len(coords) == 0 {
		return
	}
	dst.SetCoordinates(coords)
}
