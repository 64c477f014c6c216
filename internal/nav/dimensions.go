package nav

import (
	"github.com/voxelview/voxelview/internal/coordspace"
	"github.com/voxelview/voxelview/internal/watch"
)

// MaxDisplayDimensions is the hard limit on simultaneously displayed
// dimensions. Exceeding it is a structural error, not a validation no-op.
const MaxDisplayDimensions = 3

// DisplayDimensions selects which (at most three) dimensions of the
// coordinate space are rendered, and derives the canonical-voxel
// normalization for the selection.
//
// While the default flag is set, the selection auto-tracks the first
// min(rank, 3) dimensions of whatever space is current. An explicit
// selection clears the flag; it is restored by Reset or when every
// explicitly chosen dimension vanishes from the space.
type DisplayDimensions struct {
	space     *SpaceProvider
	factors   *ScaleFactors
	cur       *coordspace.Space
	indices   [MaxDisplayDimensions]int
	ids       [MaxDisplayDimensions]coordspace.DimensionID
	rank      int
	isDefault bool
	changed   watch.Signal
	spaceSub  watch.Subscription
	factorSub watch.Subscription
}

// RenderInfo is the derived canonical-voxel description of a display
// selection.
//
// INVARIANTS (for i < Rank):
//   - VoxelPhysicalScales[i] = factors[Indices[i]] * space.Scales[Indices[i]]
//   - CanonicalVoxelPhysicalSize = min(VoxelPhysicalScales[0:Rank])
//   - CanonicalVoxelFactors[i] = VoxelPhysicalScales[i] / CanonicalVoxelPhysicalSize
//
// The degenerate rank-0 selection has size 1 and unit "" so downstream
// zoom math never divides by zero.
type RenderInfo struct {
	Rank                       int
	Indices                    [MaxDisplayDimensions]int
	VoxelPhysicalScales        [MaxDisplayDimensions]float64
	CanonicalVoxelPhysicalSize float64
	CanonicalVoxelFactors      [MaxDisplayDimensions]float64
	CanonicalVoxelUnit         string
}

// NewDisplayDimensions creates a default display selection bound to the
// space provider and scale factors.
func NewDisplayDimensions(space *SpaceProvider, factors *ScaleFactors) *DisplayDimensions {
	d := &DisplayDimensions{
		space:     space,
		factors:   factors,
		indices:   [MaxDisplayDimensions]int{-1, -1, -1},
		isDefault: true,
	}
	d.spaceSub = space.Changed().Add(d.changed.Dispatch)
	d.factorSub = factors.Changed().Add(d.changed.Dispatch)
	return d
}

// Changed returns the change signal. It also fires on space replacement and
// scale-factor changes, since the derived render info depends on both.
func (d *DisplayDimensions) Changed() *watch.Signal {
	return &d.changed
}

// Release detaches from the space provider and scale factors.
func (d *DisplayDimensions) Release() {
	d.spaceSub.Remove()
	d.factorSub.Remove()
}

func (d *DisplayDimensions) handleSpaceChanged() {
	space := d.space.Get()
	if space == d.cur {
		return
	}
	prev := d.cur
	d.cur = space

	if space == nil || !space.Valid {
		d.rank = 0
		d.indices = [MaxDisplayDimensions]int{-1, -1, -1}
		return
	}

	if !d.isDefault && prev != nil {
		// Re-resolve the explicit selection by dimension identity,
		// keeping survivors in order.
		var indices [MaxDisplayDimensions]int
		var ids [MaxDisplayDimensions]coordspace.DimensionID
		indices = [MaxDisplayDimensions]int{-1, -1, -1}
		n := 0
		for k := 0; k < d.rank; k++ {
			if i := space.IndexOfID(d.ids[k]); i >= 0 {
				indices[n] = i
				ids[n] = d.ids[k]
				n++
			}
		}
		if n > 0 {
			d.indices = indices
			d.ids = ids
			d.rank = n
			return
		}
		// Every chosen dimension vanished: fall back to default and stay
		// default until the next explicit choice.
		d.isDefault = true
	}

	d.applyDefault(space)
}

func (d *DisplayDimensions) applyDefault(space *coordspace.Space) {
	d.indices = [MaxDisplayDimensions]int{-1, -1, -1}
	d.ids = [MaxDisplayDimensions]coordspace.DimensionID{}
	d.rank = space.Rank
	if d.rank > MaxDisplayDimensions {
		d.rank = MaxDisplayDimensions
	}
	for k := 0; k < d.rank; k++ {
		d.indices[k] = k
		d.ids[k] = space.IDs[k]
	}
}

// IsDefault reports whether the selection is auto-derived from the space.
func (d *DisplayDimensions) IsDefault() bool {
	d.handleSpaceChanged()
	return d.isDefault
}

// Rank returns the number of displayed dimensions (0..3).
func (d *DisplayDimensions) Rank() int {
	d.handleSpaceChanged()
	return d.rank
}

// Indices returns the display-dimension indices, -1 padded to length 3.
func (d *DisplayDimensions) Indices() [MaxDisplayDimensions]int {
	d.handleSpaceChanged()
	return d.indices
}

// SetIndices selects display dimensions by index into the current space and
// clears the default flag. Returns a StructuralError when more than three
// indices are given, or when an index is out of range or repeated.
func (d *DisplayDimensions) SetIndices(indices []int) error {
	d.handleSpaceChanged()
	if len(indices) > MaxDisplayDimensions {
		return newDimensionLimitError(len(indices))
	}
	space := d.cur
	if space == nil || !space.Valid {
		return newDimensionIndexError("no valid coordinate space")
	}
	var seen [MaxDisplayDimensions]int
	for k, i := range indices {
		if i < 0 || i >= space.Rank {
			return newDimensionIndexError("display-dimension index out of range")
		}
		for _, prev := range seen[:k] {
			if prev == i {
				return newDimensionIndexError("display-dimension index repeated")
			}
		}
		seen[k] = i
	}

	d.indices = [MaxDisplayDimensions]int{-1, -1, -1}
	d.ids = [MaxDisplayDimensions]coordspace.DimensionID{}
	d.rank = len(indices)
	for k, i := range indices {
		d.indices[k] = i
		d.ids[k] = space.IDs[i]
	}
	d.isDefault = false
	d.changed.Dispatch()
	return nil
}

// SetNames selects display dimensions by name. Unknown names are skipped;
// more than three names is a structural error. When no name resolves, the
// selection reverts to the default.
func (d *DisplayDimensions) SetNames(names []string) error {
	if len(names) > MaxDisplayDimensions {
		return newDimensionLimitError(len(names))
	}
	d.handleSpaceChanged()
	space := d.cur
	if space == nil || !space.Valid {
		return newDimensionIndexError("no valid coordinate space")
	}
	indices := make([]int, 0, MaxDisplayDimensions)
	for _, name := range names {
		if i := space.IndexOfName(name); i >= 0 {
			indices = append(indices, i)
		}
	}
	if len(indices) == 0 {
		d.Reset()
		return nil
	}
	return d.SetIndices(indices)
}

// Reset restores the sticky default selection.
func (d *DisplayDimensions) Reset() {
	d.handleSpaceChanged()
	d.isDefault = true
	if d.cur != nil && d.cur.Valid {
		d.applyDefault(d.cur)
	}
	d.changed.Dispatch()
}

// Names returns the names of the displayed dimensions in selection order.
func (d *DisplayDimensions) Names() []string {
	d.handleSpaceChanged()
	space := d.cur
	if space == nil || !space.Valid {
		return nil
	}
	names := make([]string, d.rank)
	for k := 0; k < d.rank; k++ {
		names[k] = space.Names[d.indices[k]]
	}
	return names
}

// RenderInfo derives the canonical-voxel description for the current
// selection and scale factors.
func (d *DisplayDimensions) RenderInfo() RenderInfo {
	d.handleSpaceChanged()
	info := RenderInfo{
		Indices:                    [MaxDisplayDimensions]int{-1, -1, -1},
		CanonicalVoxelPhysicalSize: 1,
	}
	space := d.cur
	if space == nil || !space.Valid || d.rank == 0 {
		return info
	}

	factors := d.factors.Factors()
	info.Rank = d.rank
	info.Indices = d.indices
	minIndex := 0
	for k := 0; k < d.rank; k++ {
		i := d.indices[k]
		scale := space.Scales[i]
		if i < len(factors) {
			scale *= factors[i]
		}
		info.VoxelPhysicalScales[k] = scale
		if scale < info.VoxelPhysicalScales[minIndex] || k == 0 {
			minIndex = k
		}
	}
	info.CanonicalVoxelPhysicalSize = info.VoxelPhysicalScales[minIndex]
	info.CanonicalVoxelUnit = space.Units[d.indices[minIndex]]
	for k := 0; k < d.rank; k++ {
		info.CanonicalVoxelFactors[k] = info.VoxelPhysicalScales[k] / info.CanonicalVoxelPhysicalSize
	}
	return info
}

// AssignDisplayDimensions copies src's selection (or default flag) into dst.
// Both must observe the same coordinate space for indices to be meaningful.
func AssignDisplayDimensions(dst, src *DisplayDimensions) {
	if src.IsDefault() {
		dst.Reset()
		return
	}
	indices := src.Indices()
	rank := src.Rank()
	selected := make([]int, rank)
	copy(selected, indices[:rank])
	// Same space, same limit: SetIndices cannot fail structurally here.
	_ = dst.SetIndices(selected)
}
