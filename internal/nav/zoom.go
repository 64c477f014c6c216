package nav

import (
	"math"

	"github.com/voxelview/voxelview/internal/watch"
)

// ZoomKind selects the zoom semantics of an instance.
type ZoomKind int

const (
	// CrossSectionZoom is canonical voxels per viewport pixel.
	CrossSectionZoom ZoomKind = iota
	// ProjectionZoom is canonical voxels per viewport height.
	ProjectionZoom
)

// legacyUnitScale converts legacy absolute-unit zoom values (nanometers)
// into the physical unit of canonical voxel sizes.
const legacyUnitScale = 1e-9

// projectionLegacyFactor converts a legacy projection scale into viewport
// height at the reference distance of 100 units with a pi/4 field of view.
var projectionLegacyFactor = 2 * 100 * math.Tan(math.Pi/8)

// Zoom is a scalar zoom level expressed in canonical voxels.
//
// State machine: UNSET or SET. While unset, reads return a derived default
// (recomputed whenever the canonical voxel size changes) and the zoom
// serializes to absent; a legacy absolute-unit value may be staged to steer
// the default. Once explicitly set, the value rescales proportionally on
// every canonical-voxel-size change so the on-screen physical size is
// preserved across display-dimension changes.
type Zoom struct {
	dims     *DisplayDimensions
	kind     ZoomKind
	value    float64 // meaningful only when set
	legacy   float64 // NaN when nothing staged
	lastSize float64 // canonical voxel size the value refers to
	set      bool
	changed  watch.Signal
	sub      watch.Subscription
}

// NewZoom creates an unset zoom observing the display-dimension selection.
func NewZoom(dims *DisplayDimensions, kind ZoomKind) *Zoom {
	z := &Zoom{
		dims:   dims,
		kind:   kind,
		value:  math.NaN(),
		legacy: math.NaN(),
	}
	z.lastSize = dims.RenderInfo().CanonicalVoxelPhysicalSize
	z.sub = dims.Changed().Add(z.handleRenderInfoChanged)
	return z
}

// Changed returns the change signal.
func (z *Zoom) Changed() *watch.Signal {
	return &z.changed
}

// Release detaches from the display-dimension selection.
func (z *Zoom) Release() {
	z.sub.Remove()
}

// handleRenderInfoChanged rescales a set value when the canonical voxel
// size changes, preserving apparent on-screen size. Unset zooms just track
// the new size; their default derivation reads it lazily.
func (z *Zoom) handleRenderInfoChanged() {
	size := z.dims.RenderInfo().CanonicalVoxelPhysicalSize
	if size == z.lastSize {
		z.changed.Dispatch()
		return
	}
	if z.set {
		z.value *= z.lastSize / size
	}
	z.lastSize = size
	z.changed.Dispatch()
}

// IsSet reports whether an explicit value has been assigned.
func (z *Zoom) IsSet() bool {
	return z.set
}

// Value returns the current zoom level. While unset this is the derived
// default for the current canonical voxel size; it does not flip the state
// to SET.
func (z *Zoom) Value() float64 {
	if z.set {
		return z.value
	}
	return z.defaultValue()
}

// CanonicalVoxelSize returns the canonical voxel size the current value
// refers to.
func (z *Zoom) CanonicalVoxelSize() float64 {
	return z.lastSize
}

// SetValue assigns an explicit zoom level, remembering the current
// canonical voxel size for later rescaling. Non-finite or non-positive
// input is silently rejected.
func (z *Zoom) SetValue(v float64) bool {
	if !(v > 0) || math.IsInf(v, 0) {
		return false
	}
	z.set = true
	z.value = v
	z.lastSize = z.dims.RenderInfo().CanonicalVoxelPhysicalSize
	z.changed.Dispatch()
	return true
}

// SetPhysicalScale assigns a value expressed against a different reference
// canonical voxel size, converting so the physical scale is preserved:
// value*currentSize == scaleInCanonicalVoxels*refSize. This is what lets a
// relative-linked zoom hold a ratio of apparent sizes across views with
// different dimension selections.
func (z *Zoom) SetPhysicalScale(scaleInCanonicalVoxels, refCanonicalVoxelSize float64) bool {
	size := z.dims.RenderInfo().CanonicalVoxelPhysicalSize
	if size == 0 {
		return false
	}
	return z.SetValue(scaleInCanonicalVoxels * refCanonicalVoxelSize / size)
}

// StageLegacyValue stages an absolute-unit value from an older persisted
// format. It only influences the default derivation while unset.
func (z *Zoom) StageLegacyValue(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	z.legacy = v
	if !z.set {
		z.changed.Dispatch()
	}
}

// Reset returns the zoom to the unset state and clears any staged legacy
// value.
func (z *Zoom) Reset() {
	z.set = false
	z.value = math.NaN()
	z.legacy = math.NaN()
	z.lastSize = z.dims.RenderInfo().CanonicalVoxelPhysicalSize
	z.changed.Dispatch()
}

func (z *Zoom) defaultValue() float64 {
	info := z.dims.RenderInfo()
	size := info.CanonicalVoxelPhysicalSize

	switch z.kind {
	case CrossSectionZoom:
		if !math.IsNaN(z.legacy) {
			return z.legacy * legacyUnitScale / size
		}
		return 1

	default: // ProjectionZoom
		if !math.IsNaN(z.legacy) {
			return projectionLegacyFactor * legacyUnitScale * z.legacy / size
		}
		return projectionDefault(z.dims, info)
	}
}

// projectionDefault fits the displayed extent: the maximum per-dimension
// extent in canonical voxels, rounded up to the next power of two. Falls
// back to 1024 when the bounds are not finite.
func projectionDefault(dims *DisplayDimensions, info RenderInfo) float64 {
	space := dims.space.Get()
	if space == nil || !space.Valid || info.Rank == 0 {
		return 1024
	}
	maxExtent := 0.0
	for k := 0; k < info.Rank; k++ {
		extent := info.CanonicalVoxelFactors[k] * space.Extent(info.Indices[k])
		if extent > maxExtent {
			maxExtent = extent
		}
	}
	if !(maxExtent > 0) || math.IsInf(maxExtent, 0) || math.IsNaN(maxExtent) {
		return 1024
	}
	return math.Pow(2, math.Ceil(math.Log2(maxExtent)))
}

// ZoomRatio returns the physical-scale ratio a/b, the frozen delta used by
// relative-linked zooms. NaN when either zoom is unset and has no usable
// default.
func ZoomRatio(a, b *Zoom) float64 {
	return (a.Value() * a.CanonicalVoxelSize()) / (b.Value() * b.CanonicalVoxelSize())
}

// AssignZoom copies src's physical scale into dst, converting between
// canonical voxel sizes. An unset source leaves dst unset.
func AssignZoom(dst, src *Zoom) {
	if !src.IsSet() {
		dst.Reset()
		return
	}
	dst.SetPhysicalScale(src.Value(), src.CanonicalVoxelSize())
}
