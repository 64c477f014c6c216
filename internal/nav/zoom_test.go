package nav

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxelview/voxelview/internal/testutil"
	"github.com/voxelview/voxelview/internal/watch"
)

// zoomFixture wires a zoom to a live display-dimension selection.
type zoomFixture struct {
	provider *SpaceProvider
	factors  *ScaleFactors
	dims     *DisplayDimensions
	zoom     *Zoom
}

func newZoomFixture(t *testing.T, kind ZoomKind) *zoomFixture {
	t.Helper()
	provider := watch.NewValue(testutil.SpaceWithScales(t,
		[]string{"x", "y", "z"}, []float64{4e-9, 4e-9, 40e-9}, []string{"m", "m", "m"}))
	factors := NewScaleFactors(provider)
	dims := NewDisplayDimensions(provider, factors)
	return &zoomFixture{
		provider: provider,
		factors:  factors,
		dims:     dims,
		zoom:     NewZoom(dims, kind),
	}
}

func (f *zoomFixture) release() {
	f.zoom.Release()
	f.dims.Release()
	f.factors.Release()
}

func TestZoom_UnsetDefaultIsOne(t *testing.T) {
	f := newZoomFixture(t, CrossSectionZoom)
	defer f.release()

	assert.False(t, f.zoom.IsSet())
	assert.Equal(t, 1.0, f.zoom.Value())
	// Reading the default does not flip the state.
	assert.False(t, f.zoom.IsSet())
}

func TestZoom_SetValue(t *testing.T) {
	f := newZoomFixture(t, CrossSectionZoom)
	defer f.release()
	rec := testutil.Observe(f.zoom.Changed())

	require.True(t, f.zoom.SetValue(8))
	assert.True(t, f.zoom.IsSet())
	assert.Equal(t, 8.0, f.zoom.Value())
	assert.Equal(t, 1, rec.Count())
}

func TestZoom_SetValue_Rejections(t *testing.T) {
	f := newZoomFixture(t, CrossSectionZoom)
	defer f.release()

	assert.False(t, f.zoom.SetValue(0))
	assert.False(t, f.zoom.SetValue(-1))
	assert.False(t, f.zoom.SetValue(math.NaN()))
	assert.False(t, f.zoom.SetValue(math.Inf(1)))
	assert.False(t, f.zoom.IsSet())
}

func TestZoom_RescalesOnCanonicalVoxelChange(t *testing.T) {
	f := newZoomFixture(t, CrossSectionZoom)
	defer f.release()
	require.True(t, f.zoom.SetValue(8))
	size1 := f.zoom.CanonicalVoxelSize()

	// Selecting only the coarse dimension multiplies the canonical voxel
	// size by 10; the value shrinks to preserve physical scale.
	require.NoError(t, f.dims.SetNames([]string{"z"}))
	size2 := f.zoom.CanonicalVoxelSize()
	assert.InEpsilon(t, 10.0, size2/size1, 1e-12)
	assert.InEpsilon(t, 0.8, f.zoom.Value(), 1e-12)

	// Physical scale value*size is invariant.
	assert.InEpsilon(t, 8*size1, f.zoom.Value()*f.zoom.CanonicalVoxelSize(), 1e-12)
}

func TestZoom_UnsetDoesNotRescale(t *testing.T) {
	f := newZoomFixture(t, CrossSectionZoom)
	defer f.release()

	require.NoError(t, f.dims.SetNames([]string{"z"}))
	assert.False(t, f.zoom.IsSet())
	assert.Equal(t, 1.0, f.zoom.Value())
}

func TestZoom_SetPhysicalScale(t *testing.T) {
	f := newZoomFixture(t, CrossSectionZoom)
	defer f.release()

	size := f.zoom.CanonicalVoxelSize()
	// A scale of 4 against a reference voxel twice as large doubles the
	// local value.
	require.True(t, f.zoom.SetPhysicalScale(4, 2*size))
	assert.InEpsilon(t, 8.0, f.zoom.Value(), 1e-12)
}

func TestZoom_Reset(t *testing.T) {
	f := newZoomFixture(t, CrossSectionZoom)
	defer f.release()
	require.True(t, f.zoom.SetValue(8))

	f.zoom.Reset()
	assert.False(t, f.zoom.IsSet())
	assert.Equal(t, 1.0, f.zoom.Value())
}

func TestZoom_StageLegacyValue_CrossSection(t *testing.T) {
	f := newZoomFixture(t, CrossSectionZoom)
	defer f.release()

	// 8nm per pixel over 4nm canonical voxels is 2 voxels per pixel.
	f.zoom.StageLegacyValue(8)
	assert.False(t, f.zoom.IsSet())
	assert.InEpsilon(t, 2.0, f.zoom.Value(), 1e-12)

	// An explicit value overrides the staged legacy default.
	require.True(t, f.zoom.SetValue(5))
	assert.Equal(t, 5.0, f.zoom.Value())
}

func TestZoom_StageLegacyValue_Projection(t *testing.T) {
	f := newZoomFixture(t, ProjectionZoom)
	defer f.release()

	f.zoom.StageLegacyValue(4000)
	want := projectionLegacyFactor * legacyUnitScale * 4000 / f.zoom.CanonicalVoxelSize()
	assert.InEpsilon(t, want, f.zoom.Value(), 1e-12)
}

func TestZoom_ProjectionDefault_PowerOfTwoExtent(t *testing.T) {
	space := testutil.BoundedSpace(t,
		[]string{"x", "y"}, []float64{1e-9, 1e-9}, []string{"m", "m"},
		[]float64{0, 0}, []float64{700, 300})
	provider := watch.NewValue(space)
	factors := NewScaleFactors(provider)
	dims := NewDisplayDimensions(provider, factors)
	defer dims.Release()
	z := NewZoom(dims, ProjectionZoom)
	defer z.Release()

	// Largest extent 700 rounds up to 1024.
	assert.Equal(t, 1024.0, z.Value())
}

func TestZoom_ProjectionDefault_UnboundedFallsBackTo1024(t *testing.T) {
	f := newZoomFixture(t, ProjectionZoom)
	defer f.release()
	assert.Equal(t, 1024.0, f.zoom.Value())
}

func TestZoomRatio(t *testing.T) {
	f := newZoomFixture(t, CrossSectionZoom)
	defer f.release()
	g := NewZoom(f.dims, CrossSectionZoom)
	defer g.Release()

	require.True(t, f.zoom.SetValue(8))
	require.True(t, g.SetValue(2))
	assert.InEpsilon(t, 4.0, ZoomRatio(f.zoom, g), 1e-12)
}

func TestAssignZoom(t *testing.T) {
	f := newZoomFixture(t, CrossSectionZoom)
	defer f.release()
	g := NewZoom(f.dims, CrossSectionZoom)
	defer g.Release()

	require.True(t, f.zoom.SetValue(8))
	AssignZoom(g, f.zoom)
	assert.InEpsilon(t, 8.0, g.Value(), 1e-12)

	// An unset source resets the destination.
	f.zoom.Reset()
	AssignZoom(g, f.zoom)
	assert.False(t, g.IsSet())
}
