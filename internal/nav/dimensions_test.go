package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxelview/voxelview/internal/testutil"
	"github.com/voxelview/voxelview/internal/watch"
)

func newTestDimensions(t *testing.T, names []string, scales []float64, units []string) (*DisplayDimensions, *ScaleFactors, *SpaceProvider) {
	t.Helper()
	provider := watch.NewValue(testutil.SpaceWithScales(t, names, scales, units))
	factors := NewScaleFactors(provider)
	return NewDisplayDimensions(provider, factors), factors, provider
}

func newTestDimensions3D(t *testing.T) (*DisplayDimensions, *ScaleFactors, *SpaceProvider) {
	t.Helper()
	return newTestDimensions(t,
		[]string{"x", "y", "z", "t"},
		[]float64{8, 8, 8, 1},
		[]string{"m", "m", "m", "s"})
}

func TestDisplayDimensions_DefaultIsFirstThree(t *testing.T) {
	d, _, _ := newTestDimensions3D(t)
	defer d.Release()

	assert.True(t, d.IsDefault())
	assert.Equal(t, 3, d.Rank())
	assert.Equal(t, []string{"x", "y", "z"}, d.Names())
}

func TestDisplayDimensions_DefaultLowRankSpace(t *testing.T) {
	d, _, _ := newTestDimensions(t, []string{"x", "y"}, []float64{1, 1}, []string{"m", "m"})
	defer d.Release()

	assert.Equal(t, 2, d.Rank())
	assert.Equal(t, []string{"x", "y"}, d.Names())
}

func TestDisplayDimensions_SetIndices_ClearsDefault(t *testing.T) {
	d, _, _ := newTestDimensions3D(t)
	defer d.Release()

	require.NoError(t, d.SetIndices([]int{3, 0}))
	assert.False(t, d.IsDefault())
	assert.Equal(t, []string{"t", "x"}, d.Names())
}

func TestDisplayDimensions_SetIndices_StructuralErrors(t *testing.T) {
	d, _, _ := newTestDimensions3D(t)
	defer d.Release()

	err := d.SetIndices([]int{0, 1, 2, 3})
	require.Error(t, err)
	assert.True(t, IsStructural(err))

	assert.Error(t, d.SetIndices([]int{0, 0}))
	assert.Error(t, d.SetIndices([]int{7}))
	assert.Error(t, d.SetIndices([]int{-1}))
}

func TestDisplayDimensions_SetNames_SkipsUnknown(t *testing.T) {
	d, _, _ := newTestDimensions3D(t)
	defer d.Release()

	require.NoError(t, d.SetNames([]string{"z", "bogus", "x"}))
	assert.Equal(t, []string{"z", "x"}, d.Names())
	assert.False(t, d.IsDefault())
}

func TestDisplayDimensions_SetNames_AllUnknownRevertsToDefault(t *testing.T) {
	d, _, _ := newTestDimensions3D(t)
	defer d.Release()
	require.NoError(t, d.SetIndices([]int{3}))

	require.NoError(t, d.SetNames([]string{"bogus"}))
	assert.True(t, d.IsDefault())
	assert.Equal(t, []string{"x", "y", "z"}, d.Names())
}

func TestDisplayDimensions_SetNames_OverLimitIsStructural(t *testing.T) {
	d, _, _ := newTestDimensions3D(t)
	defer d.Release()
	err := d.SetNames([]string{"x", "y", "z", "t"})
	require.Error(t, err)
	assert.True(t, IsStructural(err))
}

func TestDisplayDimensions_SpaceUpgrade_KeepsSurvivors(t *testing.T) {
	provider := watch.NewValue(testutil.SpaceWithScales(t,
		[]string{"x", "y", "z"}, []float64{1, 1, 1}, []string{"m", "m", "m"}))
	factors := NewScaleFactors(provider)
	d := NewDisplayDimensions(provider, factors)
	defer d.Release()
	require.NoError(t, d.SetNames([]string{"z", "x"}))

	// x vanishes; z survives at a new index.
	v2 := testutil.DeriveSpace(t, provider.Get(),
		[]string{"y", "z"}, []float64{1, 1}, []string{"m", "m"})
	provider.Set(v2)

	assert.False(t, d.IsDefault())
	assert.Equal(t, []string{"z"}, d.Names())
}

func TestDisplayDimensions_SpaceUpgrade_AllVanishedFallsToDefault(t *testing.T) {
	provider := watch.NewValue(testutil.SpaceWithScales(t,
		[]string{"x", "y"}, []float64{1, 1}, []string{"m", "m"}))
	factors := NewScaleFactors(provider)
	d := NewDisplayDimensions(provider, factors)
	defer d.Release()
	require.NoError(t, d.SetNames([]string{"y"}))

	v2 := testutil.DeriveSpace(t, provider.Get(),
		[]string{"a", "b"}, []float64{1, 1}, []string{"m", "m"})
	provider.Set(v2)

	assert.True(t, d.IsDefault())
	assert.Equal(t, []string{"a", "b"}, d.Names())
}

func TestDisplayDimensions_RenderInfo_CanonicalVoxel(t *testing.T) {
	d, factors, _ := newTestDimensions(t,
		[]string{"x", "y", "z"}, []float64{4e-9, 4e-9, 40e-9}, []string{"m", "m", "m"})
	defer d.Release()

	info := d.RenderInfo()
	assert.Equal(t, 3, info.Rank)
	assert.Equal(t, 4e-9, info.CanonicalVoxelPhysicalSize)
	assert.Equal(t, "m", info.CanonicalVoxelUnit)
	assert.Equal(t, 1.0, info.CanonicalVoxelFactors[0])
	assert.Equal(t, 1.0, info.CanonicalVoxelFactors[1])
	assert.InEpsilon(t, 10.0, info.CanonicalVoxelFactors[2], 1e-12)

	// A scale factor shifts the physical scales and thus the canonical size.
	require.True(t, factors.SetFactor(0, 0.5))
	info = d.RenderInfo()
	assert.Equal(t, 2e-9, info.CanonicalVoxelPhysicalSize)
	assert.Equal(t, 1.0, info.CanonicalVoxelFactors[0])
	assert.Equal(t, 2.0, info.CanonicalVoxelFactors[1])
	assert.InEpsilon(t, 20.0, info.CanonicalVoxelFactors[2], 1e-12)
}

func TestDisplayDimensions_RenderInfo_RankZero(t *testing.T) {
	provider := watch.NewValue(testutil.SpaceWithScales(t, []string{"x"}, []float64{1}, []string{"m"}))
	factors := NewScaleFactors(provider)
	d := NewDisplayDimensions(provider, factors)
	defer d.Release()

	provider.Set(nil)
	info := d.RenderInfo()
	assert.Equal(t, 0, info.Rank)
	assert.Equal(t, 1.0, info.CanonicalVoxelPhysicalSize)
	assert.Equal(t, "", info.CanonicalVoxelUnit)
}

func TestAssignDisplayDimensions(t *testing.T) {
	provider := watch.NewValue(testutil.Space3D(t))
	factors := NewScaleFactors(provider)
	src := NewDisplayDimensions(provider, factors)
	defer src.Release()
	dst := NewDisplayDimensions(provider, factors)
	defer dst.Release()

	require.NoError(t, src.SetIndices([]int{2, 1}))
	AssignDisplayDimensions(dst, src)
	assert.Equal(t, []string{"z", "y"}, dst.Names())

	src.Reset()
	AssignDisplayDimensions(dst, src)
	assert.True(t, dst.IsDefault())
}
