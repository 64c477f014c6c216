package nav

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxelview/voxelview/internal/coordspace"
	"github.com/voxelview/voxelview/internal/testutil"
	"github.com/voxelview/voxelview/internal/watch"
)

func newTestPosition(t *testing.T) (*Position, *SpaceProvider) {
	t.Helper()
	provider := watch.NewValue(testutil.Space3D(t))
	return NewPosition(provider), provider
}

func TestPosition_FirstReadInitializesAtCenter(t *testing.T) {
	space := testutil.BoundedSpace(t,
		[]string{"x", "y"}, []float64{1, 1}, []string{"m", "m"},
		[]float64{0, 100}, []float64{100, 300})
	p := NewPosition(watch.NewValue(space))
	defer p.Release()

	assert.Equal(t, []float32{50, 200}, p.Coordinates())
	assert.True(t, p.Valid())
}

func TestPosition_SetCoordinates(t *testing.T) {
	p, _ := newTestPosition(t)
	defer p.Release()
	rec := testutil.Observe(p.Changed())

	require.True(t, p.SetCoordinates([]float32{1, 2, 3}))
	assert.Equal(t, []float32{1, 2, 3}, p.Coordinates())
	assert.Equal(t, 1, rec.Count())
}

func TestPosition_SetCoordinates_Rejections(t *testing.T) {
	p, _ := newTestPosition(t)
	defer p.Release()

	assert.False(t, p.SetCoordinates([]float32{1, 2}), "rank mismatch")
	assert.False(t, p.SetCoordinates([]float32{1, float32(math.NaN()), 3}), "NaN")
	assert.False(t, p.SetCoordinates([]float32{1, float32(math.Inf(1)), 3}), "Inf")

	invalid := NewPosition(watch.NewValue(coordspace.Invalid()))
	defer invalid.Release()
	assert.False(t, invalid.SetCoordinates([]float32{1}))
}

func TestPosition_SetCoordinate(t *testing.T) {
	p, _ := newTestPosition(t)
	defer p.Release()
	require.True(t, p.SetCoordinates([]float32{1, 2, 3}))

	require.True(t, p.SetCoordinate(1, 9))
	assert.Equal(t, []float32{1, 9, 3}, p.Coordinates())

	assert.False(t, p.SetCoordinate(3, 1), "index out of range")
	assert.False(t, p.SetCoordinate(0, float32(math.NaN())))
}

func TestPosition_SpaceUpgrade_RescalesMatchingDimensions(t *testing.T) {
	v1 := testutil.SpaceWithScales(t, []string{"x", "y", "z"}, []float64{8, 8, 8}, []string{"m", "m", "m"})
	provider := watch.NewValue(v1)
	p := NewPosition(provider)
	defer p.Release()
	require.True(t, p.SetCoordinates([]float32{5, 5, 5}))

	// x keeps its scale, y doubles its voxel size, z is renamed away.
	v2 := testutil.DeriveSpace(t, v1, []string{"x", "y", "w"}, []float64{8, 16, 8}, []string{"m", "m", "m"})
	provider.Set(v2)

	assert.Equal(t, []float32{5, 2.5, 0}, p.Coordinates())
}

func TestPosition_SpaceUpgrade_ReorderFollowsIdentity(t *testing.T) {
	v1 := testutil.SpaceWithScales(t, []string{"x", "y"}, []float64{1, 1}, []string{"m", "m"})
	provider := watch.NewValue(v1)
	p := NewPosition(provider)
	defer p.Release()
	require.True(t, p.SetCoordinates([]float32{7, 11}))

	provider.Set(testutil.DeriveSpace(t, v1, []string{"y", "x"}, []float64{1, 1}, []string{"m", "m"}))
	assert.Equal(t, []float32{11, 7}, p.Coordinates())
}

func TestPosition_InvalidSpaceClearsCoordinates(t *testing.T) {
	p, provider := newTestPosition(t)
	defer p.Release()
	require.True(t, p.SetCoordinates([]float32{1, 2, 3}))

	provider.Set(coordspace.Invalid())
	assert.False(t, p.Valid())
	assert.Empty(t, p.Coordinates())
}

func TestPosition_ChangedFiresOnSpaceReplace(t *testing.T) {
	p, provider := newTestPosition(t)
	defer p.Release()
	rec := testutil.Observe(p.Changed())

	provider.Set(testutil.Space3D(t))
	assert.Equal(t, 1, rec.Count())
}

func TestPosition_Reset_ReinitializesOnNextRead(t *testing.T) {
	space := testutil.BoundedSpace(t,
		[]string{"x"}, []float64{1}, []string{"m"},
		[]float64{0}, []float64{10})
	p := NewPosition(watch.NewValue(space))
	defer p.Release()
	require.True(t, p.SetCoordinates([]float32{3}))

	p.Reset()
	assert.Equal(t, []float32{5}, p.Coordinates())
}

func TestPosition_SnapToVoxel(t *testing.T) {
	p, _ := newTestPosition(t)
	defer p.Release()
	require.True(t, p.SetCoordinates([]float32{1.4, 2.6, 3.5}))

	p.SnapToVoxel()
	assert.Equal(t, []float32{1, 3, 4}, p.Coordinates())
}

func TestOffsetBetween(t *testing.T) {
	a, provider := newTestPosition(t)
	defer a.Release()
	b := NewPosition(provider)
	defer b.Release()
	require.True(t, a.SetCoordinates([]float32{5, 6, 7}))
	require.True(t, b.SetCoordinates([]float32{1, 2, 3}))

	assert.Equal(t, []float64{4, 4, 4}, OffsetBetween(a, b))
}

func TestOffsetBetween_RankMismatchIsNil(t *testing.T) {
	a, _ := newTestPosition(t)
	defer a.Release()
	b := NewPosition(watch.NewValue(testutil.SpaceWithScales(t, []string{"x"}, []float64{1}, []string{"m"})))
	defer b.Release()
	require.True(t, a.SetCoordinates([]float32{1, 2, 3}))
	require.True(t, b.SetCoordinates([]float32{1}))

	assert.Nil(t, OffsetBetween(a, b))
}

func TestApplyVoxelOffset(t *testing.T) {
	src, provider := newTestPosition(t)
	defer src.Release()
	dst := NewPosition(provider)
	defer dst.Release()
	require.True(t, src.SetCoordinates([]float32{10, 10, 10}))

	ApplyVoxelOffset(dst, src, []float64{1, 2, 3}, 1)
	assert.Equal(t, []float32{11, 12, 13}, dst.Coordinates())

	ApplyVoxelOffset(dst, src, []float64{1, 2, 3}, -1)
	assert.Equal(t, []float32{9, 8, 7}, dst.Coordinates())

	// Empty offsets are a no-op.
	ApplyVoxelOffset(dst, src, nil, 1)
	assert.Equal(t, []float32{9, 8, 7}, dst.Coordinates())
}

func TestApplySpatialOffset(t *testing.T) {
	// 8nm voxels: a 16nm spatial offset is 2 voxels.
	space := testutil.SpaceWithScales(t, []string{"x"}, []float64{8e-9}, []string{"m"})
	provider := watch.NewValue(space)
	src := NewPosition(provider)
	defer src.Release()
	dst := NewPosition(provider)
	defer dst.Release()
	require.True(t, src.SetCoordinates([]float32{1}))

	ApplySpatialOffset(dst, src, []float64{16}, 1)
	assert.Equal(t, []float32{3}, dst.Coordinates())
}

func TestAssignPosition(t *testing.T) {
	src, provider := newTestPosition(t)
	defer src.Release()
	dst := NewPosition(provider)
	defer dst.Release()
	require.True(t, src.SetCoordinates([]float32{4, 5, 6}))

	AssignPosition(dst, src)
	assert.Equal(t, []float32{4, 5, 6}, dst.Coordinates())
}
