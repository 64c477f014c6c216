// Package testutil provides shared helpers for navigation tests:
// deterministic coordinate-space builders and a dispatch recorder.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voxelview/voxelview/internal/coordspace"
)

// Space3D returns a standard three-dimensional nanometer space with
// dimensions x, y, z at 8nm per voxel.
func Space3D(t *testing.T) *coordspace.Space {
	t.Helper()
	return SpaceWithScales(t, []string{"x", "y", "z"}, []float64{8, 8, 8}, []string{"m", "m", "m"})
}

// SpaceWithScales builds a space, failing the test on construction errors.
func SpaceWithScales(t *testing.T, names []string, scales []float64, units []string) *coordspace.Space {
	t.Helper()
	space, err := coordspace.New(names, scales, units)
	require.NoError(t, err)
	return space
}

// BoundedSpace builds a space with explicit per-dimension bounds.
func BoundedSpace(t *testing.T, names []string, scales []float64, units []string, lower, upper []float64) *coordspace.Space {
	t.Helper()
	space, err := coordspace.NewWithBounds(names, scales, units, coordspace.BoundingBox{Lower: lower, Upper: upper})
	require.NoError(t, err)
	return space
}

// DeriveSpace builds a new space version from prev, carrying dimension IDs
// over by name.
func DeriveSpace(t *testing.T, prev *coordspace.Space, names []string, scales []float64, units []string) *coordspace.Space {
	t.Helper()
	space, err := coordspace.Derive(prev, names, scales, units, nil)
	require.NoError(t, err)
	return space
}
