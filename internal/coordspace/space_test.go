package coordspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSpace(t *testing.T, names []string, scales []float64, units []string) *Space {
	t.Helper()
	s, err := New(names, scales, units)
	require.NoError(t, err)
	return s
}

func TestNew_AssignsFreshIDs(t *testing.T) {
	s := mustSpace(t, []string{"x", "y"}, []float64{1, 2}, []string{"m", "m"})

	assert.True(t, s.Valid)
	assert.Equal(t, 2, s.Rank)
	assert.NotZero(t, s.IDs[0])
	assert.NotZero(t, s.IDs[1])
	assert.NotEqual(t, s.IDs[0], s.IDs[1])
}

func TestNew_IDsUniqueAcrossSpaces(t *testing.T) {
	a := mustSpace(t, []string{"x"}, []float64{1}, []string{"m"})
	b := mustSpace(t, []string{"x"}, []float64{1}, []string{"m"})
	assert.NotEqual(t, a.IDs[0], b.IDs[0])
}

func TestNew_RejectsMismatchedLengths(t *testing.T) {
	_, err := New([]string{"x", "y"}, []float64{1}, []string{"m", "m"})
	assert.Error(t, err)
}

func TestNew_RejectsInvalidScale(t *testing.T) {
	for _, scale := range []float64{0, -1} {
		_, err := New([]string{"x"}, []float64{scale}, []string{"m"})
		assert.Error(t, err, "scale %v", scale)
	}
}

func TestNew_RejectsDuplicateNames(t *testing.T) {
	_, err := New([]string{"x", "x"}, []float64{1, 1}, []string{"m", "m"})
	assert.Error(t, err)
}

func TestNew_RejectsDuplicateAfterNormalization(t *testing.T) {
	// NFC("é") == "é", so the two names collide.
	_, err := New([]string{"é", "é"}, []float64{1, 1}, []string{"m", "m"})
	assert.Error(t, err)
}

func TestDerive_CarriesIDsByName(t *testing.T) {
	prev := mustSpace(t, []string{"x", "y", "z"}, []float64{8, 8, 8}, []string{"m", "m", "m"})

	next, err := Derive(prev, []string{"z", "x", "w"}, []float64{4, 4, 4}, []string{"m", "m", "m"}, nil)
	require.NoError(t, err)

	// Reordered dimensions keep their identity; the renamed one does not.
	assert.Equal(t, prev.IDs[2], next.IDs[0])
	assert.Equal(t, prev.IDs[0], next.IDs[1])
	assert.NotContains(t, prev.IDs, next.IDs[2])
}

func TestDerive_RenameBreaksIdentity(t *testing.T) {
	prev := mustSpace(t, []string{"x"}, []float64{1}, []string{"m"})
	next, err := Derive(prev, []string{"x2"}, []float64{1}, []string{"m"}, nil)
	require.NoError(t, err)
	assert.NotEqual(t, prev.IDs[0], next.IDs[0])
}

func TestNormalizeName_NFC(t *testing.T) {
	assert.Equal(t, "é", NormalizeName("é"))
	assert.Equal(t, "x", NormalizeName("x"))
}

func TestSpace_IndexOfName_Normalizes(t *testing.T) {
	s := mustSpace(t, []string{"é", "y"}, []float64{1, 1}, []string{"m", "m"})
	assert.Equal(t, 0, s.IndexOfName("é"))
	assert.Equal(t, 1, s.IndexOfName("y"))
	assert.Equal(t, -1, s.IndexOfName("z"))
}

func TestSpace_IndexOfID(t *testing.T) {
	s := mustSpace(t, []string{"x", "y"}, []float64{1, 1}, []string{"m", "m"})
	assert.Equal(t, 1, s.IndexOfID(s.IDs[1]))
	assert.Equal(t, -1, s.IndexOfID(DimensionID(0)))
}

func TestInvalid_IsRankZero(t *testing.T) {
	s := Invalid()
	assert.False(t, s.Valid)
	assert.Equal(t, 0, s.Rank)
}
