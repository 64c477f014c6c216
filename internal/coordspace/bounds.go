package coordspace

import "math"

// BoundingBox holds per-dimension lower/upper voxel bounds.
// Either bound may be infinite (unbounded dimension).
type BoundingBox struct {
	Lower []float64
	Upper []float64
}

// UnboundedBox returns a bounding box with (-Inf, +Inf) for every dimension.
func UnboundedBox(rank int) BoundingBox {
	lower := make([]float64, rank)
	upper := make([]float64, rank)
	for i := 0; i < rank; i++ {
		lower[i] = math.Inf(-1)
		upper[i] = math.Inf(1)
	}
	return BoundingBox{Lower: lower, Upper: upper}
}

// Center returns the bounding-box center for dimension i.
//
// Contract: midpoint when both bounds are finite; the finite lower bound
// when only it is finite; the finite upper bound when only it is finite;
// 0 when the dimension is fully unbounded. This is the default value a
// remapped position takes for a dimension with no prior identity match.
func (s *Space) Center(i int) float64 {
	lower := s.Bounds.Lower[i]
	upper := s.Bounds.Upper[i]
	switch {
	case !math.IsInf(lower, 0) && !math.IsInf(upper, 0):
		return (lower + upper) / 2
	case !math.IsInf(lower, 0):
		return lower
	case !math.IsInf(upper, 0):
		return upper
	default:
		return 0
	}
}

// Extent returns upper-lower for dimension i. Infinite if either bound is.
func (s *Space) Extent(i int) float64 {
	return s.Bounds.Upper[i] - s.Bounds.Lower[i]
}
