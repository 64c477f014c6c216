package nav

import (
	"math"

	"github.com/voxelview/voxelview/internal/coordspace"
	"github.com/voxelview/voxelview/internal/watch"
)

// ScaleFactors holds one extra magnification factor per dimension, applied
// on top of the dimension's physical scale when deriving render info.
//
// Remapping on a space change matches by dimension ID like Position does,
// but unmatched dimensions default to 1 rather than a bounds-derived value:
// the no-op magnification is 1.
type ScaleFactors struct {
	space   *SpaceProvider
	cur     *coordspace.Space
	factors []float64
	changed watch.Signal
	sub     watch.Subscription
}

// NewScaleFactors creates scale factors bound to a space provider, all 1.
func NewScaleFactors(space *SpaceProvider) *ScaleFactors {
	s := &ScaleFactors{space: space}
	s.sub = space.Changed().Add(s.changed.Dispatch)
	return s
}

// Changed returns the change signal.
func (s *ScaleFactors) Changed() *watch.Signal {
	return &s.changed
}

// Release detaches from the space provider.
func (s *ScaleFactors) Release() {
	s.sub.Remove()
}

func (s *ScaleFactors) handleSpaceChanged() {
	space := s.space.Get()
	if space == s.cur {
		return
	}
	prev := s.cur
	s.cur = space

	if space == nil || !space.Valid {
		s.factors = nil
		return
	}

	next := make([]float64, space.Rank)
	for i := range next {
		next[i] = 1
	}
	if prev != nil && prev.Valid {
		for i := 0; i < space.Rank; i++ {
			if j := prev.IndexOfID(space.IDs[i]); j >= 0 && j < len(s.factors) {
				next[i] = s.factors[j]
			}
		}
	}
	s.factors = next
}

// Factors returns the per-dimension factors for the current space.
// The returned slice is owned by the receiver.
func (s *ScaleFactors) Factors() []float64 {
	s.handleSpaceChanged()
	return s.factors
}

// SetFactor updates one dimension's factor. Non-positive or non-finite
// values are silently rejected.
func (s *ScaleFactors) SetFactor(i int, f float64) bool {
	s.handleSpaceChanged()
	if i < 0 || i >= len(s.factors) {
		return false
	}
	if !(f > 0) || math.IsInf(f, 0) {
		return false
	}
	s.factors[i] = f
	s.changed.Dispatch()
	return true
}

// SetFactors replaces the whole factor vector. Rank mismatches and invalid
// entries are silently rejected.
func (s *ScaleFactors) SetFactors(f []float64) bool {
	s.handleSpaceChanged()
	if len(f) != len(s.factors) || len(f) == 0 {
		return false
	}
	for _, v := range f {
		if !(v > 0) || math.IsInf(v, 0) {
			return false
		}
	}
	s.factors = append(s.factors[:0:0], f...)
	s.changed.Dispatch()
	return true
}

// Reset restores every factor to 1.
func (s *ScaleFactors) Reset() {
	s.handleSpaceChanged()
	for i := range s.factors {
		s.factors[i] = 1
	}
	s.changed.Dispatch()
}

// AssignScaleFactors copies src's factors into dst.
func AssignScaleFactors(dst, src *ScaleFactors) {
	f := src.Factors()
	if len(f) == 0 {
		return
	}
	dst.SetFactors(f)
}
