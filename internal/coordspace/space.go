package coordspace

import (
	"fmt"
	"math"
	"sync/atomic"

	"golang.org/x/text/unicode/norm"
)

// DimensionID is an opaque, process-unique dimension identity.
// IDs are stable across space replacements when carried over by name;
// they are never reused within a process.
type DimensionID uint64

// idAllocator hands out dimension IDs. Monotonic so an ID can never collide
// with one from an earlier space version.
var idAllocator atomic.Uint64

// nextID allocates a fresh dimension ID. The first allocated ID is 1;
// the zero DimensionID means "no identity".
func nextID() DimensionID {
	return DimensionID(idAllocator.Add(1))
}

// Space describes one version of an N-dimensional coordinate space.
//
// All per-dimension slices have length Rank. Fields are exported for read
// access but a Space must be treated as immutable after construction;
// derive a new Space instead of mutating.
type Space struct {
	Rank   int
	IDs    []DimensionID
	Names  []string
	Scales []float64 // physical units per voxel
	Units  []string
	Bounds BoundingBox
	Valid  bool
}

// Invalid returns the canonical invalid (rank-0, not-yet-loaded) space.
func Invalid() *Space {
	return &Space{Valid: false}
}

// New constructs a valid space with fresh IDs for every dimension.
// Bounds default to (-Inf, +Inf) per dimension.
//
// Returns an error if the slice lengths disagree, a scale is not positive
// and finite, or a normalized name repeats.
func New(names []string, scales []float64, units []string) (*Space, error) {
	return derive(nil, names, scales, units, nil)
}

// NewWithBounds constructs a valid space with explicit bounds.
func NewWithBounds(names []string, scales []float64, units []string, bounds BoundingBox) (*Space, error) {
	return derive(nil, names, scales, units, &bounds)
}

// Derive constructs a new space version from prev, carrying dimension IDs
// over by normalized name: a dimension in the new space whose name matches
// one in prev keeps that dimension's ID, all others get fresh IDs. This is
// how identity survives rescaling and reordering while renames break it.
func Derive(prev *Space, names []string, scales []float64, units []string, bounds *BoundingBox) (*Space, error) {
	return derive(prev, names, scales, units, bounds)
}

func derive(prev *Space, names []string, scales []float64, units []string, bounds *BoundingBox) (*Space, error) {
	rank := len(names)
	if len(scales) != rank || len(units) != rank {
		return nil, fmt.Errorf("coordspace: %d names but %d scales and %d units", rank, len(scales), len(units))
	}

	normalized := make([]string, rank)
	seen := make(map[string]bool, rank)
	for i, name := range names {
		n := NormalizeName(name)
		if n == "" {
			return nil, fmt.Errorf("coordspace: dimension %d has an empty name", i)
		}
		if seen[n] {
			return nil, fmt.Errorf("coordspace: duplicate dimension name %q", n)
		}
		seen[n] = true
		normalized[i] = n
	}

	for i, s := range scales {
		if !(s > 0) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("coordspace: dimension %q has invalid scale %v", normalized[i], s)
		}
	}

	ids := make([]DimensionID, rank)
	for i, n := range normalized {
		if prev != nil && prev.Valid {
			if j := prev.IndexOfName(n); j >= 0 {
				ids[i] = prev.IDs[j]
				continue
			}
		}
		ids[i] = nextID()
	}

	b := UnboundedBox(rank)
	if bounds != nil {
		if len(bounds.Lower) != rank || len(bounds.Upper) != rank {
			return nil, fmt.Errorf("coordspace: bounds rank %d does not match %d dimensions", len(bounds.Lower), rank)
		}
		b = *bounds
	}

	return &Space{
		Rank:   rank,
		IDs:    ids,
		Names:  append([]string(nil), normalized...),
		Scales: append([]float64(nil), scales...),
		Units:  append([]string(nil), units...),
		Bounds: b,
		Valid:  true,
	}, nil
}

// NormalizeName returns the NFC-normalized form of a dimension name.
// All name matching in this package goes through this, so visually
// identical names with different Unicode composition compare equal.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}

// IndexOfID returns the index of the dimension with the given ID, or -1.
func (s *Space) IndexOfID(id DimensionID) int {
	for i, d := range s.IDs {
		if d == id {
			return i
		}
	}
	return -1
}

// IndexOfName returns the index of the dimension with the given name
// (NFC-normalized before comparison), or -1.
func (s *Space) IndexOfName(name string) int {
	n := NormalizeName(name)
	for i, existing := range s.Names {
		if existing == n {
			return i
		}
	}
	return -1
}
