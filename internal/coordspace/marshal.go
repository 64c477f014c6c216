package coordspace

import (
	"encoding/json"
	"fmt"
	"math"
)

// dimensionJSON is the wire form of one dimension. Infinite bounds are
// omitted rather than serialized, so the JSON stays portable.
type dimensionJSON struct {
	Name  string   `json:"name"`
	Scale float64  `json:"scale"`
	Unit  string   `json:"unit"`
	Lower *float64 `json:"lower,omitempty"`
	Upper *float64 `json:"upper,omitempty"`
}

type spaceJSON struct {
	Dimensions []dimensionJSON `json:"dimensions"`
}

// MarshalJSON serializes the space as a dimension list.
// Dimension IDs are process-local and never serialized; identity across a
// decode round-trip is re-established by name (see Decode).
func (s *Space) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	dims := make([]dimensionJSON, s.Rank)
	for i := 0; i < s.Rank; i++ {
		d := dimensionJSON{Name: s.Names[i], Scale: s.Scales[i], Unit: s.Units[i]}
		if lower := s.Bounds.Lower[i]; !math.IsInf(lower, 0) {
			d.Lower = &lower
		}
		if upper := s.Bounds.Upper[i]; !math.IsInf(upper, 0) {
			d.Upper = &upper
		}
		dims[i] = d
	}
	return json.Marshal(spaceJSON{Dimensions: dims})
}

// Decode parses a serialized space, carrying dimension IDs over from prev
// by name. prev may be nil for a fresh decode.
func Decode(data []byte, prev *Space) (*Space, error) {
	var raw spaceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("coordspace: decode: %w", err)
	}
	if len(raw.Dimensions) == 0 {
		return nil, fmt.Errorf("coordspace: decode: no dimensions")
	}

	rank := len(raw.Dimensions)
	names := make([]string, rank)
	scales := make([]float64, rank)
	units := make([]string, rank)
	bounds := UnboundedBox(rank)
	for i, d := range raw.Dimensions {
		names[i] = d.Name
		scales[i] = d.Scale
		units[i] = d.Unit
		if d.Lower != nil {
			bounds.Lower[i] = *d.Lower
		}
		if d.Upper != nil {
			bounds.Upper[i] = *d.Upper
		}
	}
	return Derive(prev, names, scales, units, &bounds)
}
