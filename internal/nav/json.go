package nav

import (
	"math"

	"github.com/voxelview/voxelview/internal/geom"
)

// The Encode/Restore pair on every entity forms its round-trip contract:
// EncodeState returns nil for the default value (absent in serialized
// form), and RestoreState tolerates nil by resetting. Malformed input
// recovers to the default instead of surfacing, with one exception: a
// display-dimension selection over the hard limit is a structural error.

// asFloats coerces a decoded JSON value into a float slice.
func asFloats(v any) ([]float64, bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]float64, len(arr))
	for i, elem := range arr {
		f, ok := asFloat(elem)
		if !ok {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func asStrings(v any) ([]string, bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, len(arr))
	for i, elem := range arr {
		s, ok := elem.(string)
		if !ok {
			return nil, false
		}
		out[i] = s
	}
	return out, true
}

// EncodeState returns the voxel coordinates as a float array, or nil when
// the position is invalid or empty.
func (p *Position) EncodeState() any {
	coords := p.Coordinates()
	if len(coords) == 0 {
		return nil
	}
	out := make([]any, len(coords))
	for i, c := range coords {
		out[i] = float64(c)
	}
	return out
}

// RestoreState restores from a decoded JSON value. Absent input resets;
// malformed or rank-mismatched input also resets rather than failing.
func (p *Position) RestoreState(v any) error {
	if v == nil {
		p.Reset()
		return nil
	}
	floats, ok := asFloats(v)
	if !ok {
		p.Reset()
		return nil
	}
	coords := make([]float32, len(floats))
	for i, f := range floats {
		coords[i] = float32(f)
	}
	if !p.SetCoordinates(coords) {
		p.Reset()
	}
	return nil
}

// EncodeState returns the quaternion as a 4-element array, or nil for the
// identity.
func (o *Orientation) EncodeState() any {
	if o.q.IsIdentity() {
		return nil
	}
	return []any{float64(o.q[0]), float64(o.q[1]), float64(o.q[2]), float64(o.q[3])}
}

// RestoreState restores from a decoded JSON value, recovering to the
// identity on any malformed input.
func (o *Orientation) RestoreState(v any) error {
	if v == nil {
		o.Reset()
		return nil
	}
	floats, ok := asFloats(v)
	if !ok || len(floats) != 4 {
		o.Reset()
		return nil
	}
	q := geom.Quat{float32(floats[0]), float32(floats[1]), float32(floats[2]), float32(floats[3])}
	if !o.Set(q) {
		o.Reset()
	}
	return nil
}

// EncodeState returns a dimension-name to factor map, omitting factors
// equal to 1, or nil when every factor is 1.
func (s *ScaleFactors) EncodeState() any {
	s.handleSpaceChanged()
	space := s.cur
	if space == nil || !space.Valid {
		return nil
	}
	out := make(map[string]any)
	for i, f := range s.factors {
		if f != 1 {
			out[space.Names[i]] = f
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// RestoreState restores factors by dimension name. Unknown names and
// invalid factors are skipped; absent or malformed input resets to all 1.
func (s *ScaleFactors) RestoreState(v any) error {
	s.Reset()
	if v == nil {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	s.handleSpaceChanged()
	space := s.cur
	if space == nil || !space.Valid {
		return nil
	}
	for name, raw := range m {
		f, ok := asFloat(raw)
		if !ok {
			continue
		}
		if i := space.IndexOfName(name); i >= 0 {
			s.SetFactor(i, f)
		}
	}
	return nil
}

// EncodeState returns the selected dimension names, or nil when the sticky
// default flag is set (compact serialized form).
func (d *DisplayDimensions) EncodeState() any {
	if d.IsDefault() {
		return nil
	}
	names := d.Names()
	out := make([]any, len(names))
	for i, n := range names {
		out[i] = n
	}
	return out
}

// RestoreState restores an explicit selection by name. More than three
// names is a structural error raised to the caller; other malformed input
// resets to the default selection.
func (d *DisplayDimensions) RestoreState(v any) error {
	if v == nil {
		d.Reset()
		return nil
	}
	names, ok := asStrings(v)
	if !ok {
		d.Reset()
		return nil
	}
	return d.SetNames(names)
}

// EncodeState returns the explicit zoom level, or nil while unset.
func (z *Zoom) EncodeState() any {
	if !z.set {
		return nil
	}
	return z.value
}

// RestoreState restores an explicit zoom level, recovering to the unset
// default on malformed input.
func (z *Zoom) RestoreState(v any) error {
	if v == nil {
		z.Reset()
		return nil
	}
	f, ok := asFloat(v)
	if !ok || math.IsNaN(f) {
		z.Reset()
		return nil
	}
	if !z.SetValue(f) {
		z.Reset()
	}
	return nil
}

// EncodeState assembles the composite state document, omitting every
// component that is at its default.
func (s *State) EncodeState() any {
	out := make(map[string]any)
	if v := s.Pose.Position.EncodeState(); v != nil {
		out["position"] = v
	}
	if v := s.Pose.Orientation.EncodeState(); v != nil {
		out["orientation"] = v
	}
	if v := s.ScaleFactors.EncodeState(); v != nil {
		out["scaleFactors"] = v
	}
	if v := s.Pose.DisplayDimensions.EncodeState(); v != nil {
		out["displayDimensions"] = v
	}
	if v := s.Zoom.EncodeState(); v != nil {
		out["zoom"] = v
	}
	if v := s.ProjectionZoom.EncodeState(); v != nil {
		out["projectionZoom"] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// RestoreState restores the composite document. Absent input resets
// everything. The legacy position key "voxelCoordinates" and the legacy
// absolute-unit zoom keys "zoomFactor" and "perspectiveZoom" from the older
// persisted format are accepted on read and never written back.
func (s *State) RestoreState(v any) error {
	if v == nil {
		s.Reset()
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		s.Reset()
		return nil
	}

	// Display dimensions first: zoom defaults depend on the selection.
	if err := s.Pose.DisplayDimensions.RestoreState(m["displayDimensions"]); err != nil {
		return err
	}
	_ = s.ScaleFactors.RestoreState(m["scaleFactors"])

	pos := m["position"]
	if pos == nil {
		pos = m["voxelCoordinates"]
	}
	_ = s.Pose.Position.RestoreState(pos)
	_ = s.Pose.Orientation.RestoreState(m["orientation"])

	_ = s.Zoom.RestoreState(m["zoom"])
	if s.Zoom.EncodeState() == nil {
		if legacy, ok := asFloat(m["zoomFactor"]); ok {
			s.Zoom.StageLegacyValue(legacy)
		}
	}
	_ = s.ProjectionZoom.RestoreState(m["projectionZoom"])
	if s.ProjectionZoom.EncodeState() == nil {
		if legacy, ok := asFloat(m["perspectiveZoom"]); ok {
			s.ProjectionZoom.StageLegacyValue(legacy)
		}
	}
	return nil
}
