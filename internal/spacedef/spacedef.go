// Package spacedef compiles CUE coordinate-space definitions into
// coordspace.Space values.
//
// A definition looks like:
//
//	space: {
//		dimensions: [
//			{name: "x", scale: 4e-9, unit: "m"},
//			{name: "y", scale: 4e-9, unit: "m"},
//			{name: "z", scale: 40e-9, unit: "m", lower: 0, upper: 4096},
//		]
//	}
//
// Compilation uses the CUE SDK's Go API directly (not a CLI subprocess) and
// reports positional diagnostics via CompileError.
package spacedef

import (
	"fmt"
	"math"

	"cuelang.org/go/cue"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/voxelview/voxelview/internal/coordspace"
)

// CompileError reports a definition problem with its CUE source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CompileSpace parses a CUE value holding a space definition (the struct
// with the "dimensions" list) into a coordinate space. prev, when non-nil,
// supplies dimension identity carried over by name.
func CompileSpace(v cue.Value, prev *coordspace.Space) (*coordspace.Space, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	dimsVal := v.LookupPath(cue.ParsePath("dimensions"))
	if !dimsVal.Exists() {
		return nil, &CompileError{
			Field:   "dimensions",
			Message: "dimensions list is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := dimsVal.List()
	if err != nil {
		return nil, &CompileError{
			Field:   "dimensions",
			Message: fmt.Sprintf("dimensions must be a list: %v", err),
			Pos:     dimsVal.Pos(),
		}
	}

	var names []string
	var scales []float64
	var units []string
	var lower, upper []float64

	for iter.Next() {
		dim := iter.Value()
		idx := len(names)

		name, err := stringField(dim, "name", idx)
		if err != nil {
			return nil, err
		}
		scale, err := floatField(dim, "scale", idx, true)
		if err != nil {
			return nil, err
		}
		unit, err := stringField(dim, "unit", idx)
		if err != nil {
			return nil, err
		}

		lo := math.Inf(-1)
		if loVal := dim.LookupPath(cue.ParsePath("lower")); loVal.Exists() {
			lo, err = floatField(dim, "lower", idx, false)
			if err != nil {
				return nil, err
			}
		}
		hi := math.Inf(1)
		if hiVal := dim.LookupPath(cue.ParsePath("upper")); hiVal.Exists() {
			hi, err = floatField(dim, "upper", idx, false)
			if err != nil {
				return nil, err
			}
		}
		if lo > hi {
			return nil, &CompileError{
				Field:   fmt.Sprintf("dimensions[%d]", idx),
				Message: fmt.Sprintf("lower bound %v exceeds upper bound %v", lo, hi),
				Pos:     dim.Pos(),
			}
		}

		names = append(names, name)
		scales = append(scales, scale)
		units = append(units, unit)
		lower = append(lower, lo)
		upper = append(upper, hi)
	}

	bounds := coordspace.BoundingBox{Lower: lower, Upper: upper}
	space, err := coordspace.Derive(prev, names, scales, units, &bounds)
	if err != nil {
		return nil, &CompileError{
			Field:   "dimensions",
			Message: err.Error(),
			Pos:     dimsVal.Pos(),
		}
	}
	return space, nil
}

func stringField(dim cue.Value, field string, idx int) (string, error) {
	val := dim.LookupPath(cue.ParsePath(field))
	if !val.Exists() {
		return "", &CompileError{
			Field:   fmt.Sprintf("dimensions[%d].%s", idx, field),
			Message: field + " is required",
			Pos:     dim.Pos(),
		}
	}
	s, err := val.String()
	if err != nil {
		return "", &CompileError{
			Field:   fmt.Sprintf("dimensions[%d].%s", idx, field),
			Message: fmt.Sprintf("%s must be a string: %v", field, err),
			Pos:     val.Pos(),
		}
	}
	return s, nil
}

func floatField(dim cue.Value, field string, idx int, required bool) (float64, error) {
	val := dim.LookupPath(cue.ParsePath(field))
	if !val.Exists() {
		if required {
			return 0, &CompileError{
				Field:   fmt.Sprintf("dimensions[%d].%s", idx, field),
				Message: field + " is required",
				Pos:     dim.Pos(),
			}
		}
		return 0, nil
	}
	f, err := val.Float64()
	if err != nil {
		return 0, &CompileError{
			Field:   fmt.Sprintf("dimensions[%d].%s", idx, field),
			Message: fmt.Sprintf("%s must be a number: %v", field, err),
			Pos:     val.Pos(),
		}
	}
	return f, nil
}

// formatCUEError converts a raw CUE error into a CompileError with the
// best available position.
func formatCUEError(err error) *CompileError {
	pos := token.NoPos
	if errs := cueerrors.Errors(err); len(errs) > 0 {
		pos = errs[0].Position()
	}
	return &CompileError{
		Field:   "cue",
		Message: err.Error(),
		Pos:     pos,
	}
}
