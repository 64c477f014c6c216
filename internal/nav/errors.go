package nav

import (
	"errors"
	"fmt"
)

// StructuralError reports a hard data-contract violation, as opposed to the
// silent validation no-ops used for ordinary malformed mutations. These
// surface to the caller and typically make a restore fatal.
type StructuralError struct {
	Code    StructuralErrorCode
	Message string
}

// StructuralErrorCode categorizes structural errors.
type StructuralErrorCode string

const (
	// ErrCodeDimensionLimit indicates more than MaxDisplayDimensions
	// display dimensions were selected.
	ErrCodeDimensionLimit StructuralErrorCode = "DIMENSION_LIMIT"

	// ErrCodeDimensionIndex indicates an out-of-range or duplicate
	// display-dimension index.
	ErrCodeDimensionIndex StructuralErrorCode = "DIMENSION_INDEX"
)

// Error implements the error interface.
func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsStructural reports whether err is (or wraps) a StructuralError.
func IsStructural(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}

func newDimensionLimitError(n int) *StructuralError {
	return &StructuralError{
		Code:    ErrCodeDimensionLimit,
		Message: fmt.Sprintf("%d display dimensions selected, limit is %d", n, MaxDisplayDimensions),
	}
}

func newDimensionIndexError(msg string) *StructuralError {
	return &StructuralError{Code: ErrCodeDimensionIndex, Message: msg}
}
