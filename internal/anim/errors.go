package anim

import (
	"errors"
	"fmt"
)

// Validation errors for animation sources.
var (
	// ErrEmptySource indicates a source without frames or a frame without rows.
	ErrEmptySource = errors.New("anim: empty source")

	// ErrMalformedRow indicates a row whose length is not a positive multiple of 3.
	ErrMalformedRow = errors.New("anim: row length is not a multiple of 3")

	// ErrRaggedFrame indicates frames or rows that disagree on their dimensions.
	ErrRaggedFrame = errors.New("anim: frames do not share dimensions")
)

// PositionError locates a validation failure inside a source.
type PositionError struct {
	Frame   int
	Row     int
	Wrapped error
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("frame %d row %d: %v", e.Frame, e.Row, e.Wrapped)
}

func (e *PositionError) Unwrap() error {
	return e.Wrapped
}
