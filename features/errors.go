package features

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch is returned when a series length does not fit the
	// period or window of a representation.
	ErrShapeMismatch = errors.New("features: series length does not match representation")
	// ErrUnknownMethod is returned by New for an unsupported method name.
	ErrUnknownMethod = errors.New("features: unknown representation method")
)

// ShapeError describes a series whose length cannot be reduced.
type ShapeError struct {
	Series string // series name, empty when reducing a bare vector
	Method string
	Length int // actual number of observations
	Unit   int // period or window the length must fit
}

func (e *ShapeError) Error() string {
	name := e.Series
	if name == "" {
		name = "<unnamed>"
	}
	return fmt.Sprintf("features: series %q has length %d, %s needs a positive multiple of %d",
		name, e.Length, e.Method, e.Unit)
}

// Is makes errors.Is(err, ErrShapeMismatch) hold for any *ShapeError.
func (e *ShapeError) Is(target error) bool {
	return target == ErrShapeMismatch
}
