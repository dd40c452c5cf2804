package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyRoute is returned when a route is built from zero points.
	ErrEmptyRoute = errors.New("route has no points")

	// ErrInvalidPosition is the sentinel wrapped by InvalidPositionError.
	ErrInvalidPosition = errors.New("invalid position")
)

// InvalidPositionError describes a malformed position sample.
// It is fatal to the sample only; the navigation session continues.
type InvalidPositionError struct {
	Field string
	Value float64
}

func (e *InvalidPositionError) Error() string {
	return fmt.Sprintf("invalid position: %s=%v", e.Field, e.Value)
}

func (e *InvalidPositionError) Unwrap() error { return ErrInvalidPosition }
