package geometry

import "errors"

// ErrInvalidGeometry matches every *InvalidGeometryError via errors.Is.
var ErrInvalidGeometry = errors.New("invalid geometry")

// InvalidGeometryError reports a quadrilateral that cannot be straightened:
// collinear or coincident corners, a non-convex outline, the wrong corner
// order, or a zero-area output.
type InvalidGeometryError struct {
	Reason string
}

func (e *InvalidGeometryError) Error() string { return "invalid geometry: " + e.Reason }

func (e *InvalidGeometryError) Is(target error) bool { return target == ErrInvalidGeometry }

func invalid(reason string) error { return &InvalidGeometryError{Reason: reason} }
