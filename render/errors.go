package render

// This module contains common errors emitted from interfaces and methods in
// this package. Clipping and buffer exhaustion are deliberately not errors:
// both degrade the frame gracefully instead of rejecting it.

type ErrInvalidSeparator struct {
	separator string
}

func (e ErrInvalidSeparator) Error() string {
	return "invalid separator: " + e.separator + " not one of square, circle"
}
