package img2comment

import "errors"

var (
	// ErrDecode is returned when the input cannot be opened or decoded.
	ErrDecode = errors.New("could not decode image")

	// ErrEmptyImage is returned for images with zero rows or columns.
	ErrEmptyImage = errors.New("image has zero area")

	// ErrDegenerateImage is returned when no finite feature size exists.
	ErrDegenerateImage = errors.New("image has no measurable features")

	// ErrInvalidPlan is returned when a resolution is requested with a
	// non-positive feature size or aspect divisor.
	ErrInvalidPlan = errors.New("invalid resolution parameters")
)
