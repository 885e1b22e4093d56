package quiz

import "errors"

var (
	// ErrInvalidFrameRate is returned when a composition has a non-positive frame rate.
	ErrInvalidFrameRate = errors.New("frame rate must be positive")
	// ErrInvalidSegmentLength is returned when a segment resolves to zero or fewer frames.
	ErrInvalidSegmentLength = errors.New("segment length must be positive")
)
