package capture

import "errors"

var (
	// ErrInvalidSectionID is returned for ids that are not plain file names.
	ErrInvalidSectionID = errors.New("invalid section id for file name")

	// ErrEmptyCapture is returned when the grabber produced an empty image.
	ErrEmptyCapture = errors.New("captured image is empty")

	// ErrNoDisplay is returned when no active display is available.
	ErrNoDisplay = errors.New("no active display")
)
