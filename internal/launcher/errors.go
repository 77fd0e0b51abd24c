package launcher

import "errors"

var (
	// ErrEmptyCommand is returned when no launch command is configured.
	ErrEmptyCommand = errors.New("launch command is empty")

	// ErrStartFailed is returned when the process could not be started.
	ErrStartFailed = errors.New("failed to start target process")
)
