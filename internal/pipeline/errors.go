package pipeline

import "errors"

var (
	// ErrNoSections is returned when Run is given nothing to capture.
	ErrNoSections = errors.New("no sections to capture")

	// ErrMissingComponent is returned when a required collaborator is nil.
	ErrMissingComponent = errors.New("orchestrator component is not configured")
)
