package desktop

import (
	"errors"
	"fmt"
)

var (
	// ErrWindowNotFound is returned when the target window does not appear
	// within the discovery timeout. It is fatal to a run.
	ErrWindowNotFound = errors.New("target window not found")

	// ErrInvalidGeometry is returned when window geometry output cannot be parsed.
	ErrInvalidGeometry = errors.New("invalid window geometry")

	// ErrEmptyTitlePattern is returned when a window target has neither a
	// title pattern nor a process id.
	ErrEmptyTitlePattern = errors.New("window title pattern must not be empty")
)

// CommandError represents a failed external command.
type CommandError struct {
	Op     string
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	if e.Stderr != "" {
		msg += "\nstderr: " + e.Stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
