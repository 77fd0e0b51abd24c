package section

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSectionNotFound is matched by NotFoundError.
	ErrSectionNotFound = errors.New("section not found")

	// ErrDuplicateID is returned when two sections share an id.
	ErrDuplicateID = errors.New("duplicate section id")

	// ErrDuplicateToken is returned when two sections share a navigation token.
	ErrDuplicateToken = errors.New("duplicate navigation token")

	// ErrEmptyField is returned when a section has an empty id or token.
	ErrEmptyField = errors.New("section id and navigation token must not be empty")

	// ErrEmptyRegistry is returned when a registry has no sections.
	ErrEmptyRegistry = errors.New("registry has no sections")
)

// NotFoundError is returned by Registry.Resolve for an unknown name.
// It carries the valid identifiers so callers can show them to the user.
type NotFoundError struct {
	Name     string
	ValidIDs []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("section not found: %s (available sections: %s)",
		e.Name, strings.Join(e.ValidIDs, ", "))
}

// Is reports whether target is ErrSectionNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrSectionNotFound
}
