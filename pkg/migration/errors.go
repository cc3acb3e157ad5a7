package migration

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrEmptyID indicates an ID was built from an empty string.
	ErrEmptyID = errors.New("empty migration id")

	// ErrMissingDependency indicates a task resolved a type that was never registered.
	ErrMissingDependency = errors.New("missing dependency")

	// ErrPersist indicates the completed set could not be written.
	ErrPersist = errors.New("persist completed migrations")

	// ErrNilGroup indicates Run was called without a group.
	ErrNilGroup = errors.New("nil migration group")

	// ErrInvalidTask indicates a task with a zero ID was found in a group.
	ErrInvalidTask = errors.New("invalid migration task")
)

// MissingDependencyError is raised by Resolve and returned by Lookup when no
// instance is registered for the requested type.
type MissingDependencyError struct {
	// Type is the name of the requested type, e.g. "*app.Database".
	Type string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("dependency %s not registered", e.Type)
}

// Unwrap lets errors.Is match ErrMissingDependency.
func (e *MissingDependencyError) Unwrap() error { return ErrMissingDependency }
