package installer

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceMissing means a module file declared by the manifest is not on disk
	ErrSourceMissing = errors.New("source file missing")

	// ErrDestinationConflict means something install may not replace, such as
	// a directory, occupies a destination path
	ErrDestinationConflict = errors.New("destination conflict")

	// ErrNoTarget is returned when no target directory is configured
	ErrNoTarget = errors.New("no target directory")
)

// EntryError records the operation and path that failed
type EntryError struct {
	Op   string
	Path string
	Err  error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}
