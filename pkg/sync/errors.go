package sync

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDirectory is returned when a root is missing or not a directory
	ErrInvalidDirectory = errors.New("invalid directory")

	// ErrFilesystemOperation is returned when a create, copy, chmod, chown
	// or delete fails during a run
	ErrFilesystemOperation = errors.New("filesystem operation failed")
)

// InvalidDirectoryError reports a root rejected before any walk begins
type InvalidDirectoryError struct {
	// Role is "source" or "replica"
	Role string
	Path string
	Err  error
}

func (e *InvalidDirectoryError) Error() string {
	return fmt.Sprintf("wrong %s directory was provided: %s: %v", e.Role, e.Path, e.Err)
}

// Is matches ErrInvalidDirectory
func (e *InvalidDirectoryError) Is(target error) bool {
	return target == ErrInvalidDirectory
}

func (e *InvalidDirectoryError) Unwrap() error {
	return e.Err
}

// OperationError reports the first filesystem failure of a run.
// Path is the full path of the object that could not be processed.
type OperationError struct {
	Op   string
	Path string
	Err  error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Is matches ErrFilesystemOperation
func (e *OperationError) Is(target error) bool {
	return target == ErrFilesystemOperation
}

func (e *OperationError) Unwrap() error {
	return e.Err
}
