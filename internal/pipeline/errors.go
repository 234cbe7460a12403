package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
)

// ErrFileSystem is wrapped by read, write, copy and mkdir failures.
var ErrFileSystem = errors.New("filesystem operation failed")

// StageError attributes a failure to a module and stage.
type StageError struct {
	Module string
	Stage  Stage
	Err    error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", filepath.Base(e.Module), e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func fsError(intent string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrFileSystem, intent, err)
}
