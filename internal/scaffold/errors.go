package scaffold

import "errors"

var (
	ErrUnknownTemplate   = errors.New("unknown template")
	ErrDestinationExists = errors.New("a directory with this name already exists")
	ErrInvalidName       = errors.New("invalid project name")
	ErrFetch             = errors.New("failed to fetch template")
	ErrExtract           = errors.New("failed to extract template")
	ErrFileSystem        = errors.New("filesystem error")
)
