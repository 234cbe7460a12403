package backend

import "errors"

var (
	// ErrObjectBuild is returned when llc fails to produce the object.
	ErrObjectBuild = errors.New("failed to build object file")

	// ErrStrip is returned when llvm-strip fails on a built object.
	ErrStrip = errors.New("failed to strip object file")
)
