package toolchain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrToolResolution is matched by every [ResolveError].
	ErrToolResolution = errors.New("tool resolution failed")

	// ErrNoMatch is returned by a [Strategy] that does not apply, telling the
	// [Locator] to try the next one.
	ErrNoMatch = errors.New("no match")
)

// ResolveReason distinguishes why a tool could not be resolved.
type ResolveReason string

const (
	// NotFound means no strategy located an executable.
	NotFound ResolveReason = "not found"

	// UnsupportedVersion means an executable was found but its reported
	// version is missing, unparseable, or not supported.
	UnsupportedVersion ResolveReason = "unsupported version"
)

// ResolveError reports a tool that could not be turned into a [Ref].
type ResolveError struct {
	Tool     string
	Versions []int
	Reason   ResolveReason
	Detail   string
}

func (e *ResolveError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Tool, e.Reason)
	if e.Detail != "" {
		fmt.Fprintf(&b, " (%s)", e.Detail)
	}
	if len(e.Versions) > 0 {
		fmt.Fprintf(&b, "; install %s %s or set LLVM_BIN_PATH", e.Tool, versionList(e.Versions))
	}
	return b.String()
}

func (e *ResolveError) Is(target error) bool {
	return target == ErrToolResolution
}

// ExitError reports a tool that ran and exited with a non-zero status.
// Stderr holds the tool's diagnostics.
type ExitError struct {
	Tool   string
	Path   string
	Args   []string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Tool, e.Code)
}

func versionList(versions []int) string {
	parts := make([]string, len(versions))
	for i, v := range versions {
		parts[i] = fmt.Sprint(v)
	}
	return "(version " + strings.Join(parts, ", ") + ")"
}
