package cargo

import (
	"errors"
	"fmt"
	"strings"
)

// ErrForbiddenFlag is returned for build flags the pipeline must control.
var ErrForbiddenFlag = errors.New("this argument cannot be changed")

// Flags the pipeline sets itself. Matching is by prefix, so "--target-dir"
// is rejected along with "--target".
var forbiddenFlags = []string{
	"--target",
	"--message-format",
	"--version",
	"--manifest-path",
	"--profile",
}

// ForbiddenFlags returns the flags rejected by [CheckArgs].
func ForbiddenFlags() []string {
	return append([]string(nil), forbiddenFlags...)
}

// CheckArgs rejects arguments that would change the target, output format or
// profile the pipeline depends on.
func CheckArgs(args []string) error {
	for _, arg := range args {
		for _, flag := range forbiddenFlags {
			if strings.HasPrefix(arg, flag) {
				return fmt.Errorf("%w: %s", ErrForbiddenFlag, flag)
			}
		}
	}
	return nil
}
