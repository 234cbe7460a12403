package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LayerOneX/cargo-l1x/internal/toolchain"
)

// StripArgs returns the llvm-strip arguments for stripping path in place.
// -x drops every non-global symbol along with the debug sections.
func StripArgs(path string) []string {
	return []string{"-x", path}
}

// Stripper removes symbols from objects with a resolved llvm-strip.
type Stripper struct {
	Strip toolchain.Ref
}

// Run strips the object at path in place. On failure the returned error
// wraps [ErrStrip].
func (s Stripper) Run(ctx context.Context, path string) error {
	slog.Debug("stripping object", "path", path, "llvm-strip", s.Strip.Path)
	if _, err := toolchain.Run(ctx, s.Strip, StripArgs(path)...); err != nil {
		return fmt.Errorf("%w: %w", ErrStrip, err)
	}
	return nil
}
