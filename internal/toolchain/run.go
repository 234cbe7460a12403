package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
)

// Result holds the captured output of a successful tool run.
type Result struct {
	Stdout []byte
	Stderr []byte
}

// Run executes ref with args and waits for it to exit. A non-zero exit
// status is reported as an [*ExitError] carrying the captured stderr.
func Run(ctx context.Context, ref Ref, args ...string) (*Result, error) {
	slog.Debug("running tool", "tool", ref.Tool, "path", ref.Path, "args", args)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, ref.Path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &ExitError{
				Tool:   ref.Tool,
				Path:   ref.Path,
				Args:   args,
				Code:   exitErr.ExitCode(),
				Stderr: stderr.String(),
			}
		}
		return nil, fmt.Errorf("run %s: %w", ref.Tool, err)
	}

	return &Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}, nil
}
