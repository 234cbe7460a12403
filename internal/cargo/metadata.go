package cargo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

type metadata struct {
	TargetDirectory string `json:"target_directory"`
}

// TargetDir asks cargo for the workspace target directory of the package in
// dir (empty means the current directory).
func TargetDir(ctx context.Context, cargo, dir string) (string, error) {
	if cargo == "" {
		cargo = Binary()
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, cargo, "metadata", "--format-version", "1", "--no-deps")
	cmd.Dir = dir
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%w: cargo metadata: %w: %s", ErrCompiler, err, msg)
		}
		return "", fmt.Errorf("%w: cargo metadata: %w", ErrCompiler, err)
	}

	var meta metadata
	if err := json.Unmarshal(out, &meta); err != nil {
		return "", fmt.Errorf("%w: decode cargo metadata: %w", ErrCompiler, err)
	}
	if meta.TargetDirectory == "" {
		return "", fmt.Errorf("%w: cargo metadata has no target directory", ErrCompiler)
	}
	return meta.TargetDirectory, nil
}
