package cargo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"slices"
)

// ErrCompiler is wrapped by every failure of the upstream compiler.
var ErrCompiler = errors.New("failed to build wasm")

const (
	// Target is the Rust target every contract is compiled for.
	Target = "wasm32-unknown-unknown"

	// Linker flags that drop symbols from the wasm module.
	stripRustFlags = "-C link-arg=-s"
)

// Binary returns the cargo executable. When running as a cargo subcommand,
// cargo exports its own path in $CARGO.
func Binary() string {
	if c := os.Getenv("CARGO"); c != "" {
		return c
	}
	return "cargo"
}

// Build describes one "cargo build" invocation.
type Build struct {
	Cargo  string    // Cargo executable; empty uses Binary().
	Args   []string  // Pass-through arguments, already checked by CheckArgs.
	Strip  bool      // Ask the linker to strip the wasm module.
	Dir    string    // Working directory; empty uses the current one.
	Stderr io.Writer // Receives cargo's rendered diagnostics; nil uses os.Stderr.
}

// CommandArgs returns the full argument list passed to cargo.
func (b Build) CommandArgs() []string {
	args := []string{"build", "--target", Target, "--message-format=json-render-diagnostics"}
	args = append(args, b.Args...)
	if !slices.Contains(b.Args, "--release") {
		args = append(args, "--release")
	}
	return args
}

// Environ returns the environment cargo runs with.
func (b Build) Environ() []string {
	env := os.Environ()
	if !b.Strip {
		return env
	}
	flags := stripRustFlags
	if existing := os.Getenv("RUSTFLAGS"); existing != "" {
		flags = existing + " " + stripRustFlags
	}
	return append(env, "RUSTFLAGS="+flags)
}

// Run executes cargo, streaming its diagnostics to Stderr and parsing its
// JSON messages from stdout.
func (b Build) Run(ctx context.Context) (*Output, error) {
	cargo := b.Cargo
	if cargo == "" {
		cargo = Binary()
	}

	cmd := exec.CommandContext(ctx, cargo, b.CommandArgs()...)
	cmd.Dir = b.Dir
	cmd.Env = b.Environ()
	cmd.Stderr = b.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompiler, err)
	}

	slog.Debug("running cargo", "cargo", cargo, "args", cmd.Args[1:], "strip", b.Strip)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompiler, err)
	}

	out, parseErr := ParseMessages(stdout)
	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompiler, err)
	}
	if parseErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompiler, parseErr)
	}
	if out.Finished && !out.Success {
		return nil, fmt.Errorf("%w: cargo reported an unsuccessful build", ErrCompiler)
	}

	slog.Debug("cargo finished", "artifacts", len(out.Artifacts), "modules", len(out.Modules()))
	return out, nil
}
