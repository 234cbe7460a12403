package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
)

// Env snapshots the host facilities a [Strategy] may consult.
type Env struct {
	Stat     func(name string) (fs.FileInfo, error)
	LookPath func(file string) (string, error)
	Output   func(ctx context.Context, path string, args ...string) ([]byte, error)
}

// OSEnv returns an [Env] backed by the real filesystem, PATH and processes.
func OSEnv() Env {
	return Env{
		Stat:     os.Stat,
		LookPath: exec.LookPath,
		Output: func(ctx context.Context, path string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, path, args...).Output()
		},
	}
}

// Strategy attempts to resolve a tool. It returns [ErrNoMatch] when it does
// not apply; any other error stops resolution.
type Strategy func(ctx context.Context, tool Tool, env Env) (Ref, error)

// Locator resolves tools by evaluating strategies in order.
type Locator struct {
	Env        Env
	Strategies []Strategy
}

// NewLocator returns a Locator using the standard resolution order. An empty
// overrideDir skips the override strategy.
func NewLocator(overrideDir string) *Locator {
	return &Locator{
		Env: OSEnv(),
		Strategies: []Strategy{
			OverrideDir(overrideDir),
			VersionedNames(),
			VerifiedName(),
		},
	}
}

// Resolve returns the first match among the locator's strategies.
func (l *Locator) Resolve(ctx context.Context, tool Tool) (Ref, error) {
	for _, strategy := range l.Strategies {
		ref, err := strategy(ctx, tool, l.Env)
		if errors.Is(err, ErrNoMatch) {
			continue
		}
		if err != nil {
			return Ref{}, err
		}
		slog.Debug("resolved tool", "tool", tool.Name, "path", ref.Path, "version", ref.Version)
		return ref, nil
	}
	return Ref{}, &ResolveError{Tool: tool.Name, Versions: tool.Versions, Reason: NotFound}
}

// OverrideDir matches <dir>/<name> when it exists.
func OverrideDir(dir string) Strategy {
	return func(ctx context.Context, tool Tool, env Env) (Ref, error) {
		if dir == "" {
			return Ref{}, ErrNoMatch
		}
		path := filepath.Join(dir, tool.Name)
		info, err := env.Stat(path)
		if err != nil || info.IsDir() {
			return Ref{}, ErrNoMatch
		}
		return Ref{Tool: tool.Name, Path: path}, nil
	}
}

// VersionedNames matches <name>-<major> on PATH for each supported major, in
// declared order.
func VersionedNames() Strategy {
	return func(ctx context.Context, tool Tool, env Env) (Ref, error) {
		for _, v := range tool.Versions {
			path, err := env.LookPath(fmt.Sprintf("%s-%d", tool.Name, v))
			if err == nil {
				return Ref{Tool: tool.Name, Path: path, Version: v}, nil
			}
		}
		return Ref{}, ErrNoMatch
	}
}

// VerifiedName matches <name> on PATH. When the tool has versions, the
// executable is queried with --version and must report one of them.
func VerifiedName() Strategy {
	return func(ctx context.Context, tool Tool, env Env) (Ref, error) {
		path, err := env.LookPath(tool.Name)
		if err != nil {
			return Ref{}, ErrNoMatch
		}
		if len(tool.Versions) == 0 {
			return Ref{Tool: tool.Name, Path: path}, nil
		}

		out, err := env.Output(ctx, path, "--version")
		if err != nil {
			return Ref{}, &ResolveError{
				Tool:     tool.Name,
				Versions: tool.Versions,
				Reason:   UnsupportedVersion,
				Detail:   fmt.Sprintf("%s --version: %v", path, err),
			}
		}

		major, ok := ParseMajorVersion(out)
		if !ok {
			return Ref{}, &ResolveError{
				Tool:     tool.Name,
				Versions: tool.Versions,
				Reason:   UnsupportedVersion,
				Detail:   fmt.Sprintf("%s reported no recognizable version", path),
			}
		}
		if !tool.Supports(major) {
			return Ref{}, &ResolveError{
				Tool:     tool.Name,
				Versions: tool.Versions,
				Reason:   UnsupportedVersion,
				Detail:   fmt.Sprintf("%s is version %d", path, major),
			}
		}
		return Ref{Tool: tool.Name, Path: path, Version: major}, nil
	}
}

var versionPattern = regexp.MustCompile(`version (\d+)\.`)

// ParseMajorVersion extracts the major version from LLVM --version output,
// e.g. "Ubuntu LLVM version 18.1.3".
func ParseMajorVersion(out []byte) (int, bool) {
	m := versionPattern.FindSubmatch(out)
	if m == nil {
		return 0, false
	}
	major, err := strconv.Atoi(string(m[1]))
	if err != nil {
		return 0, false
	}
	return major, true
}
