package backend

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/LayerOneX/cargo-l1x/internal/toolchain"
)

const (
	// Target architecture passed to llc.
	targetArch = "bpf"

	// eBPF CPU level. v3 enables ALU32 and the extended jump instructions.
	targetCPU = "v3"

	// StackFrameSize is the maximum stack frame, in bytes, llc may allocate
	// for a single function.
	StackFrameSize = 8192
)

// CompileArgs returns the llc arguments for compiling input to output.
func CompileArgs(input, output string) []string {
	return []string{
		"-march=" + targetArch,
		"-mcpu=" + targetCPU,
		"-filetype=obj",
		"--nozero-initialized-in-bss",
		"--bpf-stack-size", strconv.Itoa(StackFrameSize),
		input,
		"-o", output,
	}
}

// Compiler emits eBPF objects with a resolved llc.
type Compiler struct {
	LLC toolchain.Ref
}

// Compile compiles the IR file at input into an object at output. On
// failure the returned error wraps [ErrObjectBuild] and, when llc ran, a
// [*toolchain.ExitError] holding its diagnostics.
func (c Compiler) Compile(ctx context.Context, input, output string) error {
	slog.Debug("compiling object", "input", input, "output", output, "llc", c.LLC.Path)
	if _, err := toolchain.Run(ctx, c.LLC, CompileArgs(input, output)...); err != nil {
		return fmt.Errorf("%w: %w", ErrObjectBuild, err)
	}
	return nil
}
