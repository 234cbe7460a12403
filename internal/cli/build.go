package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/LayerOneX/cargo-l1x/internal/backend"
	"github.com/LayerOneX/cargo-l1x/internal/cargo"
	"github.com/LayerOneX/cargo-l1x/internal/config"
	"github.com/LayerOneX/cargo-l1x/internal/pipeline"
	"github.com/LayerOneX/cargo-l1x/internal/store"
	"github.com/LayerOneX/cargo-l1x/internal/toolchain"
	"github.com/LayerOneX/cargo-l1x/internal/translate"
)

const noStripFlag = "--no-strip"

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	NoStrip   bool
	CargoArgs []string
}

// BuildResult is the JSON payload of a successful build.
type BuildResult struct {
	RunID   string        `json:"run_id,omitempty"`
	Strip   bool          `json:"strip"`
	Objects []BuiltObject `json:"objects"`
}

// BuiltObject describes one produced object.
type BuiltObject struct {
	Module      string `json:"module"`
	IR          string `json:"ir"`
	VersionedIR string `json:"versioned_ir"`
	Object      string `json:"object"`
	Size        int64  `json:"size"`
	SHA256      string `json:"sha256"`
	Stripped    bool   `json:"stripped"`
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build [--no-strip] [CARGO_OPTIONS...]",
		Short: "Build the contract into an eBPF object",
		Long: `Build the contract in the current directory.

Runs "cargo build --target wasm32-unknown-unknown --release", translates every
produced WebAssembly module to LLVM IR, appends the version record and compiles
the result with llc into target/l1x/release/<name>.o.

Options:
  --no-strip       Keep debug information and symbols (useful for debugging)
  -h, --help       Display this help message
  CARGO_OPTIONS    Passed to "cargo build", except --target, --message-format,
                   --version, --manifest-path and --profile

Environment:
  LLVM_BIN_PATH    Directory searched first for llc and llvm-strip

Example:
  cargo l1x build
  cargo l1x build --no-strip --features extra`,
		DisableFlagParsing: true, // Everything but --no-strip belongs to cargo
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cargoArgs, noStrip, help := splitBuildArgs(args)
			if help {
				return cmd.Help()
			}
			opts.CargoArgs = cargoArgs
			opts.NoStrip = noStrip
			return runBuild(cmd.Context(), opts, cmd)
		},
	}

	return cmd
}

// splitBuildArgs separates cargo-l1x's own flags from the cargo arguments.
func splitBuildArgs(args []string) (cargoArgs []string, noStrip, help bool) {
	cargoArgs = []string{}
	for _, arg := range args {
		switch arg {
		case noStripFlag:
			noStrip = true
		case "-h", "--help":
			help = true
		default:
			cargoArgs = append(cargoArgs, arg)
		}
	}
	return cargoArgs, noStrip, help
}

// buildTools are the resolved executables of one build.
type buildTools struct {
	llc        toolchain.Ref
	strip      toolchain.Ref
	translator toolchain.Ref
}

func (t buildTools) paths() map[string]string {
	m := map[string]string{}
	for _, ref := range []toolchain.Ref{t.llc, t.strip, t.translator} {
		if ref.Path != "" {
			m[ref.Tool] = ref.Path
		}
	}
	return m
}

func runBuild(ctx context.Context, opts *BuildOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	strip := !opts.NoStrip

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fail(formatter, "failed to load configuration", err, nil)
	}
	if cfg.Source != "" {
		formatter.VerboseLog("Using config %s", cfg.Source)
	}

	if err := cargo.CheckArgs(opts.CargoArgs); err != nil {
		return fail(formatter, "invalid build arguments", err, nil)
	}

	tools, err := resolveTools(ctx, cfg, strip)
	if err != nil {
		return fail(formatter, "failed to resolve toolchain", err, nil)
	}
	formatter.VerboseLog("Using %s", tools.llc)

	targetDir, err := cargo.TargetDir(ctx, "", "")
	if err != nil {
		return fail(formatter, "failed to locate target directory", err, nil)
	}

	run := store.Run{
		ID:        store.NewRunID(),
		StartedAt: time.Now(),
		Strip:     strip,
		CargoArgs: opts.CargoArgs,
		Tools:     tools.paths(),
	}

	report, err := build(ctx, cfg, opts, tools, targetDir, cmd)
	run.FinishedAt = time.Now()
	if report != nil {
		run.Artifacts = artifacts(report)
	}
	if err != nil {
		run.Status = store.StatusFailed
		run.Error = err.Error()
	} else {
		run.Status = store.StatusOK
	}
	if cfg.Ledger {
		recordRun(context.WithoutCancel(ctx), targetDir, run)
	}

	if err != nil {
		details := map[string]any{"run_id": run.ID}
		if report != nil && len(report.Modules) > 0 {
			details["objects"] = builtObjects(report)
		}
		return fail(formatter, "build failed", err, details)
	}

	result := BuildResult{Strip: strip, Objects: builtObjects(report)}
	if cfg.Ledger {
		result.RunID = run.ID
	}
	return outputBuildSuccess(formatter, result)
}

// resolveTools finds llc, llvm-strip (when stripping) and the translator
// before anything is built.
func resolveTools(ctx context.Context, cfg *config.Config, strip bool) (buildTools, error) {
	locator := toolchain.NewLocator(cfg.LLVMBinPath)

	var tools buildTools
	var err error
	if tools.llc, err = locator.Resolve(ctx, toolchain.LLC); err != nil {
		return tools, err
	}
	if strip {
		if tools.strip, err = locator.Resolve(ctx, toolchain.LLVMStrip); err != nil {
			return tools, err
		}
	}
	if cfg.Translator != "" {
		tools.translator = toolchain.Ref{Tool: toolchain.Translator.Name, Path: cfg.Translator}
	} else if tools.translator, err = locator.Resolve(ctx, toolchain.Translator); err != nil {
		return tools, err
	}
	return tools, nil
}

// build runs cargo and then the pipeline over every module it reported.
func build(ctx context.Context, cfg *config.Config, opts *BuildOptions, tools buildTools, targetDir string, cmd *cobra.Command) (*pipeline.Report, error) {
	out, err := cargo.Build{
		Args:   opts.CargoArgs,
		Strip:  !opts.NoStrip,
		Stderr: cmd.ErrOrStderr(),
	}.Run(ctx)
	if err != nil {
		return nil, err
	}

	modules := out.Modules()
	if len(modules) == 0 {
		slog.Warn("cargo produced no WebAssembly modules")
		return &pipeline.Report{}, nil
	}

	p := &pipeline.Pipeline{
		Translator: translate.Exec{Tool: tools.translator},
		Compiler:   backend.Compiler{LLC: tools.llc},
		Layout:     pipeline.NewLayout(targetDir),
		FailFast:   cfg.FailFast,
	}
	if !opts.NoStrip {
		p.Stripper = backend.Stripper{Strip: tools.strip}
	}

	report, err := p.Run(ctx, modules)
	if err != nil && errors.Is(err, context.Canceled) {
		slog.Info("build interrupted")
	}
	return report, err
}

// recordRun writes run to the ledger. Failures are logged and ignored.
func recordRun(ctx context.Context, targetDir string, run store.Run) {
	st, err := store.Open(store.LedgerPath(targetDir))
	if err != nil {
		slog.Warn("build ledger unavailable", "error", err)
		return
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Warn("error closing build ledger", "error", closeErr)
		}
	}()

	if err := st.WriteRun(ctx, run); err != nil {
		slog.Warn("failed to record build", "run", run.ID, "error", err)
	}
}

func artifacts(report *pipeline.Report) []store.Artifact {
	out := make([]store.Artifact, 0, len(report.Modules))
	for _, m := range report.Modules {
		a := store.Artifact{
			Module:       m.Paths.Module,
			Object:       m.Paths.Object,
			Stage:        string(m.Stage),
			Stripped:     m.Stripped,
			ModuleSize:   m.ModuleSize,
			ObjectSize:   m.ObjectSize,
			ObjectSHA256: m.ObjectHash,
		}
		if m.Err != nil {
			a.Error = m.Err.Error()
		}
		out = append(out, a)
	}
	return out
}

func builtObjects(report *pipeline.Report) []BuiltObject {
	objects := []BuiltObject{}
	for _, m := range report.Modules {
		if !m.OK() {
			continue
		}
		objects = append(objects, BuiltObject{
			Module:      m.Paths.Module,
			IR:          m.Paths.IR,
			VersionedIR: m.Paths.VersionedIR,
			Object:      m.Paths.Object,
			Size:        m.ObjectSize,
			SHA256:      m.ObjectHash,
			Stripped:    m.Stripped,
		})
	}
	return objects
}

// outputBuildSuccess outputs the produced objects.
func outputBuildSuccess(formatter *OutputFormatter, result BuildResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	if len(result.Objects) == 0 {
		fmt.Fprintln(formatter.Writer, "Nothing to do: cargo produced no WebAssembly modules")
		return nil
	}
	for _, obj := range result.Objects {
		state := "stripped"
		if !obj.Stripped {
			state = "not stripped"
		}
		fmt.Fprintf(formatter.Writer, "✓ %s (%d bytes, %s)\n", filepath.Base(obj.Object), obj.Size, state)
		fmt.Fprintf(formatter.Writer, "  %s\n", obj.Object)
	}
	return nil
}
