package pipeline

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/LayerOneX/cargo-l1x/internal/llvmir"
)

// Stage names a step of the per-module pipeline.
type Stage string

const (
	StageTranslate Stage = "translate"
	StageCopy      Stage = "copy"
	StageVersion   Stage = "version"
	StagePatch     Stage = "patch"
	StageCompile   Stage = "compile"
	StageStrip     Stage = "strip"
)

type step struct {
	stage Stage
	run   func(ctx context.Context, p Paths) error
}

func (p *Pipeline) steps() []step {
	steps := []step{
		{StageTranslate, p.translate},
		{StageCopy, p.copy},
		{StageVersion, p.version},
		{StagePatch, p.patch},
		{StageCompile, p.compile},
	}
	if p.Stripper != nil {
		steps = append(steps, step{StageStrip, p.strip})
	}
	return steps
}

// translate clears outputs of earlier runs, then writes the raw IR.
func (p *Pipeline) translate(ctx context.Context, paths Paths) error {
	for _, stale := range []string{paths.IR, paths.VersionedIR, paths.Object} {
		if err := os.Remove(stale); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fsError("remove stale artifact", err)
		}
	}
	return p.Translator.Translate(ctx, paths.Module, paths.IR)
}

func (p *Pipeline) copy(_ context.Context, paths Paths) error {
	src, err := os.Open(paths.IR)
	if err != nil {
		return fsError("open raw IR", err)
	}
	defer src.Close()

	dst, err := os.Create(paths.VersionedIR)
	if err != nil {
		return fsError("create versioned IR", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fsError("copy raw IR", err)
	}
	if err := dst.Close(); err != nil {
		return fsError("copy raw IR", err)
	}
	return nil
}

func (p *Pipeline) version(_ context.Context, paths Paths) error {
	if err := llvmir.InjectVersion(paths.VersionedIR); err != nil {
		return fsError("inject version record", err)
	}
	return nil
}

func (p *Pipeline) patch(_ context.Context, paths Paths) error {
	table := p.Patches
	if table == nil {
		table = llvmir.Compatibility
	}
	n, err := llvmir.PatchFile(paths.VersionedIR, table)
	if err != nil {
		return fsError("patch versioned IR", err)
	}
	if n > 0 {
		slog.Debug("patched section names", "path", paths.VersionedIR, "replacements", n)
	}
	return nil
}

func (p *Pipeline) compile(ctx context.Context, paths Paths) error {
	return p.Compiler.Compile(ctx, paths.VersionedIR, paths.Object)
}

func (p *Pipeline) strip(ctx context.Context, paths Paths) error {
	return p.Stripper.Run(ctx, paths.Object)
}
