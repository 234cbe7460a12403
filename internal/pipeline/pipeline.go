package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/LayerOneX/cargo-l1x/internal/llvmir"
	"github.com/LayerOneX/cargo-l1x/internal/translate"
)

// ObjectCompiler compiles versioned IR into an object file.
type ObjectCompiler interface {
	Compile(ctx context.Context, input, output string) error
}

// SymbolStripper strips an object file in place.
type SymbolStripper interface {
	Run(ctx context.Context, path string) error
}

// Pipeline holds the collaborators shared by every module of one build.
type Pipeline struct {
	Translator translate.Translator
	Compiler   ObjectCompiler
	Stripper   SymbolStripper // nil leaves objects unstripped
	Layout     Layout

	// Patches defaults to llvmir.Compatibility.
	Patches []llvmir.Substitution

	// FailFast stops at the first failing module instead of continuing.
	FailFast bool
}

// ModuleResult describes how far one module got.
type ModuleResult struct {
	Paths      Paths
	Stage      Stage // last completed stage; empty when none completed
	Stripped   bool
	ModuleSize int64
	ObjectSize int64
	ObjectHash string // hex SHA-256 of the final object
	Err        error
}

// OK reports whether the module produced its object.
func (r ModuleResult) OK() bool {
	return r.Err == nil
}

// Report is the outcome of a pipeline run.
type Report struct {
	Modules []ModuleResult
}

// Err joins the errors of every failed module.
func (r *Report) Err() error {
	var errs []error
	for _, m := range r.Modules {
		if m.Err != nil {
			errs = append(errs, m.Err)
		}
	}
	return errors.Join(errs...)
}

// Failed returns the number of failed modules.
func (r *Report) Failed() int {
	n := 0
	for _, m := range r.Modules {
		if m.Err != nil {
			n++
		}
	}
	return n
}

// Run builds every module in order. The returned error joins all module
// failures; the report is returned either way.
func (p *Pipeline) Run(ctx context.Context, modules []string) (*Report, error) {
	report := &Report{}
	if err := os.MkdirAll(p.Layout.Dir, 0o755); err != nil {
		return report, fsError("create output directory", err)
	}

	for _, module := range modules {
		if err := ctx.Err(); err != nil {
			return report, errors.Join(report.Err(), err)
		}
		result := p.BuildModule(ctx, module)
		report.Modules = append(report.Modules, result)
		if result.Err != nil && p.FailFast {
			break
		}
	}
	return report, report.Err()
}

// BuildModule runs every stage for one module, stopping at the first
// failure. Artifacts of completed stages are kept.
func (p *Pipeline) BuildModule(ctx context.Context, module string) ModuleResult {
	paths := p.Layout.Paths(module)
	result := ModuleResult{Paths: paths}
	log := slog.With("module", module)

	for _, s := range p.steps() {
		log.Debug("running stage", "stage", s.stage)
		if err := s.run(ctx, paths); err != nil {
			result.Err = &StageError{Module: module, Stage: s.stage, Err: err}
			log.Debug("stage failed", "stage", s.stage, "error", err)
			return result
		}
		result.Stage = s.stage
	}
	result.Stripped = result.Stage == StageStrip

	if info, err := os.Stat(module); err == nil {
		result.ModuleSize = info.Size()
	}
	size, hash, err := Digest(paths.Object)
	if err != nil {
		result.Err = &StageError{Module: module, Stage: result.Stage, Err: fsError("read object", err)}
		return result
	}
	result.ObjectSize, result.ObjectHash = size, hash
	log.Debug("module built", "object", paths.Object, "size", size)
	return result
}

// Digest returns the size and hex SHA-256 of the file at path.
func Digest(path string) (int64, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, "", err
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return 0, "", err
	}
	return n, hex.EncodeToString(h.Sum(nil)), nil
}
