package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LayerOneX/cargo-l1x/internal/backend"
	"github.com/LayerOneX/cargo-l1x/internal/cargo"
	"github.com/LayerOneX/cargo-l1x/internal/config"
	"github.com/LayerOneX/cargo-l1x/internal/pipeline"
	"github.com/LayerOneX/cargo-l1x/internal/scaffold"
	"github.com/LayerOneX/cargo-l1x/internal/toolchain"
	"github.com/LayerOneX/cargo-l1x/internal/translate"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		code string
		exit int
	}{
		{&config.ConfigError{Message: "bad"}, ErrCodeConfig, ExitCommandError},
		{fmt.Errorf("%w: --target", cargo.ErrForbiddenFlag), ErrCodeForbiddenFlag, ExitCommandError},
		{fmt.Errorf("%w: bogus", scaffold.ErrUnknownTemplate), ErrCodeUnknownTemplate, ExitCommandError},
		{&toolchain.ResolveError{Tool: "llc", Reason: toolchain.NotFound}, ErrCodeToolResolution, ExitFailure},
		{fmt.Errorf("%w: exit status 101", cargo.ErrCompiler), ErrCodeCompiler, ExitFailure},
		{&pipeline.StageError{Stage: pipeline.StageTranslate, Err: translate.ErrTranslation}, ErrCodeTranslation, ExitFailure},
		{&pipeline.StageError{Stage: pipeline.StageCompile, Err: backend.ErrObjectBuild}, ErrCodeObjectBuild, ExitFailure},
		{&pipeline.StageError{Stage: pipeline.StageStrip, Err: backend.ErrStrip}, ErrCodeStrip, ExitFailure},
		{&pipeline.StageError{Stage: pipeline.StageCopy, Err: pipeline.ErrFileSystem}, ErrCodeFileSystem, ExitFailure},
		{fmt.Errorf("%w: x", scaffold.ErrDestinationExists), ErrCodeDestinationExists, ExitFailure},
		{fmt.Errorf("%w: 404", scaffold.ErrFetch), ErrCodeFetch, ExitFailure},
		{fmt.Errorf("%w: zip", scaffold.ErrExtract), ErrCodeExtract, ExitFailure},
		{errors.New("something else"), ErrCodeGeneric, ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			code, exit := classify(tt.err)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.exit, exit)
		})
	}
}

func TestDiagnostics_JoinedErrors(t *testing.T) {
	first := &pipeline.StageError{Module: "a.wasm", Stage: pipeline.StageCompile, Err: fmt.Errorf("%w: %w",
		backend.ErrObjectBuild, &toolchain.ExitError{Tool: "llc", Code: 1, Stderr: "error: bad section\n"})}
	second := &pipeline.StageError{Module: "b.wasm", Stage: pipeline.StageTranslate, Err: fmt.Errorf("%w: %w",
		translate.ErrTranslation, &toolchain.ExitError{Tool: "wasm-llvmir", Code: 2, Stderr: "unsupported opcode"})}
	silent := &pipeline.StageError{Module: "c.wasm", Stage: pipeline.StageStrip, Err: &toolchain.ExitError{Tool: "llvm-strip", Code: 1}}

	diags := diagnostics(errors.Join(first, second, silent))
	assert.Equal(t, []Diagnostic{
		{Tool: "llc", Code: 1, Stderr: "error: bad section"},
		{Tool: "wasm-llvmir", Code: 2, Stderr: "unsupported opcode"},
	}, diags)

	assert.Empty(t, diagnostics(errors.New("plain")))
	assert.Empty(t, diagnostics(nil))
}

func TestFail_TextPrintsDiagnosticsFirst(t *testing.T) {
	errOut := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: &bytes.Buffer{}, ErrWriter: errOut}
	cause := fmt.Errorf("%w: %w", backend.ErrObjectBuild, &toolchain.ExitError{Tool: "llc", Code: 1, Stderr: "llc: error: invalid section"})

	err := fail(formatter, "build failed", cause, nil)

	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, isReported(err))
	assert.Equal(t,
		"llc: error: invalid section\nError [E015]: build failed: failed to build object file: llc exited with status 1\n",
		errOut.String())
}

func TestFail_JSONIncludesDiagnostics(t *testing.T) {
	out := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: out, ErrWriter: &bytes.Buffer{}}
	cause := fmt.Errorf("%w: %w", cargo.ErrCompiler, &toolchain.ExitError{Tool: "wasm-llvmir", Code: 3, Stderr: "boom"})

	_ = fail(formatter, "build failed", cause, map[string]any{"run_id": "r1"})

	var resp struct {
		Status string `json:"status"`
		Error  struct {
			Code    string `json:"code"`
			Details struct {
				RunID       string       `json:"run_id"`
				Diagnostics []Diagnostic `json:"diagnostics"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeCompiler, resp.Error.Code)
	assert.Equal(t, "r1", resp.Error.Details.RunID)
	assert.Equal(t, []Diagnostic{{Tool: "wasm-llvmir", Code: 3, Stderr: "boom"}}, resp.Error.Details.Diagnostics)
}
