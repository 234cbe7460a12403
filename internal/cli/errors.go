package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/LayerOneX/cargo-l1x/internal/backend"
	"github.com/LayerOneX/cargo-l1x/internal/cargo"
	"github.com/LayerOneX/cargo-l1x/internal/config"
	"github.com/LayerOneX/cargo-l1x/internal/pipeline"
	"github.com/LayerOneX/cargo-l1x/internal/scaffold"
	"github.com/LayerOneX/cargo-l1x/internal/toolchain"
	"github.com/LayerOneX/cargo-l1x/internal/translate"
)

// Error codes for structured output.
const (
	ErrCodeGeneric           = "E001" // Generic/unknown error
	ErrCodeConfig            = "E002" // Invalid configuration
	ErrCodeForbiddenFlag     = "E010" // Build flag controlled by cargo-l1x
	ErrCodeCompiler          = "E011" // cargo build failed
	ErrCodeTranslation       = "E012" // wasm to IR translation failed
	ErrCodeFileSystem        = "E013" // Read/write/copy/mkdir failed
	ErrCodeToolResolution    = "E014" // llc, llvm-strip or translator not usable
	ErrCodeObjectBuild       = "E015" // llc failed
	ErrCodeStrip             = "E016" // llvm-strip failed
	ErrCodeUnknownTemplate   = "E020" // Unknown template identifier
	ErrCodeDestinationExists = "E021" // Project directory already exists
	ErrCodeFetch             = "E022" // Template download failed
	ErrCodeExtract           = "E023" // Template archive unusable
	ErrCodeInvalidName       = "E024" // Project name unusable
	ErrCodeLedger            = "E030" // Build ledger unreadable
)

type errorClass struct {
	target error
	code   string
	exit   int
}

// Checked in order; the first match wins. Usage and configuration problems
// exit with ExitCommandError.
var errorClasses = []errorClass{
	{config.ErrInvalidConfig, ErrCodeConfig, ExitCommandError},
	{cargo.ErrForbiddenFlag, ErrCodeForbiddenFlag, ExitCommandError},
	{scaffold.ErrUnknownTemplate, ErrCodeUnknownTemplate, ExitCommandError},
	{scaffold.ErrInvalidName, ErrCodeInvalidName, ExitCommandError},
	{toolchain.ErrToolResolution, ErrCodeToolResolution, ExitFailure},
	{cargo.ErrCompiler, ErrCodeCompiler, ExitFailure},
	{translate.ErrTranslation, ErrCodeTranslation, ExitFailure},
	{backend.ErrObjectBuild, ErrCodeObjectBuild, ExitFailure},
	{backend.ErrStrip, ErrCodeStrip, ExitFailure},
	{pipeline.ErrFileSystem, ErrCodeFileSystem, ExitFailure},
	{scaffold.ErrDestinationExists, ErrCodeDestinationExists, ExitFailure},
	{scaffold.ErrFetch, ErrCodeFetch, ExitFailure},
	{scaffold.ErrExtract, ErrCodeExtract, ExitFailure},
	{scaffold.ErrFileSystem, ErrCodeFileSystem, ExitFailure},
}

// classify maps an error to its structured code and exit code.
func classify(err error) (string, int) {
	for _, c := range errorClasses {
		if errors.Is(err, c.target) {
			return c.code, c.exit
		}
	}
	return ErrCodeGeneric, ExitFailure
}

// Diagnostic is the captured output of a failed external tool.
type Diagnostic struct {
	Tool   string `json:"tool"`
	Code   int    `json:"exit_code"`
	Stderr string `json:"stderr"`
}

// diagnostics collects tool output from every failure in err, including
// joined errors, in order.
func diagnostics(err error) []Diagnostic {
	var out []Diagnostic
	walkErrors(err, func(e error) {
		if exitErr, ok := e.(*toolchain.ExitError); ok {
			if stderr := strings.TrimSpace(exitErr.Stderr); stderr != "" {
				out = append(out, Diagnostic{Tool: exitErr.Tool, Code: exitErr.Code, Stderr: stderr})
			}
		}
	})
	return out
}

func walkErrors(err error, fn func(error)) {
	if err == nil {
		return
	}
	fn(err)
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			walkErrors(e, fn)
		}
	case interface{ Unwrap() error }:
		walkErrors(u.Unwrap(), fn)
	}
}

// isReported reports whether err was already printed by a command.
func isReported(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.Reported
}

// fail prints err through the formatter, after any captured tool output,
// and returns the ExitError the command should return.
func fail(f *OutputFormatter, message string, err error, details map[string]any) error {
	code, exit := classify(err)
	diags := diagnostics(err)

	if f.Format == "json" {
		if len(diags) > 0 {
			if details == nil {
				details = map[string]any{}
			}
			details["diagnostics"] = diags
		}
	} else {
		w := f.GetErrWriter()
		for _, d := range diags {
			fmt.Fprintln(w, d.Stderr)
		}
	}

	var payload any
	if len(details) > 0 {
		payload = details
	}
	_ = f.Error(code, message+": "+err.Error(), payload)

	exitErr := WrapExitError(exit, message, err)
	exitErr.Reported = true
	return exitErr
}
