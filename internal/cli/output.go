package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Exit codes returned by Execute.
const (
	ExitSuccess      = 0 // Objects built, project created or history printed
	ExitFailure      = 1 // cargo, a pipeline stage, scaffolding or the ledger failed
	ExitCommandError = 2 // Bad flag, forbidden cargo option, unknown template or invalid config
)

// ExitError carries the process exit code out of a command.
type ExitError struct {
	Code     int    // ExitFailure or ExitCommandError
	Message  string // What the command was doing, e.g. "build failed"
	Err      error  // Cause, usually a pipeline, cargo or scaffold error
	Reported bool   // Already printed through an OutputFormatter
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError returns an ExitError without a cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError returns an ExitError for err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode returns the code of the ExitError in err's chain, or
// ExitFailure when there is none.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter writes command results as text or as one JSON document.
//
// In text mode results go to Writer while errors, captured tool stderr and
// verbose progress go to ErrWriter, so "cargo l1x build > objects.txt" keeps
// only the object list. In JSON mode the single response document is written
// to Writer and only verbose progress goes to ErrWriter.
type OutputFormatter struct {
	Format    string // "text" or "json"
	Writer    io.Writer
	ErrWriter io.Writer // nil falls back to Writer
	Verbose   bool
}

// CLIResponse is the JSON document printed by every command. Data holds a
// BuildResult, CreateResult, a list of ledger runs or object matches.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
	RunID  string    `json:"run_id,omitempty"`
}

// CLIError describes a failure. Details may carry the ledger run id, the
// objects that were still built and the diagnostics of failed tools.
type CLIError struct {
	Code    string `json:"code"` // E0xx
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Success prints a result. Text mode prints data with fmt.Println; commands
// with structured results format their own text and call Success only for
// JSON.
func (f *OutputFormatter) Success(data any) error {
	if f.Format != "json" {
		_, err := fmt.Fprintln(f.Writer, data)
		return err
	}
	return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
}

// Error prints a failure with its E0xx code. Details are only shown in text
// mode with --verbose.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}

	w := f.GetErrWriter()
	fmt.Fprintf(w, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(w, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog prints build progress, such as the resolved llc or the config
// file in use, when --verbose is set.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if f.Verbose {
		fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
	}
}

// GetErrWriter returns ErrWriter, or Writer when it is unset.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
