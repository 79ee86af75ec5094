package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"versiongen/internal/diagnostic"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Diagnostics reported errors or generated files are stale
	ExitCommandError = 2 // Packages or configuration could not be loaded
)

// Error codes carried by JSON error responses.
const (
	ErrCodeDiagnostics = "diagnostics"
	ErrCodeStale       = "stale"
	ErrCodeCommand     = "command"
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// CLIResponse is the JSON response written by every command.
type CLIResponse struct {
	Status string    `json:"status"`         // "ok" or "error"
	Data   any       `json:"data,omitempty"` // success payload
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// JSON reports whether responses are written as JSON.
func (f *OutputFormatter) JSON() bool {
	return f.Format == "json"
}

// Success writes a JSON response carrying data. In text mode the caller
// writes its own output and Success does nothing.
func (f *OutputFormatter) Success(data any) error {
	if !f.JSON() {
		return nil
	}

	return f.encode(CLIResponse{Status: "ok", Data: data})
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.JSON() {
		return f.encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	_, err := fmt.Fprintf(f.Writer, "error: %s\n", message)
	return err
}

// Fail reports err and returns it, keeping its exit code.
func (f *OutputFormatter) Fail(err error) error {
	code := ErrCodeCommand

	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code == ExitFailure {
		code = ErrCodeDiagnostics
	}

	_ = f.Error(code, err.Error(), nil)

	return err
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// DiagnosticView is the JSON form of a diagnostic.
type DiagnosticView struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Decl     string `json:"decl,omitempty"`
	Pos      string `json:"pos,omitempty"`
}

func diagnosticViews(diags diagnostic.Diagnostics) []DiagnosticView {
	all := diags.All()

	views := make([]DiagnosticView, 0, len(all))
	for _, d := range all {
		views = append(views, DiagnosticView{
			Severity: d.Severity.String(),
			Code:     d.Code,
			Message:  d.Message,
			Decl:     d.Decl,
			Pos:      d.Pos,
		})
	}

	return views
}
