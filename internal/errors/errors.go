// Package errors provides error types with actionable suggestions for the
// ruffyt application. Errors include contextual information to help users
// resolve issues quickly.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Common sentinel errors for use with errors.Is().
var (
	// ErrManifest indicates a problem with the pyproject.toml manifest.
	ErrManifest = errors.New("manifest error")
	// ErrTool indicates a failure of the package-listing tool.
	ErrTool = errors.New("tool error")
	// ErrConfig indicates a configuration error.
	ErrConfig = errors.New("configuration error")
	// ErrServer indicates an API server failure.
	ErrServer = errors.New("server error")
	// ErrNotFound indicates a resource was not found.
	ErrNotFound = errors.New("not found")
)

// RuffytError is the base error type for ruffyt errors.
// It wraps an underlying error and provides additional context.
type RuffytError struct {
	// Kind is the category of error (e.g., ErrManifest, ErrTool).
	Kind error
	// Message is the human-readable error message.
	Message string
	// Suggestion provides actionable advice for resolving the error.
	Suggestion string
	// Cause is the underlying error that caused this error.
	Cause error
	// Details provides additional context (e.g., file path, command output).
	Details map[string]string
}

// Error implements the error interface.
func (e *RuffytError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *RuffytError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return e.Kind
}

// Is reports whether any error in err's chain matches the target.
func (e *RuffytError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

// Format returns a formatted error message with details and suggestions.
func (e *RuffytError) Format() string {
	var sb strings.Builder

	sb.WriteString("Error: ")
	sb.WriteString(e.Error())
	sb.WriteString("\n")

	if len(e.Details) > 0 {
		sb.WriteString("\nDetails:\n")
		for k, v := range e.Details {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", k, v))
		}
	}

	if e.Suggestion != "" {
		sb.WriteString("\nSuggestion: ")
		sb.WriteString(e.Suggestion)
		sb.WriteString("\n")
	}

	return sb.String()
}

// WithDetails adds details to the error.
func (e *RuffytError) WithDetails(key, value string) *RuffytError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying cause of the error.
func (e *RuffytError) WithCause(cause error) *RuffytError {
	e.Cause = cause
	return e
}

// ManifestNotFound returns an error for a missing pyproject.toml.
func ManifestNotFound(startDir string) *RuffytError {
	return &RuffytError{
		Kind:       ErrManifest,
		Message:    "no pyproject.toml found upwards from current working directory",
		Suggestion: "run ruffyt from inside a Python project, or create a pyproject.toml at the project root",
		Details:    map[string]string{"start_dir": startDir},
	}
}

// DependencyBlockMissing returns an error for a manifest without a
// [project] dependencies block.
func DependencyBlockMissing(path string) *RuffytError {
	return &RuffytError{
		Kind:       ErrManifest,
		Message:    "no [project] dependencies block found in pyproject.toml",
		Suggestion: "add a PEP 621 dependencies array under the [project] table",
		Details:    map[string]string{"path": path},
	}
}

// ToolFailed returns an error for a failed package-listing tool invocation.
func ToolFailed(command string, exitCode int, stderr string) *RuffytError {
	e := &RuffytError{
		Kind:       ErrTool,
		Message:    fmt.Sprintf("package-listing command failed: %s", command),
		Suggestion: "check that the configured tool is installed and the environment is set up",
		Details:    map[string]string{"exit_code": fmt.Sprintf("%d", exitCode)},
	}
	if stderr != "" {
		e.Details["stderr"] = stderr
	}
	return e
}

// InvalidConfig returns an error for an invalid configuration value.
func InvalidConfig(field, message string) *RuffytError {
	return &RuffytError{
		Kind:    ErrConfig,
		Message: fmt.Sprintf("invalid configuration: %s: %s", field, message),
	}
}

// Is reports whether any error in err's chain matches target.
// Re-exported so callers don't need to import both error packages.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}
