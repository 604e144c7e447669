// Package errors provides structured error handling for configkeys.
// It defines error codes, categories, and formatting for human-readable
// terminal output and compact log lines.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode string

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	// CategoryStore represents backing store errors (STO100-199)
	CategoryStore ErrorCategory = "store"
	// CategoryArtifact represents artifact generation errors (ART200-299)
	CategoryArtifact ErrorCategory = "artifact"
	// CategoryFragment represents module template errors (FRG300-399)
	CategoryFragment ErrorCategory = "fragment"
	// CategoryConfig represents tool configuration errors (CFG400-499)
	CategoryConfig ErrorCategory = "config"
)

// ErrorSeverity indicates the severity level of an error
type ErrorSeverity string

const (
	// SeverityError indicates an operation failed
	SeverityError ErrorSeverity = "error"
	// SeverityWarning indicates a degraded result, e.g. a fallback was used
	SeverityWarning ErrorSeverity = "warning"
)

// ToolError is a structured error carrying a code, the file it concerns and
// an optional hint for fixing it
type ToolError struct {
	// Code is the unique error code (e.g., "STO101")
	Code ErrorCode `json:"code"`
	// Category is the error category
	Category ErrorCategory `json:"category"`
	// Severity is the error severity level
	Severity ErrorSeverity `json:"severity"`
	// Message is the primary error message
	Message string `json:"message"`
	// Path is the file the error concerns (optional)
	Path string `json:"path,omitempty"`
	// Suggestion provides a hint for fixing the error (optional)
	Suggestion string `json:"suggestion,omitempty"`
	// Err is the underlying cause (optional)
	Err error `json:"-"`
}

// Error implements the error interface
func (e *ToolError) Error() string {
	return FormatCompact(e)
}

// Unwrap returns the underlying cause
func (e *ToolError) Unwrap() error {
	return e.Err
}

// Format returns a human-readable error message for terminal output
func (e *ToolError) Format() string {
	return FormatError(e)
}

// WithPath sets the file the error concerns
func (e *ToolError) WithPath(path string) *ToolError {
	e.Path = path
	return e
}

// WithSuggestion sets a suggestion for fixing the error
func (e *ToolError) WithSuggestion(suggestion string) *ToolError {
	e.Suggestion = suggestion
	return e
}

// As returns the first ToolError in err's chain
func As(err error) (*ToolError, bool) {
	var te *ToolError
	if stderrors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// HasCode reports whether err's chain holds a ToolError with the given code
func HasCode(err error, code ErrorCode) bool {
	te, ok := As(err)
	return ok && te.Code == code
}

// ErrorList is a collection of tool errors
type ErrorList []*ToolError

// Error implements the error interface
func (el ErrorList) Error() string {
	if len(el) == 0 {
		return "no errors"
	}
	return FormatErrorList(el)
}

// HasErrors returns true if the list contains any errors (excludes warnings)
func (el ErrorList) HasErrors() bool {
	for _, err := range el {
		if err.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of entries by severity
func (el ErrorList) ErrorCount() (errors, warnings int) {
	for _, err := range el {
		switch err.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
	}
	return
}

// newError creates a new ToolError with the given parameters
func newError(
	code ErrorCode,
	category ErrorCategory,
	severity ErrorSeverity,
	cause error,
	format string,
	args ...interface{},
) *ToolError {
	return &ToolError{
		Code:     code,
		Category: category,
		Severity: severity,
		Message:  fmt.Sprintf(format, args...),
		Err:      cause,
	}
}
