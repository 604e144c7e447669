package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	toolerrors "github.com/conduit-lang/configkeys/internal/compiler/errors"
)

// ErrorLevel represents the severity of an error message
type ErrorLevel int

const (
	ErrorLevelError ErrorLevel = iota
	ErrorLevelWarning
	ErrorLevelInfo
)

// ErrorOptions configures the error message formatting
type ErrorOptions struct {
	Level        ErrorLevel
	Context      string
	Problem      string
	Consequence  string
	Suggestions  []string
	HelpCommands []string
	NoColor      bool
}

// FormatError creates a standardized error message with suggestions and help commands
//
// Example output:
//
//	❌ KEY NOT FOUND: server.prot
//	   No value is stored at 'server.prot'.
//
//	   Did you mean: server.port?
//
//	   → See all keys: configkeys show
func FormatError(opts ErrorOptions) string {
	var b strings.Builder

	var headerColor, bodyColor *color.Color
	var symbol string

	switch opts.Level {
	case ErrorLevelError:
		headerColor = color.New(color.FgRed, color.Bold)
		bodyColor = color.New(color.FgRed)
		symbol = "❌"
	case ErrorLevelWarning:
		headerColor = color.New(color.FgYellow, color.Bold)
		bodyColor = color.New(color.FgYellow)
		symbol = "⚠️"
	case ErrorLevelInfo:
		headerColor = color.New(color.FgCyan, color.Bold)
		bodyColor = color.New(color.FgCyan)
		symbol = "ℹ️"
	}

	if opts.NoColor {
		headerColor.DisableColor()
		bodyColor.DisableColor()
	}

	if opts.Context != "" {
		headerColor.Fprintf(&b, "%s %s: %s\n", symbol, strings.ToUpper(opts.Context), opts.Problem)
	} else {
		headerColor.Fprintf(&b, "%s %s\n", symbol, opts.Problem)
	}

	if opts.Consequence != "" {
		b.WriteString("\n")
		bodyColor.Fprintf(&b, "   %s\n", opts.Consequence)
	}

	if len(opts.Suggestions) > 0 {
		b.WriteString("\n")
		yellow := color.New(color.FgYellow)
		if opts.NoColor {
			yellow.DisableColor()
		}
		yellow.Fprintf(&b, "   Did you mean: %s?\n", strings.Join(opts.Suggestions, ", "))
	}

	if len(opts.HelpCommands) > 0 {
		b.WriteString("\n")
		cyan := color.New(color.FgCyan)
		if opts.NoColor {
			cyan.DisableColor()
		}
		for _, cmd := range opts.HelpCommands {
			cyan.Fprintf(&b, "   → %s\n", cmd)
		}
	}

	return b.String()
}

// WriteError writes a formatted error message to the writer
func WriteError(w io.Writer, opts ErrorOptions) {
	fmt.Fprint(w, FormatError(opts))
}

// FormatSuccess creates a success message
func FormatSuccess(message string, noColor bool) string {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message)
}

// WriteSuccess writes a success message to the writer
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, FormatSuccess(message, noColor))
}

// KeyNotFoundError creates a standardized missing key error
func KeyNotFoundError(path string, suggestions []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelError,
		Context:     "KEY NOT FOUND",
		Problem:     fmt.Sprintf("No value is stored at '%s'.", path),
		Suggestions: suggestions,
		HelpCommands: []string{
			"See all keys: configkeys show",
			"Add it: configkeys set " + path + " <value>",
		},
		NoColor: noColor,
	})
}

// StaleArtifactError creates a standardized out-of-date artifact error
func StaleArtifactError(path string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:        ErrorLevelError,
		Context:      "OUT OF DATE",
		Problem:      fmt.Sprintf("%s does not match the configuration store.", path),
		HelpCommands: []string{"Regenerate: configkeys generate", "Inspect: configkeys diff"},
		NoColor:      noColor,
	})
}

// ToolError formats a structured tool error; its suggestion becomes a help line
func ToolError(err *toolerrors.ToolError, noColor bool) string {
	level := ErrorLevelError
	if err.Severity == toolerrors.SeverityWarning {
		level = ErrorLevelWarning
	}

	context := strings.ToUpper(string(err.Category)) + " " + string(err.Code)
	problem := err.Message
	if err.Path != "" {
		problem = fmt.Sprintf("%s (%s)", err.Message, err.Path)
	}

	opts := ErrorOptions{
		Level:   level,
		Context: context,
		Problem: problem,
		NoColor: noColor,
	}
	if err.Suggestion != "" {
		opts.HelpCommands = []string{err.Suggestion}
	}
	return FormatError(opts)
}

// ConfigError creates a standardized configuration error
func ConfigError(message string, suggestions []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelError,
		Context:     "CONFIGURATION ERROR",
		Problem:     message,
		Suggestions: suggestions,
		HelpCommands: []string{
			"View config: cat configkeys.yml",
			"Get help: configkeys --help",
		},
		NoColor: noColor,
	})
}

// Warning creates a standardized warning message
func Warning(message string, suggestions []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelWarning,
		Problem:     message,
		Suggestions: suggestions,
		NoColor:     noColor,
	})
}

// Info creates a standardized info message
func Info(message string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:   ErrorLevelInfo,
		Problem: message,
		NoColor: noColor,
	})
}
