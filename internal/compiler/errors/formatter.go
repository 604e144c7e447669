package errors

import (
	"fmt"
	"strings"
)

// FormatError returns a human-readable error message for terminal output
func FormatError(e *ToolError) string {
	var b strings.Builder

	icon := severityIcon(e.Severity)
	categoryName := categoryDisplayName(e.Category)

	if e.Path != "" {
		fmt.Fprintf(&b, "%s %s in %s [%s]\n", icon, categoryName, e.Path, e.Code)
	} else {
		fmt.Fprintf(&b, "%s %s [%s]\n", icon, categoryName, e.Code)
	}
	fmt.Fprintf(&b, "  %s\n", e.Message)

	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n💡 %s\n", e.Suggestion)
	}

	return b.String()
}

// FormatErrorList returns a formatted string of all errors
func FormatErrorList(errors ErrorList) string {
	if len(errors) == 0 {
		return "no errors"
	}

	var b strings.Builder

	errCount, warnCount := errors.ErrorCount()
	fmt.Fprintf(&b, "%d error(s), %d warning(s)\n\n", errCount, warnCount)

	for i, err := range errors {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(err.Format())
	}

	return b.String()
}

// FormatCompact returns a compact one-line error format
func FormatCompact(e *ToolError) string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s [%s]", e.Severity, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s: %s [%s]", e.Path, e.Severity, e.Message, e.Code)
}

// severityIcon returns the emoji/icon for a severity level
func severityIcon(severity ErrorSeverity) string {
	switch severity {
	case SeverityError:
		return "❌"
	case SeverityWarning:
		return "⚠️ "
	default:
		return "❓"
	}
}

// categoryDisplayName returns a human-readable category name
func categoryDisplayName(category ErrorCategory) string {
	switch category {
	case CategoryStore:
		return "Store Error"
	case CategoryArtifact:
		return "Artifact Error"
	case CategoryFragment:
		return "Template Error"
	case CategoryConfig:
		return "Configuration Error"
	default:
		return "Error"
	}
}
