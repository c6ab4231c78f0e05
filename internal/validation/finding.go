package validation

import (
	"fmt"
	"strings"
)

// Severity classifies a finding.
type Severity int

const (
	// SeverityError makes the project invalid.
	SeverityError Severity = iota
	// SeverityWarning is reported but does not fail validation.
	SeverityWarning
)

// String returns "error" or "warning".
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Code identifies the kind of problem a finding describes.
type Code string

const (
	CodeUnknownSchemaVersion Code = "unknown_schema_version"
	CodeMissingRequiredField Code = "missing_required_field"
	CodeUnknownField         Code = "unknown_field"
	CodeTypeMismatch         Code = "type_mismatch"
	CodeInvalidEnumValue     Code = "invalid_enum_value"
	CodeTooFewElements       Code = "too_few_elements"
	CodeMissingDefaultLocale Code = "missing_default_locale"
	CodeDanglingReference    Code = "dangling_reference"
	CodeBlankValue           Code = "blank_value"
	CodePatternMismatch      Code = "pattern_mismatch"
	CodeInvalidFormat        Code = "invalid_format"
	CodeDuplicateIdentifier  Code = "duplicate_identifier"
	CodeCircularBranch       Code = "circular_branch"
	CodeUnreachableQuestion  Code = "unreachable_question"
	CodeMissingDocument      Code = "missing_document"
)

// Finding represents a single validation problem with location and context.
type Finding struct {
	Severity Severity
	Code     Code
	Document DocumentKind // Document the finding belongs to
	Path     Path         // Location inside the document; empty means the root
	Line     int          // 1-based line number in source file (0 if unknown)
	Column   int          // 1-based column number in source file (0 if unknown)
	Message  string       // Human-readable description
	Expected string       // What was expected (type, value, format)
	Actual   string       // What was found
	Hint     string       // Suggestion for fixing the problem
}

// IsError reports whether the finding fails validation.
func (f Finding) IsError() bool {
	return f.Severity == SeverityError
}

// Location renders the finding path, or "(root)" for the document itself.
func (f Finding) Location() string {
	if f.Path.IsRoot() {
		return "(root)"
	}
	return f.Path.String()
}

// Error implements the error interface.
func (f Finding) Error() string {
	var sb strings.Builder
	if f.Document != "" {
		sb.WriteString(string(f.Document))
		sb.WriteString(": ")
	}
	if f.Line > 0 {
		sb.WriteString(fmt.Sprintf("line %d", f.Line))
		if f.Column > 0 {
			sb.WriteString(fmt.Sprintf(":%d", f.Column))
		}
		sb.WriteString(": ")
	}
	sb.WriteString(fmt.Sprintf("%s: %s", f.Location(), f.Message))
	return sb.String()
}

// FormatFull returns a detailed multi-line description.
func (f Finding) FormatFull() string {
	var sb strings.Builder

	if f.Line > 0 {
		sb.WriteString(fmt.Sprintf("  Line %d", f.Line))
		if f.Column > 0 {
			sb.WriteString(fmt.Sprintf(", Column %d", f.Column))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("  Path: %s\n", f.Location()))
	sb.WriteString(fmt.Sprintf("  %s [%s]: %s\n", capitalize(f.Severity.String()), f.Code, f.Message))

	if f.Expected != "" {
		sb.WriteString(fmt.Sprintf("  Expected: %s\n", f.Expected))
	}
	if f.Actual != "" {
		sb.WriteString(fmt.Sprintf("  Got: %s\n", f.Actual))
	}
	if f.Hint != "" {
		sb.WriteString(fmt.Sprintf("  Hint: %s\n", f.Hint))
	}

	return sb.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
