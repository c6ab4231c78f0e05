// Package report renders validation results as colored text or JSON.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/geotagx/geotagx-validator/internal/validation"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Formats returns the supported output formats.
func Formats() []string {
	return []string{string(FormatText), string(FormatJSON)}
}

// ParseFormat converts a string to a Format (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (valid formats: %s)", s, strings.Join(Formats(), ", "))
	}
}

// Result is the validation outcome of one project directory or document file.
type Result struct {
	Name   string                             // Display name (directory name or file path)
	Path   string                             // Path that was validated
	Files  map[validation.DocumentKind]string // Source file of each present document
	Report *validation.Report
	Err    error // Set when the project could not be loaded; Report is then nil
}

// Valid reports whether the result loaded and has no error findings.
func (r Result) Valid() bool {
	if r.Err != nil {
		return false
	}
	return r.Report == nil || r.Report.Valid()
}

// Options controls text rendering.
type Options struct {
	Color bool // Use ANSI colors
	Quiet bool // Print errors only, no warnings or summary
}

// Write renders results in the given format.
func Write(w io.Writer, format Format, results []Result, opts Options) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, results)
	case FormatText, "":
		return WriteText(w, results, opts)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// ColorEnabled decides whether output to f should be colored. Color is off
// when disabled explicitly, when NO_COLOR is set, or when f is not a terminal.
func ColorEnabled(f *os.File, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" || f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
