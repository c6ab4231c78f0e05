package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	titleColor  = color.New(color.FgRed, color.Bold)
	usageColor  = color.New(color.FgCyan)
	fixColor    = color.New(color.FgYellow, color.Bold)
	bulletColor = color.New(color.FgYellow)
)

// FormatError renders err with colors (when the terminal supports them).
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	return format(err, true)
}

// FormatErrorPlain renders err without ANSI escape codes.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return format(err, false)
}

func format(err *CLIError, colored bool) string {
	paint := func(c *color.Color, s string) string {
		if !colored {
			return s
		}
		return c.Sprint(s)
	}

	var sb strings.Builder
	sb.WriteString(paint(titleColor, err.Category.String()+":"))
	sb.WriteString(" ")
	sb.WriteString(err.Message)
	sb.WriteString("\n")

	if err.Usage != "" {
		sb.WriteString("\n")
		sb.WriteString(paint(usageColor, "Usage:"))
		sb.WriteString(" " + err.Usage + "\n")
	}

	if len(err.Remediation) > 0 {
		sb.WriteString("\n")
		sb.WriteString(paint(fixColor, "To fix this:"))
		sb.WriteString("\n")
		for _, step := range err.Remediation {
			sb.WriteString(fmt.Sprintf("  %s %s\n", paint(bulletColor, "-"), step))
		}
	}
	return sb.String()
}

// PrintError writes err to stderr.
func PrintError(err *CLIError) {
	FprintError(os.Stderr, err)
}

// FprintError writes err to w.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err))
}

// FormatSimpleError renders a plain error under the given category.
func FormatSimpleError(err error, category ErrorCategory) string {
	if err == nil {
		return ""
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return FormatError(cliErr)
	}
	return FormatError(&CLIError{Category: category, Message: err.Error()})
}
