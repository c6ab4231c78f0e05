package progress

import (
	"fmt"
	"strings"
)

// formatCounter returns the [N/Total] item counter string
func formatCounter(number, total int) string {
	return fmt.Sprintf("[%d/%d]", number, total)
}

// buildMessage constructs the in-progress message, with the phase when known
func buildMessage(item Item, phase string) string {
	msg := fmt.Sprintf("%s Validating %s", formatCounter(item.Number, item.Total), item.Name)
	if phase != "" {
		msg += fmt.Sprintf(" (%s)", strings.ReplaceAll(phase, "-", " "))
	}
	return msg
}

// summarize returns "valid", "valid, 1 warning" or "2 errors, 1 warning"
func summarize(errs, warnings int) string {
	var parts []string
	if errs > 0 {
		parts = append(parts, plural(errs, "error"))
	} else {
		parts = append(parts, "valid")
	}
	if warnings > 0 {
		parts = append(parts, plural(warnings, "warning"))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// checkmark returns the appropriate checkmark symbol
func checkmark(symbols Symbols, supportsColor bool) string {
	mark := symbols.Checkmark
	if supportsColor && symbols.Checkmark == "✓" {
		mark = "\033[32m" + mark + "\033[0m" // Green
	}
	return mark
}

// failureMark returns the appropriate failure symbol
func failureMark(symbols Symbols, supportsColor bool) string {
	mark := symbols.Failure
	if supportsColor && symbols.Failure == "✗" {
		mark = "\033[31m" + mark + "\033[0m" // Red
	}
	return mark
}
