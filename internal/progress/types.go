// Package progress shows validation progress on an interactive terminal:
// a spinner per project with the current validation phase, followed by a
// one-line outcome.
package progress

import apperrors "github.com/geotagx/geotagx-validator/internal/errors"

// Status represents the state of one validation item
type Status int

const (
	// StatusPending indicates the item has not started yet
	StatusPending Status = iota
	// StatusInProgress indicates the item is being validated
	StatusInProgress
	// StatusCompleted indicates validation finished, valid or not
	StatusCompleted
	// StatusFailed indicates the item could not be validated
	StatusFailed
)

// String returns the string representation of Status
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusInProgress:
		return "in_progress"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Item describes a project or document being validated
type Item struct {
	// Name is the project directory name or document path
	Name string
	// Number is the position of the item (1-based index)
	Number int
	// Total is the number of items in the run
	Total int
	// Status is the current state
	Status Status
}

// Validate checks that all Item fields meet validation requirements
func (it Item) Validate() error {
	if it.Name == "" {
		return apperrors.NewArgumentError("item name cannot be empty")
	}
	if it.Number <= 0 {
		return apperrors.NewArgumentError("item number must be > 0")
	}
	if it.Total <= 0 {
		return apperrors.NewArgumentError("total items must be > 0")
	}
	if it.Number > it.Total {
		return apperrors.NewArgumentError("item number cannot exceed total items")
	}
	return nil
}

// TerminalCapabilities encapsulates detected terminal features
type TerminalCapabilities struct {
	// IsTTY indicates whether the output is a terminal (vs pipe/redirect)
	IsTTY bool
	// SupportsColor indicates whether terminal supports ANSI color codes
	SupportsColor bool
	// SupportsUnicode indicates whether terminal supports Unicode characters
	SupportsUnicode bool
	// Width is the terminal width in columns (0 if unknown/pipe)
	Width int
}

// Symbols defines the character set for visual indicators
type Symbols struct {
	// Checkmark is the success indicator ("✓" or "[OK]")
	Checkmark string
	// Failure is the failure indicator ("✗" or "[FAIL]")
	Failure string
	// SpinnerSet is the index into spinner.CharSets
	SpinnerSet int
}
