package cli

import (
	"github.com/geotagx/geotagx-validator/internal/cli/shared"
)

// Exit codes for the geotagx-validator CLI (re-exported from shared)
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = shared.ExitSuccess

	// ExitValidationFailed indicates at least one project has errors
	ExitValidationFailed = shared.ExitValidationFailed

	// ExitConfigInvalid indicates the configuration could not be loaded
	ExitConfigInvalid = shared.ExitConfigInvalid

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = shared.ExitInvalidArguments

	// ExitMissingDependency indicates the schema registry is unavailable
	ExitMissingDependency = shared.ExitMissingDependency

	// ExitInterrupted indicates the run was canceled
	ExitInterrupted = shared.ExitInterrupted
)

// NewExitError creates a new exit error with the given code (re-exported from shared).
func NewExitError(code int) error {
	return shared.NewExitError(code)
}

// ExitCode returns the exit code from an error (re-exported from shared).
func ExitCode(err error) int {
	return shared.ExitCode(err)
}
