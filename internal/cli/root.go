// Package cli provides the Cobra-based commands of geotagx-validator:
// project validation, schema display and export, questionnaire flow
// rendering, configuration and version information.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/geotagx/geotagx-validator/internal/cli/config"
	"github.com/geotagx/geotagx-validator/internal/cli/shared"
	"github.com/geotagx/geotagx-validator/internal/cli/util"
	clierrors "github.com/geotagx/geotagx-validator/internal/errors"
)

// Command group IDs for organizing help output (re-exported from shared)
const (
	GroupValidation    = shared.GroupValidation
	GroupConfiguration = shared.GroupConfiguration
)

var rootCmd = &cobra.Command{
	Use:   "geotagx-validator",
	Short: "Validate GeoTag-X project configurations",
	Long: `geotagx-validator checks the configuration documents of GeoTag-X projects.

A project directory holds a project document, a task presenter and an optional
tutorial, each written as JSON, YAML or TOML. Every document is checked against
the schema named by its schema_version, then references between documents
(question keys, locales, branch targets) are resolved.`,
	Example: `  # Validate a project directory
  geotagx-validator validate ./flood-watch

  # Validate several projects and emit JSON
  geotagx-validator validate ./flood-watch ./wildfire --output json

  # Show the task presenter schema
  geotagx-validator schema task_presenter

  # Draw the questionnaire flow
  geotagx-validator flow ./flood-watch`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx, which is canceled on interrupt.
// Usage errors reported by cobra are printed and mapped to ExitInvalidArguments.
func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err == nil || shared.IsExitError(err) {
		return err
	}
	return shared.Fail(rootCmd.ErrOrStderr(),
		clierrors.NewArgumentError(err.Error(), "Run 'geotagx-validator --help' for usage"),
		ExitInvalidArguments)
}

func init() {
	rootCmd.AddGroup(&cobra.Group{ID: GroupValidation, Title: "Validation:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"})

	rootCmd.SetHelpCommandGroupID(GroupConfiguration)
	rootCmd.SetCompletionCommandGroupID(GroupConfiguration)

	shared.AddGlobalFlags(rootCmd)

	// Register commands from subpackages
	config.Register(rootCmd)
	util.Register(rootCmd)
}
