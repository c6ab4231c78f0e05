// Package config provides CLI commands for geotagx-validator configuration.
// Includes: config show, config init
package config

import (
	"github.com/spf13/cobra"

	"github.com/geotagx/geotagx-validator/internal/cli/shared"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and create configuration files",
	Long: `Inspect and create geotagx-validator configuration files.

Configuration precedence (highest to lowest):
  1. Command-line flags
  2. Environment variables (GEOTAGX_VALIDATOR_*)
  3. Project config (.geotagx/validator.json)
  4. User config (~/.geotagx/validator.json)
  5. Built-in defaults`,
	GroupID: shared.GroupConfiguration,
}

// Register adds all configuration commands to the root command.
// This function is called from the root CLI package during initialization.
func Register(rootCmd *cobra.Command) {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
