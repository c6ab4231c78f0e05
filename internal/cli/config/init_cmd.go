package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/geotagx/geotagx-validator/internal/cli/shared"
	cfgpkg "github.com/geotagx/geotagx-validator/internal/config"
	clierrors "github.com/geotagx/geotagx-validator/internal/errors"
)

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Long: `Write a configuration file listing every setting with its default value.

By default, creates the project config (.geotagx/validator.json) in the
current directory. Use --global for the user config (~/.geotagx/validator.json).

If the file already exists, it is left unchanged (use --force to overwrite).`,
	Example: `  # Create a project config
  geotagx-validator config init

  # Create the user config, replacing any existing one
  geotagx-validator config init --global --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		global, _ := cmd.Flags().GetBool("global")
		force, _ := cmd.Flags().GetBool("force")

		path := cfgpkg.LocalConfigPath
		if global {
			path = cfgpkg.GlobalConfigPath()
			if path == "" {
				return shared.Fail(cmd.ErrOrStderr(),
					clierrors.NewPrerequisiteError("cannot locate the home directory", "Set $HOME or create the project config instead"),
					shared.ExitConfigInvalid)
			}
		}
		return runConfigInit(path, force, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	configInitCmd.Flags().BoolP("global", "g", false, "Create the user-level config")
	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite an existing config file")
}

// runConfigInit writes the default config template to path.
func runConfigInit(path string, force bool, out, errOut io.Writer) error {
	if _, err := os.Stat(path); err == nil && !force {
		return shared.Fail(errOut, clierrors.NewArgumentError(
			fmt.Sprintf("config file already exists: %s", path),
			"Use --force to overwrite it with the defaults",
			"Run 'geotagx-validator config show' to see the current settings"), shared.ExitInvalidArguments)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return shared.Fail(errOut, clierrors.FileNotWritable(path, err), shared.ExitConfigInvalid)
	}
	if err := os.WriteFile(path, []byte(cfgpkg.GetDefaultConfigTemplate()), 0o644); err != nil {
		return shared.Fail(errOut, clierrors.FileNotWritable(path, err), shared.ExitConfigInvalid)
	}

	fmt.Fprintf(out, "%s Created %s\n", color.New(color.FgGreen).Sprint("✓"), path)
	return nil
}
