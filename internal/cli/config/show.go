package config

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/geotagx/geotagx-validator/internal/cli/shared"
	cfgpkg "github.com/geotagx/geotagx-validator/internal/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Long: `Display the configuration after merging defaults, config files and
environment variables, followed by the files and variables that were used.`,
	Example: `  # Show as YAML
  geotagx-validator config show

  # Show as JSON
  geotagx-validator config show --json`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func init() {
	configShowCmd.Flags().Bool("json", false, "Output in JSON format")
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	errOut := cmd.ErrOrStderr()
	cfg, err := shared.LoadConfig(cmd)
	if err != nil {
		return shared.Fail(errOut, err, shared.ConfigExitCode(err))
	}
	asJSON, _ := cmd.Flags().GetBool("json")
	if err := writeConfig(cmd.OutOrStdout(), cfg, asJSON, os.Environ()); err != nil {
		return shared.Fail(errOut, err, shared.ExitConfigInvalid)
	}
	return nil
}

// writeConfig prints cfg and where it came from. environ is scanned for
// GEOTAGX_VALIDATOR_ overrides.
func writeConfig(out io.Writer, cfg *cfgpkg.Configuration, asJSON bool, environ []string) error {
	var data []byte
	var err error
	if asJSON {
		data, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}
	if asJSON {
		data = append(data, '\n')
	}
	if _, err := out.Write(data); err != nil {
		return err
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	fmt.Fprintf(out, "\n%s\n", cyan("Configuration Sources:"))
	if len(cfg.Sources) == 0 {
		fmt.Fprintf(out, "  %s\n", dim("(no config files, using defaults)"))
	}
	for _, src := range cfg.Sources {
		fmt.Fprintf(out, "  %s\n", src)
	}

	overrides := envOverrides(environ)
	if len(overrides) > 0 {
		fmt.Fprintf(out, "\n%s\n", cyan("Environment Overrides:"))
		for _, name := range overrides {
			fmt.Fprintf(out, "  %s\n", name)
		}
	}
	return nil
}

// envOverrides returns the sorted names of the GEOTAGX_VALIDATOR_ variables in environ.
func envOverrides(environ []string) []string {
	var names []string
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, cfgpkg.EnvPrefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
