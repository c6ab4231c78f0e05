package shared

import (
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/geotagx/geotagx-validator/internal/config"
	clierrors "github.com/geotagx/geotagx-validator/internal/errors"
	"github.com/geotagx/geotagx-validator/internal/logging"
)

// Global flag names
const (
	ConfigFlag    = "config"
	VerboseFlag   = "verbose"
	QuietFlag     = "quiet"
	NoColorFlag   = "no-color"
	LogFormatFlag = "log-format"
)

// AddGlobalFlags registers the persistent flags shared by every command.
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP(ConfigFlag, "c", config.LocalConfigPath, "Path to config file")
	cmd.PersistentFlags().BoolP(VerboseFlag, "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolP(QuietFlag, "q", false, "Only report errors")
	cmd.PersistentFlags().Bool(NoColorFlag, false, "Disable colored output")
	cmd.PersistentFlags().String(LogFormatFlag, "", "Log format: text, json or logfmt")
}

// LoadConfig loads the configuration and applies global flag overrides.
// Priority: flags > environment > local config > global config > defaults.
func LoadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString(ConfigFlag)
	if flags.Changed(ConfigFlag) {
		if _, err := os.Stat(path); err != nil {
			return nil, clierrors.ConfigFileNotFound(path)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		var fileErr *config.FileError
		if errors.As(err, &fileErr) {
			return nil, clierrors.ConfigParseError(fileErr.Path, fileErr.Err)
		}
		return nil, clierrors.Wrap(err, clierrors.Configuration,
			"Check your config files and GEOTAGX_VALIDATOR_* environment variables")
	}

	verbose, _ := flags.GetBool(VerboseFlag)
	quiet, _ := flags.GetBool(QuietFlag)
	switch {
	case verbose && quiet:
		return nil, clierrors.InvalidFlagCombination([]string{"--verbose", "--quiet"}, "cannot be used together")
	case verbose:
		cfg.LogLevel = "debug"
	case quiet:
		cfg.LogLevel = "error"
	}

	if format, _ := flags.GetString(LogFormatFlag); format != "" {
		cfg.LogFormat = format
	}
	if flags.Changed(NoColorFlag) {
		cfg.NoColor, _ = flags.GetBool(NoColorFlag)
	}
	if cfg.NoColor {
		color.NoColor = true
	}
	return cfg, nil
}

// Quiet reports whether --quiet was given.
func Quiet(cmd *cobra.Command) bool {
	quiet, _ := cmd.Flags().GetBool(QuietFlag)
	return quiet
}

// NewLogger creates the logger described by cfg, writing to w.
func NewLogger(w io.Writer, cfg *config.Configuration) (*log.Logger, error) {
	opts := logging.DefaultOptions()
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, clierrors.NewConfigError(err.Error(), "Valid levels: debug, info, warn, error")
	}
	formatter, err := logging.ParseFormatter(cfg.LogFormat)
	if err != nil {
		return nil, clierrors.NewArgumentError(err.Error())
	}
	opts.Level = level
	opts.Formatter = formatter
	return logging.New(w, opts), nil
}

// Fail prints err to w and returns an exit error carrying code.
func Fail(w io.Writer, err error, code int) error {
	cliErr := clierrors.AsCLIError(err)
	if cliErr == nil {
		cliErr = clierrors.Wrap(err, clierrors.Runtime)
	}
	clierrors.FprintError(w, cliErr)
	return NewExitError(code)
}

// ConfigExitCode maps a LoadConfig error to an exit code.
func ConfigExitCode(err error) int {
	if cliErr := clierrors.AsCLIError(err); cliErr != nil && cliErr.Category == clierrors.Argument {
		return ExitInvalidArguments
	}
	return ExitConfigInvalid
}
