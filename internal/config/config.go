// Package config loads validator settings from defaults, a global file, a
// project-local file and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "GEOTAGX_VALIDATOR_"
	// LocalConfigPath is the default project-local config file.
	LocalConfigPath = ".geotagx/validator.json"
)

// Configuration represents the validator configuration
type Configuration struct {
	Strict        bool   `koanf:"strict" json:"strict" yaml:"strict"`
	DefaultLocale string `koanf:"default_locale" json:"default_locale" yaml:"default_locale" validate:"required,locale"`
	Parallel      bool   `koanf:"parallel" json:"parallel" yaml:"parallel"`
	LogLevel      string `koanf:"log_level" json:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat     string `koanf:"log_format" json:"log_format" yaml:"log_format" validate:"oneof=text json logfmt"`
	Output        string `koanf:"output" json:"output" yaml:"output" validate:"oneof=text json"`
	NoColor       bool   `koanf:"no_color" json:"no_color" yaml:"no_color"`

	// Sources lists the config files that were loaded, lowest priority first.
	Sources []string `koanf:"-" json:"-" yaml:"-"`
}

// FileError reports a config file that exists but cannot be parsed.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// ValidationError reports a configuration value that violates its constraint.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config field '%s': %s (got %v)", e.Field, e.Message, e.Value)
}

var localePattern = regexp.MustCompile(`^[a-z]{2,3}(-[A-Za-z0-9]+)*$`)

// GlobalConfigPath returns ~/.geotagx/validator.json, or "" when the home
// directory is unknown.
func GlobalConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".geotagx", "validator.json")
}

// Load loads configuration from global, local, and environment sources
// Priority: Environment variables > Local config > Global config > Defaults
func Load(localConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		k.Set(key, value)
	}

	var sources []string
	for _, path := range []string{GlobalConfigPath(), localConfigPath} {
		if !fileExists(path) {
			continue
		}
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return nil, &FileError{Path: path, Err: err}
		}
		sources = append(sources, path)
	}

	// Override with environment variables (highest priority)
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Sources = sources
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.Output = strings.ToLower(cfg.Output)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration values.
func Validate(cfg *Configuration) error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("koanf"), ",", 2)[0]
	})
	if err := validate.RegisterValidation("locale", func(fl validator.FieldLevel) bool {
		return localePattern.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}

	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("config validation failed: %w", err)
	}
	fe := fieldErrs[0]
	return &ValidationError{Field: fe.Field(), Value: fe.Value(), Message: constraintMessage(fe)}
}

func constraintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "locale":
		return "must be a locale code such as 'en' or 'pt-BR'"
	default:
		return fmt.Sprintf("failed the '%s' constraint", fe.Tag())
	}
}

// envTransform converts environment variable names to config keys
// Example: GEOTAGX_VALIDATOR_DEFAULT_LOCALE -> default_locale
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
