package errors

import (
	"fmt"
	"strings"
)

// MissingProjectPath is returned when validate is run without a project directory.
func MissingProjectPath() *CLIError {
	return NewArgumentErrorWithUsage(
		"no project directory provided",
		"geotagx-validator validate <project-dir> [project-dir...]",
		"Pass the directory that contains project.json and task_presenter.json",
		"Use --file to validate a single document instead",
	)
}

// ProjectNotFound is returned when a project directory does not exist.
func ProjectNotFound(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("project directory not found: %s", path),
		"Check the path for typos",
		"Run the command from the parent of the project directory",
	)
}

// NotADirectory is returned when a project path points at a file.
func NotADirectory(path string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("project path is not a directory: %s", path),
		"Pass the project directory, not one of its files",
		fmt.Sprintf("To check one document, run: geotagx-validator validate --file %s", path),
	)
}

// AmbiguousDocument is returned when a document exists in more than one format.
func AmbiguousDocument(err error) *CLIError {
	return &CLIError{
		Category: Prerequisite,
		Message:  err.Error(),
		Remediation: []string{
			"Keep exactly one file per document (json, yaml, yml or toml)",
			"Remove or rename the extra copies",
		},
		cause: err,
	}
}

// DocumentDecodeError is returned when a document cannot be parsed.
func DocumentDecodeError(path string, err error) *CLIError {
	return &CLIError{
		Category: Runtime,
		Message:  fmt.Sprintf("failed to parse %s: %v", path, err),
		Remediation: []string{
			"Check the file for syntax errors",
			"Make sure every mapping key appears only once",
		},
		cause: err,
	}
}

// UnknownDocumentKind is returned for an invalid document kind argument.
func UnknownDocumentKind(kind string, valid []string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("unknown document kind %q", kind),
		fmt.Sprintf("Valid kinds: %s", strings.Join(valid, ", ")),
	)
}

// UnsupportedFormat is returned for a file extension the decoder does not handle.
func UnsupportedFormat(path string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("unsupported document format: %s", path),
		"Use a .json, .yaml, .yml or .toml file",
	)
}

// UnknownSchemaVersion is returned when a schema version is not registered.
func UnknownSchemaVersion(kind, version string, known []string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("no %s schema for version %q", kind, version),
		fmt.Sprintf("Known versions: %s", strings.Join(known, ", ")),
	)
}

// SchemaRegistryUnavailable is returned when the built-in schemas fail to load.
func SchemaRegistryUnavailable(err error) *CLIError {
	return &CLIError{
		Category: Runtime,
		Message:  err.Error(),
		Remediation: []string{
			"This is a bug in the validator build",
			"Reinstall the validator or report the issue with the output of 'geotagx-validator version'",
		},
		cause: err,
	}
}

// ConfigFileNotFound is returned when an explicit config file is missing.
func ConfigFileNotFound(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("config file not found: %s", path),
		"Check the --config path",
		"Run 'geotagx-validator config show' to see where settings are loaded from",
	)
}

// ConfigParseError is returned when a config file cannot be read.
func ConfigParseError(path string, err error) *CLIError {
	return &CLIError{
		Category: Configuration,
		Message:  fmt.Sprintf("failed to parse config file %s: %v", path, err),
		Remediation: []string{
			"Check the file is valid JSON",
			"Remove the file to fall back to defaults",
		},
		cause: err,
	}
}

// InvalidFlagCombination is returned when flags conflict.
func InvalidFlagCombination(flags []string, reason string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid flag combination: %s (%s)", strings.Join(flags, ", "), reason),
		"Use only one of these flags at a time",
	)
}

// InvalidFlagValue is returned when a flag value is outside its allowed set.
func InvalidFlagValue(flag, value string, valid []string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid value %q for %s", value, flag),
		fmt.Sprintf("Valid values: %s", strings.Join(valid, ", ")),
	)
}

// FileNotWritable is returned when the report file cannot be created.
func FileNotWritable(path string, err error) *CLIError {
	return &CLIError{
		Category: Runtime,
		Message:  fmt.Sprintf("cannot write %s: %v", path, err),
		Remediation: []string{
			"Check permissions on the target directory",
		},
		cause: err,
	}
}

// DocumentNotFound is returned when a document file passed with --file is missing.
func DocumentNotFound(path string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("document not found: %s", path),
		"Check the path for typos",
	)
}

// DocumentKindNotInferred is returned when a file name does not name a document kind.
func DocumentKindNotInferred(path string, valid []string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("cannot tell which document %s is", path),
		"geotagx-validator validate --file <path> --kind <kind>",
		fmt.Sprintf("Name the file after its kind (%s) or pass --kind", strings.Join(valid, ", ")),
	)
}

// ValidationInterrupted is returned when a run is canceled.
func ValidationInterrupted() *CLIError {
	return NewRuntimeError("validation interrupted")
}
