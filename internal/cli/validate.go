package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/geotagx/geotagx-validator/internal/cli/shared"
	"github.com/geotagx/geotagx-validator/internal/config"
	"github.com/geotagx/geotagx-validator/internal/document"
	clierrors "github.com/geotagx/geotagx-validator/internal/errors"
	"github.com/geotagx/geotagx-validator/internal/progress"
	"github.com/geotagx/geotagx-validator/internal/project"
	"github.com/geotagx/geotagx-validator/internal/report"
	"github.com/geotagx/geotagx-validator/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate [project-dir...]",
	Short: "Validate GeoTag-X project directories",
	Long: `Validate the configuration documents of one or more GeoTag-X projects.

Each project directory is searched for project, task_presenter and tutorial
documents (.json, .yaml, .yml or .toml). The tutorial is optional.

Validates:
  - schema_version names a known schema
  - Required fields present, no unknown fields (warnings unless --strict)
  - Field types, enum values, array sizes and string formats
  - Localized fields provide the default locale
  - Question keys are unique and every reference resolves
  - Questionnaire branches contain no cycles and reach every question

With --file, single documents are checked against their schema without
the cross-document pass.

Exit Codes:
  0 - Success (every project is valid)
  1 - Validation failed (at least one error)
  2 - Configuration could not be loaded
  3 - Invalid arguments (missing directory, bad flag)
  4 - Schema registry unavailable
  5 - Interrupted`,
	Example: `  # Validate a project
  geotagx-validator validate ./flood-watch

  # Treat unknown fields as errors
  geotagx-validator validate ./flood-watch --strict

  # Machine-readable output for CI
  geotagx-validator validate projects/* --output json

  # Check a single document
  geotagx-validator validate --file drafts/questions.yaml --kind task_presenter`,
	GroupID:       GroupValidation,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		errOut := cmd.ErrOrStderr()
		cfg, err := shared.LoadConfig(cmd)
		if err != nil {
			return shared.Fail(errOut, err, shared.ConfigExitCode(err))
		}
		applyValidateFlags(cmd, cfg)

		logger, err := shared.NewLogger(errOut, cfg)
		if err != nil {
			return shared.Fail(errOut, err, ExitInvalidArguments)
		}

		files, _ := cmd.Flags().GetStringSlice("file")
		kind, _ := cmd.Flags().GetString("kind")
		req := validateRequest{
			Dirs:     args,
			Files:    files,
			Kind:     kind,
			Quiet:    shared.Quiet(cmd),
			Color:    colorFor(cmd.OutOrStdout(), cfg),
			Config:   cfg,
			Logger:   logger,
			Progress: progressFor(errOut, cfg, shared.Quiet(cmd)),
		}
		return runValidate(cmd.Context(), req, cmd.OutOrStdout(), errOut)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("strict", false, "Report unknown fields as errors")
	validateCmd.Flags().Bool("parallel", false, "Validate the documents of a project concurrently")
	validateCmd.Flags().StringP("output", "o", "", "Output format: text or json")
	validateCmd.Flags().StringSliceP("file", "f", nil, "Validate a single document file (repeatable)")
	validateCmd.Flags().String("kind", "", "Document kind of --file when the file name does not tell")
}

// applyValidateFlags overrides config values with explicitly set flags.
func applyValidateFlags(cmd *cobra.Command, cfg *config.Configuration) {
	flags := cmd.Flags()
	if flags.Changed("strict") {
		cfg.Strict, _ = flags.GetBool("strict")
	}
	if flags.Changed("parallel") {
		cfg.Parallel, _ = flags.GetBool("parallel")
	}
	if flags.Changed("output") {
		cfg.Output, _ = flags.GetString("output")
	}
}

func colorFor(out io.Writer, cfg *config.Configuration) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return report.ColorEnabled(f, cfg.NoColor)
}

// progressFor returns a progress display when errOut is an interactive terminal.
func progressFor(errOut io.Writer, cfg *config.Configuration, quiet bool) *progress.Display {
	f, ok := errOut.(*os.File)
	if !ok || quiet {
		return nil
	}
	caps := progress.DetectTerminalCapabilities(f)
	if !caps.IsTTY {
		return nil
	}
	caps.SupportsColor = caps.SupportsColor && !cfg.NoColor
	return progress.NewDisplay(errOut, caps)
}

// validateRequest holds the resolved inputs of the validate command.
type validateRequest struct {
	Dirs   []string
	Files  []string
	Kind   string
	Quiet  bool
	Color  bool
	Config *config.Configuration
	Logger *log.Logger
	// Progress shows per-project progress. Nil disables it.
	Progress *progress.Display
}

// runValidate validates every requested project and document, prints the
// report and returns an exit error when anything is invalid.
func runValidate(ctx context.Context, req validateRequest, out, errOut io.Writer) error {
	cfg := req.Config

	format, err := report.ParseFormat(cfg.Output)
	if err != nil {
		return shared.Fail(errOut, clierrors.InvalidFlagValue("--output", cfg.Output, report.Formats()), ExitInvalidArguments)
	}
	if len(req.Dirs) == 0 && len(req.Files) == 0 {
		return shared.Fail(errOut, clierrors.MissingProjectPath(), ExitInvalidArguments)
	}

	var kind validation.DocumentKind
	if req.Kind != "" {
		if len(req.Files) == 0 {
			return shared.Fail(errOut, clierrors.InvalidFlagCombination([]string{"--kind"}, "requires --file"), ExitInvalidArguments)
		}
		kind, err = validation.ParseDocumentKind(req.Kind)
		if err != nil {
			return shared.Fail(errOut, clierrors.UnknownDocumentKind(req.Kind, validation.ValidDocumentKinds()), ExitInvalidArguments)
		}
	}

	if bad := checkPaths(req, kind); bad != nil {
		return shared.Fail(errOut, bad.cliErr, bad.code)
	}

	registry, err := validation.DefaultRegistry()
	if err != nil {
		return shared.Fail(errOut, clierrors.SchemaRegistryUnavailable(err), ExitMissingDependency)
	}

	display := req.Progress
	runOpts := validation.RunOptions{
		StrictUnknownFields: cfg.Strict,
		DefaultLocale:       cfg.DefaultLocale,
		Parallel:            cfg.Parallel,
		Logger:              req.Logger,
	}
	if display != nil {
		runOpts.OnPhase = func(p validation.Phase) { display.Phase(p.String()) }
	}
	runner := validation.NewRunner(validation.StaticRegistry(registry), runOpts)

	var results []report.Result

	for i, dir := range req.Dirs {
		item := progress.Item{Name: filepath.Base(dir), Number: i + 1, Total: len(req.Dirs)}
		if display != nil {
			_ = display.Start(item)
		}
		res, err := validateProject(ctx, runner, dir)
		if display != nil {
			if err != nil {
				display.Fail(item, err)
			} else {
				errs, warnings := res.Report.Counts()
				display.Complete(item, errs, warnings)
			}
		}
		if err != nil {
			cliErr, code := classifyError(dir, err, false)
			if code != ExitValidationFailed {
				writeReport(out, errOut, format, results, req)
				return shared.Fail(errOut, cliErr, code)
			}
			clierrors.FprintError(errOut, cliErr)
			res = report.Result{Name: filepath.Base(dir), Path: dir, Err: err}
		}
		results = append(results, res)
	}

	for _, path := range req.Files {
		res, err := validateFile(registry, cfg, path, kind)
		if err != nil {
			cliErr, code := classifyError(path, err, true)
			if code != ExitValidationFailed {
				writeReport(out, errOut, format, results, req)
				return shared.Fail(errOut, cliErr, code)
			}
			clierrors.FprintError(errOut, cliErr)
			res = report.Result{Name: path, Path: path, Err: err}
		}
		results = append(results, res)
	}

	if err := report.Write(out, format, results, report.Options{Color: req.Color, Quiet: req.Quiet}); err != nil {
		return shared.Fail(errOut, err, ExitValidationFailed)
	}

	for _, res := range results {
		if !res.Valid() {
			return NewExitError(ExitValidationFailed)
		}
	}
	return nil
}

// writeReport prints the results gathered before a run was cut short.
func writeReport(out, errOut io.Writer, format report.Format, results []report.Result, req validateRequest) {
	if len(results) == 0 {
		return
	}
	if err := report.Write(out, format, results, report.Options{Color: req.Color, Quiet: req.Quiet}); err != nil {
		clierrors.FprintError(errOut, clierrors.Wrap(err, clierrors.Runtime))
	}
}

// pathError is an argument problem found before validation starts.
type pathError struct {
	cliErr *clierrors.CLIError
	code   int
}

// checkPaths rejects missing, misplaced or ambiguous inputs before any
// project is validated. Problems that only fail a single project, such as
// unreadable documents, are left to the run.
func checkPaths(req validateRequest, kind validation.DocumentKind) *pathError {
	for _, dir := range req.Dirs {
		if _, err := project.Discover(dir); err != nil {
			if cliErr, code := classifyError(dir, err, false); code != ExitValidationFailed {
				return &pathError{cliErr: cliErr, code: code}
			}
		}
	}
	for _, path := range req.Files {
		if _, err := fileSource(path, kind); err != nil {
			if cliErr, code := classifyError(path, err, true); code != ExitValidationFailed {
				return &pathError{cliErr: cliErr, code: code}
			}
		}
	}
	return nil
}

func validateProject(ctx context.Context, runner *validation.Runner, dir string) (report.Result, error) {
	p, err := project.Load(dir)
	if err != nil {
		return report.Result{}, err
	}

	rep, err := runner.Run(ctx, p.Documents)
	if err != nil {
		return report.Result{}, err
	}

	files := make(map[validation.DocumentKind]string, len(p.Sources))
	for kind, src := range p.Sources {
		files[kind] = src.Path
	}
	return report.Result{Name: p.Name(), Path: dir, Files: files, Report: rep}, nil
}

// validateFile checks one document against its schema. References into
// other documents are not resolved.
func validateFile(registry *validation.Registry, cfg *config.Configuration, path string, kind validation.DocumentKind) (report.Result, error) {
	src, err := fileSource(path, kind)
	if err != nil {
		return report.Result{}, err
	}
	doc, err := project.LoadFile(src)
	if err != nil {
		return report.Result{}, err
	}

	locale := cfg.DefaultLocale
	if src.Kind == validation.KindTaskPresenter {
		locale = validation.ResolveDefaultLocale(doc, locale)
	}
	engine := validation.NewEngine(registry, validation.Options{
		StrictUnknownFields: cfg.Strict,
		DefaultLocale:       locale,
	})

	rep := &validation.Report{
		Findings:  engine.ValidateDocument(src.Kind, doc),
		Documents: []validation.DocumentKind{src.Kind},
	}
	return report.Result{
		Name:   path,
		Path:   path,
		Files:  map[validation.DocumentKind]string{src.Kind: path},
		Report: rep,
	}, nil
}

var errFileIsDirectory = errors.New("is a directory")

// fileSource resolves a --file argument to a document source.
func fileSource(path string, kind validation.DocumentKind) (project.Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return project.Source{}, err
	}
	if info.IsDir() {
		return project.Source{}, errFileIsDirectory
	}
	return project.SourceFor(path, kind)
}

// classifyError maps a loading or run error to a user-facing error and exit
// code. Decode errors only fail the affected project.
func classifyError(path string, err error, isFile bool) (*clierrors.CLIError, int) {
	var decodeErr *project.DecodeError
	switch {
	case errors.As(err, &decodeErr):
		return clierrors.DocumentDecodeError(decodeErr.Source.Path, decodeErr.Err), ExitValidationFailed
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return clierrors.ValidationInterrupted(), ExitInterrupted
	case errors.Is(err, validation.ErrRegistryUnavailable):
		return clierrors.SchemaRegistryUnavailable(err), ExitMissingDependency
	case errors.Is(err, project.ErrNotDirectory):
		return clierrors.NotADirectory(path), ExitInvalidArguments
	case errors.Is(err, project.ErrAmbiguousDocument):
		return clierrors.AmbiguousDocument(err), ExitInvalidArguments
	case errors.Is(err, project.ErrKindNotInferred):
		return clierrors.DocumentKindNotInferred(path, validation.ValidDocumentKinds()), ExitInvalidArguments
	case errors.Is(err, document.ErrUnsupportedFormat):
		return clierrors.UnsupportedFormat(path), ExitInvalidArguments
	case errors.Is(err, errFileIsDirectory):
		return clierrors.NewArgumentError("expected a document file, got a directory: "+path,
			"Pass the directory without --file to validate the whole project"), ExitInvalidArguments
	case errors.Is(err, os.ErrNotExist) && isFile:
		return clierrors.DocumentNotFound(path), ExitInvalidArguments
	case errors.Is(err, os.ErrNotExist):
		return clierrors.ProjectNotFound(path), ExitInvalidArguments
	default:
		return clierrors.Wrap(err, clierrors.Runtime), ExitValidationFailed
	}
}
