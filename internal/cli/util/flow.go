package util

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/geotagx/geotagx-validator/internal/cli/shared"
	clierrors "github.com/geotagx/geotagx-validator/internal/errors"
	"github.com/geotagx/geotagx-validator/internal/project"
	"github.com/geotagx/geotagx-validator/internal/validation"
)

var flowCmd = &cobra.Command{
	Use:   "flow <project-dir>",
	Short: "Visualize the questionnaire flow of a project",
	Long: `Display an ASCII visualization of the task presenter questionnaire.

Questions are grouped by the number of steps needed to reach them from the
first question. Branch targets are listed next to each question; a question
without a branch leads to the one after it. Loops and questions that can
never be reached are listed after the graph.`,
	Example: `  # Draw the questionnaire
  geotagx-validator flow ./flood-watch

  # One line per project
  geotagx-validator flow ./flood-watch --compact`,
	Args:          cobra.ExactArgs(1),
	GroupID:       shared.GroupValidation,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runFlowCmd,
}

func init() {
	flowCmd.Flags().Bool("compact", false, "Show compact single-line output")
}

func runFlowCmd(cmd *cobra.Command, args []string) error {
	errOut := cmd.ErrOrStderr()
	cfg, err := shared.LoadConfig(cmd)
	if err != nil {
		return shared.Fail(errOut, err, shared.ConfigExitCode(err))
	}
	logger, err := shared.NewLogger(errOut, cfg)
	if err != nil {
		return shared.Fail(errOut, err, shared.ExitInvalidArguments)
	}

	compact, _ := cmd.Flags().GetBool("compact")
	return runFlow(flowRequest{Dir: args[0], Compact: compact, Logger: logger}, cmd.OutOrStdout(), errOut)
}

type flowRequest struct {
	Dir     string
	Compact bool
	Logger  *log.Logger
}

// runFlow loads the task presenter of a project and renders its questionnaire.
func runFlow(req flowRequest, out, errOut io.Writer) error {
	p, err := project.Load(req.Dir)
	if err != nil {
		cliErr, code := loadError(req.Dir, err)
		return shared.Fail(errOut, cliErr, code)
	}

	doc, ok := p.Documents[validation.KindTaskPresenter]
	if !ok {
		return shared.Fail(errOut, clierrors.NewPrerequisiteError(
			fmt.Sprintf("no task_presenter document in %s", req.Dir),
			"Create task_presenter.json, .yaml, .yml or .toml in the project directory"), shared.ExitInvalidArguments)
	}

	registry, err := validation.DefaultRegistry()
	if err != nil {
		return shared.Fail(errOut, clierrors.SchemaRegistryUnavailable(err), shared.ExitMissingDependency)
	}
	schema, findings := validation.NewEngine(registry, validation.Options{}).SelectSchema(validation.KindTaskPresenter, doc)
	if schema == nil {
		msg := "task_presenter has no usable schema_version"
		if len(findings) > 0 {
			msg = findings[0].Error()
		}
		return shared.Fail(errOut, clierrors.NewRuntimeError(msg,
			"Run 'geotagx-validator validate' for details"), shared.ExitValidationFailed)
	}

	for _, flow := range schema.Flows {
		fg, err := validation.BuildFlowGraph(doc, flow)
		if err != nil {
			return shared.Fail(errOut, clierrors.NewRuntimeError(
				fmt.Sprintf("cannot draw the %s flow: %v", flow.Name, err),
				"Run 'geotagx-validator validate' and fix the reported errors"), shared.ExitValidationFailed)
		}
		if fg.Start == "" {
			fmt.Fprintf(out, "No questions found in %s\n", p.Sources[validation.KindTaskPresenter].Path)
			continue
		}

		levels := fg.Graph.ComputeLevels(fg.Start)
		if req.Logger != nil {
			req.Logger.Debug("flow levels computed", "flow", flow.Name, "levels", len(levels), "questions", fg.Graph.Size())
		}

		if req.Compact {
			fmt.Fprintln(out, fg.Graph.RenderCompact())
			continue
		}
		fmt.Fprint(out, fg.Graph.RenderASCII(fmt.Sprintf("Questionnaire flow: %s", p.Name())))
		if cycles := fg.Graph.Cycles(); len(cycles) > 0 {
			fmt.Fprintf(out, "\nLoops:\n")
			for _, cycle := range cycles {
				fmt.Fprintf(out, "  %s\n", strings.Join(cycle, " -> "))
			}
		}
	}
	return nil
}

// loadError maps a project loading error to a user-facing error and exit code.
func loadError(dir string, err error) (*clierrors.CLIError, int) {
	var decodeErr *project.DecodeError
	switch {
	case errors.As(err, &decodeErr):
		return clierrors.DocumentDecodeError(decodeErr.Source.Path, decodeErr.Err), shared.ExitValidationFailed
	case errors.Is(err, project.ErrNotDirectory):
		return clierrors.NotADirectory(dir), shared.ExitInvalidArguments
	case errors.Is(err, project.ErrAmbiguousDocument):
		return clierrors.AmbiguousDocument(err), shared.ExitInvalidArguments
	case errors.Is(err, os.ErrNotExist):
		return clierrors.ProjectNotFound(dir), shared.ExitInvalidArguments
	default:
		return clierrors.Wrap(err, clierrors.Runtime), shared.ExitValidationFailed
	}
}
