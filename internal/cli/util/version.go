package util

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/geotagx/geotagx-validator/internal/build"
	"github.com/geotagx/geotagx-validator/internal/cli/shared"
)

// SourceURL is the project source URL
const SourceURL = "https://github.com/geotagx/geotagx-validator"

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Display version information (v)",
	Long:    "Display version, commit, build date, and Go version information for geotagx-validator",
	Example: `  # Show version info
  geotagx-validator version

  # Plain output (for scripts)
  geotagx-validator version --plain`,
	GroupID: shared.GroupConfiguration,
	Run: func(cmd *cobra.Command, args []string) {
		plain, _ := cmd.Flags().GetBool("plain")
		out := cmd.OutOrStdout()
		if plain || !shared.IsTerminal(out) {
			printPlainVersion(out)
		} else {
			printPrettyVersion(out, shared.GetTerminalWidth(out))
		}
	},
}

func init() {
	versionCmd.Flags().Bool("plain", false, "Plain output without formatting")
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(out io.Writer) {
	fmt.Fprintf(out, "geotagx-validator %s\n", build.Version)
	fmt.Fprintf(out, "commit: %s\n", build.Commit)
	fmt.Fprintf(out, "built: %s\n", build.BuildDate)
	fmt.Fprintf(out, "go: %s\n", runtime.Version())
	fmt.Fprintf(out, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(out, "source: %s\n", SourceURL)
}

// printPrettyVersion prints a styled version output in a centered box
func printPrettyVersion(out io.Writer, termWidth int) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	white := color.New(color.FgWhite, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintln(out)
	fmt.Fprintln(out, cyan(shared.CenterText("geotagx-validator", termWidth)))
	fmt.Fprintln(out, dim(shared.CenterText(shared.Tagline, termWidth)))
	fmt.Fprintln(out)

	info := []struct {
		label string
		value string
	}{
		{"Version", build.Version},
		{"Commit", truncateCommit(build.Commit)},
		{"Built", build.BuildDate},
		{"Go", runtime.Version()},
		{"Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)},
	}

	// Box is 44 wide unless the terminal is narrower
	boxWidth := 44
	if termWidth < 50 {
		boxWidth = max(termWidth-6, 30)
	}
	contentWidth := boxWidth - 4

	pad := strings.Repeat(" ", max((termWidth-boxWidth)/2, 0))
	blank := pad + shared.BoxVertical + strings.Repeat(" ", boxWidth-2) + shared.BoxVertical

	fmt.Fprintln(out, pad+shared.BoxTopLeft+strings.Repeat(shared.BoxHorizontal, boxWidth-2)+shared.BoxTopRight)
	fmt.Fprintln(out, blank)
	for _, item := range info {
		line := fmt.Sprintf("  %s    %s", yellow(fmt.Sprintf("%12s", item.label)), white(item.value))
		// Pad by visible width; color codes do not count
		if lineLen := 12 + 4 + len(item.value) + 2; lineLen < contentWidth {
			line += strings.Repeat(" ", contentWidth-lineLen)
		}
		fmt.Fprintln(out, pad+shared.BoxVertical+" "+line+" "+shared.BoxVertical)
	}
	fmt.Fprintln(out, blank)
	fmt.Fprintln(out, pad+shared.BoxBottomLeft+strings.Repeat(shared.BoxHorizontal, boxWidth-2)+shared.BoxBottomRight)
	fmt.Fprintln(out)
}

// truncateCommit shortens commit hash if it's too long
func truncateCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
