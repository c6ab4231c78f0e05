package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/geotagx/geotagx-validator/internal/validation"
)

type palette struct {
	ok, bad, warn, dim *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		ok:   color.New(color.FgGreen),
		bad:  color.New(color.FgRed),
		warn: color.New(color.FgYellow),
		dim:  color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.ok, p.bad, p.warn, p.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// WriteText renders results as human-readable text. Within each document,
// errors are listed before warnings, each in the order they were found.
func WriteText(w io.Writer, results []Result, opts Options) error {
	p := newPalette(opts.Color)
	var sb strings.Builder

	for i, res := range results {
		if i > 0 {
			sb.WriteString("\n")
		}
		writeResult(&sb, res, p, opts)
	}

	if !opts.Quiet && len(results) > 1 {
		valid := 0
		for _, res := range results {
			if res.Valid() {
				valid++
			}
		}
		sb.WriteString(fmt.Sprintf("\nValidated %s: %d valid, %d invalid\n",
			plural(len(results), "project"), valid, len(results)-valid))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeResult(sb *strings.Builder, res Result, p palette, opts Options) {
	if res.Err != nil {
		sb.WriteString(fmt.Sprintf("%s %s could not be loaded: %v\n", p.bad.Sprint("✗"), res.Name, res.Err))
		return
	}

	errs, warnings := 0, 0
	if res.Report != nil {
		errs, warnings = res.Report.Counts()
	}

	switch {
	case errs > 0:
		sb.WriteString(fmt.Sprintf("%s %s has %s", p.bad.Sprint("✗"), res.Name, plural(errs, "error")))
		if warnings > 0 && !opts.Quiet {
			sb.WriteString(", " + plural(warnings, "warning"))
		}
		sb.WriteString("\n")
	case warnings > 0 && !opts.Quiet:
		sb.WriteString(fmt.Sprintf("%s %s is valid (%s)\n", p.ok.Sprint("✓"), res.Name, plural(warnings, "warning")))
	default:
		sb.WriteString(fmt.Sprintf("%s %s is valid\n", p.ok.Sprint("✓"), res.Name))
	}

	if res.Report == nil {
		return
	}

	for _, kind := range validation.DocumentKinds() {
		var shown []validation.Finding
		for _, f := range res.Report.ByDocument(kind) {
			if f.IsError() || !opts.Quiet {
				shown = append(shown, f)
			}
		}
		if len(shown) == 0 {
			continue
		}

		sb.WriteString("\n")
		header := string(kind)
		if file, ok := res.Files[kind]; ok {
			header = fmt.Sprintf("%s %s", header, p.dim.Sprintf("(%s)", file))
		}
		sb.WriteString(header + "\n")

		n := 0
		for _, f := range shown {
			if f.IsError() {
				n++
				sb.WriteString(p.bad.Sprintf("Error %d:", n) + "\n")
				sb.WriteString(indent(f.FormatFull(), "  "))
			}
		}
		n = 0
		for _, f := range shown {
			if !f.IsError() {
				n++
				sb.WriteString(p.warn.Sprintf("Warning %d:", n) + "\n")
				sb.WriteString(indent(f.FormatFull(), "  "))
			}
		}
	}
}

func indent(s, prefix string) string {
	lines := strings.SplitAfter(s, "\n")
	var sb strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		sb.WriteString(prefix + line)
	}
	return sb.String()
}
