package report

import (
	"io"

	"github.com/goccy/go-json"

	"github.com/geotagx/geotagx-validator/internal/validation"
)

type jsonOutput struct {
	Valid    bool          `json:"valid"`
	Projects []jsonProject `json:"projects"`
}

type jsonProject struct {
	Name      string            `json:"name"`
	Path      string            `json:"path"`
	Valid     bool              `json:"valid"`
	Errors    int               `json:"errors"`
	Warnings  int               `json:"warnings"`
	Error     string            `json:"error,omitempty"`
	Documents map[string]string `json:"documents"`
	Findings  []jsonFinding     `json:"findings"`
}

type jsonFinding struct {
	Severity validation.Severity `json:"severity"`
	Code     validation.Code     `json:"code"`
	Document string              `json:"document"`
	Path     string              `json:"path"`
	Pointer  string              `json:"pointer"`
	Segments []any               `json:"segments"`
	Line     int                 `json:"line,omitempty"`
	Column   int                 `json:"column,omitempty"`
	Message  string              `json:"message"`
	Expected string              `json:"expected,omitempty"`
	Actual   string              `json:"actual,omitempty"`
	Hint     string              `json:"hint,omitempty"`
}

// WriteJSON renders results as one indented JSON object.
func WriteJSON(w io.Writer, results []Result) error {
	out := jsonOutput{Valid: true, Projects: make([]jsonProject, 0, len(results))}

	for _, res := range results {
		jp := jsonProject{
			Name:      res.Name,
			Path:      res.Path,
			Valid:     res.Valid(),
			Documents: make(map[string]string),
			Findings:  []jsonFinding{},
		}
		if res.Err != nil {
			jp.Error = res.Err.Error()
		}
		if res.Report != nil {
			jp.Errors, jp.Warnings = res.Report.Counts()
			for _, kind := range res.Report.Documents {
				jp.Documents[string(kind)] = res.Files[kind]
			}
			for _, f := range res.Report.Findings {
				jp.Findings = append(jp.Findings, toJSONFinding(f))
			}
		}
		if !jp.Valid {
			out.Valid = false
		}
		out.Projects = append(out.Projects, jp)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func toJSONFinding(f validation.Finding) jsonFinding {
	return jsonFinding{
		Severity: f.Severity,
		Code:     f.Code,
		Document: string(f.Document),
		Path:     f.Path.String(),
		Pointer:  f.Path.Pointer(),
		Segments: f.Path.Segments(),
		Line:     f.Line,
		Column:   f.Column,
		Message:  f.Message,
		Expected: f.Expected,
		Actual:   f.Actual,
		Hint:     f.Hint,
	}
}
