package validation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/geotagx/geotagx-validator/internal/document"
)

// Phase is a step of a validation run.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoadingSchemas
	PhaseValidatingDocuments
	PhaseResolvingCrossReferences
	PhaseReported
)

// String returns the string representation of a Phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoadingSchemas:
		return "loading-schemas"
	case PhaseValidatingDocuments:
		return "validating-documents"
	case PhaseResolvingCrossReferences:
		return "resolving-cross-references"
	case PhaseReported:
		return "reported"
	default:
		return "unknown"
	}
}

// DocumentSet holds the parsed documents of one project. Absent kinds are
// missing documents.
type DocumentSet map[DocumentKind]*document.Node

// RegistrySource provides the schema registry at the start of a run.
type RegistrySource func() (*Registry, error)

// StaticRegistry returns a source that always yields r.
func StaticRegistry(r *Registry) RegistrySource {
	return func() (*Registry, error) { return r, nil }
}

// RunOptions configures a Runner.
type RunOptions struct {
	// StrictUnknownFields reports undeclared fields as errors.
	StrictUnknownFields bool
	// DefaultLocale is used when the task presenter does not declare language.default.
	DefaultLocale string
	// Parallel validates documents concurrently.
	Parallel bool
	// OnPhase is called on every phase transition.
	OnPhase func(Phase)
	// Logger receives debug output. Nil discards it.
	Logger *log.Logger
}

// Runner drives a validation run through its phases:
// idle, loading schemas, validating documents, resolving cross references, reported.
type Runner struct {
	source RegistrySource
	opts   RunOptions
	logger *log.Logger
	phase  Phase
}

// NewRunner creates a runner that loads its schemas from source.
func NewRunner(source RegistrySource, opts RunOptions) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{source: source, opts: opts, logger: logger}
}

// Phase returns the phase the runner is in.
func (r *Runner) Phase() Phase {
	return r.phase
}

func (r *Runner) enter(p Phase) {
	r.phase = p
	r.logger.Debug("validation phase", "phase", p)
	if r.opts.OnPhase != nil {
		r.opts.OnPhase(p)
	}
}

// Run validates docs and returns the report. A registry failure aborts the run
// with an error wrapping ErrRegistryUnavailable. Findings never cause an error.
func (r *Runner) Run(ctx context.Context, docs DocumentSet) (*Report, error) {
	start := time.Now()
	r.phase = PhaseIdle

	r.enter(PhaseLoadingSchemas)
	registry, err := r.loadRegistry()
	if err != nil {
		return nil, err
	}

	r.enter(PhaseValidatingDocuments)
	locale := ResolveDefaultLocale(docs[KindTaskPresenter], r.opts.DefaultLocale)
	engine := NewEngine(registry, Options{
		StrictUnknownFields: r.opts.StrictUnknownFields,
		DefaultLocale:       locale,
	})
	r.logger.Debug("default locale selected", "locale", locale)

	results, err := r.validateDocuments(ctx, engine, docs)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	schemas := make(map[DocumentKind]*Schema)
	for i, kind := range DocumentKinds() {
		if docs[kind] != nil {
			report.Documents = append(report.Documents, kind)
		}
		if results[i].schema != nil {
			schemas[kind] = results[i].schema
		}
		report.Findings = append(report.Findings, results[i].findings...)
	}

	r.enter(PhaseResolvingCrossReferences)
	report.Findings = append(report.Findings, Resolve(report.Findings, docs, schemas)...)

	r.enter(PhaseReported)
	errs, warnings := report.Counts()
	r.logger.Debug("validation finished",
		"documents", len(report.Documents),
		"errors", errs,
		"warnings", warnings,
		"duration", time.Since(start))
	return report, nil
}

func (r *Runner) loadRegistry() (*Registry, error) {
	if r.source == nil {
		return nil, &RegistryError{Problems: []string{"no schema source configured"}}
	}
	registry, err := r.source()
	if err != nil {
		if errors.Is(err, ErrRegistryUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrRegistryUnavailable, err)
	}
	if registry == nil {
		return nil, &RegistryError{Problems: []string{"schema source returned no registry"}}
	}
	return registry, nil
}

type documentResult struct {
	schema   *Schema
	findings []Finding
}

// validateDocuments checks every document independently. Results are stored
// by canonical position so the report order does not depend on scheduling.
func (r *Runner) validateDocuments(ctx context.Context, engine *Engine, docs DocumentSet) ([]documentResult, error) {
	kinds := DocumentKinds()
	results := make([]documentResult, len(kinds))

	check := func(i int) {
		kind := kinds[i]
		doc := docs[kind]
		if doc == nil {
			if kind.Required() {
				results[i].findings = []Finding{missingDocument(kind)}
			}
			return
		}
		schema, findings := engine.SelectSchema(kind, doc)
		if schema != nil {
			findings = engine.Validate(doc, schema)
		}
		r.logger.Debug("document validated", "document", kind, "findings", len(findings))
		results[i] = documentResult{schema: schema, findings: findings}
	}

	if !r.opts.Parallel {
		for i := range kinds {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			check(i)
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range kinds {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			check(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func missingDocument(kind DocumentKind) Finding {
	return Finding{
		Severity: SeverityError,
		Code:     CodeMissingDocument,
		Document: kind,
		Message:  fmt.Sprintf("required %s document is missing", kind),
		Hint:     fmt.Sprintf("Create a %s document in the project directory", kind),
	}
}

// ResolveDefaultLocale returns the task presenter's language.default when it
// is a non-empty string listed in language.available, then fallback, then
// DefaultLocale. An undeclared default is reported once as a dangling
// reference, so localized fields are checked against the fallback instead.
func ResolveDefaultLocale(taskPresenter *document.Node, fallback string) string {
	if language, ok := taskPresenter.Get("language"); ok {
		if def, ok := language.Get("default"); ok {
			if s, ok := def.Str(); ok && s != "" && localeDeclared(language, s) {
				return s
			}
		}
	}
	if fallback != "" {
		return fallback
	}
	return DefaultLocale
}

// localeDeclared reports whether locale is listed in language.available. A
// missing or malformed list does not rule the locale out.
func localeDeclared(language *document.Node, locale string) bool {
	available, ok := language.Get("available")
	if !ok || available.Kind() != document.SequenceKind {
		return true
	}
	for i := 0; i < available.Len(); i++ {
		elem, _ := available.Index(i)
		if s, ok := elem.Str(); ok && s == locale {
			return true
		}
	}
	return false
}
