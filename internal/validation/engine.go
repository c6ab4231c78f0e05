package validation

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/geotagx/geotagx-validator/internal/document"
)

// DefaultLocale is used when neither the task presenter nor the caller names one.
const DefaultLocale = "en"

// Options configures the schema engine.
type Options struct {
	// StrictUnknownFields reports undeclared fields as errors instead of warnings.
	StrictUnknownFields bool
	// DefaultLocale is the locale every localized field must provide.
	DefaultLocale string
}

// Engine checks documents against the schemas of a registry. It holds no
// per-document state and is safe for concurrent use.
type Engine struct {
	registry *Registry
	opts     Options
}

// NewEngine creates an engine backed by registry.
func NewEngine(registry *Registry, opts Options) *Engine {
	if opts.DefaultLocale == "" {
		opts.DefaultLocale = DefaultLocale
	}
	return &Engine{registry: registry, opts: opts}
}

// Options returns the engine configuration.
func (e *Engine) Options() Options {
	return e.opts
}

// ValidateDocument selects the schema named by the document's schema_version
// and validates the document against it.
func (e *Engine) ValidateDocument(kind DocumentKind, doc *document.Node) []Finding {
	schema, findings := e.SelectSchema(kind, doc)
	if schema == nil {
		return findings
	}
	return e.Validate(doc, schema)
}

// SelectSchema resolves the schema a document declares. When no schema
// applies, the returned findings explain why and validation of the document
// must stop.
func (e *Engine) SelectSchema(kind DocumentKind, doc *document.Node) (*Schema, []Finding) {
	w := e.newWalker(kind)
	if doc.Kind() != document.MappingKind {
		w.typeMismatch(doc, nil, "object")
		return nil, w.findings
	}

	known := strings.Join(e.registry.Versions(kind), ", ")
	versionNode, ok := doc.Get(VersionField)
	if !ok {
		w.add(doc, Finding{
			Code:     CodeUnknownSchemaVersion,
			Message:  fmt.Sprintf("missing %s: cannot select a schema", VersionField),
			Expected: fmt.Sprintf("one of: %s", known),
			Hint:     fmt.Sprintf("Add \"%s\" to the top of the document", VersionField),
		}, nil)
		return nil, w.findings
	}

	version, isString := versionNode.Str()
	if !isString {
		w.add(versionNode, Finding{
			Code:     CodeUnknownSchemaVersion,
			Message:  fmt.Sprintf("%s must be a string, got %s", VersionField, versionNode.Kind()),
			Expected: fmt.Sprintf("one of: %s", known),
			Actual:   versionNode.String(),
			Hint:     "Quote the version number",
		}, nil)
		return nil, w.findings
	}

	schema, ok := e.registry.Lookup(kind, version)
	if !ok {
		w.add(versionNode, Finding{
			Code:     CodeUnknownSchemaVersion,
			Message:  fmt.Sprintf("unknown schema version %q for %s documents", version, kind),
			Expected: fmt.Sprintf("one of: %s", known),
			Actual:   version,
		}, nil)
		return nil, w.findings
	}
	return schema, nil
}

// Validate checks doc against schema and returns the findings in document
// order: declared fields in schema order, depth first, with undeclared keys
// reported after the declared fields of their object.
func (e *Engine) Validate(doc *document.Node, schema *Schema) []Finding {
	w := e.newWalker(schema.Kind)
	if doc.Kind() != document.MappingKind {
		w.typeMismatch(doc, nil, "object")
		return w.findings
	}
	w.object(doc, schema.Fields, nil)
	return w.findings
}

func (e *Engine) newWalker(kind DocumentKind) *walker {
	w := &walker{
		kind:           kind,
		locale:         e.opts.DefaultLocale,
		unknownFieldAs: SeverityWarning,
	}
	if e.opts.StrictUnknownFields {
		w.unknownFieldAs = SeverityError
	}
	return w
}

type walker struct {
	kind           DocumentKind
	locale         string
	unknownFieldAs Severity
	findings       []Finding
}

func (w *walker) add(at *document.Node, f Finding, path Path) {
	f.Document = w.kind
	f.Path = path
	pos := at.Position()
	f.Line, f.Column = pos.Line, pos.Column
	w.findings = append(w.findings, f)
}

func (w *walker) object(node *document.Node, rules []FieldRule, path Path) {
	declared := make(map[string]bool, len(rules))
	for i := range rules {
		rule := &rules[i]
		declared[rule.Name] = true

		child, ok := node.Get(rule.Name)
		childPath := path.Child(rule.Name)
		if !ok {
			if rule.Required {
				w.add(node, Finding{
					Code:     CodeMissingRequiredField,
					Message:  fmt.Sprintf("missing required field: %s", rule.Name),
					Expected: rule.TypeLabel(),
					Hint:     fmt.Sprintf("Add the '%s' field", rule.Name),
				}, childPath)
			}
			continue
		}
		w.value(child, rule, childPath)
	}

	for _, key := range node.SortedKeys() {
		if declared[key] {
			continue
		}
		child, _ := node.Get(key)
		hint := "Remove the field or check its spelling"
		if suggestion := closestRule(key, rules); suggestion != "" {
			hint = fmt.Sprintf("Did you mean '%s'?", suggestion)
		}
		w.add(child, Finding{
			Severity: w.unknownFieldAs,
			Code:     CodeUnknownField,
			Message:  fmt.Sprintf("unknown field: %s", key),
			Hint:     hint,
		}, path.Child(key))
	}
}

func (w *walker) value(node *document.Node, rule *FieldRule, path Path) {
	if rule.LocaleAware {
		w.localized(node, rule, path)
		return
	}
	w.typed(node, rule, path)
}

// localized checks a locale code -> value mapping. Locales other than the
// default are accepted as long as their values are well typed.
func (w *walker) localized(node *document.Node, rule *FieldRule, path Path) {
	if node.Kind() != document.MappingKind {
		w.typeMismatch(node, path, rule.TypeLabel())
		return
	}

	if _, ok := node.Get(w.locale); !ok && w.locale != "" {
		w.add(node, Finding{
			Code:     CodeMissingDefaultLocale,
			Message:  fmt.Sprintf("field '%s' has no entry for the default locale '%s'", displayName(path), w.locale),
			Expected: fmt.Sprintf("a '%s' entry", w.locale),
			Actual:   fmt.Sprintf("locales: %s", strings.Join(node.SortedKeys(), ", ")),
			Hint:     fmt.Sprintf("Add a '%s' translation", w.locale),
		}, path)
	}

	inner := *rule
	inner.LocaleAware = false
	for _, locale := range node.SortedKeys() {
		entry, _ := node.Get(locale)
		w.typed(entry, &inner, path.Child(locale))
	}
}

func (w *walker) typed(node *document.Node, rule *FieldRule, path Path) {
	switch rule.Type {
	case FieldTypeString:
		if node.Kind() != document.StringKind {
			w.typeMismatch(node, path, rule.TypeLabel())
			return
		}
		w.stringConstraints(node, rule, path)

	case FieldTypeNumber:
		if node.Kind() != document.NumberKind {
			w.typeMismatch(node, path, rule.TypeLabel())
		}

	case FieldTypeBoolean:
		if node.Kind() != document.BoolKind {
			w.typeMismatch(node, path, rule.TypeLabel())
		}

	case FieldTypeEnum:
		s, ok := node.Str()
		if !ok {
			w.typeMismatch(node, path, rule.TypeLabel())
			return
		}
		if !slices.Contains(rule.AllowedValues, s) {
			w.add(node, Finding{
				Code:     CodeInvalidEnumValue,
				Message:  fmt.Sprintf("invalid value for field '%s': %q", displayName(path), s),
				Expected: fmt.Sprintf("one of: %s", strings.Join(rule.AllowedValues, ", ")),
				Actual:   s,
			}, path)
		}

	case FieldTypeObject:
		if node.Kind() != document.MappingKind {
			w.typeMismatch(node, path, rule.TypeLabel())
			return
		}
		w.object(node, rule.Fields, path)

	case FieldTypeArray:
		if node.Kind() != document.SequenceKind {
			w.typeMismatch(node, path, rule.TypeLabel())
			return
		}
		if node.Len() < rule.MinItems {
			w.add(node, Finding{
				Code: CodeTooFewElements,
				Message: fmt.Sprintf("field '%s' must contain at least %d element(s), got %d",
					displayName(path), rule.MinItems, node.Len()),
				Expected: fmt.Sprintf("at least %d element(s)", rule.MinItems),
				Actual:   fmt.Sprintf("%d", node.Len()),
			}, path)
		}
		if rule.Items == nil {
			return
		}
		for i := 0; i < node.Len(); i++ {
			elem, _ := node.Index(i)
			w.value(elem, rule.Items, path.At(i))
		}
	}
}

func (w *walker) stringConstraints(node *document.Node, rule *FieldRule, path Path) {
	s, _ := node.Str()

	if rule.NotBlank && strings.TrimSpace(s) == "" {
		w.add(node, Finding{
			Code:    CodeBlankValue,
			Message: fmt.Sprintf("field '%s' must not be empty", displayName(path)),
			Actual:  fmt.Sprintf("%q", s),
		}, path)
		return
	}

	if rule.Pattern != "" {
		if re, err := compilePattern(rule.Pattern); err == nil && !re.MatchString(s) {
			w.add(node, Finding{
				Code:     CodePatternMismatch,
				Message:  fmt.Sprintf("field '%s' does not match the required format", displayName(path)),
				Expected: fmt.Sprintf("match pattern %s", rule.Pattern),
				Actual:   s,
				Hint:     rule.Description,
			}, path)
		}
	}

	if rule.Format == FormatURL && !isWebURL(s) {
		w.add(node, Finding{
			Code:     CodeInvalidFormat,
			Message:  fmt.Sprintf("field '%s' is not a valid URL", displayName(path)),
			Expected: "an absolute http or https URL",
			Actual:   s,
			Hint:     "Include the protocol, e.g. https://",
		}, path)
	}
}

func (w *walker) typeMismatch(node *document.Node, path Path, expected string) {
	actual := node.Kind().String()
	name := displayName(path)
	if path.IsRoot() {
		name = "document root"
	}
	w.add(node, Finding{
		Code:     CodeTypeMismatch,
		Message:  fmt.Sprintf("wrong type for %s: expected %s, got %s", quoteName(name, path), expected, actual),
		Expected: expected,
		Actual:   actual,
	}, path)
}

func isWebURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// displayName returns the last key of a path, or the full path when it ends
// with an index.
func displayName(path Path) string {
	if len(path) == 0 {
		return ""
	}
	last := path[len(path)-1]
	if last.IsIndex() {
		return path.String()
	}
	return last.Key()
}

func quoteName(name string, path Path) string {
	if path.IsRoot() {
		return name
	}
	return fmt.Sprintf("field '%s'", name)
}

// closestRule suggests a declared field name within edit distance 2 of key.
func closestRule(key string, rules []FieldRule) string {
	best, bestDist := "", 3
	for i := range rules {
		if d := editDistance(strings.ToLower(key), strings.ToLower(rules[i].Name)); d < bestDist {
			best, bestDist = rules[i].Name, d
		}
	}
	return best
}

func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
