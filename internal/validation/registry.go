package validation

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// ErrRegistryUnavailable is returned when the schema registry cannot be built.
var ErrRegistryUnavailable = errors.New("schema registry unavailable")

// RegistryError describes why a set of schemas was rejected.
type RegistryError struct {
	Problems []string
}

// Error implements the error interface.
func (e *RegistryError) Error() string {
	return fmt.Sprintf("%s: %s", ErrRegistryUnavailable, strings.Join(e.Problems, "; "))
}

// Unwrap allows errors.Is(err, ErrRegistryUnavailable).
func (e *RegistryError) Unwrap() error {
	return ErrRegistryUnavailable
}

// Registry maps (document kind, schema version) to a schema. It is read-only
// after construction and safe for concurrent use.
type Registry struct {
	schemas  map[DocumentKind]map[string]*Schema
	versions map[DocumentKind][]string
}

// NewRegistry validates the schemas and indexes them. Every problem found is
// reported in the returned *RegistryError.
func NewRegistry(schemas ...*Schema) (*Registry, error) {
	r := &Registry{
		schemas:  make(map[DocumentKind]map[string]*Schema),
		versions: make(map[DocumentKind][]string),
	}

	var problems []string
	for i, s := range schemas {
		if s == nil {
			problems = append(problems, fmt.Sprintf("schema #%d is nil", i))
			continue
		}
		label := fmt.Sprintf("%s %s", s.Kind, s.Version)
		if !s.Kind.Valid() {
			problems = append(problems, fmt.Sprintf("schema #%d: invalid document kind %q", i, s.Kind))
			continue
		}
		if strings.TrimSpace(s.Version) == "" {
			problems = append(problems, fmt.Sprintf("schema #%d (%s): empty version", i, s.Kind))
			continue
		}
		if _, dup := r.schemas[s.Kind][s.Version]; dup {
			problems = append(problems, fmt.Sprintf("%s: registered twice", label))
			continue
		}
		for _, p := range checkSchema(s) {
			problems = append(problems, fmt.Sprintf("%s: %s", label, p))
		}
		if r.schemas[s.Kind] == nil {
			r.schemas[s.Kind] = make(map[string]*Schema)
		}
		r.schemas[s.Kind][s.Version] = s
		r.versions[s.Kind] = append(r.versions[s.Kind], s.Version)
	}

	problems = append(problems, r.checkReferenceTargets()...)
	for _, kind := range DocumentKinds() {
		if len(r.versions[kind]) == 0 {
			problems = append(problems, fmt.Sprintf("no schema registered for %s documents", kind))
		}
		sort.Strings(r.versions[kind])
	}

	if len(problems) > 0 {
		return nil, &RegistryError{Problems: problems}
	}
	return r, nil
}

// Lookup returns the schema for a kind and version.
func (r *Registry) Lookup(kind DocumentKind, version string) (*Schema, bool) {
	s, ok := r.schemas[kind][version]
	return s, ok
}

// Versions returns the registered versions of a kind in ascending order.
func (r *Registry) Versions(kind DocumentKind) []string {
	return append([]string(nil), r.versions[kind]...)
}

// Latest returns the highest registered version of a kind.
func (r *Registry) Latest(kind DocumentKind) (*Schema, bool) {
	versions := r.versions[kind]
	if len(versions) == 0 {
		return nil, false
	}
	return r.Lookup(kind, versions[len(versions)-1])
}

// Kinds returns the kinds with at least one schema, in canonical order.
func (r *Registry) Kinds() []DocumentKind {
	var kinds []DocumentKind
	for _, k := range DocumentKinds() {
		if len(r.versions[k]) > 0 {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// checkReferenceTargets verifies that every referenced namespace is declared
// by some schema of the target kind.
func (r *Registry) checkReferenceTargets() []string {
	var problems []string
	for _, kind := range DocumentKinds() {
		for _, version := range r.versions[kind] {
			s := r.schemas[kind][version]
			for _, ref := range s.References {
				if !r.declaresNamespace(ref.Target, ref.Namespace) {
					problems = append(problems, fmt.Sprintf("%s %s: reference %s targets undeclared namespace %s/%s",
						kind, version, ref.Path, ref.Target, ref.Namespace))
				}
			}
		}
	}
	return problems
}

func (r *Registry) declaresNamespace(kind DocumentKind, namespace string) bool {
	for _, s := range r.schemas[kind] {
		for _, set := range s.Identifiers {
			if set.Namespace == namespace {
				return true
			}
		}
	}
	return false
}

func checkSchema(s *Schema) []string {
	var problems []string

	version, ok := s.Field(VersionField)
	if !ok || version.Type != FieldTypeString || !version.Required {
		problems = append(problems, fmt.Sprintf("must declare a required string %q field", VersionField))
	}
	problems = append(problems, checkRules(s.Fields, "")...)

	namespaces := make(map[string]bool)
	for _, set := range s.Identifiers {
		if set.Namespace == "" {
			problems = append(problems, "identifier set with empty namespace")
		}
		if namespaces[set.Namespace] {
			problems = append(problems, fmt.Sprintf("identifier namespace %s declared twice", set.Namespace))
		}
		namespaces[set.Namespace] = true
		if _, err := ParseFieldPath(set.Path); err != nil {
			problems = append(problems, err.Error())
		}
	}

	for _, ref := range s.References {
		if _, err := ParseFieldPath(ref.Path); err != nil {
			problems = append(problems, err.Error())
		}
		if !ref.Target.Valid() {
			problems = append(problems, fmt.Sprintf("reference %s: invalid target kind %q", ref.Path, ref.Target))
		}
	}

	for _, flow := range s.Flows {
		paths := append([]string{flow.Nodes, flow.Key}, flow.Branches...)
		if flow.Default != "" {
			paths = append(paths, flow.Default)
		}
		for _, p := range paths {
			if _, err := ParseFieldPath(p); err != nil {
				problems = append(problems, fmt.Sprintf("flow %s: %v", flow.Name, err))
			}
		}
	}

	return problems
}

func checkRules(rules []FieldRule, parent string) []string {
	var problems []string
	seen := make(map[string]bool)
	for i := range rules {
		rule := &rules[i]
		name := joinRuleName(parent, rule.Name)
		if rule.Name == "" {
			problems = append(problems, fmt.Sprintf("field #%d under %q has no name", i, parent))
			continue
		}
		if seen[rule.Name] {
			problems = append(problems, fmt.Sprintf("field %s declared twice", name))
		}
		seen[rule.Name] = true
		problems = append(problems, checkRule(rule, name)...)
	}
	return problems
}

func checkRule(rule *FieldRule, name string) []string {
	var problems []string
	if !rule.Type.Valid() {
		return []string{fmt.Sprintf("field %s: unknown type %q", name, rule.Type)}
	}

	switch rule.Type {
	case FieldTypeEnum:
		if len(rule.AllowedValues) == 0 {
			problems = append(problems, fmt.Sprintf("field %s: enum without allowed values", name))
		}
	case FieldTypeObject:
		if len(rule.Fields) == 0 {
			problems = append(problems, fmt.Sprintf("field %s: object without fields", name))
		}
		problems = append(problems, checkRules(rule.Fields, name)...)
	case FieldTypeArray:
		if rule.Items == nil {
			problems = append(problems, fmt.Sprintf("field %s: array without element rule", name))
		} else {
			problems = append(problems, checkRule(rule.Items, name+"[*]")...)
		}
	}

	if rule.MinItems < 0 || (rule.MinItems > 0 && rule.Type != FieldTypeArray) {
		problems = append(problems, fmt.Sprintf("field %s: min items only applies to arrays", name))
	}
	if rule.LocaleAware && rule.Type != FieldTypeString && rule.Type != FieldTypeEnum {
		problems = append(problems, fmt.Sprintf("field %s: only string and enum fields can be localized", name))
	}
	if (rule.NotBlank || rule.Pattern != "" || rule.Format != "") && rule.Type != FieldTypeString {
		problems = append(problems, fmt.Sprintf("field %s: string constraints on a %s field", name, rule.Type))
	}
	if rule.Pattern != "" {
		if _, err := compilePattern(rule.Pattern); err != nil {
			problems = append(problems, fmt.Sprintf("field %s: invalid pattern: %v", name, err))
		}
	}
	if rule.Format != "" && rule.Format != FormatURL {
		problems = append(problems, fmt.Sprintf("field %s: unknown format %q", name, rule.Format))
	}
	return problems
}

func joinRuleName(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

var patternCache sync.Map

// compilePattern compiles a field pattern once and shares the result.
func compilePattern(expr string) (*regexp.Regexp, error) {
	if re, ok := patternCache.Load(expr); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	patternCache.Store(expr, re)
	return re, nil
}
