package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/geotagx/geotagx-validator/internal/document"
)

// identifier records where a declared identifier was first seen.
type identifier struct {
	path Path
	node *document.Node
}

type resolver struct {
	prior   []Finding
	docs    map[DocumentKind]*document.Node
	schemas map[DocumentKind]*Schema
	ids     map[DocumentKind]map[string]map[string]identifier
	// withheld holds identifier values left out because they carry an error.
	withheld map[DocumentKind]map[string]map[string]bool
	out      []Finding
}

// Resolve checks the relationships between documents: identifier uniqueness,
// references to identifiers declared in other documents, and questionnaire
// flows. schemas holds the schema selected for each document; documents
// without a selected schema are not used as a source.
//
// A reference is skipped when prior already holds an error at its location
// or an ancestor of it, when the target document's root or the container of
// the target identifiers carries an error, or when it names an identifier
// that was left out because of its own error. A reference into an absent
// target document is dangling.
func Resolve(prior []Finding, docs map[DocumentKind]*document.Node, schemas map[DocumentKind]*Schema) []Finding {
	r := &resolver{
		prior:    prior,
		docs:     docs,
		schemas:  schemas,
		ids:      make(map[DocumentKind]map[string]map[string]identifier),
		withheld: make(map[DocumentKind]map[string]map[string]bool),
	}

	for _, kind := range DocumentKinds() {
		r.collectIdentifiers(kind)
	}
	for _, kind := range DocumentKinds() {
		r.checkReferences(kind)
	}
	for _, kind := range DocumentKinds() {
		r.checkFlows(kind)
	}
	return r.out
}

// blocked reports whether an error already covers path or one of its ancestors.
func (r *resolver) blocked(kind DocumentKind, path Path) bool {
	for _, f := range r.prior {
		if f.Document == kind && f.IsError() && path.HasPrefix(f.Path) {
			return true
		}
	}
	return false
}

func (r *resolver) source(kind DocumentKind) (*document.Node, *Schema, bool) {
	doc, schema := r.docs[kind], r.schemas[kind]
	if doc == nil || schema == nil || doc.Kind() != document.MappingKind {
		return nil, nil, false
	}
	return doc, schema, true
}

func (r *resolver) add(kind DocumentKind, at *document.Node, f Finding, path Path) {
	f.Document = kind
	f.Path = path
	pos := at.Position()
	f.Line, f.Column = pos.Line, pos.Column
	r.out = append(r.out, f)
}

func (r *resolver) collectIdentifiers(kind DocumentKind) {
	doc, schema, ok := r.source(kind)
	if !ok {
		return
	}

	r.ids[kind] = make(map[string]map[string]identifier)
	r.withheld[kind] = make(map[string]map[string]bool)
	for _, set := range schema.Identifiers {
		declared := make(map[string]identifier)
		withheld := make(map[string]bool)
		r.ids[kind][set.Namespace] = declared
		r.withheld[kind][set.Namespace] = withheld

		for _, m := range MustParseFieldPath(set.Path).Select(doc) {
			value, isString := m.Node.Str()
			if !isString {
				continue
			}
			if r.blocked(kind, m.Path) {
				withheld[value] = true
				continue
			}
			first, dup := declared[value]
			if !dup {
				declared[value] = identifier{path: m.Path, node: m.Node}
				continue
			}
			if set.Unique {
				r.add(kind, m.Node, Finding{
					Code:     CodeDuplicateIdentifier,
					Message:  fmt.Sprintf("duplicate %s identifier %q", set.Namespace, value),
					Expected: fmt.Sprintf("a %s identifier not used elsewhere", set.Namespace),
					Actual:   value,
					Hint:     fmt.Sprintf("'%s' is already declared at %s", value, first.path),
				}, m.Path)
			}
		}
	}
}

func (r *resolver) checkReferences(kind DocumentKind) {
	doc, schema, ok := r.source(kind)
	if !ok {
		return
	}

	for _, ref := range schema.References {
		if r.blocked(ref.Target, nil) {
			continue
		}
		if r.docs[ref.Target] != nil && r.schemas[ref.Target] == nil {
			continue
		}
		if r.containerBlocked(ref) {
			continue
		}
		declared := r.ids[ref.Target][ref.Namespace]
		withheld := r.withheld[ref.Target][ref.Namespace]

		for _, m := range MustParseFieldPath(ref.Path).Select(doc) {
			value, isString := m.Node.Str()
			if !isString || r.blocked(kind, m.Path) || slices.Contains(ref.Reserved, value) {
				continue
			}
			if _, found := declared[value]; found || withheld[value] {
				continue
			}
			r.add(kind, m.Node, Finding{
				Code: CodeDanglingReference,
				Message: fmt.Sprintf("reference %q does not match any %s declared in the %s document",
					value, ref.Namespace, ref.Target),
				Expected: referenceExpectation(ref, declared),
				Actual:   value,
				Hint:     referenceHint(ref, r.docs[ref.Target] == nil),
			}, m.Path)
		}
	}
}

// containerBlocked reports whether an error sits at or above the fixed part of
// a path declaring the identifiers ref points to, such as a question list that
// is not an array.
func (r *resolver) containerBlocked(ref CrossReference) bool {
	schema := r.schemas[ref.Target]
	if schema == nil {
		return false
	}
	for _, set := range schema.Identifiers {
		if set.Namespace != ref.Namespace {
			continue
		}
		if r.blocked(ref.Target, MustParseFieldPath(set.Path).Prefix()) {
			return true
		}
	}
	return false
}

func referenceExpectation(ref CrossReference, declared map[string]identifier) string {
	known := make([]string, 0, len(declared))
	for id := range declared {
		known = append(known, id)
	}
	slices.Sort(known)
	known = append(known, ref.Reserved...)
	if len(known) == 0 {
		return fmt.Sprintf("a %s declared in the %s document", ref.Namespace, ref.Target)
	}
	return fmt.Sprintf("one of: %s", strings.Join(known, ", "))
}

func referenceHint(ref CrossReference, targetMissing bool) string {
	if targetMissing {
		return fmt.Sprintf("The %s document is missing", ref.Target)
	}
	return fmt.Sprintf("Check the spelling or declare the %s", ref.Namespace)
}
