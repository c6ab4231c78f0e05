// Package schemaexport renders registry schemas as JSON Schema (draft
// 2020-12) documents so editors and other tools can check GeoTag-X
// configurations without this validator.
package schemaexport

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/geotagx/geotagx-validator/internal/document"
	"github.com/geotagx/geotagx-validator/internal/validation"
)

// Draft is the JSON Schema dialect of exported schemas.
const Draft = "https://json-schema.org/draft/2020-12/schema"

const idBase = "https://geotagx.org/schemas"

// Options controls how validator semantics map onto JSON Schema.
type Options struct {
	// Strict closes every object (additionalProperties: false). Without it
	// unknown fields are allowed, as they are only warnings.
	Strict bool
	// DefaultLocale is required in every localized field. Empty means no
	// locale is required.
	DefaultLocale string
}

// SchemaID returns the $id of an exported schema.
func SchemaID(kind validation.DocumentKind, version string) string {
	return fmt.Sprintf("%s/%s/%s.json", idBase, kind, version)
}

// Build converts schema into a JSON Schema document.
func Build(schema *validation.Schema, opts Options) map[string]any {
	root := object(schema.Fields, opts)
	root["$schema"] = Draft
	root["$id"] = SchemaID(schema.Kind, schema.Version)
	root["title"] = fmt.Sprintf("GeoTag-X %s (schema %s)", strings.ToLower(schema.Kind.Title()), schema.Version)
	if schema.Description != "" {
		root["description"] = schema.Description
	}
	if props, ok := root["properties"].(map[string]any); ok {
		if v, ok := props[validation.VersionField].(map[string]any); ok {
			v["const"] = schema.Version
		}
	}
	return root
}

// Marshal renders schema as indented JSON.
func Marshal(schema *validation.Schema, opts Options) ([]byte, error) {
	data, err := json.MarshalIndent(Build(schema, opts), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding %s schema %s: %w", schema.Kind, schema.Version, err)
	}
	return append(data, '\n'), nil
}

// Compile exports schema and compiles the result, proving that the export
// is a well-formed JSON Schema.
func Compile(schema *validation.Schema, opts Options) (*jsonschema.Schema, error) {
	data, err := Marshal(schema, opts)
	if err != nil {
		return nil, err
	}

	id := SchemaID(schema.Kind, schema.Version)
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true
	if err := compiler.AddResource(id, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("adding %s schema resource: %w", schema.Kind, err)
	}
	compiled, err := compiler.Compile(id)
	if err != nil {
		return nil, fmt.Errorf("compiling %s schema %s: %w", schema.Kind, schema.Version, err)
	}
	return compiled, nil
}

func rule(r *validation.FieldRule, opts Options) map[string]any {
	if r.LocaleAware {
		inner := *r
		inner.LocaleAware = false
		out := map[string]any{
			"type":                 "object",
			"additionalProperties": rule(&inner, opts),
		}
		if opts.DefaultLocale != "" {
			out["required"] = []string{opts.DefaultLocale}
		}
		describe(out, r)
		return out
	}

	var out map[string]any
	switch r.Type {
	case validation.FieldTypeString:
		out = map[string]any{"type": "string"}
		switch {
		case r.Pattern != "":
			out["pattern"] = r.Pattern
		case r.NotBlank:
			out["pattern"] = `\S`
		}
		if r.Format == validation.FormatURL {
			out["format"] = "uri"
		}
	case validation.FieldTypeNumber:
		out = map[string]any{"type": "number"}
	case validation.FieldTypeBoolean:
		out = map[string]any{"type": "boolean"}
	case validation.FieldTypeEnum:
		out = map[string]any{"type": "string", "enum": r.AllowedValues}
	case validation.FieldTypeObject:
		out = object(r.Fields, opts)
	case validation.FieldTypeArray:
		out = map[string]any{"type": "array"}
		if r.Items != nil {
			out["items"] = rule(r.Items, opts)
		}
		if r.MinItems > 0 {
			out["minItems"] = r.MinItems
		}
	default:
		out = map[string]any{}
	}
	describe(out, r)
	return out
}

func object(fields []validation.FieldRule, opts Options) map[string]any {
	props := make(map[string]any, len(fields))
	var required []string
	for i := range fields {
		f := &fields[i]
		props[f.Name] = rule(f, opts)
		if f.Required {
			required = append(required, f.Name)
		}
	}

	out := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		out["required"] = required
	}
	if opts.Strict {
		out["additionalProperties"] = false
	}
	return out
}

func describe(out map[string]any, r *validation.FieldRule) {
	if r.Description != "" {
		out["description"] = r.Description
	}
}

// Violation is one leaf error reported by a compiled JSON Schema.
type Violation struct {
	Pointer string // JSON pointer into the document
	Message string
}

// Check validates doc against a compiled schema and flattens the error tree
// into its leaf causes.
func Check(schema *jsonschema.Schema, doc *document.Node) []Violation {
	err := schema.Validate(doc.Interface())
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []Violation{{Message: err.Error()}}
	}
	var out []Violation
	collect(ve, &out)
	return out
}

func collect(err *jsonschema.ValidationError, out *[]Violation) {
	if len(err.Causes) == 0 {
		*out = append(*out, Violation{Pointer: err.InstanceLocation, Message: err.Message})
		return
	}
	for _, cause := range err.Causes {
		collect(cause, out)
	}
}
