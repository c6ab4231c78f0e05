// Package schemaexport_test tests JSON Schema export of the built-in schemas
// and checks that compiled exports agree with the validator on real documents.
// Related: internal/schemaexport/export.go
// Tags: schema, json-schema, export, cross-check
package schemaexport

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geotagx/geotagx-validator/internal/document"
	"github.com/geotagx/geotagx-validator/internal/validation"
)

const validProject = `schema_version: "1.0"
name: Flood Watch
short_name: flood-watch
description: Assess flood damage from photos.
repository: https://github.com/geotagx/flood-watch
export:
  questions: [is-flooded]
`

const validTaskPresenter = `schema_version: "1.0"
language:
  available: [en, fr]
  default: en
subject:
  type: image
questionnaire:
  questions:
    - key: is-flooded
      title:
        en: Is the area flooded?
        fr: La zone est-elle inondée ?
      input:
        type: polar
      branch:
        cases:
          - answer: "no"
            next: _end
    - key: damage
      title:
        en: What was damaged?
      input:
        type: text
`

func lookup(t *testing.T, kind validation.DocumentKind) *validation.Schema {
	t.Helper()
	r, err := validation.DefaultRegistry()
	require.NoError(t, err)
	s, ok := r.Lookup(kind, validation.SchemaVersion1)
	require.True(t, ok)
	return s
}

func decode(t *testing.T, src string) *document.Node {
	t.Helper()
	n, err := document.DecodeYAML([]byte(src))
	require.NoError(t, err)
	return n
}

func TestCompile_BuiltinSchemas(t *testing.T) {
	t.Parallel()

	for _, kind := range validation.DocumentKinds() {
		for _, strict := range []bool{false, true} {
			_, err := Compile(lookup(t, kind), Options{Strict: strict, DefaultLocale: "en"})
			assert.NoError(t, err, "%s strict=%v", kind, strict)
		}
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	s := lookup(t, validation.KindProject)
	out := Build(s, Options{})

	assert.Equal(t, Draft, out["$schema"])
	assert.Equal(t, "https://geotagx.org/schemas/project/1.0.json", out["$id"])
	assert.Equal(t, "GeoTag-X project (schema 1.0)", out["title"])
	assert.Equal(t, "object", out["type"])
	assert.NotContains(t, out, "additionalProperties")

	props := out["properties"].(map[string]any)
	assert.Equal(t, "1.0", props["schema_version"].(map[string]any)["const"])
	assert.Equal(t, "uri", props["repository"].(map[string]any)["format"])
	assert.Contains(t, out["required"], "name")
	assert.NotContains(t, out["required"], "repository")

	strict := Build(s, Options{Strict: true})
	assert.Equal(t, false, strict["additionalProperties"])
}

func TestBuild_LocalizedField(t *testing.T) {
	t.Parallel()

	out := Build(lookup(t, validation.KindTaskPresenter), Options{DefaultLocale: "fr"})

	questionnaire := out["properties"].(map[string]any)["questionnaire"].(map[string]any)
	questions := questionnaire["properties"].(map[string]any)["questions"].(map[string]any)
	assert.Equal(t, 1, questions["minItems"])

	question := questions["items"].(map[string]any)
	title := question["properties"].(map[string]any)["title"].(map[string]any)
	assert.Equal(t, "object", title["type"])
	assert.Equal(t, []string{"fr"}, title["required"])
	assert.Equal(t, map[string]any{"type": "string"}, withoutDescription(title["additionalProperties"]))
}

func withoutDescription(v any) map[string]any {
	m := v.(map[string]any)
	out := make(map[string]any, len(m))
	for k, val := range m {
		if k != "description" {
			out[k] = val
		}
	}
	return out
}

func TestMarshal(t *testing.T) {
	t.Parallel()

	data, err := Marshal(lookup(t, validation.KindTutorial), Options{})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "}\n"))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, Draft, decoded["$schema"])
}

func TestCheck_AgreesWithValidator(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		kind        validation.DocumentKind
		src         string
		strict      bool
		wantPointer string
		wantMessage string
	}{
		"valid project": {
			kind: validation.KindProject,
			src:  validProject,
		},
		"valid task presenter": {
			kind: validation.KindTaskPresenter,
			src:  validTaskPresenter,
		},
		"missing required field": {
			kind:        validation.KindProject,
			src:         strings.Replace(validProject, "name: Flood Watch\n", "", 1),
			wantPointer: "",
			wantMessage: "name",
		},
		"unknown field allowed by default": {
			kind: validation.KindProject,
			src:  validProject + "colour: blue\n",
		},
		"unknown field in strict mode": {
			kind:        validation.KindProject,
			src:         validProject + "colour: blue\n",
			strict:      true,
			wantPointer: "",
			wantMessage: "colour",
		},
		"relative url": {
			kind:        validation.KindProject,
			src:         strings.Replace(validProject, "https://github.com/geotagx/flood-watch", "flood-watch", 1),
			wantPointer: "/repository",
		},
		"missing default locale": {
			kind:        validation.KindTaskPresenter,
			src:         strings.Replace(validTaskPresenter, "        en: What was damaged?", "        fr: Qu'est-ce qui a été endommagé ?", 1),
			wantPointer: "/questionnaire/questions/1/title",
			wantMessage: "en",
		},
		"bad enum": {
			kind:        validation.KindTaskPresenter,
			src:         strings.Replace(validTaskPresenter, "type: image", "type: video", 1),
			wantPointer: "/subject/type",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			opts := Options{Strict: tt.strict, DefaultLocale: "en"}
			compiled, err := Compile(lookup(t, tt.kind), opts)
			require.NoError(t, err)

			doc := decode(t, tt.src)
			violations := Check(compiled, doc)

			engine := validation.NewEngine(mustRegistry(t), validation.Options{StrictUnknownFields: tt.strict})
			var engineErrors []validation.Finding
			for _, f := range engine.ValidateDocument(tt.kind, doc) {
				if f.IsError() {
					engineErrors = append(engineErrors, f)
				}
			}

			if tt.wantPointer == "" && tt.wantMessage == "" {
				assert.Empty(t, violations)
				assert.Empty(t, engineErrors)
				return
			}

			require.NotEmpty(t, violations)
			require.NotEmpty(t, engineErrors)
			assert.Equal(t, tt.wantPointer, violations[0].Pointer)
			assert.Contains(t, violations[0].Message, tt.wantMessage)
		})
	}
}

func mustRegistry(t *testing.T) *validation.Registry {
	t.Helper()
	r, err := validation.DefaultRegistry()
	require.NoError(t, err)
	return r
}
