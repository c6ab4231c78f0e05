package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minimalSchema(kind DocumentKind, version string, fields ...FieldRule) *Schema {
	return &Schema{
		Kind:    kind,
		Version: version,
		Fields:  append([]FieldRule{versionRule()}, fields...),
	}
}

func minimalSet(extra ...*Schema) []*Schema {
	return append([]*Schema{
		minimalSchema(KindProject, "1.0"),
		minimalSchema(KindTaskPresenter, "1.0"),
		minimalSchema(KindTutorial, "1.0"),
	}, extra...)
}

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	r, err := DefaultRegistry()
	require.NoError(t, err)

	assert.Equal(t, DocumentKinds(), r.Kinds())
	for _, kind := range DocumentKinds() {
		assert.Equal(t, []string{SchemaVersion1}, r.Versions(kind))
		s, ok := r.Lookup(kind, SchemaVersion1)
		require.True(t, ok)
		assert.Equal(t, kind, s.Kind)
	}

	_, ok := r.Lookup(KindProject, "2.0")
	assert.False(t, ok)

	again, _ := DefaultRegistry()
	assert.Same(t, r, again)
}

func TestNewRegistry_Versions(t *testing.T) {
	t.Parallel()

	r, err := NewRegistry(minimalSet(minimalSchema(KindProject, "1.1"))...)
	require.NoError(t, err)

	assert.Equal(t, []string{"1.0", "1.1"}, r.Versions(KindProject))
	latest, ok := r.Latest(KindProject)
	require.True(t, ok)
	assert.Equal(t, "1.1", latest.Version)

	versions := r.Versions(KindProject)
	versions[0] = "mutated"
	assert.Equal(t, []string{"1.0", "1.1"}, r.Versions(KindProject))
}

func TestNewRegistry_RejectsInvalidSchemas(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		schemas []*Schema
		problem string
	}{
		"nil schema": {
			schemas: minimalSet(nil),
			problem: "is nil",
		},
		"missing kind": {
			schemas: []*Schema{minimalSchema(KindProject, "1.0"), minimalSchema(KindTaskPresenter, "1.0")},
			problem: "no schema registered for tutorial documents",
		},
		"duplicate version": {
			schemas: minimalSet(minimalSchema(KindTutorial, "1.0")),
			problem: "registered twice",
		},
		"unknown kind": {
			schemas: minimalSet(minimalSchema(DocumentKind("manifest"), "1.0")),
			problem: `invalid document kind "manifest"`,
		},
		"empty version": {
			schemas: minimalSet(minimalSchema(KindProject, " ")),
			problem: "empty version",
		},
		"no version field": {
			schemas: minimalSet(&Schema{Kind: KindProject, Version: "2.0"}),
			problem: `must declare a required string "schema_version" field`,
		},
		"unknown field type": {
			schemas: minimalSet(minimalSchema(KindProject, "2.0", FieldRule{Name: "x", Type: "date"})),
			problem: `field x: unknown type "date"`,
		},
		"enum without values": {
			schemas: minimalSet(minimalSchema(KindProject, "2.0", FieldRule{Name: "x", Type: FieldTypeEnum})),
			problem: "enum without allowed values",
		},
		"array without items": {
			schemas: minimalSet(minimalSchema(KindProject, "2.0", FieldRule{Name: "x", Type: FieldTypeArray})),
			problem: "array without element rule",
		},
		"object without fields": {
			schemas: minimalSet(minimalSchema(KindProject, "2.0", FieldRule{Name: "x", Type: FieldTypeObject})),
			problem: "object without fields",
		},
		"duplicate field": {
			schemas: minimalSet(minimalSchema(KindProject, "2.0",
				FieldRule{Name: "x", Type: FieldTypeString},
				FieldRule{Name: "x", Type: FieldTypeNumber})),
			problem: "field x declared twice",
		},
		"bad pattern": {
			schemas: minimalSet(minimalSchema(KindProject, "2.0", FieldRule{Name: "x", Type: FieldTypeString, Pattern: "("})),
			problem: "invalid pattern",
		},
		"localized number": {
			schemas: minimalSet(minimalSchema(KindProject, "2.0", FieldRule{Name: "x", Type: FieldTypeNumber, LocaleAware: true})),
			problem: "only string and enum fields can be localized",
		},
		"min items on string": {
			schemas: minimalSet(minimalSchema(KindProject, "2.0", FieldRule{Name: "x", Type: FieldTypeString, MinItems: 1})),
			problem: "min items only applies to arrays",
		},
		"nested problem": {
			schemas: minimalSet(minimalSchema(KindProject, "2.0", FieldRule{
				Name:   "outer",
				Type:   FieldTypeObject,
				Fields: []FieldRule{{Name: "inner", Type: FieldTypeArray, Items: &FieldRule{Type: "nope"}}},
			})),
			problem: `field outer.inner[*]: unknown type "nope"`,
		},
		"bad identifier path": {
			schemas: minimalSet(&Schema{
				Kind:        KindProject,
				Version:     "2.0",
				Fields:      []FieldRule{versionRule()},
				Identifiers: []IdentifierSet{{Namespace: "q", Path: "a..b"}},
			}),
			problem: "invalid field path",
		},
		"undeclared reference namespace": {
			schemas: minimalSet(&Schema{
				Kind:       KindProject,
				Version:    "2.0",
				Fields:     []FieldRule{versionRule()},
				References: []CrossReference{{Path: "a", Target: KindTaskPresenter, Namespace: "question"}},
			}),
			problem: "targets undeclared namespace task_presenter/question",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			r, err := NewRegistry(tt.schemas...)
			require.Error(t, err)
			assert.Nil(t, r)
			assert.True(t, errors.Is(err, ErrRegistryUnavailable))

			var regErr *RegistryError
			require.ErrorAs(t, err, &regErr)
			assert.Contains(t, regErr.Error(), tt.problem)
		})
	}
}

func TestParseDocumentKind(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input   string
		want    DocumentKind
		wantErr bool
	}{
		"project":         {input: "project", want: KindProject},
		"underscore":      {input: "task_presenter", want: KindTaskPresenter},
		"hyphen":          {input: "Task-Presenter", want: KindTaskPresenter},
		"tutorial padded": {input: " tutorial ", want: KindTutorial},
		"unknown":         {input: "manifest", wantErr: true},
		"empty":           {input: "", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseDocumentKind(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "valid kinds: project, task_presenter, tutorial")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDocumentKind_Required(t *testing.T) {
	t.Parallel()

	assert.True(t, KindProject.Required())
	assert.True(t, KindTaskPresenter.Required())
	assert.False(t, KindTutorial.Required())
	assert.Equal(t, "Task presenter", KindTaskPresenter.Title())
}

func TestFieldRule_TypeLabel(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		rule FieldRule
		want string
	}{
		"string":     {rule: FieldRule{Type: FieldTypeString}, want: "string"},
		"localized":  {rule: FieldRule{Type: FieldTypeString, LocaleAware: true}, want: "localized string"},
		"enum":       {rule: FieldRule{Type: FieldTypeEnum, AllowedValues: []string{"a", "b"}}, want: "enum[a, b]"},
		"array":      {rule: FieldRule{Type: FieldTypeArray, Items: &FieldRule{Type: FieldTypeNumber}}, want: "array<number>"},
		"bare array": {rule: FieldRule{Type: FieldTypeArray}, want: "array"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.rule.TypeLabel())
		})
	}
}
