// Package validation_test tests the schema engine.
// Related: internal/validation/engine.go, internal/validation/schemas_v1.go
// Tags: validation, engine, schema, locale, unknown-fields
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geotagx/geotagx-validator/internal/document"
)

func TestValidateDocument_ValidDocuments(t *testing.T) {
	t.Parallel()

	engine := testEngine(t)
	for kind, doc := range validDocuments(t) {
		t.Run(string(kind), func(t *testing.T) {
			t.Parallel()
			assert.Empty(t, engine.ValidateDocument(kind, doc))
		})
	}
}

func TestValidateDocument_MissingRequiredFields(t *testing.T) {
	t.Parallel()

	p := projectData()
	delete(p, "name")
	delete(p, "description")

	findings := testEngine(t).ValidateDocument(KindProject, node(t, p))
	require.Len(t, findings, 2)
	assert.Equal(t, []Code{CodeMissingRequiredField, CodeMissingRequiredField}, codes(findings))
	assert.Equal(t, []string{"name", "description"}, paths(findings), "reported in schema order")
	for _, f := range findings {
		assert.Equal(t, SeverityError, f.Severity)
		assert.Equal(t, KindProject, f.Document)
	}
}

func TestValidateDocument_OptionalFieldsMayBeAbsent(t *testing.T) {
	t.Parallel()

	p := projectData()
	delete(p, "repository")
	delete(p, "do_not_track")
	delete(p, "export")

	assert.Empty(t, testEngine(t).ValidateDocument(KindProject, node(t, p)))
}

func TestValidateDocument_UnknownFields(t *testing.T) {
	t.Parallel()

	p := projectData()
	p["zeta"] = 1
	p["alpha"] = "x"

	tests := map[string]struct {
		strict   bool
		severity Severity
	}{
		"lenient": {strict: false, severity: SeverityWarning},
		"strict":  {strict: true, severity: SeverityError},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			engine := NewEngine(testRegistry(t), Options{StrictUnknownFields: tt.strict})
			findings := engine.ValidateDocument(KindProject, node(t, p))

			require.Len(t, findings, 2)
			assert.Equal(t, []string{"alpha", "zeta"}, paths(findings), "sorted by key")
			for _, f := range findings {
				assert.Equal(t, CodeUnknownField, f.Code)
				assert.Equal(t, tt.severity, f.Severity)
			}
		})
	}
}

func TestValidateDocument_UnknownFieldSuggestion(t *testing.T) {
	t.Parallel()

	p := projectData()
	p["descripton"] = "typo"

	findings := testEngine(t).ValidateDocument(KindProject, node(t, p))
	require.Len(t, findings, 1)
	assert.Equal(t, "Did you mean 'description'?", findings[0].Hint)
}

func TestValidateDocument_NestedUnknownFieldAfterDeclared(t *testing.T) {
	t.Parallel()

	tp := taskPresenterData()
	q := question(tp, 0)
	q["colour"] = "red"
	delete(q, "input")

	findings := testEngine(t).ValidateDocument(KindTaskPresenter, node(t, tp))
	require.Len(t, findings, 2)
	assert.Equal(t, []Code{CodeMissingRequiredField, CodeUnknownField}, codes(findings))
	assert.Equal(t, []string{
		"questionnaire.questions[0].input",
		"questionnaire.questions[0].colour",
	}, paths(findings))
}

func TestValidateDocument_Idempotent(t *testing.T) {
	t.Parallel()

	tp := taskPresenterData()
	question(tp, 1)["title"] = map[string]any{"fr": "Profondeur ?"}
	question(tp, 2)["input"].(map[string]any)["type"] = "slider"
	tp["extra"] = true
	doc := node(t, tp)

	engine := testEngine(t)
	first := engine.ValidateDocument(KindTaskPresenter, doc)
	second := engine.ValidateDocument(KindTaskPresenter, doc)
	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestValidateDocument_MissingDefaultLocale(t *testing.T) {
	t.Parallel()

	tp := taskPresenterData()
	question(tp, 1)["title"] = map[string]any{"fr": "Quelle profondeur ?"}

	findings := testEngine(t).ValidateDocument(KindTaskPresenter, node(t, tp))
	require.Len(t, findings, 1)
	f := findings[0]
	assert.Equal(t, CodeMissingDefaultLocale, f.Code)
	assert.Equal(t, NewPath("questionnaire", "questions", 1, "title"), f.Path)
	assert.Contains(t, f.Message, "'en'")
}

func TestValidateDocument_LocaleFollowsEngineOption(t *testing.T) {
	t.Parallel()

	tp := taskPresenterData()
	question(tp, 1)["title"] = map[string]any{"fr": "Quelle profondeur ?"}

	engine := NewEngine(testRegistry(t), Options{DefaultLocale: "fr"})
	findings := engine.ValidateDocument(KindTaskPresenter, node(t, tp))

	// Every other localized field only has an English entry.
	assert.NotEmpty(t, findings)
	for _, f := range findings {
		assert.Equal(t, CodeMissingDefaultLocale, f.Code)
		assert.NotEqual(t, "questionnaire.questions[1].title", f.Path.String())
	}
}

func TestValidateDocument_LocalizedValueTypes(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		title    any
		wantCode []Code
		wantPath []string
	}{
		"plain string instead of locale map": {
			title:    "Is the area flooded?",
			wantCode: []Code{CodeTypeMismatch},
			wantPath: []string{"questionnaire.questions[0].title"},
		},
		"non-string translation": {
			title:    map[string]any{"en": "Flooded?", "fr": 3},
			wantCode: []Code{CodeTypeMismatch},
			wantPath: []string{"questionnaire.questions[0].title.fr"},
		},
		"empty locale map": {
			title:    map[string]any{},
			wantCode: []Code{CodeMissingDefaultLocale},
			wantPath: []string{"questionnaire.questions[0].title"},
		},
		"unknown locale is accepted": {
			title: map[string]any{"en": "Flooded?", "xx-YY": "??"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			tp := taskPresenterData()
			question(tp, 0)["title"] = tt.title

			findings := testEngine(t).ValidateDocument(KindTaskPresenter, node(t, tp))
			if tt.wantCode == nil {
				assert.Empty(t, findings)
				return
			}
			assert.Equal(t, tt.wantCode, codes(findings))
			assert.Equal(t, tt.wantPath, paths(findings))
		})
	}
}

func TestValidateDocument_SchemaVersion(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		version any
		remove  bool
		actual  string
	}{
		"unknown version": {version: "2.0", actual: "2.0"},
		"number version":  {version: 1.0, actual: "1"},
		"missing version": {remove: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			p := projectData()
			delete(p, "name") // must not be reported: validation stops
			if tt.remove {
				delete(p, VersionField)
			} else {
				p[VersionField] = tt.version
			}

			findings := testEngine(t).ValidateDocument(KindProject, node(t, p))
			require.Len(t, findings, 1)
			f := findings[0]
			assert.Equal(t, CodeUnknownSchemaVersion, f.Code)
			assert.True(t, f.Path.IsRoot())
			assert.Equal(t, "one of: 1.0", f.Expected)
			assert.Equal(t, tt.actual, f.Actual)
		})
	}
}

func TestValidateDocument_RootNotAnObject(t *testing.T) {
	t.Parallel()

	findings := testEngine(t).ValidateDocument(KindProject, document.NewSequence())
	require.Len(t, findings, 1)
	assert.Equal(t, CodeTypeMismatch, findings[0].Code)
	assert.True(t, findings[0].Path.IsRoot())
	assert.Equal(t, "object", findings[0].Expected)
	assert.Equal(t, "array", findings[0].Actual)
}

func TestValidateDocument_TooFewElements(t *testing.T) {
	t.Parallel()

	tp := taskPresenterData()
	tp["questionnaire"] = map[string]any{"questions": []any{}}

	findings := testEngine(t).ValidateDocument(KindTaskPresenter, node(t, tp))
	require.Len(t, findings, 1)
	assert.Equal(t, CodeTooFewElements, findings[0].Code)
	assert.Equal(t, "questionnaire.questions", findings[0].Path.String())
	assert.Equal(t, "at least 1 element(s)", findings[0].Expected)
	assert.Equal(t, "0", findings[0].Actual)
}

func TestValidateDocument_FieldConstraints(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		field    string
		value    any
		wantCode Code
		expected string
		actual   string
	}{
		"wrong type": {
			field:    "name", value: 42, wantCode: CodeTypeMismatch,
			expected: "string", actual: "number",
		},
		"null value": {
			field:    "description", value: nil, wantCode: CodeTypeMismatch,
			expected: "string", actual: "null",
		},
		"boolean expected": {
			field:    "do_not_track", value: "no", wantCode: CodeTypeMismatch,
			expected: "boolean", actual: "string",
		},
		"blank name": {
			field:  "name", value: "   ", wantCode: CodeBlankValue,
			actual: `"   "`,
		},
		"short name with spaces": {
			field:    "short_name", value: "flood watch", wantCode: CodePatternMismatch,
			expected: "match pattern ^[A-Za-z0-9_-]+$", actual: "flood watch",
		},
		"repository without protocol": {
			field:    "repository", value: "github.com/geotagx/flood-watch", wantCode: CodeInvalidFormat,
			expected: "an absolute http or https URL", actual: "github.com/geotagx/flood-watch",
		},
		"export is not an object": {
			field:    "export", value: []any{"a"}, wantCode: CodeTypeMismatch,
			expected: "object", actual: "array",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			p := projectData()
			p[tt.field] = tt.value

			findings := testEngine(t).ValidateDocument(KindProject, node(t, p))
			require.Len(t, findings, 1)
			f := findings[0]
			assert.Equal(t, tt.wantCode, f.Code)
			assert.Equal(t, tt.field, f.Path.String())
			assert.Equal(t, tt.expected, f.Expected)
			assert.Equal(t, tt.actual, f.Actual)
			if tt.wantCode == CodeTypeMismatch {
				assert.Contains(t, f.Message, "expected "+tt.expected+", got "+tt.actual)
			}
		})
	}
}

func TestValidateDocument_InvalidEnumValue(t *testing.T) {
	t.Parallel()

	tp := taskPresenterData()
	tp["subject"] = map[string]any{"type": "video"}

	findings := testEngine(t).ValidateDocument(KindTaskPresenter, node(t, tp))
	require.Len(t, findings, 1)
	assert.Equal(t, CodeInvalidEnumValue, findings[0].Code)
	assert.Equal(t, "subject.type", findings[0].Path.String())
	assert.Equal(t, "one of: image, pdf", findings[0].Expected)
	assert.Equal(t, "video", findings[0].Actual)
}

func TestValidateDocument_QuestionKeyPattern(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		key   string
		valid bool
	}{
		"plain":              {key: "damage", valid: true},
		"dashes":             {key: "--", valid: true},
		"inner underscore":   {key: "water_depth", valid: true},
		"leading digit":      {key: "2nd", valid: true},
		"leading underscore": {key: "_end", valid: false},
		"space":              {key: "water depth", valid: false},
		"empty":              {key: "", valid: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			tp := taskPresenterData()
			question(tp, 2)["key"] = tt.key

			findings := testEngine(t).ValidateDocument(KindTaskPresenter, node(t, tp))
			if tt.valid {
				assert.Empty(t, findings)
				return
			}
			require.Len(t, findings, 1)
			assert.Equal(t, CodePatternMismatch, findings[0].Code)
		})
	}
}

func TestValidateDocument_ArrayElements(t *testing.T) {
	t.Parallel()

	tp := taskPresenterData()
	tp["language"] = map[string]any{"available": []any{"en", 7, ""}, "default": "en"}

	findings := testEngine(t).ValidateDocument(KindTaskPresenter, node(t, tp))
	assert.Equal(t, []Code{CodeTypeMismatch, CodeBlankValue}, codes(findings))
	assert.Equal(t, []string{"language.available[1]", "language.available[2]"}, paths(findings))
}

func TestValidateDocument_TutorialDefaults(t *testing.T) {
	t.Parallel()

	tu := tutorialData()
	tu["subjects"] = []any{
		map[string]any{"src": "ftp://example.org/a.jpg", "assertions": []any{}},
	}

	findings := testEngine(t).ValidateDocument(KindTutorial, node(t, tu))
	assert.Equal(t, []Code{CodeInvalidFormat, CodeTooFewElements}, codes(findings))
	assert.Equal(t, []string{"subjects[0].src", "subjects[0].assertions"}, paths(findings))
}

func TestValidateDocument_RecordsPositions(t *testing.T) {
	t.Parallel()

	doc, err := document.DecodeYAML([]byte(`schema_version: "1.0"
name: 42
short_name: demo
description: Demo project
`))
	require.NoError(t, err)

	findings := testEngine(t).ValidateDocument(KindProject, doc)
	require.Len(t, findings, 1)
	assert.Equal(t, 2, findings[0].Line)
	assert.Equal(t, 7, findings[0].Column)
}

func TestValidate_WithAdHocSchema(t *testing.T) {
	t.Parallel()

	schema := &Schema{
		Kind:    KindProject,
		Version: "test",
		Fields: []FieldRule{
			{Name: "count", Type: FieldTypeNumber, Required: true},
			{Name: "tags", Type: FieldTypeArray, Items: &FieldRule{Type: FieldTypeEnum, AllowedValues: []string{"a", "b"}}},
		},
	}

	doc := node(t, map[string]any{"count": "three", "tags": []any{"a", "c"}})
	findings := testEngine(t).Validate(doc, schema)
	assert.Equal(t, []Code{CodeTypeMismatch, CodeInvalidEnumValue}, codes(findings))
	assert.Equal(t, []string{"count", "tags[1]"}, paths(findings))
}
