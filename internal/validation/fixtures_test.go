package validation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geotagx/geotagx-validator/internal/document"
)

// projectData returns a fresh, valid project document.
func projectData() map[string]any {
	return map[string]any{
		"schema_version": "1.0",
		"name":           "Flood Watch",
		"short_name":     "flood-watch",
		"description":    "Assess flood damage from photos.",
		"repository":     "https://github.com/geotagx/flood-watch",
		"do_not_track":   false,
		"export": map[string]any{
			"questions": []any{"is-flooded", "damage"},
		},
	}
}

// taskPresenterData returns a fresh, valid task presenter with three questions:
// is-flooded (answer "no" ends), water-depth, damage (ends).
func taskPresenterData() map[string]any {
	return map[string]any{
		"schema_version": "1.0",
		"language": map[string]any{
			"available": []any{"en", "fr"},
			"default":   "en",
		},
		"subject": map[string]any{"type": "image"},
		"questionnaire": map[string]any{
			"questions": []any{
				map[string]any{
					"key":   "is-flooded",
					"title": map[string]any{"en": "Is the area flooded?", "fr": "La zone est-elle inondée ?"},
					"input": map[string]any{"type": "polar"},
					"branch": map[string]any{
						"cases": []any{
							map[string]any{"answer": "no", "next": "_end"},
						},
					},
				},
				map[string]any{
					"key":   "water-depth",
					"title": map[string]any{"en": "How deep is the water?"},
					"hint":  map[string]any{"en": "Estimate in meters"},
					"input": map[string]any{"type": "number", "min": 0, "max": 10},
				},
				map[string]any{
					"key":   "damage",
					"title": map[string]any{"en": "What was damaged?"},
					"input": map[string]any{
						"type": "multiple-option",
						"options": []any{
							map[string]any{"value": "road", "label": map[string]any{"en": "Roads"}},
							map[string]any{"value": "house", "label": map[string]any{"en": "Houses"}},
						},
					},
					"branch": map[string]any{"default": "_end"},
				},
			},
		},
	}
}

// tutorialData returns a fresh, valid tutorial.
func tutorialData() map[string]any {
	return map[string]any{
		"schema_version":      "1.0",
		"enable-random-order": true,
		"default-message": map[string]any{
			"on-wrong-answer": map[string]any{"en": "Not quite."},
		},
		"subjects": []any{
			map[string]any{
				"src": "https://example.org/flood.jpg",
				"assertions": []any{
					map[string]any{
						"question": "is-flooded",
						"expects":  "yes",
						"messages": map[string]any{
							"on-correct-answer": map[string]any{"en": "Well done!"},
						},
					},
				},
			},
		},
	}
}

// questions returns the question list of a task presenter fixture.
func questions(tp map[string]any) []any {
	return tp["questionnaire"].(map[string]any)["questions"].([]any)
}

// question returns the i-th question of a task presenter fixture.
func question(tp map[string]any, i int) map[string]any {
	return questions(tp)[i].(map[string]any)
}

func node(t *testing.T, v map[string]any) *document.Node {
	t.Helper()
	n, err := document.FromValue(v)
	require.NoError(t, err)
	return n
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := DefaultRegistry()
	require.NoError(t, err)
	return r
}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(testRegistry(t), Options{})
}

func validDocuments(t *testing.T) DocumentSet {
	t.Helper()
	return DocumentSet{
		KindProject:       node(t, projectData()),
		KindTaskPresenter: node(t, taskPresenterData()),
		KindTutorial:      node(t, tutorialData()),
	}
}

func codes(findings []Finding) []Code {
	out := make([]Code, len(findings))
	for i, f := range findings {
		out[i] = f.Code
	}
	return out
}

func paths(findings []Finding) []string {
	out := make([]string, len(findings))
	for i, f := range findings {
		out[i] = f.Path.String()
	}
	return out
}
