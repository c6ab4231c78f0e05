package validation

import "sync"

// SchemaVersion1 is the version of the bundled GeoTag-X schemas.
const SchemaVersion1 = "1.0"

// ReservedEndOfQuestionnaire ends the questionnaire when used as a branch target.
const ReservedEndOfQuestionnaire = "_end"

// keyPattern matches question keys: letters, digits, '-' and '_', not starting with '_'.
const keyPattern = `^[A-Za-z0-9-][A-Za-z0-9_-]*$`

var (
	defaultRegistryOnce sync.Once
	defaultRegistry     *Registry
	defaultRegistryErr  error
)

// DefaultRegistry returns the registry of bundled schemas. It is built once.
func DefaultRegistry() (*Registry, error) {
	defaultRegistryOnce.Do(func() {
		defaultRegistry, defaultRegistryErr = NewRegistry(BuiltinSchemas()...)
	})
	return defaultRegistry, defaultRegistryErr
}

// BuiltinSchemas returns fresh copies of the bundled schemas.
func BuiltinSchemas() []*Schema {
	return []*Schema{
		projectSchemaV1(),
		taskPresenterSchemaV1(),
		tutorialSchemaV1(),
	}
}

func versionRule() FieldRule {
	return FieldRule{
		Name:        VersionField,
		Type:        FieldTypeString,
		Required:    true,
		Description: "Schema version the document is written against",
	}
}

func localizedText(name string, required bool, description string) FieldRule {
	return FieldRule{
		Name:        name,
		Type:        FieldTypeString,
		Required:    required,
		LocaleAware: true,
		Description: description,
	}
}

func projectSchemaV1() *Schema {
	return &Schema{
		Kind:        KindProject,
		Version:     SchemaVersion1,
		Description: "Project metadata: identity, description and data export settings",
		Fields: []FieldRule{
			versionRule(),
			{
				Name:        "name",
				Type:        FieldTypeString,
				Required:    true,
				NotBlank:    true,
				Description: "Project name",
			},
			{
				Name:        "short_name",
				Type:        FieldTypeString,
				Required:    true,
				Pattern:     `^[A-Za-z0-9_-]+$`,
				Description: "Short name: letters, digits, '-' and '_' only",
			},
			{
				Name:        "description",
				Type:        FieldTypeString,
				Required:    true,
				NotBlank:    true,
				Description: "One-line project description",
			},
			{
				Name:        "repository",
				Type:        FieldTypeString,
				Format:      FormatURL,
				Description: "URL of the project's source repository",
			},
			{
				Name:        "do_not_track",
				Type:        FieldTypeBoolean,
				Description: "Disable usage tracking for this project",
			},
			{
				Name:        "export",
				Type:        FieldTypeObject,
				Description: "Data export settings",
				Fields: []FieldRule{
					{
						Name:        "questions",
						Type:        FieldTypeArray,
						MinItems:    1,
						Items:       &FieldRule{Type: FieldTypeString},
						Description: "Question keys whose answers are exported",
					},
				},
			},
		},
		References: []CrossReference{
			{Path: "export.questions[*]", Target: KindTaskPresenter, Namespace: "question"},
		},
	}
}

func taskPresenterSchemaV1() *Schema {
	option := FieldRule{
		Type: FieldTypeObject,
		Fields: []FieldRule{
			{Name: "value", Type: FieldTypeString, Required: true, NotBlank: true, Description: "Stored answer value"},
			localizedText("label", true, "Label shown to the volunteer"),
		},
	}

	input := FieldRule{
		Name:        "input",
		Type:        FieldTypeObject,
		Required:    true,
		Description: "Answer input configuration",
		Fields: []FieldRule{
			{
				Name:     "type",
				Type:     FieldTypeEnum,
				Required: true,
				AllowedValues: []string{
					"polar", "dropdown-list", "multiple-option", "text",
					"number", "datetime", "url", "geotagging",
				},
				Description: "Input type",
			},
			localizedText("placeholder", false, "Placeholder text"),
			{
				Name:        "options",
				Type:        FieldTypeArray,
				MinItems:    1,
				Items:       &option,
				Description: "Choices for dropdown-list and multiple-option inputs",
			},
			{Name: "enable-other-option", Type: FieldTypeBoolean, Description: "Offer a free-text 'other' choice"},
			{Name: "enable-long-text", Type: FieldTypeBoolean, Description: "Use a multi-line text box"},
			{Name: "min", Type: FieldTypeNumber, Description: "Lower bound for number inputs"},
			{Name: "max", Type: FieldTypeNumber, Description: "Upper bound for number inputs"},
			{Name: "date-only", Type: FieldTypeBoolean, Description: "Hide the time picker of datetime inputs"},
			{Name: "location", Type: FieldTypeString, Description: "Initial map location for geotagging inputs"},
		},
	}

	branch := FieldRule{
		Name:        "branch",
		Type:        FieldTypeObject,
		Description: "Question to ask next; defaults to the following question",
		Fields: []FieldRule{
			{Name: "default", Type: FieldTypeString, Description: "Next question key, or _end"},
			{
				Name: "cases",
				Type: FieldTypeArray,
				Items: &FieldRule{
					Type: FieldTypeObject,
					Fields: []FieldRule{
						{Name: "answer", Type: FieldTypeString, Required: true, Description: "Answer that selects this case"},
						{Name: "next", Type: FieldTypeString, Required: true, Description: "Next question key, or _end"},
					},
				},
				Description: "Answer-specific branches",
			},
		},
	}

	question := FieldRule{
		Type: FieldTypeObject,
		Fields: []FieldRule{
			{
				Name:        "key",
				Type:        FieldTypeString,
				Required:    true,
				Pattern:     keyPattern,
				Description: "Unique question key: letters, digits, '-' and '_', not starting with '_'",
			},
			localizedText("title", true, "Question asked to the volunteer"),
			localizedText("hint", false, "Short hint displayed under the title"),
			localizedText("help", false, "Detailed help text"),
			input,
			branch,
		},
	}

	return &Schema{
		Kind:        KindTaskPresenter,
		Version:     SchemaVersion1,
		Description: "Task presenter: languages, subject type and questionnaire",
		Fields: []FieldRule{
			versionRule(),
			{
				Name:        "language",
				Type:        FieldTypeObject,
				Description: "Available languages and the default locale",
				Fields: []FieldRule{
					{
						Name:        "available",
						Type:        FieldTypeArray,
						Required:    true,
						MinItems:    1,
						Items:       &FieldRule{Type: FieldTypeString, NotBlank: true},
						Description: "Locale codes the project is translated to",
					},
					{Name: "default", Type: FieldTypeString, Required: true, Description: "Default locale code"},
				},
			},
			{
				Name:        "subject",
				Type:        FieldTypeObject,
				Description: "Subject of each task",
				Fields: []FieldRule{
					{
						Name:          "type",
						Type:          FieldTypeEnum,
						Required:      true,
						AllowedValues: []string{"image", "pdf"},
						Description:   "Subject media type",
					},
				},
			},
			{
				Name:        "questionnaire",
				Type:        FieldTypeObject,
				Required:    true,
				Description: "Questions asked for each task",
				Fields: []FieldRule{
					{
						Name:        "questions",
						Type:        FieldTypeArray,
						Required:    true,
						MinItems:    1,
						Items:       &question,
						Description: "Ordered list of questions",
					},
				},
			},
		},
		Identifiers: []IdentifierSet{
			{Namespace: "question", Path: "questionnaire.questions[*].key", Unique: true},
			{Namespace: "locale", Path: "language.available[*]", Unique: true},
		},
		References: []CrossReference{
			{Path: "language.default", Target: KindTaskPresenter, Namespace: "locale"},
			{
				Path:      "questionnaire.questions[*].branch.default",
				Target:    KindTaskPresenter,
				Namespace: "question",
				Reserved:  []string{ReservedEndOfQuestionnaire},
			},
			{
				Path:      "questionnaire.questions[*].branch.cases[*].next",
				Target:    KindTaskPresenter,
				Namespace: "question",
				Reserved:  []string{ReservedEndOfQuestionnaire},
			},
		},
		Flows: []Flow{
			{
				Name:     "questionnaire",
				Nodes:    "questionnaire.questions[*]",
				Key:      "key",
				Default:  "branch.default",
				Branches: []string{"branch.cases[*].next"},
				Terminal: ReservedEndOfQuestionnaire,
			},
		},
	}
}

func tutorialSchemaV1() *Schema {
	messages := func() FieldRule {
		return FieldRule{
			Name:        "messages",
			Type:        FieldTypeObject,
			Description: "Feedback shown after the volunteer answers",
			Fields: []FieldRule{
				localizedText("on-correct-answer", false, "Shown when the answer is correct"),
				localizedText("on-wrong-answer", false, "Shown when the answer is wrong"),
			},
		}
	}

	defaultMessage := messages()
	defaultMessage.Name = "default-message"
	defaultMessage.Description = "Feedback used when an assertion has no messages of its own"

	return &Schema{
		Kind:        KindTutorial,
		Version:     SchemaVersion1,
		Description: "Tutorial: sample subjects with the expected answers",
		Fields: []FieldRule{
			versionRule(),
			{Name: "enable-random-order", Type: FieldTypeBoolean, Description: "Shuffle tutorial subjects"},
			defaultMessage,
			{
				Name:        "subjects",
				Type:        FieldTypeArray,
				Required:    true,
				MinItems:    1,
				Description: "Tutorial subjects",
				Items: &FieldRule{
					Type: FieldTypeObject,
					Fields: []FieldRule{
						{
							Name:        "src",
							Type:        FieldTypeString,
							Required:    true,
							Format:      FormatURL,
							Description: "Subject URL",
						},
						{
							Name:        "assertions",
							Type:        FieldTypeArray,
							Required:    true,
							MinItems:    1,
							Description: "Expected answers for this subject",
							Items: &FieldRule{
								Type: FieldTypeObject,
								Fields: []FieldRule{
									{Name: "question", Type: FieldTypeString, Required: true, Description: "Question key"},
									{Name: "expects", Type: FieldTypeString, Required: true, Description: "Expected answer"},
									messages(),
								},
							},
						},
					},
				},
			},
		},
		References: []CrossReference{
			{Path: "subjects[*].assertions[*].question", Target: KindTaskPresenter, Namespace: "question"},
		},
	}
}
