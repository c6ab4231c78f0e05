package validation

import (
	"fmt"
	"strings"
)

// DocumentKind identifies one of the configuration documents of a project.
type DocumentKind string

const (
	// KindProject represents project.json (name, short name, description).
	KindProject DocumentKind = "project"
	// KindTaskPresenter represents task_presenter.json (language, subject, questionnaire).
	KindTaskPresenter DocumentKind = "task_presenter"
	// KindTutorial represents tutorial.json (subjects with expected answers).
	KindTutorial DocumentKind = "tutorial"
)

// DocumentKinds returns every kind in canonical report order.
func DocumentKinds() []DocumentKind {
	return []DocumentKind{KindProject, KindTaskPresenter, KindTutorial}
}

// Required reports whether a project cannot be published without this document.
func (k DocumentKind) Required() bool {
	return k == KindProject || k == KindTaskPresenter
}

// Valid reports whether k is a known document kind.
func (k DocumentKind) Valid() bool {
	switch k {
	case KindProject, KindTaskPresenter, KindTutorial:
		return true
	default:
		return false
	}
}

// Title returns a display name for reports.
func (k DocumentKind) Title() string {
	switch k {
	case KindProject:
		return "Project"
	case KindTaskPresenter:
		return "Task presenter"
	case KindTutorial:
		return "Tutorial"
	default:
		return string(k)
	}
}

// ParseDocumentKind parses a string into a DocumentKind. Hyphenated spellings
// ("task-presenter") are accepted.
func ParseDocumentKind(s string) (DocumentKind, error) {
	kind := DocumentKind(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !kind.Valid() {
		return "", fmt.Errorf("invalid document kind: %s (valid kinds: %s)", s, strings.Join(ValidDocumentKinds(), ", "))
	}
	return kind, nil
}

// ValidDocumentKinds returns a list of valid document kind strings.
func ValidDocumentKinds() []string {
	return []string{string(KindProject), string(KindTaskPresenter), string(KindTutorial)}
}

// FieldType represents the expected type of a schema field. The set is closed:
// the registry rejects any value not listed here.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeObject  FieldType = "object"
	FieldTypeArray   FieldType = "array"
	FieldTypeEnum    FieldType = "enum"
)

// Valid reports whether t is one of the declared field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeString, FieldTypeNumber, FieldTypeBoolean, FieldTypeObject, FieldTypeArray, FieldTypeEnum:
		return true
	default:
		return false
	}
}

// StringFormat names a well-known string format checked by the engine.
type StringFormat string

const (
	// FormatURL requires an absolute http or https URL.
	FormatURL StringFormat = "url"
)

// VersionField is the top-level key every document uses to declare its schema version.
const VersionField = "schema_version"

// FieldRule defines a field in a document schema.
type FieldRule struct {
	Name          string       // Field name in the document
	Type          FieldType    // Expected type
	Required      bool         // Whether field must be present
	AllowedValues []string     // Valid values for enum fields
	Fields        []FieldRule  // Sub-schema for object fields
	Items         *FieldRule   // Element rule for array fields (Name is ignored)
	MinItems      int          // Minimum array length (0 means no minimum)
	LocaleAware   bool         // Value is a locale code -> Type mapping
	NotBlank      bool         // String must contain non-whitespace characters
	Pattern       string       // Regex pattern for string validation (optional)
	Format        StringFormat // Well-known string format (optional)
	Description   string       // Human-readable description
}

// Field returns the sub-field rule with the given name.
func (r *FieldRule) Field(name string) (*FieldRule, bool) {
	return findRule(r.Fields, name)
}

// TypeLabel describes the rule's expected value for messages and schema listings.
func (r *FieldRule) TypeLabel() string {
	label := string(r.Type)
	switch r.Type {
	case FieldTypeEnum:
		label = fmt.Sprintf("enum[%s]", strings.Join(r.AllowedValues, ", "))
	case FieldTypeArray:
		if r.Items != nil {
			label = fmt.Sprintf("array<%s>", r.Items.TypeLabel())
		}
	}
	if r.LocaleAware {
		label = fmt.Sprintf("localized %s", label)
	}
	return label
}

// IdentifierSet declares where a document defines identifiers that other
// documents (or itself) can reference.
type IdentifierSet struct {
	Namespace string // e.g. "question"
	Path      string // field path pattern, e.g. "questionnaire.questions[*].key"
	Unique    bool   // duplicate identifiers are reported
}

// CrossReference declares a field whose value must name an identifier of
// another namespace. The source kind is the kind of the owning schema.
type CrossReference struct {
	Path      string       // field path pattern in the source document
	Target    DocumentKind // document declaring the identifiers
	Namespace string       // identifier namespace in the target
	Reserved  []string     // values accepted without lookup (e.g. "_end")
}

// Flow describes a directed graph encoded in a document: a list of nodes,
// each with a key and outgoing edges. A node without a default edge flows to
// the next node in list order.
type Flow struct {
	Name     string   // e.g. "questionnaire"
	Nodes    string   // field path pattern selecting the node objects
	Key      string   // node field holding the node identifier
	Default  string   // node-relative path of the default edge
	Branches []string // node-relative path patterns of conditional edges
	Terminal string   // edge target that ends the flow
}

// Schema represents the rule set for one document kind and schema version.
type Schema struct {
	Kind        DocumentKind
	Version     string
	Description string
	Fields      []FieldRule
	Identifiers []IdentifierSet
	References  []CrossReference
	Flows       []Flow
}

// Field returns the top-level rule with the given name.
func (s *Schema) Field(name string) (*FieldRule, bool) {
	return findRule(s.Fields, name)
}

func findRule(rules []FieldRule, name string) (*FieldRule, bool) {
	for i := range rules {
		if rules[i].Name == name {
			return &rules[i], true
		}
	}
	return nil, false
}
