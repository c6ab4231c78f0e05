// Package document provides the format-agnostic configuration tree that the
// validator walks, plus decoders that build it from JSON, YAML and TOML input.
//
// A Node is immutable once constructed. Decoders and constructors are the only
// way to build one, so a tree handed to the validator can be shared between
// goroutines without synchronization.
package document

import (
	"fmt"
	"sort"
	"strconv"
)

// Kind identifies the type of value a Node holds.
type Kind int

const (
	// NullKind is an explicit null (JSON null, YAML ~).
	NullKind Kind = iota
	// BoolKind is a boolean scalar.
	BoolKind
	// NumberKind is a numeric scalar.
	NumberKind
	// StringKind is a string scalar.
	StringKind
	// MappingKind is a string-keyed mapping.
	MappingKind
	// SequenceKind is an ordered list of values.
	SequenceKind
)

// String returns the human-readable name used in findings ("expected string, got number").
func (k Kind) String() string {
	switch k {
	case NullKind:
		return "null"
	case BoolKind:
		return "boolean"
	case NumberKind:
		return "number"
	case StringKind:
		return "string"
	case MappingKind:
		return "object"
	case SequenceKind:
		return "array"
	default:
		return "unknown"
	}
}

// Position is a 1-based source location. The zero value means unknown.
type Position struct {
	Line   int
	Column int
}

// Node is a single value in a parsed configuration document.
type Node struct {
	kind    Kind
	str     string
	num     float64
	raw     string
	boolean bool
	keys    []string
	fields  map[string]*Node
	items   []*Node
	pos     Position
}

// Entry is a key/value pair used to build mappings in a fixed key order.
type Entry struct {
	Key   string
	Value *Node
}

// NewNull returns a null node.
func NewNull() *Node {
	return &Node{kind: NullKind}
}

// NewBool returns a boolean node.
func NewBool(b bool) *Node {
	return &Node{kind: BoolKind, boolean: b}
}

// NewNumber returns a number node.
func NewNumber(f float64) *Node {
	return &Node{kind: NumberKind, num: f, raw: strconv.FormatFloat(f, 'g', -1, 64)}
}

// newNumberRaw keeps the source spelling of a number (e.g. "1.0").
func newNumberRaw(raw string) (*Node, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", raw, err)
	}
	return &Node{kind: NumberKind, num: f, raw: raw}, nil
}

// NewString returns a string node.
func NewString(s string) *Node {
	return &Node{kind: StringKind, str: s}
}

// NewMapping returns a mapping node whose key order is the order of entries.
// A repeated key keeps its first position and its last value.
func NewMapping(entries ...Entry) *Node {
	n := &Node{kind: MappingKind, fields: make(map[string]*Node, len(entries))}
	for _, e := range entries {
		if _, exists := n.fields[e.Key]; !exists {
			n.keys = append(n.keys, e.Key)
		}
		value := e.Value
		if value == nil {
			value = NewNull()
		}
		n.fields[e.Key] = value
	}
	return n
}

// NewSequence returns a sequence node.
func NewSequence(items ...*Node) *Node {
	n := &Node{kind: SequenceKind, items: make([]*Node, 0, len(items))}
	for _, item := range items {
		if item == nil {
			item = NewNull()
		}
		n.items = append(n.items, item)
	}
	return n
}

// withPosition returns n after recording its source position. Only decoders
// call it, before the node is published.
func (n *Node) withPosition(line, column int) *Node {
	n.pos = Position{Line: line, Column: column}
	return n
}

// Kind returns the node kind. A nil node reports NullKind.
func (n *Node) Kind() Kind {
	if n == nil {
		return NullKind
	}
	return n.kind
}

// Position returns the source position, if the decoder recorded one.
func (n *Node) Position() Position {
	if n == nil {
		return Position{}
	}
	return n.pos
}

// Str returns the string value and whether the node is a string.
func (n *Node) Str() (string, bool) {
	if n == nil || n.kind != StringKind {
		return "", false
	}
	return n.str, true
}

// Float returns the numeric value and whether the node is a number.
func (n *Node) Float() (float64, bool) {
	if n == nil || n.kind != NumberKind {
		return 0, false
	}
	return n.num, true
}

// Bool returns the boolean value and whether the node is a boolean.
func (n *Node) Bool() (bool, bool) {
	if n == nil || n.kind != BoolKind {
		return false, false
	}
	return n.boolean, true
}

// Get returns the value stored under key in a mapping node.
func (n *Node) Get(key string) (*Node, bool) {
	if n == nil || n.kind != MappingKind {
		return nil, false
	}
	v, ok := n.fields[key]
	return v, ok
}

// Keys returns the mapping keys in source order.
func (n *Node) Keys() []string {
	if n == nil || n.kind != MappingKind {
		return nil
	}
	keys := make([]string, len(n.keys))
	copy(keys, n.keys)
	return keys
}

// SortedKeys returns the mapping keys in lexical order.
func (n *Node) SortedKeys() []string {
	keys := n.Keys()
	sort.Strings(keys)
	return keys
}

// Len returns the number of entries of a mapping or elements of a sequence.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	switch n.kind {
	case MappingKind:
		return len(n.keys)
	case SequenceKind:
		return len(n.items)
	default:
		return 0
	}
}

// Index returns the i-th element of a sequence node.
func (n *Node) Index(i int) (*Node, bool) {
	if n == nil || n.kind != SequenceKind || i < 0 || i >= len(n.items) {
		return nil, false
	}
	return n.items[i], true
}

// String renders a short, single-line description of the value for messages.
func (n *Node) String() string {
	if n == nil {
		return "null"
	}
	switch n.kind {
	case NullKind:
		return "null"
	case BoolKind:
		return strconv.FormatBool(n.boolean)
	case NumberKind:
		return n.raw
	case StringKind:
		return strconv.Quote(n.str)
	case MappingKind:
		return fmt.Sprintf("object with %d field(s)", len(n.keys))
	case SequenceKind:
		return fmt.Sprintf("array with %d element(s)", len(n.items))
	default:
		return "unknown"
	}
}

// Interface converts the tree back to plain Go values (map[string]any,
// []any, string, float64, bool, nil). Used by the JSON Schema cross-check.
func (n *Node) Interface() any {
	if n == nil {
		return nil
	}
	switch n.kind {
	case BoolKind:
		return n.boolean
	case NumberKind:
		return n.num
	case StringKind:
		return n.str
	case MappingKind:
		m := make(map[string]any, len(n.keys))
		for _, k := range n.keys {
			m[k] = n.fields[k].Interface()
		}
		return m
	case SequenceKind:
		s := make([]any, len(n.items))
		for i, item := range n.items {
			s[i] = item.Interface()
		}
		return s
	default:
		return nil
	}
}

// FromValue builds a tree from plain Go values. Mapping keys are ordered
// lexically because Go maps carry no order.
func FromValue(v any) (*Node, error) {
	switch val := v.(type) {
	case nil:
		return NewNull(), nil
	case *Node:
		return val, nil
	case bool:
		return NewBool(val), nil
	case string:
		return NewString(val), nil
	case int:
		return NewNumber(float64(val)), nil
	case int64:
		return NewNumber(float64(val)), nil
	case float64:
		return NewNumber(val), nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		entries := make([]Entry, 0, len(keys))
		for _, k := range keys {
			child, err := FromValue(val[k])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			entries = append(entries, Entry{Key: k, Value: child})
		}
		return NewMapping(entries...), nil
	case []any:
		items := make([]*Node, 0, len(val))
		for i, item := range val {
			child, err := FromValue(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			items = append(items, child)
		}
		return NewSequence(items...), nil
	case []string:
		items := make([]*Node, 0, len(val))
		for _, s := range val {
			items = append(items, NewString(s))
		}
		return NewSequence(items...), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

// MustFromValue is FromValue for literals in tests and fixtures; it panics on
// unsupported types.
func MustFromValue(v any) *Node {
	n, err := FromValue(v)
	if err != nil {
		panic(err)
	}
	return n
}
