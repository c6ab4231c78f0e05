package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DecodeYAML parses the first YAML document in data. Source positions are
// recorded on every node.
func DecodeYAML(data []byte) (*Node, error) {
	var root yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, err
	}
	return convertYAML(&root, "", 0)
}

func convertYAML(n *yaml.Node, pointer string, depth int) (*Node, error) {
	if depth > maxDepth {
		return nil, ErrTooDeep
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, ErrEmptyDocument
		}
		return convertYAML(n.Content[0], pointer, depth)

	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("line %d: unresolved alias", n.Line)
		}
		return convertYAML(n.Alias, pointer, depth+1)

	case yaml.MappingNode:
		entries := make([]Entry, 0, len(n.Content)/2)
		seen := make(map[string]struct{}, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valueNode := n.Content[i], n.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
			}
			key := keyNode.Value
			childPointer := pointerAppend(pointer, key)
			if _, dup := seen[key]; dup {
				return nil, &DuplicateKeyError{Pointer: childPointer, Line: keyNode.Line}
			}
			seen[key] = struct{}{}

			value, err := convertYAML(valueNode, childPointer, depth+1)
			if err != nil {
				return nil, err
			}
			entries = append(entries, Entry{Key: key, Value: value})
		}
		return NewMapping(entries...).withPosition(n.Line, n.Column), nil

	case yaml.SequenceNode:
		items := make([]*Node, 0, len(n.Content))
		for i, child := range n.Content {
			item, err := convertYAML(child, pointerAppend(pointer, strconv.Itoa(i)), depth+1)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return NewSequence(items...).withPosition(n.Line, n.Column), nil

	case yaml.ScalarNode:
		scalar, err := convertYAMLScalar(n)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return scalar.withPosition(n.Line, n.Column), nil

	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
	}
}

func convertYAMLScalar(n *yaml.Node) (*Node, error) {
	switch n.ShortTag() {
	case "!!null":
		return NewNull(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return NewBool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return &Node{kind: NumberKind, num: f, raw: n.Value}, nil
	default:
		// !!str, !!timestamp, !!binary and custom tags keep their source text.
		return NewString(n.Value), nil
	}
}
