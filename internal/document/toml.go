package document

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// DecodeTOML parses a TOML document. Table key order follows the order in
// which keys appear in the source.
func DecodeTOML(data []byte) (*Node, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, ErrEmptyDocument
	}

	var raw map[string]any
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, err
	}

	order := make(map[string][]string)
	seen := make(map[string]struct{})
	for _, key := range md.Keys() {
		if len(key) == 0 {
			continue
		}
		parent := strings.Join(key[:len(key)-1], "\x00")
		full := strings.Join(key, "\x00")
		if _, ok := seen[full]; ok {
			continue
		}
		seen[full] = struct{}{}
		order[parent] = append(order[parent], key[len(key)-1])
	}

	return convertTOML(raw, nil, order, 0)
}

func convertTOML(v any, path []string, order map[string][]string, depth int) (*Node, error) {
	if depth > maxDepth {
		return nil, ErrTooDeep
	}

	switch val := v.(type) {
	case map[string]any:
		return convertTOMLTable(val, path, order, depth)
	case []map[string]any:
		items := make([]*Node, 0, len(val))
		for _, table := range val {
			item, err := convertTOMLTable(table, path, order, depth+1)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return NewSequence(items...), nil
	case []any:
		items := make([]*Node, 0, len(val))
		for _, elem := range val {
			item, err := convertTOML(elem, path, order, depth+1)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return NewSequence(items...), nil
	case string:
		return NewString(val), nil
	case bool:
		return NewBool(val), nil
	case int64:
		return NewNumber(float64(val)), nil
	case float64:
		return NewNumber(val), nil
	case time.Time:
		return NewString(val.Format(time.RFC3339)), nil
	default:
		return nil, fmt.Errorf("%s: unsupported TOML value type %T", strings.Join(path, "."), v)
	}
}

func convertTOMLTable(table map[string]any, path []string, order map[string][]string, depth int) (*Node, error) {
	keys := orderedTOMLKeys(table, order[strings.Join(path, "\x00")])
	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		childPath := append(append([]string{}, path...), key)
		child, err := convertTOML(table[key], childPath, order, depth+1)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Key: key, Value: child})
	}
	return NewMapping(entries...), nil
}

// orderedTOMLKeys returns the keys of table in source order, falling back to
// lexical order for keys the metadata did not list.
func orderedTOMLKeys(table map[string]any, sourceOrder []string) []string {
	keys := make([]string, 0, len(table))
	used := make(map[string]struct{}, len(table))
	for _, k := range sourceOrder {
		if _, ok := table[k]; !ok {
			continue
		}
		if _, dup := used[k]; dup {
			continue
		}
		used[k] = struct{}{}
		keys = append(keys, k)
	}

	var rest []string
	for k := range table {
		if _, ok := used[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}
