package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/geotagx/geotagx-validator/internal/document"
)

// Segment is one step of a finding path: an object key or an array index.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Key returns an object-key segment.
func Key(k string) Segment {
	return Segment{key: k}
}

// Index returns an array-index segment.
func Index(i int) Segment {
	return Segment{index: i, isIndex: true}
}

// IsIndex reports whether the segment is an array index.
func (s Segment) IsIndex() bool { return s.isIndex }

// Key returns the object key (empty for index segments).
func (s Segment) Key() string { return s.key }

// Index returns the array index (0 for key segments).
func (s Segment) Index() int { return s.index }

// Value returns the segment as a string key or an int index.
func (s Segment) Value() any {
	if s.isIndex {
		return s.index
	}
	return s.key
}

// Path locates a value inside a document. The empty path is the document root.
type Path []Segment

// NewPath builds a path from string keys and int indices.
func NewPath(parts ...any) Path {
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		switch v := part.(type) {
		case int:
			p = append(p, Index(v))
		case string:
			p = append(p, Key(v))
		case Segment:
			p = append(p, v)
		default:
			panic(fmt.Sprintf("validation.NewPath: unsupported segment type %T", part))
		}
	}
	return p
}

// Child returns a new path with a key appended. The receiver is not modified.
func (p Path) Child(key string) Path {
	return p.append(Key(key))
}

// At returns a new path with an index appended.
func (p Path) At(i int) Path {
	return p.append(Index(i))
}

func (p Path) append(s Segment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, s)
}

// IsRoot reports whether the path designates the document root.
func (p Path) IsRoot() bool {
	return len(p) == 0
}

// Equal reports whether both paths designate the same location.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is p itself or one of its ancestors.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	return p[:len(prefix)].Equal(prefix)
}

// Segments returns the path as string keys and int indices.
func (p Path) Segments() []any {
	out := make([]any, len(p))
	for i, s := range p {
		out[i] = s.Value()
	}
	return out
}

// String renders the path in dotted form, e.g. questionnaire.questions[0].key.
// The root renders as an empty string.
func (p Path) String() string {
	var sb strings.Builder
	for _, s := range p {
		switch {
		case s.isIndex:
			sb.WriteString("[")
			sb.WriteString(strconv.Itoa(s.index))
			sb.WriteString("]")
		case strings.ContainsAny(s.key, ".[]\"") || s.key == "":
			sb.WriteString("[")
			sb.WriteString(strconv.Quote(s.key))
			sb.WriteString("]")
		default:
			if sb.Len() > 0 {
				sb.WriteString(".")
			}
			sb.WriteString(s.key)
		}
	}
	return sb.String()
}

// Pointer renders the path as a JSON pointer (RFC 6901).
func (p Path) Pointer() string {
	var sb strings.Builder
	for _, s := range p {
		sb.WriteString("/")
		if s.isIndex {
			sb.WriteString(strconv.Itoa(s.index))
			continue
		}
		token := strings.ReplaceAll(s.key, "~", "~0")
		sb.WriteString(strings.ReplaceAll(token, "/", "~1"))
	}
	return sb.String()
}

// FieldPath is a path pattern used by identifier and reference declarations:
// dot-separated keys, where "[*]" selects every element of an array.
type FieldPath struct {
	raw   string
	steps []pathStep
}

type pathStep struct {
	key      string
	wildcard bool
}

// ParseFieldPath parses patterns such as "questionnaire.questions[*].key".
func ParseFieldPath(s string) (FieldPath, error) {
	if strings.TrimSpace(s) == "" {
		return FieldPath{}, fmt.Errorf("empty field path")
	}

	fp := FieldPath{raw: s}
	for _, part := range strings.Split(s, ".") {
		name := part
		wildcards := 0
		for strings.HasSuffix(name, "[*]") {
			name = strings.TrimSuffix(name, "[*]")
			wildcards++
		}
		if name == "" || strings.ContainsAny(name, "[]*") {
			return FieldPath{}, fmt.Errorf("invalid field path %q: bad segment %q", s, part)
		}
		fp.steps = append(fp.steps, pathStep{key: name})
		for i := 0; i < wildcards; i++ {
			fp.steps = append(fp.steps, pathStep{wildcard: true})
		}
	}
	return fp, nil
}

// MustParseFieldPath is ParseFieldPath for declarations already checked by the registry.
func MustParseFieldPath(s string) FieldPath {
	fp, err := ParseFieldPath(s)
	if err != nil {
		panic(err)
	}
	return fp
}

// String returns the pattern source.
func (fp FieldPath) String() string {
	return fp.raw
}

// Prefix returns the concrete path the pattern starts with, up to its first
// wildcard.
func (fp FieldPath) Prefix() Path {
	var out Path
	for _, st := range fp.steps {
		if st.wildcard {
			break
		}
		out = out.Child(st.key)
	}
	return out
}

// Match is one value selected by a FieldPath.
type Match struct {
	Path Path
	Node *document.Node
}

// Select returns every value the pattern designates under root, in document
// order. Steps that hit a missing key or a value of the wrong kind select nothing.
func (fp FieldPath) Select(root *document.Node) []Match {
	return fp.SelectFrom(root, nil)
}

// SelectFrom is Select with the resulting paths prefixed by base.
func (fp FieldPath) SelectFrom(root *document.Node, base Path) []Match {
	var out []Match
	var walk func(node *document.Node, path Path, step int)
	walk = func(node *document.Node, path Path, step int) {
		if step == len(fp.steps) {
			out = append(out, Match{Path: path, Node: node})
			return
		}
		st := fp.steps[step]
		if st.wildcard {
			for i := 0; i < node.Len() && node.Kind() == document.SequenceKind; i++ {
				elem, _ := node.Index(i)
				walk(elem, path.At(i), step+1)
			}
			return
		}
		if child, ok := node.Get(st.key); ok {
			walk(child, path.Child(st.key), step+1)
		}
	}
	walk(root, base, 0)
	return out
}
