package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format is an on-disk serialization supported by the loader.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// maxDepth bounds nesting so alias loops and pathological inputs fail cleanly.
const maxDepth = 512

var (
	// ErrDuplicateKey is returned when a mapping declares the same key twice.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrEmptyDocument is returned for input that contains no value.
	ErrEmptyDocument = errors.New("document is empty")
	// ErrTooDeep is returned when nesting exceeds maxDepth.
	ErrTooDeep = errors.New("document nesting too deep")
	// ErrUnsupportedFormat is returned for an unknown file extension.
	ErrUnsupportedFormat = errors.New("unsupported file extension")
)

// DuplicateKeyError reports a repeated mapping key.
type DuplicateKeyError struct {
	Pointer string // JSON pointer of the repeated key
	Line    int    // 1-based, 0 when unknown
}

func (e *DuplicateKeyError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: duplicate key at %s", e.Line, e.Pointer)
	}
	return fmt.Sprintf("duplicate key at %s", e.Pointer)
}

// Unwrap allows errors.Is(err, ErrDuplicateKey).
func (e *DuplicateKeyError) Unwrap() error {
	return ErrDuplicateKey
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w %q (valid: .json, .yaml, .yml, .toml)", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Decode parses data in the given format.
func Decode(format Format, data []byte) (*Node, error) {
	switch format {
	case FormatJSON:
		return DecodeJSON(data)
	case FormatYAML:
		return DecodeYAML(data)
	case FormatTOML:
		return DecodeTOML(data)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// pointerAppend appends a reference token to a JSON pointer, escaping ~ and /.
func pointerAppend(pointer, token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	token = strings.ReplaceAll(token, "/", "~1")
	return pointer + "/" + token
}
