package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	j "github.com/goccy/go-json"
)

// DecodeJSON parses a JSON document into a tree. Object key order is kept and
// a repeated key is an error rather than a silent overwrite.
func DecodeJSON(data []byte) (*Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyDocument
	}

	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	root, err := decodeJSONValue(dec, "", 0)
	if err != nil {
		return nil, err
	}

	// Anything after the root value is garbage.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, fmt.Errorf("after document root: %w", err)
		}
		return nil, fmt.Errorf("unexpected data after document root")
	}
	return root, nil
}

func decodeJSONValue(dec *j.Decoder, pointer string, depth int) (*Node, error) {
	if depth > maxDepth {
		return nil, ErrTooDeep
	}

	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("unexpected end of input at %q", pointerOrRoot(pointer))
		}
		return nil, err
	}

	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			return decodeJSONObject(dec, pointer, depth)
		case '[':
			return decodeJSONArray(dec, pointer, depth)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q at %q", v, pointerOrRoot(pointer))
		}
	case string:
		return NewString(v), nil
	case j.Number:
		return newNumberRaw(v.String())
	case float64:
		return NewNumber(v), nil
	case bool:
		return NewBool(v), nil
	case nil:
		return NewNull(), nil
	default:
		return nil, fmt.Errorf("unexpected token %v at %q", tok, pointerOrRoot(pointer))
	}
}

func decodeJSONObject(dec *j.Decoder, pointer string, depth int) (*Node, error) {
	var entries []Entry
	seen := make(map[string]struct{})

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key at %q, got %v", pointerOrRoot(pointer), tok)
		}

		childPointer := pointerAppend(pointer, key)
		if _, dup := seen[key]; dup {
			return nil, &DuplicateKeyError{Pointer: childPointer}
		}
		seen[key] = struct{}{}

		value, err := decodeJSONValue(dec, childPointer, depth+1)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Key: key, Value: value})
	}

	// closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return NewMapping(entries...), nil
}

func decodeJSONArray(dec *j.Decoder, pointer string, depth int) (*Node, error) {
	var items []*Node
	for i := 0; dec.More(); i++ {
		item, err := decodeJSONValue(dec, pointerAppend(pointer, strconv.Itoa(i)), depth+1)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	// closing ']'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return NewSequence(items...), nil
}

func pointerOrRoot(pointer string) string {
	if pointer == "" {
		return "/"
	}
	return pointer
}
