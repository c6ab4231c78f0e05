// Package project locates and decodes the configuration documents of a
// GeoTag-X project directory (project, task presenter, tutorial).
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/geotagx/geotagx-validator/internal/document"
	"github.com/geotagx/geotagx-validator/internal/validation"
)

// Extensions lists the accepted document extensions in lookup order.
var Extensions = []string{".json", ".yaml", ".yml", ".toml"}

var (
	// ErrNotDirectory is returned when a project path is not a directory.
	ErrNotDirectory = errors.New("not a directory")
	// ErrAmbiguousDocument is returned when a document exists in several formats.
	ErrAmbiguousDocument = errors.New("document exists in several formats")
	// ErrKindNotInferred is returned when a file name does not name a document kind.
	ErrKindNotInferred = errors.New("cannot infer document kind")
)

// Source describes where a document was found.
type Source struct {
	Kind   validation.DocumentKind
	Path   string
	Format document.Format
}

// Project is a loaded project directory.
type Project struct {
	Dir       string
	Sources   map[validation.DocumentKind]Source
	Documents validation.DocumentSet
}

// Name returns the directory name of the project.
func (p *Project) Name() string {
	return filepath.Base(p.Dir)
}

// DecodeError reports a document that exists but cannot be decoded.
type DecodeError struct {
	Source Source
	Err    error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s document %s: %v", e.Source.Kind, e.Source.Path, e.Err)
}

// Unwrap returns the underlying decoder error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// BaseName returns the file name, without extension, of a document kind.
func BaseName(kind validation.DocumentKind) string {
	return string(kind)
}

// Discover finds the documents present in dir. A kind with no file is left
// out; a kind with files in more than one format is an error.
func Discover(dir string) (map[validation.DocumentKind]Source, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("reading project directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project path %s: %w", dir, ErrNotDirectory)
	}

	sources := make(map[validation.DocumentKind]Source)
	for _, kind := range validation.DocumentKinds() {
		var found []Source
		for _, ext := range Extensions {
			path := filepath.Join(dir, BaseName(kind)+ext)
			fi, err := os.Stat(path)
			if err != nil || fi.IsDir() {
				continue
			}
			format, err := document.FormatFromPath(path)
			if err != nil {
				return nil, err
			}
			found = append(found, Source{Kind: kind, Path: path, Format: format})
		}

		switch len(found) {
		case 0:
		case 1:
			sources[kind] = found[0]
		default:
			names := make([]string, len(found))
			for i, s := range found {
				names[i] = filepath.Base(s.Path)
			}
			return nil, fmt.Errorf("%s: %w: %s", kind, ErrAmbiguousDocument, strings.Join(names, ", "))
		}
	}
	return sources, nil
}

// Load discovers and decodes the documents of a project directory.
func Load(dir string) (*Project, error) {
	sources, err := Discover(dir)
	if err != nil {
		return nil, err
	}

	p := &Project{
		Dir:       dir,
		Sources:   sources,
		Documents: make(validation.DocumentSet, len(sources)),
	}
	for _, kind := range validation.DocumentKinds() {
		src, ok := sources[kind]
		if !ok {
			continue
		}
		doc, err := LoadFile(src)
		if err != nil {
			return nil, err
		}
		p.Documents[kind] = doc
	}
	return p, nil
}

// LoadFile reads and decodes a single document.
func LoadFile(src Source) (*document.Node, error) {
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s document: %w", src.Kind, err)
	}
	doc, err := document.Decode(src.Format, data)
	if err != nil {
		return nil, &DecodeError{Source: src, Err: err}
	}
	return doc, nil
}

// SourceFor builds a Source from an explicit file path. The kind is taken
// from the file name unless kind is non-empty.
func SourceFor(path string, kind validation.DocumentKind) (Source, error) {
	format, err := document.FormatFromPath(path)
	if err != nil {
		return Source{}, err
	}
	if kind == "" {
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		kind, err = validation.ParseDocumentKind(base)
		if err != nil {
			return Source{}, fmt.Errorf("%w from %s: %w", ErrKindNotInferred, filepath.Base(path), err)
		}
	}
	return Source{Kind: kind, Path: path, Format: format}, nil
}
