// Package searchterm resolves search term and index term definitions from
// a YAML catalog file or from Redis hashes.
package searchterm

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/recdex/internal/domain"
	"github.com/kailas-cloud/recdex/internal/domain/index"
	"github.com/kailas-cloud/recdex/internal/domain/search/term"
)

// Catalog is the on-disk form of a term catalog.
type Catalog struct {
	IndexTerms  []IndexTermEntry  `yaml:"index_terms"`
	SearchTerms []SearchTermEntry `yaml:"search_terms"`
}

// IndexTermEntry maps an index term id to a logical field and type.
type IndexTermEntry struct {
	ID    string `yaml:"id"`
	Field string `yaml:"field"`
	Type  string `yaml:"type"`
}

// SearchTermEntry defines a named search term.
type SearchTermEntry struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	IndexTerm  string `yaml:"index_term"`
	LinkedOn   string `yaml:"linked_on,omitempty"`
	RecordType string `yaml:"record_type,omitempty"`
}

// File is an immutable in-memory catalog. Safe for concurrent use.
type File struct {
	searchTerms map[string]term.Definition
	indexTerms  map[string]term.IndexTerm
	catalog     Catalog
}

// LoadFile reads and parses a YAML catalog.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from config
	if err != nil {
		return nil, fmt.Errorf("read term catalog: %w", err)
	}
	return ParseFile(data)
}

// ParseFile parses a YAML catalog and validates every entry.
func ParseFile(data []byte) (*File, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse term catalog: %w", err)
	}
	return NewFile(c)
}

// NewFile indexes a parsed catalog. Duplicate names are rejected.
func NewFile(c Catalog) (*File, error) {
	f := &File{
		searchTerms: make(map[string]term.Definition, len(c.SearchTerms)),
		indexTerms:  make(map[string]term.IndexTerm, len(c.IndexTerms)),
		catalog:     c,
	}
	for _, e := range c.IndexTerms {
		if e.ID == "" || e.Field == "" {
			return nil, fmt.Errorf("index term %q: id and field are required: %w", e.ID, domain.ErrInvalidRequest)
		}
		if _, dup := f.indexTerms[e.ID]; dup {
			return nil, fmt.Errorf("index term %q: duplicate: %w", e.ID, domain.ErrInvalidRequest)
		}
		f.indexTerms[e.ID] = term.NewIndexTerm(e.ID, e.Field, index.ParseType(e.Type))
	}
	for _, e := range c.SearchTerms {
		if e.Name == "" {
			return nil, fmt.Errorf("search term: name is required: %w", domain.ErrInvalidRequest)
		}
		if _, dup := f.searchTerms[e.Name]; dup {
			return nil, fmt.Errorf("search term %q: duplicate: %w", e.Name, domain.ErrInvalidRequest)
		}
		def, err := term.Parse(e.Name, e.Type, e.IndexTerm, e.LinkedOn, e.RecordType)
		if err != nil {
			return nil, err
		}
		f.searchTerms[e.Name] = def
	}
	return f, nil
}

// Catalog returns the entries the file was built from.
func (f *File) Catalog() Catalog { return f.catalog }

// SearchTerm returns the definition of a named search term.
func (f *File) SearchTerm(_ context.Context, name string) (term.Definition, error) {
	def, ok := f.searchTerms[name]
	if !ok {
		return term.Definition{}, fmt.Errorf("search term %q: %w", name, domain.ErrSearchTermNotFound)
	}
	return def, nil
}

// IndexTerm returns the index term with the given id.
func (f *File) IndexTerm(_ context.Context, id string) (term.IndexTerm, error) {
	it, ok := f.indexTerms[id]
	if !ok {
		return term.IndexTerm{}, fmt.Errorf("index term %q: %w", id, domain.ErrNotFound)
	}
	return it, nil
}

// Ping always succeeds; the catalog lives in memory.
func (f *File) Ping(context.Context) error { return nil }
