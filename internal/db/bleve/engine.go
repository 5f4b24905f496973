// Package bleve is an embedded engine with the same contract as the Solr
// client, for local runs and tests without a search server.
package bleve

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/analysis/datetime/flexible"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/kailas-cloud/recdex/internal/db"
	"github.com/kailas-cloud/recdex/internal/domain/document"
	"github.com/kailas-cloud/recdex/internal/domain/index"
)

// Compile-time check: Engine implements db.Engine.
var _ db.Engine = (*Engine)(nil)

// textSection is the sub-document holding analyzed text fields.
const textSection = "t"

// Engine is a bleve index with Solr-like add/commit visibility: added and
// deleted documents are buffered until Commit.
type Engine struct {
	index bleve.Index

	mu      sync.Mutex
	pending *bleve.Batch
	closed  bool
}

// Open opens the index at path, creating it when missing.
// An empty path creates an in-memory index.
func Open(path string) (*Engine, error) {
	m, err := buildMapping()
	if err != nil {
		return nil, err
	}

	if path == "" {
		idx, err := bleve.NewMemOnly(m)
		if err != nil {
			return nil, fmt.Errorf("create memory index: %w", err)
		}
		return newEngine(idx), nil
	}

	idx, err := bleve.Open(path)
	switch {
	case err == nil:
		return newEngine(idx), nil
	case errors.Is(err, bleve.ErrorIndexPathDoesNotExist):
		idx, err = bleve.New(path, m)
		if err != nil {
			return nil, fmt.Errorf("create index %s: %w", path, err)
		}
		return newEngine(idx), nil
	default:
		return nil, fmt.Errorf("open index %s: %w", path, err)
	}
}

func newEngine(idx bleve.Index) *Engine {
	return &Engine{index: idx, pending: idx.NewBatch()}
}

// noDates never parses, so dynamic string values stay strings.
const noDates = "recdexNoDates"

// buildMapping indexes everything as exact keywords except the text
// section, which gets the standard analyzer. recordAsJson is stored only.
func buildMapping() (mapping.IndexMapping, error) {
	m := bleve.NewIndexMapping()
	if err := m.AddCustomDateTimeParser(noDates, map[string]any{
		"type":    flexible.Name,
		"layouts": []any{},
	}); err != nil {
		return nil, fmt.Errorf("register date parser: %w", err)
	}
	m.DefaultDateTimeParser = noDates
	m.DefaultAnalyzer = keyword.Name
	m.StoreDynamic = true
	m.IndexDynamic = true

	payload := bleve.NewTextFieldMapping()
	payload.Index = false
	payload.Store = true
	payload.IncludeInAll = false
	m.DefaultMapping.AddFieldMappingsAt(document.FieldRecordAsJSON, payload)

	text := bleve.NewDocumentMapping()
	text.DefaultAnalyzer = standard.Name
	m.DefaultMapping.AddSubDocumentMapping(textSection, text)

	return m, nil
}

// storedName maps a physical field to its path inside the index.
func storedName(field string) string {
	if index.IsTextField(field) {
		return textSection + "." + field
	}
	return field
}

// Add buffers documents; they become searchable on Commit.
func (e *Engine) Add(_ context.Context, docs ...db.Document) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return &db.Error{Op: db.OpAdd, Err: db.ErrClosed}
	}

	for _, d := range docs {
		ids := d.Get(document.FieldID)
		if len(ids) == 0 || ids[0] == "" {
			return &db.Error{Op: db.OpAdd, Code: 400, Msg: "Document is missing mandatory uniqueKey field: id"}
		}
		if err := e.pending.Index(ids[0], toBleveDoc(d)); err != nil {
			return &db.Error{Op: db.OpAdd, Err: err}
		}
	}
	return nil
}

// DeleteByID buffers a delete; it takes effect on Commit.
func (e *Engine) DeleteByID(_ context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return &db.Error{Op: db.OpDelete, Err: db.ErrClosed}
	}
	e.pending.Delete(id)
	return nil
}

// Commit applies all buffered writes.
func (e *Engine) Commit(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return &db.Error{Op: db.OpCommit, Err: db.ErrClosed}
	}
	if e.pending.Size() == 0 {
		return nil
	}
	if err := e.index.Batch(e.pending); err != nil {
		return &db.Error{Op: db.OpCommit, Err: err}
	}
	e.pending = e.index.NewBatch()
	return nil
}

// Ping checks that the index is open and readable.
func (e *Engine) Ping(_ context.Context) error {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return &db.Error{Op: db.OpPing, Err: db.ErrClosed}
	}
	if _, err := e.index.DocCount(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close discards uncommitted writes and closes the index.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	e.pending.Reset()
	if err := e.index.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}
	return nil
}

func toBleveDoc(d db.Document) map[string]any {
	out := make(map[string]any, len(d.Fields))
	text := make(map[string]any)
	for _, f := range d.Fields {
		if len(f.Values) == 0 {
			continue
		}
		var v any = f.Values[0]
		if len(f.Values) > 1 {
			v = append([]string(nil), f.Values...)
		}
		if index.IsTextField(f.Name) {
			text[f.Name] = v
			continue
		}
		out[f.Name] = v
	}
	if len(text) > 0 {
		out[textSection] = text
	}
	return out
}

func fromStored(fields map[string]any) db.Hit {
	h := make(db.Hit, len(fields))
	for k, v := range fields {
		name := strings.TrimPrefix(k, textSection+".")
		switch vv := v.(type) {
		case string:
			h[name] = append(h[name], vv)
		case []any:
			for _, e := range vv {
				h[name] = append(h[name], fmt.Sprint(e))
			}
		default:
			h[name] = append(h[name], fmt.Sprint(vv))
		}
	}
	return h
}
