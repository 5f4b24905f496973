package db

import (
	"context"
	"time"

	"github.com/kailas-cloud/recdex/internal/domain/search/query"
)

// Engine is the document search engine facade combining all sub-interfaces.
type Engine interface {
	Pinger
	Indexer
	Querier
	Close() error
}

// Pinger checks engine or database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Indexer writes documents. Writes become visible to queries on Commit.
type Indexer interface {
	Add(ctx context.Context, docs ...Document) error
	Commit(ctx context.Context) error
	DeleteByID(ctx context.Context, id string) error
}

// Querier runs select queries.
type Querier interface {
	Query(ctx context.Context, q *Query) (*Response, error)
}

// Field is a document field with its values in insertion order.
type Field struct {
	Name   string
	Values []string
}

// Document is an engine document with ordered, possibly multi-valued fields.
type Document struct {
	Fields []Field
}

// Add appends values to the named field, creating it on first use.
func (d *Document) Add(name string, values ...string) {
	for i := range d.Fields {
		if d.Fields[i].Name == name {
			d.Fields[i].Values = append(d.Fields[i].Values, values...)
			return
		}
	}
	d.Fields = append(d.Fields, Field{Name: name, Values: append([]string(nil), values...)})
}

// Get returns the values of the named field, nil when absent.
func (d Document) Get(name string) []string {
	for _, f := range d.Fields {
		if f.Name == name {
			return f.Values
		}
	}
	return nil
}

// Query is a select request. Q and FilterQueries carry the rendered
// query syntax; Clauses and Types carry the same query in structured form
// for engines that cannot parse the syntax.
type Query struct {
	Q             string
	FilterQueries []string
	Rows          int
	Start         int
	Fields        []string
	Clauses       []query.Clause
	Types         []string
}

// Hit is one returned document: stored field name to values.
type Hit map[string][]string

// First returns the first value of a stored field.
func (h Hit) First(name string) (string, bool) {
	v := h[name]
	if len(v) == 0 {
		return "", false
	}
	return v[0], true
}

// Response is the result of a select request.
type Response struct {
	NumFound int64
	Hits     []Hit
}

// HashStore provides hash-based key-value operations.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
}

// Store is a key-value database: hashes plus lifecycle.
type Store interface {
	Pinger
	HashStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}
