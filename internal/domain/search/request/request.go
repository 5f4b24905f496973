// Package request holds the abstract search request and its paging rules.
package request

import (
	"strconv"
	"strings"
)

// Paging defaults applied when a value is absent or unparseable.
const (
	DefaultRows  = 100
	DefaultStart = 1
)

// Term is one named search term with the value to match.
type Term struct {
	name  string
	value string
}

// NewTerm creates a search term.
func NewTerm(name, value string) Term { return Term{name: name, value: value} }

// Name returns the search term name.
func (t Term) Name() string { return t.name }

// Value returns the value to match.
func (t Term) Value() string { return t.value }

// Request is a normalized search request.
type Request struct {
	recordTypes []string
	rows        int
	start       int
	terms       []Term
}

// New normalizes raw paging values. rows and start are the caller's raw
// strings; empty means absent. Anything that does not parse falls back
// to the default silently. start is 1-based and kept as given so results
// echo it; only the engine offset is floored at 0. Negative rows fall
// back to DefaultRows.
func New(recordTypes []string, rows, start string, terms []Term) Request {
	r := Request{
		recordTypes: append([]string(nil), recordTypes...),
		rows:        parseOr(rows, DefaultRows),
		start:       parseOr(start, DefaultStart),
		terms:       append([]Term(nil), terms...),
	}
	if r.rows < 0 {
		r.rows = DefaultRows
	}
	return r
}

func parseOr(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return n
}

// RecordTypes returns the record types to search in.
func (r Request) RecordTypes() []string { return r.recordTypes }

// Rows returns the page size.
func (r Request) Rows() int { return r.rows }

// Start returns the 1-based start position as requested.
func (r Request) Start() int { return r.start }

// Offset returns the 0-based engine offset.
func (r Request) Offset() int { return max(r.start-1, 0) }

// Terms returns the search terms in supplied order.
func (r Request) Terms() []Term { return r.terms }
