package request

import (
	"fmt"

	"github.com/kailas-cloud/recdex/internal/domain/record"
)

// FromSearchData reads a request from a search data group: optional
// "rows" and "start" atomics and the terms under include/includePart.
func FromSearchData(recordTypes []string, g record.Group) (Request, error) {
	rows, _ := g.FirstAtomicValue("rows")
	start, _ := g.FirstAtomicValue("start")

	include, err := g.FirstGroup("include")
	if err != nil {
		return Request{}, fmt.Errorf("search data: %w", err)
	}
	part, err := include.FirstGroup("includePart")
	if err != nil {
		return Request{}, fmt.Errorf("search data: %w", err)
	}

	var terms []Term
	for _, c := range part.Children() {
		a, ok := c.(record.Atomic)
		if !ok {
			return Request{}, fmt.Errorf("search data: term %q is not an atomic", c.Name())
		}
		terms = append(terms, NewTerm(a.Name(), a.Value()))
	}
	return New(recordTypes, rows, start, terms), nil
}
