// Package result turns raw engine hits into a page of generic records.
package result

import (
	"fmt"

	"github.com/kailas-cloud/recdex/internal/domain/record"
)

// Raw is the engine-neutral form of a query response: the total match
// count and the stored record payload of every returned hit, in engine order.
type Raw struct {
	Total    int64
	Payloads []string
}

// Page is one page of search results.
type Page struct {
	start   int
	total   int64
	records []record.Group
}

// Empty returns a page with no matches echoing start.
func Empty(start int) Page {
	return Page{start: start, records: []record.Group{}}
}

// Translate decodes every payload in order. start is echoed unchanged.
func Translate(raw Raw, start int) (Page, error) {
	records := make([]record.Group, 0, len(raw.Payloads))
	for i, p := range raw.Payloads {
		g, err := record.Unmarshal([]byte(p))
		if err != nil {
			return Page{}, fmt.Errorf("hit %d: %w", i, err)
		}
		records = append(records, g)
	}
	return Page{start: start, total: raw.Total, records: records}, nil
}

// Start returns the 1-based start position of the page.
func (p Page) Start() int { return p.start }

// Total returns the total number of matches across all pages.
func (p Page) Total() int64 { return p.total }

// Records returns the records of this page in engine order.
func (p Page) Records() []record.Group { return p.records }
