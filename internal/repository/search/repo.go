package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/recdex/internal/db"
	domdoc "github.com/kailas-cloud/recdex/internal/domain/document"
	"github.com/kailas-cloud/recdex/internal/domain/search/query"
	"github.com/kailas-cloud/recdex/internal/domain/search/result"
)

// engine is the consumer interface for search operations (ISP).
type engine interface {
	Query(ctx context.Context, q *db.Query) (*db.Response, error)
}

// Repo implements usecase/search.Repository.
type Repo struct {
	engine engine
}

// New creates a search repository.
func New(e engine) *Repo {
	return &Repo{engine: e}
}

// Search runs the descriptor against the engine and returns the stored
// record payload of every hit. Engine errors are returned unwrapped so
// callers can inspect the engine message.
func (r *Repo) Search(ctx context.Context, d query.Descriptor) (result.Raw, error) {
	q := &db.Query{
		Q:       d.Query(),
		Rows:    d.Rows(),
		Start:   d.Offset(),
		Fields:  []string{domdoc.FieldRecordAsJSON},
		Clauses: d.Clauses(),
		Types:   d.RecordTypes(),
	}
	if f := d.Filter(); f != "" {
		q.FilterQueries = []string{f}
	}

	resp, err := r.engine.Query(ctx, q)
	if err != nil {
		return result.Raw{}, err
	}

	raw := result.Raw{
		Total:    resp.NumFound,
		Payloads: make([]string, 0, len(resp.Hits)),
	}
	for i, h := range resp.Hits {
		p, ok := h.First(domdoc.FieldRecordAsJSON)
		if !ok {
			return result.Raw{}, fmt.Errorf("hit %d: missing %s", i, domdoc.FieldRecordAsJSON)
		}
		raw.Payloads = append(raw.Payloads, p)
	}
	return raw, nil
}
