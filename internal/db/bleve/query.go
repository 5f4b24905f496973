package bleve

import (
	"context"

	"github.com/blevesearch/bleve/v2"
	bq "github.com/blevesearch/bleve/v2/search/query"

	"github.com/kailas-cloud/recdex/internal/db"
	"github.com/kailas-cloud/recdex/internal/domain/document"
	"github.com/kailas-cloud/recdex/internal/domain/search/query"
)

// joinLimit caps the inner result set collected for a join.
const joinLimit = 10000

// Query runs the structured form of q (Clauses and Types). A clause on a
// field the index has never seen fails with an "undefined field" error,
// as a schema-bound engine would.
func (e *Engine) Query(ctx context.Context, q *db.Query) (*db.Response, error) {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return nil, &db.Error{Op: db.OpSelect, Err: db.ErrClosed}
	}

	known, err := e.knownFields()
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}

	must := make([]bq.Query, 0, len(q.Clauses)+1)
	for _, c := range q.Clauses {
		cq, err := e.clauseQuery(ctx, c, known)
		if err != nil {
			return nil, err
		}
		must = append(must, cq)
	}
	if len(q.Types) > 0 {
		must = append(must, typeFilter(q.Types))
	}

	var main bq.Query = bleve.NewMatchAllQuery()
	if len(must) > 0 {
		main = bleve.NewConjunctionQuery(must...)
	}

	req := bleve.NewSearchRequestOptions(main, q.Rows, q.Start, false)
	req.Fields = q.Fields
	if len(req.Fields) == 0 {
		req.Fields = []string{"*"}
	}

	res, err := e.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}

	resp := &db.Response{NumFound: int64(res.Total), Hits: make([]db.Hit, len(res.Hits))}
	for i, hit := range res.Hits {
		resp.Hits[i] = fromStored(hit.Fields)
	}
	return resp, nil
}

func (e *Engine) knownFields() (map[string]struct{}, error) {
	fields, err := e.index.Fields()
	if err != nil {
		return nil, err
	}
	known := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		known[f] = struct{}{}
	}
	return known, nil
}

func undefinedField(field string) error {
	return &db.Error{Op: db.OpSelect, Code: 400, Msg: "undefined field " + field}
}

// fieldQuery matches value against a field: analyzed for text fields,
// exact otherwise.
func fieldQuery(field, value string, known map[string]struct{}) (bq.Query, error) {
	name := storedName(field)
	if _, ok := known[name]; !ok {
		return nil, undefinedField(field)
	}
	if name != field {
		mq := bleve.NewMatchQuery(value)
		mq.SetField(name)
		return mq, nil
	}
	tq := bleve.NewTermQuery(value)
	tq.SetField(name)
	return tq, nil
}

// typeFilter restricts hits to the given record types. Its clauses carry a
// zero boost so the filter never changes a hit's score.
func typeFilter(types []string) bq.Query {
	dq := bleve.NewDisjunctionQuery()
	for _, t := range types {
		tq := bleve.NewTermQuery(t)
		tq.SetField(document.FieldType)
		tq.SetBoost(0)
		dq.AddQuery(tq)
	}
	return dq
}

func (e *Engine) clauseQuery(ctx context.Context, c query.Clause, known map[string]struct{}) (bq.Query, error) {
	if c.Join == nil {
		return fieldQuery(c.Field, c.Value, known)
	}

	inner, err := fieldQuery(c.Field, c.Value, known)
	if err != nil {
		return nil, err
	}
	if _, ok := known[storedName(c.Join.To)]; !ok {
		return nil, undefinedField(c.Join.To)
	}

	innerQuery := inner
	if c.Join.RecordType != "" {
		innerQuery = bleve.NewConjunctionQuery(inner, typeFilter([]string{c.Join.RecordType}))
	}
	req := bleve.NewSearchRequestOptions(innerQuery, joinLimit, 0, false)
	req.Fields = []string{storedName(c.Join.From)}

	res, err := e.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}

	seen := make(map[string]struct{})
	outer := bleve.NewDisjunctionQuery()
	for _, hit := range res.Hits {
		for _, v := range fromStored(hit.Fields)[c.Join.From] {
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			q, err := fieldQuery(c.Join.To, v, known)
			if err != nil {
				return nil, err
			}
			outer.AddQuery(q)
		}
	}
	if len(seen) == 0 {
		return bleve.NewMatchNoneQuery(), nil
	}
	return outer, nil
}
