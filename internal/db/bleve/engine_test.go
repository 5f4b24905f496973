package bleve

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/blevesearch/bleve/v2"
	bq "github.com/blevesearch/bleve/v2/search/query"

	"github.com/kailas-cloud/recdex/internal/db"
	"github.com/kailas-cloud/recdex/internal/domain/search/query"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := Open("")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func doc(id, recordType, payload string, fields ...[2]string) db.Document {
	var d db.Document
	d.Add("id", id)
	d.Add("type", recordType)
	d.Add("ids", id)
	for _, f := range fields {
		d.Add(f[0], f[1])
	}
	d.Add("recordAsJson", payload)
	return d
}

func seed(t *testing.T, e *Engine) {
	t.Helper()
	ctx := context.Background()
	docs := []db.Document{
		doc("person_p1", "person", `{"name":"person","children":[{"name":"id","value":"p1"}]}`,
			[2]string{"name_s", "Frank"}),
		doc("book_b1", "book", `{"name":"book","children":[{"name":"id","value":"b1"}]}`,
			[2]string{"title_t", "Dune Messiah"}, [2]string{"author_s", "person_p1"}),
		doc("book_b2", "book", `{"name":"book","children":[{"name":"id","value":"b2"}]}`,
			[2]string{"title_t", "Children of Dune"}, [2]string{"author_s", "person_p2"}),
	}
	if err := e.Add(ctx, docs...); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := e.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}
}

func TestQuery_PlainTextClauseWithTypeFilter(t *testing.T) {
	e := newTestEngine(t)
	seed(t, e)

	resp, err := e.Query(context.Background(), &db.Query{
		Rows:    10,
		Clauses: []query.Clause{{Field: "title_t", Value: "dune"}},
		Types:   []string{"book"},
		Fields:  []string{"recordAsJson"},
	})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if resp.NumFound != 2 || len(resp.Hits) != 2 {
		t.Fatalf("numFound=%d hits=%d", resp.NumFound, len(resp.Hits))
	}
	for _, h := range resp.Hits {
		if v, ok := h.First("recordAsJson"); !ok || !strings.Contains(v, `"book"`) {
			t.Errorf("recordAsJson: %q", v)
		}
	}
}

func TestTypeFilter_DoesNotScore(t *testing.T) {
	e := newTestEngine(t)
	seed(t, e)

	known, err := e.knownFields()
	if err != nil {
		t.Fatalf("knownFields: %v", err)
	}
	clause, err := fieldQuery("title_t", "dune", known)
	if err != nil {
		t.Fatalf("fieldQuery: %v", err)
	}

	scores := func(q bq.Query) map[string]float64 {
		res, err := e.index.Search(bleve.NewSearchRequest(q))
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		out := make(map[string]float64, len(res.Hits))
		for _, h := range res.Hits {
			out[h.ID] = h.Score
		}
		return out
	}

	plain := scores(bleve.NewConjunctionQuery(clause))
	filtered := scores(bleve.NewConjunctionQuery(clause, typeFilter([]string{"book", "person"})))
	if len(plain) != 2 || len(filtered) != 2 {
		t.Fatalf("hits plain=%d filtered=%d", len(plain), len(filtered))
	}
	for id, s := range plain {
		if math.Abs(filtered[id]-s) > 1e-9 {
			t.Errorf("%s: score %v with filter, %v without", id, filtered[id], s)
		}
	}
}

func TestQuery_ExactClause(t *testing.T) {
	e := newTestEngine(t)
	seed(t, e)

	resp, err := e.Query(context.Background(), &db.Query{
		Rows:    10,
		Clauses: []query.Clause{{Field: "author_s", Value: "person_p2"}},
	})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if resp.NumFound != 1 {
		t.Fatalf("numFound=%d", resp.NumFound)
	}
	if v, _ := resp.Hits[0].First("id"); v != "book_b2" {
		t.Errorf("id: %q", v)
	}
}

func TestQuery_Join(t *testing.T) {
	e := newTestEngine(t)
	seed(t, e)

	resp, err := e.Query(context.Background(), &db.Query{
		Rows: 10,
		Clauses: []query.Clause{{
			Field: "name_s",
			Value: "Frank",
			Join:  &query.Join{From: "ids", To: "author_s", RecordType: "person"},
		}},
		Types: []string{"book"},
	})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if resp.NumFound != 1 {
		t.Fatalf("numFound=%d", resp.NumFound)
	}
	if v, _ := resp.Hits[0].First("id"); v != "book_b1" {
		t.Errorf("id: %q", v)
	}
}

func TestQuery_JoinWithoutInnerMatches(t *testing.T) {
	e := newTestEngine(t)
	seed(t, e)

	resp, err := e.Query(context.Background(), &db.Query{
		Rows: 10,
		Clauses: []query.Clause{{
			Field: "name_s",
			Value: "Nobody",
			Join:  &query.Join{From: "ids", To: "author_s", RecordType: "person"},
		}},
	})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if resp.NumFound != 0 {
		t.Errorf("numFound=%d", resp.NumFound)
	}
}

func TestQuery_UndefinedField(t *testing.T) {
	e := newTestEngine(t)
	seed(t, e)

	_, err := e.Query(context.Background(), &db.Query{
		Rows:    10,
		Clauses: []query.Clause{{Field: "isbn_s", Value: "x"}},
	})
	var dbErr *db.Error
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected *db.Error, got %v", err)
	}
	if !strings.Contains(dbErr.Msg, "undefined field isbn_s") {
		t.Errorf("msg: %q", dbErr.Msg)
	}
}

func TestQuery_MatchAllPaging(t *testing.T) {
	e := newTestEngine(t)
	seed(t, e)

	resp, err := e.Query(context.Background(), &db.Query{Rows: 1, Start: 1, Types: []string{"book"}})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if resp.NumFound != 2 || len(resp.Hits) != 1 {
		t.Errorf("numFound=%d hits=%d", resp.NumFound, len(resp.Hits))
	}
}

func TestWritesInvisibleUntilCommit(t *testing.T) {
	e := newTestEngine(t)
	seed(t, e)
	ctx := context.Background()

	if err := e.Add(ctx, doc("book_b3", "book", `{"name":"book"}`, [2]string{"author_s", "person_p3"})); err != nil {
		t.Fatalf("Add: %v", err)
	}
	q := &db.Query{Rows: 10, Clauses: []query.Clause{{Field: "ids", Value: "book_b3"}}}
	resp, err := e.Query(ctx, q)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if resp.NumFound != 0 {
		t.Fatalf("uncommitted document visible")
	}

	if err := e.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	resp, _ = e.Query(ctx, q)
	if resp.NumFound != 1 {
		t.Fatalf("committed document not visible: %d", resp.NumFound)
	}

	if err := e.DeleteByID(ctx, "book_b3"); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if err := e.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	resp, _ = e.Query(ctx, q)
	if resp.NumFound != 0 {
		t.Errorf("deleted document still visible")
	}
}

func TestAdd_MissingID(t *testing.T) {
	e := newTestEngine(t)
	var d db.Document
	d.Add("type", "book")
	if err := e.Add(context.Background(), d); err == nil {
		t.Error("expected error")
	}
}

func TestClosedEngine(t *testing.T) {
	e, err := Open("")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := e.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := e.Ping(context.Background()); !errors.Is(err, db.ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if err := e.Commit(context.Background()); !errors.Is(err, db.ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestOpen_OnDisk(t *testing.T) {
	path := t.TempDir() + "/idx"
	e, err := Open(path)
	if err != nil {
		t.Fatalf("Open (create): %v", err)
	}
	seed(t, e)
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	e, err = Open(path)
	if err != nil {
		t.Fatalf("Open (reopen): %v", err)
	}
	defer func() { _ = e.Close() }()
	resp, err := e.Query(context.Background(), &db.Query{Rows: 10})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if resp.NumFound != 3 {
		t.Errorf("numFound=%d", resp.NumFound)
	}
}
