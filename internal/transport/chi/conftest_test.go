package chi

import (
	"context"
	"testing"

	gochi "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	dombatch "github.com/kailas-cloud/recdex/internal/domain/batch"
	domdoc "github.com/kailas-cloud/recdex/internal/domain/document"
	domidx "github.com/kailas-cloud/recdex/internal/domain/index"
	"github.com/kailas-cloud/recdex/internal/domain/search/request"
	"github.com/kailas-cloud/recdex/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/recdex/internal/usecase/health"
)

type mockIndexer struct {
	indexFn  func(ctx context.Context, src domdoc.Source, commit bool) (domdoc.Outcome, error)
	deleteFn func(ctx context.Context, id domidx.Identity) error
	commitFn func(ctx context.Context) error
}

func (m *mockIndexer) IndexWithCommit(ctx context.Context, src domdoc.Source) (domdoc.Outcome, error) {
	return m.index(ctx, src, true)
}

func (m *mockIndexer) IndexWithoutCommit(ctx context.Context, src domdoc.Source) (domdoc.Outcome, error) {
	return m.index(ctx, src, false)
}

func (m *mockIndexer) index(ctx context.Context, src domdoc.Source, commit bool) (domdoc.Outcome, error) {
	if m.indexFn != nil {
		return m.indexFn(ctx, src, commit)
	}
	return domdoc.OutcomeWritten, nil
}

func (m *mockIndexer) Delete(ctx context.Context, id domidx.Identity) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockIndexer) Commit(ctx context.Context) error {
	if m.commitFn != nil {
		return m.commitFn(ctx)
	}
	return nil
}

type mockBulk struct {
	indexFn func(ctx context.Context, items []domdoc.Source) []dombatch.Result
}

func (m *mockBulk) Index(ctx context.Context, items []domdoc.Source) []dombatch.Result {
	if m.indexFn != nil {
		return m.indexFn(ctx, items)
	}
	out := make([]dombatch.Result, len(items))
	for i, it := range items {
		out[i] = dombatch.NewWritten(it.Identity)
	}
	return out
}

type mockSearcher struct {
	searchFn func(ctx context.Context, req request.Request) (result.Page, error)
}

func (m *mockSearcher) Search(ctx context.Context, req request.Request) (result.Page, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, req)
	}
	return result.Empty(req.Start()), nil
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(context.Context) healthuc.Report { return m.report }

type testServer struct {
	router gochi.Router
	index  *mockIndexer
	bulk   *mockBulk
	search *mockSearcher
	health *mockHealth
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		index:  &mockIndexer{},
		bulk:   &mockBulk{},
		search: &mockSearcher{},
		health: &mockHealth{report: healthuc.Report{
			Status: healthuc.Healthy,
			Checks: map[string]healthuc.CheckResult{healthuc.ComponentEngine: healthuc.CheckOK},
		}},
	}
	srv := NewServer(ts.index, ts.bulk, ts.search, ts.health, zap.NewNop())
	r := gochi.NewRouter()
	srv.Routes(r)
	ts.router = r
	return ts
}
