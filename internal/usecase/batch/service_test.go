package batch

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/recdex/internal/domain"
	dombatch "github.com/kailas-cloud/recdex/internal/domain/batch"
	domdoc "github.com/kailas-cloud/recdex/internal/domain/document"
	domidx "github.com/kailas-cloud/recdex/internal/domain/index"
)

// --- Mocks ---

type mockIndexer struct {
	failOnID  string
	indexErr  error
	commitErr error
	commits   int
	indexed   int
}

func (m *mockIndexer) IndexWithoutCommit(_ context.Context, src domdoc.Source) (domdoc.Outcome, error) {
	m.indexed++
	if m.failOnID != "" && src.Identity.ID() == m.failOnID {
		return "", m.indexErr
	}
	if len(src.Terms) == 0 {
		return domdoc.OutcomeNoOp, nil
	}
	return domdoc.OutcomeWritten, nil
}

func (m *mockIndexer) Commit(context.Context) error {
	m.commits++
	return m.commitErr
}

type mockDeleter struct {
	failOnID string
	err      error
	deleted  []string
}

func (m *mockDeleter) Delete(_ context.Context, id domidx.Identity) error {
	if id.ID() == m.failOnID {
		return m.err
	}
	m.deleted = append(m.deleted, id.ID())
	return nil
}

func source(id string, withTerms bool) domdoc.Source {
	s := domdoc.Source{Identity: domidx.NewIdentity("book", id), Payload: "{}"}
	if withTerms {
		s.Terms = []domidx.Term{domidx.NewTerm("title", id, domidx.TypeString)}
	}
	return s
}

// --- Tests ---

func TestIndex_SingleDeferredCommit(t *testing.T) {
	idx := &mockIndexer{}
	svc := New(idx, &mockDeleter{})

	results := svc.Index(context.Background(), []domdoc.Source{
		source("1", true), source("2", false), source("3", true),
	})

	want := []dombatch.ItemStatus{dombatch.StatusWritten, dombatch.StatusSkipped, dombatch.StatusWritten}
	for i, r := range results {
		if r.Status() != want[i] {
			t.Errorf("item %d: status %q, want %q", i, r.Status(), want[i])
		}
	}
	if idx.commits != 1 {
		t.Errorf("commits = %d, want 1", idx.commits)
	}
	if idx.indexed != 3 {
		t.Errorf("indexed = %d, want 3", idx.indexed)
	}
}

func TestIndex_NothingWrittenNoCommit(t *testing.T) {
	idx := &mockIndexer{}
	results := New(idx, &mockDeleter{}).Index(context.Background(), []domdoc.Source{source("1", false)})
	if results[0].Status() != dombatch.StatusSkipped {
		t.Errorf("status %q", results[0].Status())
	}
	if idx.commits != 0 {
		t.Errorf("commits = %d, want 0", idx.commits)
	}
}

func TestIndex_PerItemError(t *testing.T) {
	cause := domain.NewIndexingError("book", "2", errors.New("bad doc"))
	idx := &mockIndexer{failOnID: "2", indexErr: cause}
	results := New(idx, &mockDeleter{}).Index(context.Background(), []domdoc.Source{
		source("1", true), source("2", true),
	})
	if results[0].Failed() || !results[1].Failed() {
		t.Fatalf("unexpected results %+v", results)
	}
	if !errors.Is(results[1].Err(), domain.ErrIndexing) {
		t.Errorf("err = %v", results[1].Err())
	}
	if idx.commits != 1 {
		t.Errorf("commits = %d", idx.commits)
	}
}

func TestIndex_CommitFailureFailsWritten(t *testing.T) {
	cause := errors.New("commit timeout")
	idx := &mockIndexer{commitErr: cause}
	results := New(idx, &mockDeleter{}).Index(context.Background(), []domdoc.Source{
		source("1", true), source("2", false),
	})
	if !results[0].Failed() || !errors.Is(results[0].Err(), cause) {
		t.Errorf("written item should fail with commit error: %+v", results[0])
	}
	if results[1].Status() != dombatch.StatusSkipped {
		t.Errorf("skipped item changed: %q", results[1].Status())
	}
}

func TestIndex_ExceedsMaxBatch(t *testing.T) {
	idx := &mockIndexer{}
	svc := New(idx, &mockDeleter{}).WithMaxBatchSize(1)
	results := svc.Index(context.Background(), []domdoc.Source{source("1", true), source("2", true)})
	for _, r := range results {
		if !errors.Is(r.Err(), domain.ErrInvalidRequest) {
			t.Errorf("expected ErrInvalidRequest, got %v", r.Err())
		}
	}
	if idx.indexed != 0 {
		t.Error("indexer must not be called")
	}
}

func TestDelete(t *testing.T) {
	cause := domain.NewDeletionError("book", "2", errors.New("gone"))
	del := &mockDeleter{failOnID: "2", err: cause}
	results := New(&mockIndexer{}, del).Delete(context.Background(), []domidx.Identity{
		domidx.NewIdentity("book", "1"), domidx.NewIdentity("book", "2"),
	})
	if results[0].Status() != dombatch.StatusDeleted {
		t.Errorf("status %q", results[0].Status())
	}
	if !results[1].Failed() || !errors.Is(results[1].Err(), domain.ErrDeletion) {
		t.Errorf("unexpected %+v", results[1])
	}
}
