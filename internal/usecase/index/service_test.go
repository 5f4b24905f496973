package index

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/kailas-cloud/recdex/internal/domain"
	domdoc "github.com/kailas-cloud/recdex/internal/domain/document"
	domidx "github.com/kailas-cloud/recdex/internal/domain/index"
)

func TestIndex_NoTermsIsNoOp(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo)

	for _, commit := range []bool{true, false} {
		out, err := svc.Index(context.Background(), bookSource(), commit)
		if err != nil {
			t.Fatalf("Index: %v", err)
		}
		if out != domdoc.OutcomeNoOp {
			t.Errorf("outcome = %q, want skipped", out)
		}
	}
	if len(repo.calls) != 0 {
		t.Errorf("expected no engine calls, got %v", repo.calls)
	}
}

func TestIndexWithCommit(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo)

	out, err := svc.IndexWithCommit(context.Background(),
		bookSource(domidx.NewTerm("title", "Dune", domidx.TypeString)))
	if err != nil {
		t.Fatalf("IndexWithCommit: %v", err)
	}
	if out != domdoc.OutcomeWritten {
		t.Errorf("outcome = %q", out)
	}
	if !reflect.DeepEqual(repo.calls, []string{"add", "commit"}) {
		t.Errorf("calls = %v", repo.calls)
	}
	if got := repo.added[0].Values("title_s"); !reflect.DeepEqual(got, []string{"Dune"}) {
		t.Errorf("title_s = %v", got)
	}
}

func TestIndexWithoutCommit(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo)

	out, err := svc.IndexWithoutCommit(context.Background(),
		bookSource(domidx.NewTerm("title", "Dune", domidx.TypeString)))
	if err != nil {
		t.Fatalf("IndexWithoutCommit: %v", err)
	}
	if out != domdoc.OutcomeWritten {
		t.Errorf("outcome = %q", out)
	}
	if !reflect.DeepEqual(repo.calls, []string{"add"}) {
		t.Errorf("calls = %v", repo.calls)
	}
}

func TestIndex_Failures(t *testing.T) {
	cause := errors.New("engine down")
	tests := []struct {
		name string
		repo *mockRepo
	}{
		{"add", &mockRepo{addErr: cause}},
		{"commit", &mockRepo{commitErr: cause}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.repo).IndexWithCommit(context.Background(),
				bookSource(domidx.NewTerm("title", "Dune", domidx.TypeString)))
			if !errors.Is(err, domain.ErrIndexing) || !errors.Is(err, cause) {
				t.Fatalf("expected indexing error wrapping cause, got %v", err)
			}
			var re *domain.RecordError
			if !errors.As(err, &re) || re.Type != "book" || re.ID != "b1" {
				t.Errorf("unexpected record error %+v", re)
			}
		})
	}
}

func TestDelete_AlwaysCommits(t *testing.T) {
	repo := &mockRepo{}
	if err := New(repo).Delete(context.Background(), domidx.NewIdentity("book", "b1")); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !reflect.DeepEqual(repo.calls, []string{"delete", "commit"}) {
		t.Errorf("calls = %v", repo.calls)
	}
}

func TestDelete_Failures(t *testing.T) {
	cause := errors.New("engine down")
	for _, repo := range []*mockRepo{{deleteErr: cause}, {commitErr: cause}} {
		err := New(repo).Delete(context.Background(), domidx.NewIdentity("book", "b1"))
		if !errors.Is(err, domain.ErrDeletion) || !errors.Is(err, cause) {
			t.Fatalf("expected deletion error, got %v", err)
		}
		want := "error while deleting index for record with type: book and id: b1: engine down"
		if err.Error() != want {
			t.Errorf("message = %q", err.Error())
		}
	}
}

func TestCommit(t *testing.T) {
	cause := errors.New("timeout")
	err := New(&mockRepo{commitErr: cause}).Commit(context.Background())
	if !errors.Is(err, cause) || !errors.Is(err, domain.ErrIndexing) {
		t.Fatalf("expected cause wrapped as ErrIndexing, got %v", err)
	}
	if err := New(&mockRepo{}).Commit(context.Background()); err != nil {
		t.Fatalf("Commit: %v", err)
	}
}
