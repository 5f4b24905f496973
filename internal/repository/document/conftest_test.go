package document

import (
	"context"
	"testing"

	"github.com/kailas-cloud/recdex/internal/db"
)

// mockEngine implements the consumer interface for tests.
type mockEngine struct {
	addFn        func(ctx context.Context, docs ...db.Document) error
	commitFn     func(ctx context.Context) error
	deleteByIDFn func(ctx context.Context, id string) error
}

func (m *mockEngine) Add(ctx context.Context, docs ...db.Document) error {
	if m.addFn != nil {
		return m.addFn(ctx, docs...)
	}
	return nil
}

func (m *mockEngine) Commit(ctx context.Context) error {
	if m.commitFn != nil {
		return m.commitFn(ctx)
	}
	return nil
}

func (m *mockEngine) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockEngine) {
	t.Helper()
	me := &mockEngine{}
	return New(me), me
}
