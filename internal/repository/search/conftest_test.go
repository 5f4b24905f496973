package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/recdex/internal/db"
)

// mockEngine implements the consumer interface for tests.
type mockEngine struct {
	queryFn func(ctx context.Context, q *db.Query) (*db.Response, error)
}

func (m *mockEngine) Query(ctx context.Context, q *db.Query) (*db.Response, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, q)
	}
	return &db.Response{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockEngine) {
	t.Helper()
	me := &mockEngine{}
	return New(me), me
}
