package index

import (
	"context"

	domdoc "github.com/kailas-cloud/recdex/internal/domain/document"
	domidx "github.com/kailas-cloud/recdex/internal/domain/index"
)

// mockRepo records calls in order.
type mockRepo struct {
	calls     []string
	added     []domdoc.Document
	deleted   []domidx.Identity
	addErr    error
	commitErr error
	deleteErr error
}

func (m *mockRepo) Add(_ context.Context, docs ...domdoc.Document) error {
	m.calls = append(m.calls, "add")
	if m.addErr != nil {
		return m.addErr
	}
	m.added = append(m.added, docs...)
	return nil
}

func (m *mockRepo) Commit(context.Context) error {
	m.calls = append(m.calls, "commit")
	return m.commitErr
}

func (m *mockRepo) Delete(_ context.Context, id domidx.Identity) error {
	m.calls = append(m.calls, "delete")
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func bookSource(terms ...domidx.Term) domdoc.Source {
	return domdoc.Source{
		Identity: domidx.NewIdentity("book", "b1"),
		IDs:      []string{"book_b1"},
		Terms:    terms,
		Payload:  `{"name":"book"}`,
	}
}
