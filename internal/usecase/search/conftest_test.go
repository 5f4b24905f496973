package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/recdex/internal/domain"
	domidx "github.com/kailas-cloud/recdex/internal/domain/index"
	"github.com/kailas-cloud/recdex/internal/domain/search/query"
	"github.com/kailas-cloud/recdex/internal/domain/search/result"
	"github.com/kailas-cloud/recdex/internal/domain/search/term"
)

// mockRepo implements Repository for tests.
type mockRepo struct {
	searchFn func(ctx context.Context, d query.Descriptor) (result.Raw, error)
	last     query.Descriptor
}

func (m *mockRepo) Search(ctx context.Context, d query.Descriptor) (result.Raw, error) {
	m.last = d
	if m.searchFn != nil {
		return m.searchFn(ctx, d)
	}
	return result.Raw{}, nil
}

// mockTerms is an in-memory term catalog.
type mockTerms struct {
	searchTerms map[string]term.Definition
	indexTerms  map[string]term.IndexTerm
}

func newMockTerms() *mockTerms {
	return &mockTerms{
		searchTerms: map[string]term.Definition{
			"title":  term.NewFinal("title", "bookTitle"),
			"author": term.NewLinked("author", "personName", "authorLink", "person"),
		},
		indexTerms: map[string]term.IndexTerm{
			"bookTitle":  term.NewIndexTerm("bookTitle", "title", domidx.TypeString),
			"personName": term.NewIndexTerm("personName", "name", domidx.TypeText),
			"authorLink": term.NewIndexTerm("authorLink", "authorId", domidx.TypeID),
		},
	}
}

func (m *mockTerms) SearchTerm(_ context.Context, name string) (term.Definition, error) {
	d, ok := m.searchTerms[name]
	if !ok {
		return term.Definition{}, fmt.Errorf("search term %q: %w", name, domain.ErrSearchTermNotFound)
	}
	return d, nil
}

func (m *mockTerms) IndexTerm(_ context.Context, id string) (term.IndexTerm, error) {
	it, ok := m.indexTerms[id]
	if !ok {
		return term.IndexTerm{}, fmt.Errorf("index term %q: %w", id, domain.ErrNotFound)
	}
	return it, nil
}
