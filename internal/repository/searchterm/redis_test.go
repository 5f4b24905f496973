package searchterm

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/recdex/internal/domain"
	"github.com/kailas-cloud/recdex/internal/domain/index"
	"github.com/kailas-cloud/recdex/internal/domain/search/term"
)

func TestRedis_RoundTrip(t *testing.T) {
	store := &mockHashStore{}
	r := NewRedis(store, "recdex:")
	ctx := context.Background()

	if err := r.PutIndexTerm(ctx, term.NewIndexTerm("when", "published", index.TypeDate)); err != nil {
		t.Fatalf("PutIndexTerm: %v", err)
	}
	if err := r.PutSearchTerm(ctx, term.NewLinked("author", "when", "link", "person")); err != nil {
		t.Fatalf("PutSearchTerm: %v", err)
	}

	if _, ok := store.data["recdex:indexterm:when"]; !ok {
		t.Errorf("index term key not written: %v", store.data)
	}
	if h := store.data["recdex:searchterm:author"]; h["type"] != "linkedData" || h["record_type"] != "person" {
		t.Errorf("unexpected search term hash %v", h)
	}

	it, err := r.IndexTerm(ctx, "when")
	if err != nil {
		t.Fatalf("IndexTerm: %v", err)
	}
	if it.PhysicalField() != "published_dt" {
		t.Errorf("PhysicalField = %q", it.PhysicalField())
	}

	def, err := r.SearchTerm(ctx, "author")
	if err != nil {
		t.Fatalf("SearchTerm: %v", err)
	}
	if !def.Linked() || def.LinkedOn() != "link" {
		t.Errorf("unexpected definition %+v", def)
	}
}

func TestRedis_Missing(t *testing.T) {
	r := NewRedis(&mockHashStore{}, "")
	if _, err := r.SearchTerm(context.Background(), "x"); !errors.Is(err, domain.ErrSearchTermNotFound) {
		t.Errorf("expected ErrSearchTermNotFound, got %v", err)
	}
	if _, err := r.IndexTerm(context.Background(), "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRedis_StoreError(t *testing.T) {
	cause := errors.New("connection refused")
	r := NewRedis(&mockHashStore{hgetErr: cause}, "")
	_, err := r.SearchTerm(context.Background(), "x")
	if !errors.Is(err, cause) || errors.Is(err, domain.ErrSearchTermNotFound) {
		t.Errorf("expected store error, got %v", err)
	}
}

func TestRedis_Import(t *testing.T) {
	store := &mockHashStore{}
	r := NewRedis(store, "p:")
	n, err := r.Import(context.Background(), newTestFile(t))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if n != 5 {
		t.Errorf("imported %d entries, want 5", n)
	}
	def, err := r.SearchTerm(context.Background(), "title")
	if err != nil || def.IndexTerm() != "bookTitle" {
		t.Errorf("unexpected %+v, %v", def, err)
	}
}
