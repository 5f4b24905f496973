package document

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/recdex/internal/db"
	domdoc "github.com/kailas-cloud/recdex/internal/domain/document"
	"github.com/kailas-cloud/recdex/internal/domain/index"
)

// engine is the consumer interface for document writes (ISP).
type engine interface {
	Add(ctx context.Context, docs ...db.Document) error
	Commit(ctx context.Context) error
	DeleteByID(ctx context.Context, id string) error
}

// Repo implements usecase/index.Repository.
type Repo struct {
	engine engine
}

// New creates a document repository.
func New(e engine) *Repo {
	return &Repo{engine: e}
}

// Add sends documents to the engine without committing.
func (r *Repo) Add(ctx context.Context, docs ...domdoc.Document) error {
	if len(docs) == 0 {
		return nil
	}
	out := make([]db.Document, len(docs))
	for i, d := range docs {
		out[i] = toEngine(d)
	}
	if err := r.engine.Add(ctx, out...); err != nil {
		return fmt.Errorf("add %d document(s): %w", len(docs), err)
	}
	return nil
}

// Commit makes pending writes visible.
func (r *Repo) Commit(ctx context.Context) error {
	if err := r.engine.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Delete removes the document of a record. It does not commit.
func (r *Repo) Delete(ctx context.Context, id index.Identity) error {
	if err := r.engine.DeleteByID(ctx, id.CompositeID()); err != nil {
		return fmt.Errorf("delete %s: %w", id.CompositeID(), err)
	}
	return nil
}
