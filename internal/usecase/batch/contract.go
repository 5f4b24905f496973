package batch

import (
	"context"

	domdoc "github.com/kailas-cloud/recdex/internal/domain/document"
	domidx "github.com/kailas-cloud/recdex/internal/domain/index"
)

// Indexer writes record documents and commits on request.
type Indexer interface {
	IndexWithoutCommit(ctx context.Context, src domdoc.Source) (domdoc.Outcome, error)
	Commit(ctx context.Context) error
}

// Deleter removes record documents. Every delete is committed.
type Deleter interface {
	Delete(ctx context.Context, id domidx.Identity) error
}
