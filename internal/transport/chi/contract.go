package chi

import (
	"context"

	dombatch "github.com/kailas-cloud/recdex/internal/domain/batch"
	domdoc "github.com/kailas-cloud/recdex/internal/domain/document"
	domidx "github.com/kailas-cloud/recdex/internal/domain/index"
	"github.com/kailas-cloud/recdex/internal/domain/search/request"
	"github.com/kailas-cloud/recdex/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/recdex/internal/usecase/health"
)

// Indexer writes and removes record documents.
type Indexer interface {
	IndexWithCommit(ctx context.Context, src domdoc.Source) (domdoc.Outcome, error)
	IndexWithoutCommit(ctx context.Context, src domdoc.Source) (domdoc.Outcome, error)
	Delete(ctx context.Context, id domidx.Identity) error
	Commit(ctx context.Context) error
}

// BulkIndexer indexes many records with one commit.
type BulkIndexer interface {
	Index(ctx context.Context, items []domdoc.Source) []dombatch.Result
}

// Searcher runs record searches.
type Searcher interface {
	Search(ctx context.Context, req request.Request) (result.Page, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
