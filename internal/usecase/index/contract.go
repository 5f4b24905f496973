package index

import (
	"context"

	domdoc "github.com/kailas-cloud/recdex/internal/domain/document"
	domidx "github.com/kailas-cloud/recdex/internal/domain/index"
)

// Repository defines the engine write contract.
type Repository interface {
	Add(ctx context.Context, docs ...domdoc.Document) error
	Commit(ctx context.Context) error
	Delete(ctx context.Context, id domidx.Identity) error
}
