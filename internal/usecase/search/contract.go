package search

import (
	"context"

	"github.com/kailas-cloud/recdex/internal/domain/search/query"
	"github.com/kailas-cloud/recdex/internal/domain/search/result"
)

// Repository defines the engine read contract.
type Repository interface {
	Search(ctx context.Context, d query.Descriptor) (result.Raw, error)
}

// TermResolver resolves search term and index term definitions.
type TermResolver = query.Resolver
