// Package batch indexes many records with a single deferred commit.
package batch

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recdex/internal/domain"
	dombatch "github.com/kailas-cloud/recdex/internal/domain/batch"
	domdoc "github.com/kailas-cloud/recdex/internal/domain/document"
	domidx "github.com/kailas-cloud/recdex/internal/domain/index"
	"github.com/kailas-cloud/recdex/internal/logger"
)

// MaxBatchSize is the maximum number of items per batch request.
const MaxBatchSize = 500

// Service handles batch index operations with per-item error reporting.
type Service struct {
	idx          Indexer
	del          Deleter
	maxBatchSize int
}

// New creates a batch service.
func New(idx Indexer, del Deleter) *Service {
	return &Service{idx: idx, del: del, maxBatchSize: MaxBatchSize}
}

// WithMaxBatchSize configures the maximum batch size.
func (s *Service) WithMaxBatchSize(size int) *Service {
	if size > 0 {
		s.maxBatchSize = size
	}
	return s
}

// Index adds every record without committing, then commits once if at
// least one document was written. A failed commit fails every written item.
func (s *Service) Index(ctx context.Context, items []domdoc.Source) []dombatch.Result {
	results := make([]dombatch.Result, len(items))

	if len(items) > s.maxBatchSize {
		for i, item := range items {
			results[i] = dombatch.NewError(
				item.Identity,
				fmt.Errorf("batch size exceeds %d: %w", s.maxBatchSize, domain.ErrInvalidRequest),
			)
		}
		return results
	}

	written := make([]int, 0, len(items))
	for i, item := range items {
		outcome, err := s.idx.IndexWithoutCommit(ctx, item)
		switch {
		case err != nil:
			results[i] = dombatch.NewError(item.Identity, err)
		case outcome == domdoc.OutcomeNoOp:
			results[i] = dombatch.NewSkipped(item.Identity)
		default:
			results[i] = dombatch.NewWritten(item.Identity)
			written = append(written, i)
		}
	}

	if len(written) == 0 {
		return results
	}

	if err := s.idx.Commit(ctx); err != nil {
		logger.FromContext(ctx).Warn("Batch commit failed",
			zap.Int("written", len(written)),
			zap.Error(err),
		)
		for _, i := range written {
			id := items[i].Identity
			results[i] = dombatch.NewError(id, domain.NewIndexingError(id.Type(), id.ID(), err))
		}
	}
	return results
}

// Delete removes records one by one. Each delete is committed.
func (s *Service) Delete(ctx context.Context, ids []domidx.Identity) []dombatch.Result {
	results := make([]dombatch.Result, len(ids))

	if len(ids) > s.maxBatchSize {
		for i, id := range ids {
			results[i] = dombatch.NewError(id, fmt.Errorf("batch size exceeds %d: %w", s.maxBatchSize, domain.ErrInvalidRequest))
		}
		return results
	}

	for i, id := range ids {
		if err := s.del.Delete(ctx, id); err != nil {
			results[i] = dombatch.NewError(id, err)
			continue
		}
		results[i] = dombatch.NewDeleted(id)
	}
	return results
}
