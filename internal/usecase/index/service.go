// Package index is the index gateway: it turns records into engine
// documents and controls when writes are committed.
package index

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recdex/internal/domain"
	domdoc "github.com/kailas-cloud/recdex/internal/domain/document"
	domidx "github.com/kailas-cloud/recdex/internal/domain/index"
	"github.com/kailas-cloud/recdex/internal/logger"
	"github.com/kailas-cloud/recdex/internal/metrics"
)

// Service writes and removes record documents. It keeps no per-call state
// and is safe for concurrent use.
type Service struct {
	repo Repository
}

// New creates an index service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// IndexWithCommit indexes a record and commits immediately.
func (s *Service) IndexWithCommit(ctx context.Context, src domdoc.Source) (domdoc.Outcome, error) {
	return s.Index(ctx, src, true)
}

// IndexWithoutCommit indexes a record and leaves the commit to the caller.
func (s *Service) IndexWithoutCommit(ctx context.Context, src domdoc.Source) (domdoc.Outcome, error) {
	return s.Index(ctx, src, false)
}

// Index adds the record document and optionally commits. A record without
// terms is not written and nothing is committed.
func (s *Service) Index(ctx context.Context, src domdoc.Source, commit bool) (domdoc.Outcome, error) {
	doc, ok := src.Assemble()
	if !ok {
		metrics.IndexDocumentsTotal.WithLabelValues(string(domdoc.OutcomeNoOp)).Inc()
		logger.FromContext(ctx).Debug("Record has no index terms, skipping",
			zap.String("type", src.Identity.Type()),
			zap.String("id", src.Identity.ID()),
		)
		return domdoc.OutcomeNoOp, nil
	}

	if err := s.repo.Add(ctx, doc); err != nil {
		return "", domain.NewIndexingError(src.Identity.Type(), src.Identity.ID(), err)
	}
	if commit {
		if err := s.repo.Commit(ctx); err != nil {
			return "", domain.NewIndexingError(src.Identity.Type(), src.Identity.ID(), err)
		}
	}

	metrics.IndexDocumentsTotal.WithLabelValues(string(domdoc.OutcomeWritten)).Inc()
	return domdoc.OutcomeWritten, nil
}

// Delete removes the document of a record and always commits.
func (s *Service) Delete(ctx context.Context, id domidx.Identity) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return domain.NewDeletionError(id.Type(), id.ID(), err)
	}
	if err := s.repo.Commit(ctx); err != nil {
		return domain.NewDeletionError(id.Type(), id.ID(), err)
	}
	return nil
}

// Commit makes every pending write visible. A failure is an indexing
// failure.
func (s *Service) Commit(ctx context.Context) error {
	if err := s.repo.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w: %w", domain.ErrIndexing, err)
	}
	return nil
}
