// Package search is the search gateway: it assembles the engine query,
// runs it and translates the hits back into records.
package search

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recdex/internal/domain"
	"github.com/kailas-cloud/recdex/internal/domain/search/query"
	"github.com/kailas-cloud/recdex/internal/domain/search/request"
	"github.com/kailas-cloud/recdex/internal/domain/search/result"
	"github.com/kailas-cloud/recdex/internal/logger"
	"github.com/kailas-cloud/recdex/internal/metrics"
)

// Service runs searches. It keeps no per-call state and is safe for
// concurrent use.
type Service struct {
	repo    Repository
	builder *query.Builder
}

// New creates a search service.
func New(repo Repository, terms TermResolver) *Service {
	return &Service{repo: repo, builder: query.NewBuilder(terms)}
}

// Search returns one page of records matching req. A query on a field the
// engine does not know yields an empty page; every other failure is
// returned wrapped in domain.ErrSearch.
func (s *Service) Search(ctx context.Context, req request.Request) (result.Page, error) {
	page, err := s.search(ctx, req)
	outcome := classify(err)
	metrics.SearchOutcomesTotal.WithLabelValues(string(outcome)).Inc()

	switch outcome {
	case OutcomeOK:
		return page, nil
	case OutcomeEmpty:
		logger.FromContext(ctx).Debug("Search on undefined field, returning empty page",
			zap.Strings("record_types", req.RecordTypes()),
			zap.Error(err),
		)
		return result.Empty(req.Start()), nil
	default:
		logger.FromContext(ctx).Warn("Search failed",
			zap.Strings("record_types", req.RecordTypes()),
			zap.Error(err),
		)
		return result.Page{}, domain.NewSearchError(err)
	}
}

func (s *Service) search(ctx context.Context, req request.Request) (result.Page, error) {
	d, err := s.builder.Build(ctx, req)
	if err != nil {
		return result.Page{}, err
	}
	logger.FromContext(ctx).Debug("Search query assembled",
		zap.String("q", d.Query()),
		zap.String("fq", d.Filter()),
		zap.Int("rows", d.Rows()),
		zap.Int("offset", d.Offset()),
	)

	raw, err := s.repo.Search(ctx, d)
	if err != nil {
		return result.Page{}, err
	}
	return result.Translate(raw, req.Start())
}
