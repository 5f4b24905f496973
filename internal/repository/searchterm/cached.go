package searchterm

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/kailas-cloud/recdex/internal/domain/search/term"
)

// Cache defaults.
const (
	DefaultCacheSize = 1024
	DefaultCacheTTL  = time.Minute
)

// catalog is the consumer interface for a cached term source (ISP).
type catalog interface {
	SearchTerm(ctx context.Context, name string) (term.Definition, error)
	IndexTerm(ctx context.Context, id string) (term.IndexTerm, error)
	Ping(ctx context.Context) error
}

// Cached keeps resolved definitions of a slower catalog in bounded LRU
// caches whose entries expire after ttl, so catalog rewrites are picked up
// without a restart. Misses and errors are not cached.
type Cached struct {
	inner       catalog
	searchTerms *expirable.LRU[string, term.Definition]
	indexTerms  *expirable.LRU[string, term.IndexTerm]
}

// NewCached wraps inner. size <= 0 uses DefaultCacheSize, ttl <= 0 uses
// DefaultCacheTTL.
func NewCached(inner catalog, size int, ttl time.Duration) *Cached {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cached{
		inner:       inner,
		searchTerms: expirable.NewLRU[string, term.Definition](size, nil, ttl),
		indexTerms:  expirable.NewLRU[string, term.IndexTerm](size, nil, ttl),
	}
}

// SearchTerm returns the cached definition or loads it from the inner catalog.
func (c *Cached) SearchTerm(ctx context.Context, name string) (term.Definition, error) {
	if def, ok := c.searchTerms.Get(name); ok {
		return def, nil
	}
	def, err := c.inner.SearchTerm(ctx, name)
	if err != nil {
		return term.Definition{}, err //nolint:wrapcheck // decorator
	}
	c.searchTerms.Add(name, def)
	return def, nil
}

// IndexTerm returns the cached index term or loads it from the inner catalog.
func (c *Cached) IndexTerm(ctx context.Context, id string) (term.IndexTerm, error) {
	if it, ok := c.indexTerms.Get(id); ok {
		return it, nil
	}
	it, err := c.inner.IndexTerm(ctx, id)
	if err != nil {
		return term.IndexTerm{}, err //nolint:wrapcheck // decorator
	}
	c.indexTerms.Add(id, it)
	return it, nil
}

// Ping checks the inner catalog.
func (c *Cached) Ping(ctx context.Context) error {
	return c.inner.Ping(ctx) //nolint:wrapcheck // decorator
}
