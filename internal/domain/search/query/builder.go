package query

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/recdex/internal/domain/document"
	"github.com/kailas-cloud/recdex/internal/domain/search/request"
	"github.com/kailas-cloud/recdex/internal/domain/search/term"
)

// Resolver looks up search term and index term definitions.
type Resolver interface {
	SearchTerm(ctx context.Context, name string) (term.Definition, error)
	IndexTerm(ctx context.Context, id string) (term.IndexTerm, error)
}

// Descriptor is the engine-ready form of a request.
type Descriptor struct {
	query       string
	filter      string
	rows        int
	offset      int
	clauses     []Clause
	recordTypes []string
}

// Query returns the rendered query string.
func (d Descriptor) Query() string { return d.query }

// Filter returns the record type filter, empty when unrestricted.
func (d Descriptor) Filter() string { return d.filter }

// Rows returns the page size.
func (d Descriptor) Rows() int { return d.rows }

// Offset returns the 0-based offset.
func (d Descriptor) Offset() int { return d.offset }

// Clauses returns the structured clauses behind Query.
func (d Descriptor) Clauses() []Clause { return d.clauses }

// RecordTypes returns the types behind Filter.
func (d Descriptor) RecordTypes() []string { return d.recordTypes }

// Builder assembles descriptors. It holds no per-call state.
type Builder struct {
	resolver Resolver
}

// NewBuilder creates a query builder.
func NewBuilder(r Resolver) *Builder {
	return &Builder{resolver: r}
}

// Build resolves every term of req and renders the descriptor.
func (b *Builder) Build(ctx context.Context, req request.Request) (Descriptor, error) {
	clauses := make([]Clause, 0, len(req.Terms()))
	for _, t := range req.Terms() {
		c, err := b.clause(ctx, t)
		if err != nil {
			return Descriptor{}, err
		}
		clauses = append(clauses, c)
	}

	return Descriptor{
		query:       render(clauses),
		filter:      Filter(req.RecordTypes()),
		rows:        req.Rows(),
		offset:      req.Offset(),
		clauses:     clauses,
		recordTypes: req.RecordTypes(),
	}, nil
}

func (b *Builder) clause(ctx context.Context, t request.Term) (Clause, error) {
	def, err := b.resolver.SearchTerm(ctx, t.Name())
	if err != nil {
		return Clause{}, fmt.Errorf("resolve search term %q: %w", t.Name(), err)
	}
	target, err := b.resolver.IndexTerm(ctx, def.IndexTerm())
	if err != nil {
		return Clause{}, fmt.Errorf("resolve index term %q: %w", def.IndexTerm(), err)
	}

	c := Clause{Field: target.PhysicalField(), Value: t.Value()}
	if !def.Linked() {
		return c, nil
	}

	joinTo, err := b.resolver.IndexTerm(ctx, def.LinkedOn())
	if err != nil {
		return Clause{}, fmt.Errorf("resolve linked index term %q: %w", def.LinkedOn(), err)
	}
	c.Join = &Join{
		From:       document.FieldIDs,
		To:         joinTo.PhysicalField(),
		RecordType: def.LinkedRecordType(),
	}
	return c, nil
}
