package searchterm

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/recdex/internal/db"
	"github.com/kailas-cloud/recdex/internal/domain"
	"github.com/kailas-cloud/recdex/internal/domain/index"
	"github.com/kailas-cloud/recdex/internal/domain/search/term"
)

// Hash field names.
const (
	fieldField      = "field"
	fieldType       = "type"
	fieldIndexTerm  = "index_term"
	fieldLinkedOn   = "linked_on"
	fieldRecordType = "record_type"
)

// hashStore is the consumer interface for the Redis catalog (ISP).
type hashStore interface {
	Ping(ctx context.Context) error
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Redis resolves definitions stored as hashes under
// <prefix>searchterm:<name> and <prefix>indexterm:<id>.
type Redis struct {
	store  hashStore
	prefix string
}

// NewRedis creates a Redis-backed catalog.
func NewRedis(s hashStore, prefix string) *Redis {
	return &Redis{store: s, prefix: prefix}
}

func (r *Redis) searchTermKey(name string) string { return r.prefix + "searchterm:" + name }
func (r *Redis) indexTermKey(id string) string    { return r.prefix + "indexterm:" + id }

// SearchTerm returns the definition of a named search term.
func (r *Redis) SearchTerm(ctx context.Context, name string) (term.Definition, error) {
	h, err := r.store.HGetAll(ctx, r.searchTermKey(name))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return term.Definition{}, fmt.Errorf("search term %q: %w", name, domain.ErrSearchTermNotFound)
		}
		return term.Definition{}, fmt.Errorf("load search term %q: %w", name, err)
	}
	return term.Parse(name, h[fieldType], h[fieldIndexTerm], h[fieldLinkedOn], h[fieldRecordType])
}

// IndexTerm returns the index term with the given id.
func (r *Redis) IndexTerm(ctx context.Context, id string) (term.IndexTerm, error) {
	h, err := r.store.HGetAll(ctx, r.indexTermKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return term.IndexTerm{}, fmt.Errorf("index term %q: %w", id, domain.ErrNotFound)
		}
		return term.IndexTerm{}, fmt.Errorf("load index term %q: %w", id, err)
	}
	if h[fieldField] == "" {
		return term.IndexTerm{}, fmt.Errorf("index term %q: field is empty: %w", id, domain.ErrInvalidRequest)
	}
	return term.NewIndexTerm(id, h[fieldField], index.ParseType(h[fieldType])), nil
}

// PutIndexTerm stores an index term.
func (r *Redis) PutIndexTerm(ctx context.Context, it term.IndexTerm) error {
	err := r.store.HSet(ctx, r.indexTermKey(it.ID()), map[string]string{
		fieldField: it.Field(),
		fieldType:  it.Type().String(),
	})
	if err != nil {
		return fmt.Errorf("store index term %q: %w", it.ID(), err)
	}
	return nil
}

// PutSearchTerm stores a search term definition.
func (r *Redis) PutSearchTerm(ctx context.Context, def term.Definition) error {
	fields := map[string]string{
		fieldType:      string(def.Kind()),
		fieldIndexTerm: def.IndexTerm(),
	}
	if def.Linked() {
		fields[fieldLinkedOn] = def.LinkedOn()
		fields[fieldRecordType] = def.LinkedRecordType()
	}
	if err := r.store.HSet(ctx, r.searchTermKey(def.Name()), fields); err != nil {
		return fmt.Errorf("store search term %q: %w", def.Name(), err)
	}
	return nil
}

// Import copies every entry of a file catalog into Redis.
func (r *Redis) Import(ctx context.Context, f *File) (int, error) {
	n := 0
	for _, e := range f.Catalog().IndexTerms {
		it, err := f.IndexTerm(ctx, e.ID)
		if err != nil {
			return n, err
		}
		if err := r.PutIndexTerm(ctx, it); err != nil {
			return n, err
		}
		n++
	}
	for _, e := range f.Catalog().SearchTerms {
		def, err := f.SearchTerm(ctx, e.Name)
		if err != nil {
			return n, err
		}
		if err := r.PutSearchTerm(ctx, def); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Ping checks the underlying store.
func (r *Redis) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}
