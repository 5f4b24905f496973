// Package term describes how a named search term maps onto index fields.
package term

import (
	"fmt"

	"github.com/kailas-cloud/recdex/internal/domain"
	"github.com/kailas-cloud/recdex/internal/domain/index"
)

// Kind distinguishes plain terms from linked-data join terms.
type Kind string

// Search term kinds.
const (
	KindFinal      Kind = "final"
	KindLinkedData Kind = "linkedData"
)

// IndexTerm is a catalog entry resolving an index term id to a field.
type IndexTerm struct {
	id    string
	field string
	typ   index.Type
}

// NewIndexTerm creates an index term entry.
func NewIndexTerm(id, field string, t index.Type) IndexTerm {
	return IndexTerm{id: id, field: field, typ: t}
}

// ID returns the index term id.
func (it IndexTerm) ID() string { return it.id }

// Field returns the logical field name.
func (it IndexTerm) Field() string { return it.field }

// Type returns the index type.
func (it IndexTerm) Type() index.Type { return it.typ }

// PhysicalField returns the engine field name.
func (it IndexTerm) PhysicalField() string { return index.FieldName(it.field, it.typ) }

// Definition is a named search term as stored in the catalog: the index
// term it queries and, for linked-data terms, the join parameters.
type Definition struct {
	name             string
	kind             Kind
	indexTerm        string
	linkedOn         string
	linkedRecordType string
}

// NewFinal creates a plain search term definition.
func NewFinal(name, indexTerm string) Definition {
	return Definition{name: name, kind: KindFinal, indexTerm: indexTerm}
}

// NewLinked creates a linked-data search term definition. linkedOn is the
// index term whose field holds the join target; recordType is the type
// the inner query searches in.
func NewLinked(name, indexTerm, linkedOn, recordType string) Definition {
	return Definition{
		name:             name,
		kind:             KindLinkedData,
		indexTerm:        indexTerm,
		linkedOn:         linkedOn,
		linkedRecordType: recordType,
	}
}

// Parse builds a definition from catalog strings, validating its shape.
func Parse(name, kind, indexTerm, linkedOn, recordType string) (Definition, error) {
	if indexTerm == "" {
		return Definition{}, fmt.Errorf("search term %q: index term is required: %w", name, domain.ErrInvalidRequest)
	}
	switch Kind(kind) {
	case KindLinkedData:
		if linkedOn == "" || recordType == "" {
			return Definition{}, fmt.Errorf(
				"search term %q: linked data needs linked_on and record_type: %w", name, domain.ErrInvalidRequest)
		}
		return NewLinked(name, indexTerm, linkedOn, recordType), nil
	case KindFinal, "":
		return NewFinal(name, indexTerm), nil
	default:
		return Definition{}, fmt.Errorf("search term %q: unknown type %q: %w", name, kind, domain.ErrInvalidRequest)
	}
}

// Name returns the search term name.
func (d Definition) Name() string { return d.name }

// Kind returns the term kind.
func (d Definition) Kind() Kind { return d.kind }

// Linked reports whether the term is a linked-data join term.
func (d Definition) Linked() bool { return d.kind == KindLinkedData }

// IndexTerm returns the id of the index term the value is matched against.
func (d Definition) IndexTerm() string { return d.indexTerm }

// LinkedOn returns the id of the index term holding the join target.
func (d Definition) LinkedOn() string { return d.linkedOn }

// LinkedRecordType returns the record type the join searches in.
func (d Definition) LinkedRecordType() string { return d.linkedRecordType }
