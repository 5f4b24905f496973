// Package document assembles the engine-bound document for one record.
package document

import "github.com/kailas-cloud/recdex/internal/domain/index"

// Reserved document fields.
const (
	FieldID           = "id"
	FieldType         = "type"
	FieldIDs          = "ids"
	FieldRecordAsJSON = "recordAsJson"
)

// Field is a physical field with its values in insertion order.
type Field struct {
	name   string
	values []string
}

// Name returns the physical field name.
func (f Field) Name() string { return f.name }

// Values returns the field values in insertion order.
func (f Field) Values() []string { return f.values }

// Document is the output document for one record (immutable value object).
type Document struct {
	id         string
	recordType string
	ids        []string
	fields     []Field
	payload    string
}

// Assemble builds the document for a record. It returns false when there
// are no terms, in which case nothing must be written.
// Terms sharing a physical field are merged into one multi-valued field.
func Assemble(identity index.Identity, ids []string, terms []index.Term, payload string) (Document, bool) {
	if len(terms) == 0 {
		return Document{}, false
	}

	d := Document{
		id:         identity.CompositeID(),
		recordType: identity.Type(),
		ids:        append([]string(nil), ids...),
		payload:    payload,
	}

	pos := make(map[string]int, len(terms))
	for _, t := range terms {
		name := t.PhysicalField()
		i, ok := pos[name]
		if !ok {
			i = len(d.fields)
			pos[name] = i
			d.fields = append(d.fields, Field{name: name})
		}
		d.fields[i].values = append(d.fields[i].values, t.Value())
	}
	return d, true
}

// ID returns the composite document id.
func (d Document) ID() string { return d.id }

// Type returns the record type.
func (d Document) Type() string { return d.recordType }

// IDs returns the alternate ids in supplied order.
func (d Document) IDs() []string { return d.ids }

// Fields returns the term fields in first-seen order.
func (d Document) Fields() []Field { return d.fields }

// Values returns the values of a term field, nil when absent.
func (d Document) Values(name string) []string {
	for _, f := range d.fields {
		if f.name == name {
			return f.values
		}
	}
	return nil
}

// Payload returns the serialized record stored under recordAsJson.
func (d Document) Payload() string { return d.payload }
