package index

// Term is one extracted value destined for a typed field.
type Term struct {
	field string
	value string
	typ   Type
}

// NewTerm creates a term for the logical field name.
func NewTerm(field, value string, t Type) Term {
	return Term{field: field, value: value, typ: t}
}

// Field returns the logical field name.
func (t Term) Field() string { return t.field }

// Value returns the term value.
func (t Term) Value() string { return t.value }

// Type returns the term type.
func (t Term) Type() Type { return t.typ }

// PhysicalField returns the engine field the term is written to.
func (t Term) PhysicalField() string { return FieldName(t.field, t.typ) }

// Identity is the record type and id pair a document belongs to.
type Identity struct {
	recordType string
	id         string
}

// NewIdentity creates a record identity.
func NewIdentity(recordType, id string) Identity {
	return Identity{recordType: recordType, id: id}
}

// Type returns the record type.
func (i Identity) Type() string { return i.recordType }

// ID returns the record id.
func (i Identity) ID() string { return i.id }

// CompositeID returns the engine document id: type + "_" + id.
func (i Identity) CompositeID() string { return i.recordType + "_" + i.id }
