// Package index holds the index-side vocabulary: typed terms, record
// identity and the mapping from logical field names to engine fields.
package index

import "strings"

// Type is the closed set of index term types.
type Type int

// Index term types. TypeText is the zero value and the fallback.
const (
	TypeText Type = iota
	TypeString
	TypeID
	TypeBoolean
	TypeDate
	TypeNumber
)

// ParseType maps an external index type name to a Type.
// Both the long form ("indexTypeString") and the short form ("string")
// are accepted, case-insensitively. Unknown names map to TypeText.
func ParseType(s string) Type {
	name := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "indextype")
	switch name {
	case "string":
		return TypeString
	case "id":
		return TypeID
	case "boolean":
		return TypeBoolean
	case "date":
		return TypeDate
	case "number":
		return TypeNumber
	default:
		return TypeText
	}
}

// String returns the long external name of the type.
func (t Type) String() string {
	switch t {
	case TypeString:
		return "indexTypeString"
	case TypeID:
		return "indexTypeId"
	case TypeBoolean:
		return "indexTypeBoolean"
	case TypeDate:
		return "indexTypeDate"
	case TypeNumber:
		return "indexTypeNumber"
	default:
		return "indexTypeText"
	}
}

// Suffix returns the engine field suffix for the type.
func (t Type) Suffix() string {
	switch t {
	case TypeString, TypeID:
		return "_s"
	case TypeBoolean:
		return "_b"
	case TypeDate:
		return "_dt"
	case TypeNumber:
		return "_l"
	default:
		return "_t"
	}
}

// FieldName returns the physical engine field for a logical field name.
func FieldName(name string, t Type) string {
	return name + t.Suffix()
}

// IsTextField reports whether a physical field name carries the text suffix.
func IsTextField(field string) bool {
	return strings.HasSuffix(field, TypeText.Suffix())
}
