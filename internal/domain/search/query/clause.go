// Package query turns an abstract search request into the engine's native
// query string, type filter and paging.
package query

import (
	"strings"

	"github.com/kailas-cloud/recdex/internal/domain/document"
)

// MatchAll is the query used when a request carries no terms.
const MatchAll = "*:*"

// Join describes a linked-data join: documents whose To field holds one
// of the From values of the documents matched by the inner clause.
type Join struct {
	From       string
	To         string
	RecordType string
}

// Clause is one term of the query, either plain or joined.
type Clause struct {
	Field string
	Value string
	Join  *Join
}

// Linked reports whether the clause is a join.
func (c Clause) Linked() bool { return c.Join != nil }

// String renders the clause in engine syntax. Plain values are wrapped in
// parentheses with ':' escaped; join values are passed through unescaped.
func (c Clause) String() string {
	if c.Join == nil {
		return c.Field + ":(" + EscapeValue(c.Value) + ")"
	}
	var b strings.Builder
	b.WriteString("{!join from=")
	b.WriteString(c.Join.From)
	b.WriteString(" to=")
	b.WriteString(c.Join.To)
	b.WriteString("}")
	b.WriteString(c.Field)
	b.WriteString(":")
	b.WriteString(c.Value)
	b.WriteString(" AND ")
	b.WriteString(document.FieldType)
	b.WriteString(":")
	b.WriteString(c.Join.RecordType)
	return b.String()
}

// EscapeValue escapes every ':' in a plain term value.
func EscapeValue(v string) string {
	return strings.ReplaceAll(v, ":", `\:`)
}

// Filter renders the record type filter: type:A OR type:B.
// It is empty when no types are given.
func Filter(recordTypes []string) string {
	parts := make([]string, len(recordTypes))
	for i, t := range recordTypes {
		parts[i] = document.FieldType + ":" + t
	}
	return strings.Join(parts, " OR ")
}

// render joins clauses with AND, or returns MatchAll when there are none.
func render(clauses []Clause) string {
	if len(clauses) == 0 {
		return MatchAll
	}
	parts := make([]string, len(clauses))
	for i, c := range clauses {
		parts[i] = c.String()
	}
	return strings.Join(parts, " AND ")
}
