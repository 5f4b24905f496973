package document

import (
	"github.com/kailas-cloud/recdex/internal/db"
	domdoc "github.com/kailas-cloud/recdex/internal/domain/document"
)

// toEngine lays out the engine document: reserved fields first, then term
// fields in first-seen order, then the stored record payload.
func toEngine(d domdoc.Document) db.Document {
	var out db.Document
	out.Add(domdoc.FieldID, d.ID())
	out.Add(domdoc.FieldType, d.Type())
	if len(d.IDs()) > 0 {
		out.Add(domdoc.FieldIDs, d.IDs()...)
	}
	for _, f := range d.Fields() {
		out.Add(f.Name(), f.Values()...)
	}
	out.Add(domdoc.FieldRecordAsJSON, d.Payload())
	return out
}
