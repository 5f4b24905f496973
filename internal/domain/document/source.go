package document

import "github.com/kailas-cloud/recdex/internal/domain/index"

// Source is everything needed to index one record.
type Source struct {
	Identity index.Identity
	IDs      []string
	Terms    []index.Term
	Payload  string
}

// Assemble builds the document for the source. See Assemble.
func (s Source) Assemble() (Document, bool) {
	return Assemble(s.Identity, s.IDs, s.Terms, s.Payload)
}

// Outcome is the result of an index request.
type Outcome string

// Index outcomes.
const (
	// OutcomeNoOp means the record had no terms and nothing was written.
	OutcomeNoOp Outcome = "skipped"
	// OutcomeWritten means the document was sent to the engine.
	OutcomeWritten Outcome = "written"
)
