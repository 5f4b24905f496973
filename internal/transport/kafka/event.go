package kafka

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/recdex/internal/domain"
	domdoc "github.com/kailas-cloud/recdex/internal/domain/document"
	domidx "github.com/kailas-cloud/recdex/internal/domain/index"
	"github.com/kailas-cloud/recdex/internal/domain/record"
)

// Event operations.
const (
	OpIndex  = "index"
	OpDelete = "delete"
)

// Event is the JSON payload of one record change message.
type Event struct {
	Op     string          `json:"op"`
	Type   string          `json:"type"`
	ID     string          `json:"id"`
	IDs    []string        `json:"ids,omitempty"`
	Terms  []EventTerm     `json:"terms,omitempty"`
	Record json.RawMessage `json:"record,omitempty"`
}

// EventTerm is one typed index term of an index event.
type EventTerm struct {
	Field string `json:"field"`
	Value string `json:"value"`
	Type  string `json:"type,omitempty"`
}

// DecodeEvent parses and validates a message value.
func DecodeEvent(value []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(value, &e); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	if e.Type == "" || e.ID == "" {
		return Event{}, fmt.Errorf("event: type and id are required: %w", domain.ErrInvalidRequest)
	}
	switch e.Op {
	case OpIndex:
		if len(e.Record) == 0 {
			return Event{}, fmt.Errorf("index event %s_%s: record is required: %w", e.Type, e.ID, domain.ErrInvalidRequest)
		}
	case OpDelete:
	default:
		return Event{}, fmt.Errorf("event: unknown op %q: %w", e.Op, domain.ErrInvalidRequest)
	}
	return e, nil
}

// Identity returns the record the event refers to.
func (e Event) Identity() domidx.Identity {
	return domidx.NewIdentity(e.Type, e.ID)
}

// Source converts an index event into an indexing source.
func (e Event) Source() (domdoc.Source, error) {
	g, err := record.Unmarshal(e.Record)
	if err != nil {
		return domdoc.Source{}, fmt.Errorf("index event %s_%s: %w", e.Type, e.ID, err)
	}
	payload, err := record.Marshal(g)
	if err != nil {
		return domdoc.Source{}, err
	}
	terms := make([]domidx.Term, 0, len(e.Terms))
	for _, t := range e.Terms {
		terms = append(terms, domidx.NewTerm(t.Field, t.Value, domidx.ParseType(t.Type)))
	}
	return domdoc.Source{
		Identity: e.Identity(),
		IDs:      e.IDs,
		Terms:    terms,
		Payload:  string(payload),
	}, nil
}
