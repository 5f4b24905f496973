package search

import (
	"errors"
	"strings"

	"github.com/kailas-cloud/recdex/internal/db"
)

// Outcome classifies how a search ended.
type Outcome string

// Search outcomes.
const (
	OutcomeOK     Outcome = "ok"
	OutcomeEmpty  Outcome = "empty"
	OutcomeFailed Outcome = "failed"
)

// undefinedField is the engine message fragment for a query on a field the
// index has never seen.
const undefinedField = "undefined field"

// classify maps a search failure to an outcome. Engine errors are matched
// on their message; anything else on its full text.
func classify(err error) Outcome {
	if err == nil {
		return OutcomeOK
	}
	msg := err.Error()
	var dbErr *db.Error
	if errors.As(err, &dbErr) && dbErr.Msg != "" {
		msg = dbErr.Msg
	}
	if strings.Contains(msg, undefinedField) {
		return OutcomeEmpty
	}
	return OutcomeFailed
}
