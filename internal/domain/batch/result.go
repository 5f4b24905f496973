package batch

import "github.com/kailas-cloud/recdex/internal/domain/index"

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusWritten ItemStatus = "written"
	StatusSkipped ItemStatus = "skipped"
	StatusDeleted ItemStatus = "deleted"
	StatusError   ItemStatus = "error"
)

// Result is the outcome of processing one record in a batch operation.
type Result struct {
	identity index.Identity
	status   ItemStatus
	err      error
}

// NewWritten creates a result for a record added to the engine.
func NewWritten(id index.Identity) Result { return Result{identity: id, status: StatusWritten} }

// NewSkipped creates a result for a record with no index terms.
func NewSkipped(id index.Identity) Result { return Result{identity: id, status: StatusSkipped} }

// NewDeleted creates a result for a removed record.
func NewDeleted(id index.Identity) Result { return Result{identity: id, status: StatusDeleted} }

// NewError creates a failed batch result.
func NewError(id index.Identity, err error) Result {
	return Result{identity: id, status: StatusError, err: err}
}

// Identity returns the record the result refers to.
func (r Result) Identity() index.Identity { return r.identity }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Failed reports whether the item failed.
func (r Result) Failed() bool { return r.status == StatusError }
