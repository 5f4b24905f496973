package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest signals a malformed index or search request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrSearchTermNotFound signals a search term name with no definition.
	ErrSearchTermNotFound = errors.New("search term not found")

	// ErrIndexing signals a failed add or commit while indexing a record.
	ErrIndexing = errors.New("error while indexing record")
	// ErrDeletion signals a failed delete or commit while removing a record.
	ErrDeletion = errors.New("error while deleting index for record")
	// ErrSearch signals a fatal search failure.
	ErrSearch = errors.New("error searching for records")
)

// RecordError ties an indexing or deletion failure to the record it concerns.
// Kind is ErrIndexing or ErrDeletion; Err is the engine cause.
type RecordError struct {
	Kind error
	Type string
	ID   string
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s with type: %s and id: %s: %v", e.Kind.Error(), e.Type, e.ID, e.Err)
}

func (e *RecordError) Unwrap() []error { return []error{e.Kind, e.Err} }

// NewIndexingError wraps cause as an indexing failure for type/id.
func NewIndexingError(recordType, id string, cause error) error {
	return &RecordError{Kind: ErrIndexing, Type: recordType, ID: id, Err: cause}
}

// NewDeletionError wraps cause as a deletion failure for type/id.
func NewDeletionError(recordType, id string, cause error) error {
	return &RecordError{Kind: ErrDeletion, Type: recordType, ID: id, Err: cause}
}

// NewSearchError wraps cause as a fatal search failure, keeping its message.
func NewSearchError(cause error) error {
	return fmt.Errorf("%w: %w", ErrSearch, cause)
}
