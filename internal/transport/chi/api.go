package chi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ErrorCode is the machine-readable error code of an ErrorResponse.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest         ErrorCode = "bad_request"
	ErrorCodeValidationFailed   ErrorCode = "validation_failed"
	ErrorCodeUnauthorized       ErrorCode = "unauthorized"
	ErrorCodeNotFound           ErrorCode = "not_found"
	ErrorCodeSearchTermNotFound ErrorCode = "search_term_not_found"
	ErrorCodeIndexingFailed     ErrorCode = "indexing_failed"
	ErrorCodeDeletionFailed     ErrorCode = "deletion_failed"
	ErrorCodeSearchFailed       ErrorCode = "search_failed"
	ErrorCodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// IndexTerm is one typed term of an index request.
type IndexTerm struct {
	Field string `json:"field"`
	Value string `json:"value"`
	Type  string `json:"type,omitempty"`
}

// IndexRecordRequest is the body of PUT /api/v1/records/{type}/{id}.
type IndexRecordRequest struct {
	IDs    []string        `json:"ids,omitempty"`
	Terms  []IndexTerm     `json:"terms"`
	Record json.RawMessage `json:"record"`
	Commit *bool           `json:"commit,omitempty"`
}

// CollectedIndexRequest is the body of POST /api/v1/records/_collected.
type CollectedIndexRequest struct {
	IDs       []string        `json:"ids,omitempty"`
	Collected json.RawMessage `json:"collected"`
	Record    json.RawMessage `json:"record"`
	Commit    *bool           `json:"commit,omitempty"`
}

// IndexRecordResponse reports whether a document was written.
type IndexRecordResponse struct {
	Type   string `json:"type"`
	ID     string `json:"id"`
	Status string `json:"status"`
}

// BulkIndexItem is one record of a bulk request.
type BulkIndexItem struct {
	Type   string          `json:"type"`
	ID     string          `json:"id"`
	IDs    []string        `json:"ids,omitempty"`
	Terms  []IndexTerm     `json:"terms"`
	Record json.RawMessage `json:"record"`
}

// BulkIndexRequest is the body of POST /api/v1/records/_bulk.
type BulkIndexRequest struct {
	Items []BulkIndexItem `json:"items"`
}

// BulkResultItem is the outcome of one bulk item.
type BulkResultItem struct {
	Type   string         `json:"type"`
	ID     string         `json:"id"`
	Status string         `json:"status"`
	Error  *ErrorResponse `json:"error,omitempty"`
}

// BulkIndexResponse lists per-item outcomes in request order.
type BulkIndexResponse struct {
	Items []BulkResultItem `json:"items"`
}

// SearchTerm is one name/value pair of a search request.
type SearchTerm struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SearchRequest is the body of POST /api/v1/search. rows and start may be
// given as numbers or strings; anything unparseable falls back to defaults.
type SearchRequest struct {
	RecordTypes []string     `json:"record_types"`
	Rows        LooseString  `json:"rows,omitempty"`
	Start       LooseString  `json:"start,omitempty"`
	Terms       []SearchTerm `json:"terms"`
}

// SearchDataRequest is the body of POST /api/v1/search/_data. SearchData is
// a group with optional rows/start atomics and terms under include/includePart.
type SearchDataRequest struct {
	RecordTypes []string        `json:"record_types"`
	SearchData  json.RawMessage `json:"search_data"`
}

// SearchResponse is one page of matching records.
type SearchResponse struct {
	Start   int               `json:"start"`
	Total   int64             `json:"total"`
	Records []json.RawMessage `json:"records"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// LooseString accepts a JSON string, number or boolean and keeps its text.
type LooseString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *LooseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
	case len(data) > 0 && data[0] == '"':
		v, err := strconv.Unquote(string(data))
		if err != nil {
			return fmt.Errorf("loose string: %w", err)
		}
		*s = LooseString(v)
	default:
		*s = LooseString(data)
	}
	return nil
}
