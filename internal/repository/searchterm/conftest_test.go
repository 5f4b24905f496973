package searchterm

import (
	"context"
	"fmt"
	"testing"

	"github.com/kailas-cloud/recdex/internal/db"
)

// mockHashStore implements hashStore over an in-memory map.
type mockHashStore struct {
	data    map[string]map[string]string
	pingFn  func(ctx context.Context) error
	hgetErr error
}

func (m *mockHashStore) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

func (m *mockHashStore) HSet(_ context.Context, key string, fields map[string]string) error {
	if m.data == nil {
		m.data = make(map[string]map[string]string)
	}
	h := make(map[string]string, len(fields))
	for k, v := range fields {
		h[k] = v
	}
	m.data[key] = h
	return nil
}

func (m *mockHashStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	if m.hgetErr != nil {
		return nil, m.hgetErr
	}
	h, ok := m.data[key]
	if !ok {
		return nil, &db.Error{Op: db.OpHGetAll, Err: fmt.Errorf("key %s: %w", key, db.ErrKeyNotFound)}
	}
	return h, nil
}

const testCatalog = `
index_terms:
  - id: bookTitle
    field: title
    type: indexTypeString
  - id: personName
    field: name
    type: text
  - id: authorLink
    field: authorId
    type: id
search_terms:
  - name: title
    type: final
    index_term: bookTitle
  - name: authorName
    type: linkedData
    index_term: personName
    linked_on: authorLink
    record_type: person
`

func newTestFile(t *testing.T) *File {
	t.Helper()
	f, err := ParseFile([]byte(testCatalog))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	return f
}
