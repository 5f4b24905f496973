package result

import "testing"

func TestTranslate_PreservesOrderAndTotal(t *testing.T) {
	raw := Raw{
		Total: 42,
		Payloads: []string{
			`{"name":"book","children":[{"name":"title","value":"B"}]}`,
			`{"name":"book","children":[{"name":"title","value":"A"}]}`,
		},
	}

	p, err := Translate(raw, 11)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if p.Start() != 11 {
		t.Errorf("start: %d", p.Start())
	}
	if p.Total() != 42 {
		t.Errorf("total: %d", p.Total())
	}
	if len(p.Records()) != 2 {
		t.Fatalf("records: %d", len(p.Records()))
	}
	first, _ := p.Records()[0].FirstAtomicValue("title")
	second, _ := p.Records()[1].FirstAtomicValue("title")
	if first != "B" || second != "A" {
		t.Errorf("order: %q, %q", first, second)
	}
}

func TestTranslate_NoHits(t *testing.T) {
	p, err := Translate(Raw{Total: 0}, 1)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if p.Records() == nil || len(p.Records()) != 0 {
		t.Errorf("expected empty non-nil records, got %v", p.Records())
	}
}

func TestTranslate_TotalIndependentOfPageSize(t *testing.T) {
	p, err := Translate(Raw{Total: 500, Payloads: []string{`{"name":"r"}`}}, 1)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if p.Total() != 500 || len(p.Records()) != 1 {
		t.Errorf("total=%d records=%d", p.Total(), len(p.Records()))
	}
}

func TestTranslate_BadPayload(t *testing.T) {
	if _, err := Translate(Raw{Total: 1, Payloads: []string{`not json`}}, 1); err == nil {
		t.Error("expected error")
	}
}

func TestEmpty(t *testing.T) {
	p := Empty(7)
	if p.Start() != 7 || p.Total() != 0 || len(p.Records()) != 0 {
		t.Errorf("empty page: %+v", p)
	}
}
