package batch

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/recdex/internal/domain/index"
)

func TestNewWritten(t *testing.T) {
	r := NewWritten(index.NewIdentity("book", "b1"))
	if r.Identity().CompositeID() != "book_b1" {
		t.Errorf("Identity() = %q", r.Identity().CompositeID())
	}
	if r.Status() != StatusWritten {
		t.Errorf("Status() = %q, want %q", r.Status(), StatusWritten)
	}
	if r.Err() != nil || r.Failed() {
		t.Errorf("Err() = %v, Failed() = %v", r.Err(), r.Failed())
	}
}

func TestNewSkippedAndDeleted(t *testing.T) {
	id := index.NewIdentity("book", "b1")
	if NewSkipped(id).Status() != StatusSkipped {
		t.Error("skipped status mismatch")
	}
	if NewDeleted(id).Status() != StatusDeleted {
		t.Error("deleted status mismatch")
	}
}

func TestNewError(t *testing.T) {
	err := errors.New("something failed")
	r := NewError(index.NewIdentity("book", "b2"), err)
	if r.Identity().ID() != "b2" {
		t.Errorf("ID() = %q", r.Identity().ID())
	}
	if r.Status() != StatusError || !r.Failed() {
		t.Errorf("Status() = %q, want %q", r.Status(), StatusError)
	}
	if !errors.Is(r.Err(), err) {
		t.Errorf("Err() = %v, want %v", r.Err(), err)
	}
}

func TestStatusConstants(t *testing.T) {
	if StatusWritten != "written" || StatusSkipped != "skipped" {
		t.Errorf("unexpected constants %q %q", StatusWritten, StatusSkipped)
	}
	if StatusError != "error" {
		t.Errorf("StatusError = %q", StatusError)
	}
}
