// Package record models the schema-agnostic hierarchical record exchanged
// with callers: named groups holding atomics and nested groups.
package record

import (
	"fmt"

	"github.com/kailas-cloud/recdex/internal/domain"
)

// Element is a node of a record tree.
type Element interface {
	Name() string
	RepeatID() string
}

// Atomic is a leaf holding a single string value.
type Atomic struct {
	name     string
	value    string
	repeatID string
}

// NewAtomic creates a leaf element.
func NewAtomic(name, value string) Atomic {
	return Atomic{name: name, value: value}
}

// WithRepeatID returns a copy with the repeat id set.
func (a Atomic) WithRepeatID(id string) Atomic {
	a.repeatID = id
	return a
}

// Name returns the element name.
func (a Atomic) Name() string { return a.name }

// Value returns the leaf value.
func (a Atomic) Value() string { return a.value }

// RepeatID returns the repeat id, empty when not repeated.
func (a Atomic) RepeatID() string { return a.repeatID }

// Group is a named container of child elements.
type Group struct {
	name       string
	children   []Element
	attributes map[string]string
	repeatID   string
}

// NewGroup creates a group with the given children in order.
func NewGroup(name string, children ...Element) Group {
	return Group{name: name, children: children}
}

// WithAttribute returns a copy carrying the attribute.
func (g Group) WithAttribute(key, value string) Group {
	attrs := make(map[string]string, len(g.attributes)+1)
	for k, v := range g.attributes {
		attrs[k] = v
	}
	attrs[key] = value
	g.attributes = attrs
	return g
}

// WithRepeatID returns a copy with the repeat id set.
func (g Group) WithRepeatID(id string) Group {
	g.repeatID = id
	return g
}

// Name returns the group name.
func (g Group) Name() string { return g.name }

// RepeatID returns the repeat id, empty when not repeated.
func (g Group) RepeatID() string { return g.repeatID }

// Children returns the child elements in document order.
func (g Group) Children() []Element { return g.children }

// Attributes returns the group attributes.
func (g Group) Attributes() map[string]string { return g.attributes }

// Attribute returns a single attribute value.
func (g Group) Attribute(key string) (string, bool) {
	v, ok := g.attributes[key]
	return v, ok
}

// HasChild reports whether any direct child carries name.
func (g Group) HasChild(name string) bool {
	for _, c := range g.children {
		if c.Name() == name {
			return true
		}
	}
	return false
}

// FirstAtomicValue returns the value of the first atomic child named name.
func (g Group) FirstAtomicValue(name string) (string, error) {
	for _, c := range g.children {
		if a, ok := c.(Atomic); ok && a.name == name {
			return a.value, nil
		}
	}
	return "", fmt.Errorf("atomic %q in group %q: %w", name, g.name, domain.ErrNotFound)
}

// FirstGroup returns the first group child named name.
func (g Group) FirstGroup(name string) (Group, error) {
	for _, c := range g.children {
		if cg, ok := c.(Group); ok && cg.name == name {
			return cg, nil
		}
	}
	return Group{}, fmt.Errorf("group %q in group %q: %w", name, g.name, domain.ErrNotFound)
}

// Groups returns every group child named name.
func (g Group) Groups(name string) []Group {
	var out []Group
	for _, c := range g.children {
		if cg, ok := c.(Group); ok && cg.name == name {
			out = append(out, cg)
		}
	}
	return out
}
