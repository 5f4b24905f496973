package record

import (
	"encoding/json"
	"errors"
	"fmt"
)

// wireElement is the JSON shape of a record element. An element with a
// value is an atomic; anything else is a group.
type wireElement struct {
	Name       string            `json:"name"`
	Value      *string           `json:"value,omitempty"`
	Children   []wireElement     `json:"children,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	RepeatID   string            `json:"repeatId,omitempty"`
}

// Marshal encodes a group to its JSON form.
func Marshal(g Group) ([]byte, error) {
	data, err := json.Marshal(groupToWire(g))
	if err != nil {
		return nil, fmt.Errorf("marshal record %q: %w", g.name, err)
	}
	return data, nil
}

// Unmarshal decodes the JSON form of a record. The root must be a group.
func Unmarshal(data []byte) (Group, error) {
	var w wireElement
	if err := json.Unmarshal(data, &w); err != nil {
		return Group{}, fmt.Errorf("unmarshal record: %w", err)
	}
	if w.Value != nil {
		return Group{}, errors.New("unmarshal record: root element is atomic")
	}
	el, err := wireToElement(w)
	if err != nil {
		return Group{}, err
	}
	return el.(Group), nil
}

// MarshalJSON lets a group be embedded in API payloads.
func (g Group) MarshalJSON() ([]byte, error) {
	return json.Marshal(groupToWire(g))
}

// UnmarshalJSON decodes a group embedded in API payloads.
func (g *Group) UnmarshalJSON(data []byte) error {
	decoded, err := Unmarshal(data)
	if err != nil {
		return err
	}
	*g = decoded
	return nil
}

func groupToWire(g Group) wireElement {
	w := wireElement{
		Name:       g.name,
		Attributes: g.attributes,
		RepeatID:   g.repeatID,
	}
	if len(g.children) > 0 {
		w.Children = make([]wireElement, 0, len(g.children))
	}
	for _, c := range g.children {
		switch el := c.(type) {
		case Atomic:
			v := el.value
			w.Children = append(w.Children, wireElement{Name: el.name, Value: &v, RepeatID: el.repeatID})
		case Group:
			w.Children = append(w.Children, groupToWire(el))
		}
	}
	return w
}

func wireToElement(w wireElement) (Element, error) {
	if w.Name == "" {
		return nil, errors.New("unmarshal record: element without name")
	}
	if w.Value != nil {
		if len(w.Children) > 0 {
			return nil, fmt.Errorf("unmarshal record: element %q has both value and children", w.Name)
		}
		return Atomic{name: w.Name, value: *w.Value, repeatID: w.RepeatID}, nil
	}
	g := Group{name: w.Name, attributes: w.Attributes, repeatID: w.RepeatID}
	for _, cw := range w.Children {
		c, err := wireToElement(cw)
		if err != nil {
			return nil, err
		}
		g.children = append(g.children, c)
	}
	return g, nil
}
