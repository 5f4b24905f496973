package index

import (
	"fmt"

	"github.com/kailas-cloud/recdex/internal/domain/record"
)

// Names used by the collected-terms record produced by term collection.
const (
	collectedIndex     = "index"
	collectedDataTerm  = "collectedDataTerm"
	collectTermValue   = "collectTermValue"
	collectedExtraData = "extraData"
	extraFieldName     = "indexFieldName"
	extraIndexType     = "indexType"
)

// FromCollectedData reads the identity and index terms out of a collected
// terms group. A group without an index part yields no terms.
func FromCollectedData(g record.Group) (Identity, []Term, error) {
	id, err := g.FirstAtomicValue("id")
	if err != nil {
		return Identity{}, nil, fmt.Errorf("collected data: %w", err)
	}
	recordType, err := g.FirstAtomicValue("type")
	if err != nil {
		return Identity{}, nil, fmt.Errorf("collected data: %w", err)
	}
	identity := NewIdentity(recordType, id)

	idx, err := g.FirstGroup(collectedIndex)
	if err != nil {
		return identity, nil, nil
	}

	var terms []Term
	for _, ct := range idx.Groups(collectedDataTerm) {
		term, err := termFromCollected(ct)
		if err != nil {
			return identity, nil, fmt.Errorf("collected data %s: %w", identity.CompositeID(), err)
		}
		terms = append(terms, term)
	}
	return identity, terms, nil
}

func termFromCollected(ct record.Group) (Term, error) {
	value, err := ct.FirstAtomicValue(collectTermValue)
	if err != nil {
		return Term{}, err
	}
	extra, err := ct.FirstGroup(collectedExtraData)
	if err != nil {
		return Term{}, err
	}
	name, err := extra.FirstAtomicValue(extraFieldName)
	if err != nil {
		return Term{}, err
	}
	typeName, err := extra.FirstAtomicValue(extraIndexType)
	if err != nil {
		return Term{}, err
	}
	return NewTerm(name, value, ParseType(typeName)), nil
}
