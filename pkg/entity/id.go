package entity

import (
	"fmt"
	"sync/atomic"
)

// ObjectID is an opaque process-local 64-bit handle identifying one
// entity instance. IDs are minted once, never reused, never mutated.
type ObjectID uint64

// NilID is the reserved sentinel meaning "unset / no reference".
const NilID ObjectID = 0

var idCounter atomic.Uint64

// NewID mints a fresh ObjectID.
func NewID() ObjectID {
	return ObjectID(idCounter.Add(1))
}

// DEMap translates raw DE line-sequence pointers into ObjectIDs while a
// file is ingested. Once an entry exists it is fixed for the document's
// lifetime.
type DEMap map[int]ObjectID

// Assign records the ObjectID for a DE pointer. Reassigning a pointer
// to a different ID is an error; assignments are write-once.
func (m DEMap) Assign(dePointer int, id ObjectID) error {
	if prev, ok := m[dePointer]; ok && prev != id {
		return fmt.Errorf("%w: DE pointer %d already mapped", ErrReference, dePointer)
	}
	m[dePointer] = id
	return nil
}

// Translate resolves a raw DE pointer found in parameter data.
//
// A zero pointer means "no reference" and maps to NilID. When the map
// is empty the caller is constructing programmatically with no file
// context, and the raw integer is kept as the literal target ID. A
// non-empty map that lacks the pointer indicates an inconsistent file.
func (m DEMap) Translate(dePointer int) (ObjectID, error) {
	if dePointer == 0 {
		return NilID, nil
	}
	if len(m) == 0 {
		return ObjectID(dePointer), nil
	}
	id, ok := m[dePointer]
	if !ok {
		return NilID, fmt.Errorf("%w: DE pointer %d not present in directory", ErrReference, dePointer)
	}
	return id, nil
}
