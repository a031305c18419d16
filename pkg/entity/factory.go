package entity

import "fmt"

// Constructor builds one concrete entity from its raw record pair. The
// signature is uniform across all entity types so that a type-dispatch
// table can be built generically.
type Constructor func(de *RawEntityDE, pd *RawEntityPD, de2id DEMap) (Entity, error)

var registry = map[EntityType]Constructor{}

// Register installs the constructor for an entity type. Concrete types
// register themselves from init.
func Register(typ EntityType, c Constructor) {
	registry[typ] = c
}

// Supported reports whether a constructor is registered for typ.
func Supported(typ EntityType) bool {
	_, ok := registry[typ]
	return ok
}

// New dispatches construction to the registered constructor for the
// record's type.
func New(de *RawEntityDE, pd *RawEntityPD, de2id DEMap) (Entity, error) {
	c, ok := registry[pd.Type]
	if !ok {
		return nil, fmt.Errorf("%w: construction of %s", ErrNotImplemented, pd.Type)
	}
	return c(de, pd, de2id)
}
