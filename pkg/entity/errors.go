package entity

import "errors"

// Error classes for construction-time failures. Conversion failures
// surface as param.ErrConversion from the parameter vector.
var (
	// ErrFormat reports a structurally malformed record: wrong token
	// count for the declared arity, a violated fixed-column layout, or
	// an illegal entity type code.
	ErrFormat = errors.New("data format error")

	// ErrReference reports a DE pointer that is absent from a supplied
	// DE map, which indicates an inconsistent file.
	ErrReference = errors.New("reference error")

	// ErrNotImplemented reports an operation that is type-specific and
	// has no implementation for the given entity type. It fails loudly
	// rather than masking missing behavior with an empty answer.
	ErrNotImplemented = errors.New("not implemented for entity type")
)
