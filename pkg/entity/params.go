package entity

import (
	"fmt"

	"github.com/chazu/goiges/pkg/param"
)

// coreParameterCount computes how many leading tokens of a PD record
// are the entity's own parameters. The arity of most types depends on
// earlier fields (degree and control-point counts), so the data itself
// is consulted.
func coreParameterCount(typ EntityType, data param.Vector) (int, error) {
	switch typ {
	case TypeNull:
		return 0, nil

	case TypeTransformationMatrix:
		return 12, nil

	case TypeCompositeCurve:
		n, err := data.Int(0)
		if err != nil {
			return 0, err
		}
		return 1 + int(n), nil

	case TypeRationalBSplineCurve:
		k, err := data.Int(0)
		if err != nil {
			return 0, err
		}
		m, err := data.Int(1)
		if err != nil {
			return 0, err
		}
		// K, M, 4 flags, K+M+2 knots, K+1 weights, 3(K+1) points,
		// 2 range bounds, 3 normal components.
		return int(6 + (k + m + 2) + 4*(k+1) + 2 + 3), nil

	case TypeRationalBSplineSurface:
		k1, err := data.Int(0)
		if err != nil {
			return 0, err
		}
		k2, err := data.Int(1)
		if err != nil {
			return 0, err
		}
		m1, err := data.Int(2)
		if err != nil {
			return 0, err
		}
		m2, err := data.Int(3)
		if err != nil {
			return 0, err
		}
		// K1, K2, M1, M2, 5 flags, both knot vectors, weights and
		// points over the full control net, 4 range bounds.
		net := (k1 + 1) * (k2 + 1)
		return int(9 + (k1 + m1 + 2) + (k2 + m2 + 2) + 4*net + 4), nil
	}
	return 0, fmt.Errorf("%w: parameter count for %s", ErrNotImplemented, typ)
}

// ParameterCounts splits a PD data vector into the entity's own
// parameters and the two self-describing trailing pointer blocks: the
// associativity/text block (count token NA followed by NA pointers) and
// the property/attribute block (NV followed by NV pointers). The
// returned counts are token counts per region, including the count
// tokens, and sum to len(data).
func ParameterCounts(typ EntityType, data param.Vector) (core, assoc, prop int, err error) {
	core, err = coreParameterCount(typ, data)
	if err != nil {
		return 0, 0, 0, err
	}
	if core > len(data) {
		return 0, 0, 0, fmt.Errorf("%w: %s declares %d parameters, record has %d",
			ErrFormat, typ, core, len(data))
	}

	idx := core
	if idx < len(data) {
		na, err := data.Int(idx)
		if err != nil {
			return 0, 0, 0, err
		}
		if na < 0 || idx+1+int(na) > len(data) {
			return 0, 0, 0, fmt.Errorf("%w: associativity block declares %d pointers past end of record",
				ErrFormat, na)
		}
		assoc = 1 + int(na)
		idx += assoc
	}
	if idx < len(data) {
		nv, err := data.Int(idx)
		if err != nil {
			return 0, 0, 0, err
		}
		if nv < 0 || idx+1+int(nv) > len(data) {
			return 0, 0, 0, fmt.Errorf("%w: property block declares %d pointers past end of record",
				ErrFormat, nv)
		}
		prop = 1 + int(nv)
		idx += prop
	}
	if idx != len(data) {
		return 0, 0, 0, fmt.Errorf("%w: %d trailing tokens after property block", ErrFormat, len(data)-idx)
	}
	return core, assoc, prop, nil
}

// ChildDEPointers returns the DE pointers of entities the record
// physically and/or logically owns, according to its subordination
// switch. Extraction is type-specific; types without an implementation
// fail loudly so that missing children are never silently masked.
func ChildDEPointers(pd *RawEntityPD, sw Subordination) ([]int, error) {
	switch pd.Type {
	case TypeNull:
		return nil, nil

	case TypeCompositeCurve:
		if sw != PhysicallyDependent && sw != FullyDependent {
			return nil, nil
		}
		n, err := pd.Data.Int(0)
		if err != nil {
			return nil, err
		}
		if 1+int(n) > len(pd.Data) {
			return nil, fmt.Errorf("%w: composite curve declares %d constituents, record has %d tokens",
				ErrFormat, n, len(pd.Data))
		}
		ptrs := make([]int, 0, n)
		for i := 0; i < int(n); i++ {
			p, err := pd.Data.PointerAt(1 + i)
			if err != nil {
				return nil, err
			}
			ptrs = append(ptrs, p)
		}
		return ptrs, nil
	}
	return nil, fmt.Errorf("%w: child DE pointers for %s", ErrNotImplemented, pd.Type)
}
