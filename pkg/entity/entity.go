// Package entity models IGES entities: the closed type registry, the
// raw directory-entry and parameter-data records, and the construction
// and cross-reference resolution contract every concrete entity type
// implements.
//
// Entities reference each other in a file only by integer DE pointers.
// Loading is a two-phase batch: every entity is constructed from its
// raw records first, then the owning document offers each entity to
// every other until all pointer containers are resolved. Containers
// still unresolved afterward are reported by validation, not by
// construction errors, since resolution order is not guaranteed.
package entity

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/goiges/pkg/param"
)

// Entity is the contract every concrete IGES entity type implements.
type Entity interface {
	Target

	Type() EntityType
	FormNumber() int
	DE() *RawEntityDE

	// SetMainParameters consumes a prefix of params, the entity's own
	// typed fields, and returns how many tokens it consumed. The
	// remaining tokens belong to the generic associativity/property
	// tail handled by the shared base.
	SetMainParameters(params param.Vector, de2id DEMap) (consumed int, err error)

	// MainParameters is the exact inverse of SetMainParameters for a
	// structurally valid entity: same field order, same arity rules.
	MainParameters() param.Vector

	// TailParameters re-emits the associativity/property pointer tail.
	TailParameters() param.Vector

	// UnresolvedReferences lists the targets this entity still needs.
	UnresolvedReferences() []ObjectID

	// OfferResolution presents one candidate entity. It resolves at
	// most one pointer container per call, never overwrites an
	// already-resolved container, and reports whether it resolved one.
	OfferResolution(candidate Entity) bool

	// ChildIDs and Child expose resolved references for traversal.
	ChildIDs() []ObjectID
	Child(id ObjectID) Entity

	Validate() *ValidationResult
}

// Parameters returns the full PD parameter vector of an entity: its
// main parameters followed by the associativity/property tail. This is
// the canonical re-emission entry point used by writers.
func Parameters(e Entity) param.Vector {
	return append(e.MainParameters(), e.TailParameters()...)
}

// TransformProvider is the capability of entities that can transform
// points in model space (the Transformation Matrix entity).
type TransformProvider interface {
	Target
	Apply(p v3.Vec) v3.Vec
}

// CurveEvaluator is the capability of entities that evaluate as
// parametric space curves.
type CurveEvaluator interface {
	Target
	ParameterRange() [2]float64
	Derivatives(t float64, n int) ([]v3.Vec, bool)
}

// Core carries the state shared by every entity type: identity, the DE
// record, the DE-level transformation pointer, the generic pointer
// tail, and the originally parsed parameters used for byte-faithful
// re-emission.
type Core struct {
	id  ObjectID
	typ EntityType
	de  *RawEntityDE

	transform Ref[TransformProvider]

	assocIDs []ObjectID
	propIDs  []ObjectID
	tail     param.Vector

	original param.Vector
}

// init establishes identity and decodes the shared DE fields. A nil DE
// record means programmatic construction; a minimal one is synthesized
// so the two construction routes share one code path.
func (c *Core) init(typ EntityType, de *RawEntityDE, de2id DEMap) error {
	if de == nil {
		de = &RawEntityDE{Type: typ}
	}
	c.typ = typ
	c.de = de

	// An entity whose DE pointer was pre-registered by the document
	// adopts that identity; otherwise a fresh ID is minted.
	if id, ok := de2id[de.SequenceNumber]; ok && de.SequenceNumber != 0 {
		c.id = id
	} else {
		c.id = NewID()
	}

	target, err := de2id.Translate(de.Transform)
	if err != nil {
		return err
	}
	c.transform.SetTarget(target)
	return nil
}

// ID returns the entity's ObjectID.
func (c *Core) ID() ObjectID { return c.id }

// Type returns the entity type code.
func (c *Core) Type() EntityType { return c.typ }

// FormNumber returns the DE form number.
func (c *Core) FormNumber() int { return c.de.FormNumber }

// DE returns the raw directory entry record.
func (c *Core) DE() *RawEntityDE { return c.de }

// Transform returns the resolved transformation provider, if any.
func (c *Core) Transform() (TransformProvider, bool) { return c.transform.Get() }

// SetTransform explicitly reassigns the transformation reference.
func (c *Core) SetTransform(t TransformProvider) { c.transform.Overwrite(t) }

// parseTail consumes the associativity/property pointer blocks that
// follow the main parameters.
func (c *Core) parseTail(rest param.Vector, de2id DEMap) error {
	_, assoc, prop, err := ParameterCounts(TypeNull, rest)
	if err != nil {
		return err
	}
	translate := func(start, count int) ([]ObjectID, error) {
		ids := make([]ObjectID, 0, count)
		for i := 0; i < count; i++ {
			ptr, err := rest.PointerAt(start + i)
			if err != nil {
				return nil, err
			}
			id, err := de2id.Translate(ptr)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		return ids, nil
	}
	if assoc > 0 {
		if c.assocIDs, err = translate(1, assoc-1); err != nil {
			return err
		}
	}
	if prop > 0 {
		if c.propIDs, err = translate(assoc+1, prop-1); err != nil {
			return err
		}
	}

	// Rebuild the tail from translated IDs so re-emission survives DE
	// renumbering: writers rewrite pointer-kind slots from ObjectIDs.
	if assoc > 0 || prop > 0 {
		c.tail = make(param.Vector, 0, assoc+prop)
		c.tail = append(c.tail, param.Integer(int64(len(c.assocIDs))))
		for _, id := range c.assocIDs {
			c.tail = append(c.tail, param.Pointer(int64(id)))
		}
		if prop > 0 {
			c.tail = append(c.tail, param.Integer(int64(len(c.propIDs))))
			for _, id := range c.propIDs {
				c.tail = append(c.tail, param.Pointer(int64(id)))
			}
		}
	}
	return nil
}

// TailParameters re-emits the pointer tail as parsed.
func (c *Core) TailParameters() param.Vector { return c.tail.Clone() }

// AssociatedIDs returns the associativity/text pointer tail targets.
func (c *Core) AssociatedIDs() []ObjectID { return c.assocIDs }

// PropertyIDs returns the property/attribute pointer tail targets.
func (c *Core) PropertyIDs() []ObjectID { return c.propIDs }

// rememberOriginal stores the as-parsed main parameters so that
// re-emission can preserve per-slot literal formatting.
func (c *Core) rememberOriginal(params param.Vector) {
	c.original = params.Clone()
}

// applyOriginalFormats copies original formatting onto an emitted
// vector when the arities match exactly.
func (c *Core) applyOriginalFormats(v param.Vector) param.Vector {
	v.CopyFormats(c.original)
	return v
}

// offerCore resolves the shared DE-level transformation container.
func (c *Core) offerCore(candidate Entity) bool {
	return c.transform.Offer(candidate)
}

// coreUnresolved lists the shared containers still awaiting targets.
func (c *Core) coreUnresolved() []ObjectID {
	if c.transform.NeedsResolution() {
		return []ObjectID{c.transform.TargetID()}
	}
	return nil
}

// coreChildIDs lists the shared reference targets.
func (c *Core) coreChildIDs() []ObjectID {
	if c.transform.TargetID() != NilID {
		return []ObjectID{c.transform.TargetID()}
	}
	return nil
}

// coreChild returns a shared resolved reference by ID.
func (c *Core) coreChild(id ObjectID) Entity {
	if t, ok := c.transform.Get(); ok && t.ID() == id {
		if e, ok := t.(Entity); ok {
			return e
		}
	}
	return nil
}

// validateCore reports shared-reference problems: a dangling
// transformation pointer, and any failures of the resolved child.
func (c *Core) validateCore(res *ValidationResult) {
	if c.transform.NeedsResolution() {
		res.Addf("UNRESOLVED_REFERENCE", c.id, c.typ,
			"transformation pointer targets unlinked entity %d", c.transform.TargetID())
		return
	}
	if t, ok := c.transform.Get(); ok {
		if child, ok := t.(Entity); ok {
			res.Merge(child.Validate())
		}
	}
}
