package entity

import (
	"fmt"

	"github.com/chazu/goiges/pkg/param"
)

// CompositeCurve is the type 102 entity: an ordered list of constituent
// curve entities, referenced by DE pointer and linked during document
// resolution. It is the entity that exercises deferred resolution
// hardest, since constituents routinely appear later in the file.
type CompositeCurve struct {
	Core

	constituents []*Ref[CurveEvaluator]
}

func init() {
	Register(TypeCompositeCurve, func(de *RawEntityDE, pd *RawEntityPD, de2id DEMap) (Entity, error) {
		return NewCompositeCurve(de, pd, de2id)
	})
}

// NewCompositeCurve constructs a type 102 entity from its raw record pair.
func NewCompositeCurve(de *RawEntityDE, pd *RawEntityPD, de2id DEMap) (*CompositeCurve, error) {
	c := &CompositeCurve{}
	if err := c.init(TypeCompositeCurve, de, de2id); err != nil {
		return nil, err
	}
	if pd != nil {
		consumed, err := c.SetMainParameters(pd.Data, de2id)
		if err != nil {
			return nil, err
		}
		if err := c.parseTail(pd.Data[consumed:], de2id); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// NewCompositeCurveOf programmatically constructs a composite over
// already-linked constituent curves.
func NewCompositeCurveOf(curves ...CurveEvaluator) *CompositeCurve {
	c := &CompositeCurve{}
	_ = c.init(TypeCompositeCurve, nil, nil)
	for _, cv := range curves {
		ref := &Ref[CurveEvaluator]{}
		ref.Overwrite(cv)
		c.constituents = append(c.constituents, ref)
	}
	return c
}

// SetMainParameters reads the constituent count N followed by N DE
// pointers.
func (c *CompositeCurve) SetMainParameters(params param.Vector, de2id DEMap) (int, error) {
	n, err := params.Int(0)
	if err != nil {
		return 0, err
	}
	if n < 0 || 1+int(n) > len(params) {
		return 0, fmt.Errorf("%w: composite curve declares %d constituents, record has %d tokens",
			ErrFormat, n, len(params))
	}
	c.constituents = make([]*Ref[CurveEvaluator], 0, n)
	for i := 0; i < int(n); i++ {
		ptr, err := params.PointerAt(1 + i)
		if err != nil {
			return 0, err
		}
		id, err := de2id.Translate(ptr)
		if err != nil {
			return 0, err
		}
		ref := &Ref[CurveEvaluator]{}
		ref.SetTarget(id)
		c.constituents = append(c.constituents, ref)
	}
	consumed := 1 + int(n)
	c.rememberOriginal(params[:consumed])
	return consumed, nil
}

// MainParameters emits N followed by the constituent target IDs. The
// writer rewrites these as DE pointers during sequence renumbering.
func (c *CompositeCurve) MainParameters() param.Vector {
	out := make(param.Vector, 0, 1+len(c.constituents))
	out = append(out, param.Integer(int64(len(c.constituents))))
	for _, ref := range c.constituents {
		out = append(out, param.Pointer(int64(ref.TargetID())))
	}
	return c.applyOriginalFormats(out)
}

// Constituents returns the resolved constituent curves in order.
// Unresolved slots are skipped.
func (c *CompositeCurve) Constituents() []CurveEvaluator {
	out := make([]CurveEvaluator, 0, len(c.constituents))
	for _, ref := range c.constituents {
		if cv, ok := ref.Get(); ok {
			out = append(out, cv)
		}
	}
	return out
}

// UnresolvedReferences lists constituent targets not yet linked, plus
// outstanding shared references.
func (c *CompositeCurve) UnresolvedReferences() []ObjectID {
	ids := c.coreUnresolved()
	for _, ref := range c.constituents {
		if ref.NeedsResolution() {
			ids = append(ids, ref.TargetID())
		}
	}
	return ids
}

// OfferResolution checks the candidate against every unresolved
// container and resolves at most one.
func (c *CompositeCurve) OfferResolution(candidate Entity) bool {
	if c.offerCore(candidate) {
		return true
	}
	for _, ref := range c.constituents {
		if ref.Offer(candidate) {
			return true
		}
	}
	return false
}

// ChildIDs lists constituent targets and shared reference targets.
func (c *CompositeCurve) ChildIDs() []ObjectID {
	ids := c.coreChildIDs()
	for _, ref := range c.constituents {
		if ref.TargetID() != NilID {
			ids = append(ids, ref.TargetID())
		}
	}
	return ids
}

// Child returns a resolved child by ID.
func (c *CompositeCurve) Child(id ObjectID) Entity {
	if e := c.coreChild(id); e != nil {
		return e
	}
	for _, ref := range c.constituents {
		if cv, ok := ref.Get(); ok && cv.ID() == id {
			if e, ok := cv.(Entity); ok {
				return e
			}
		}
	}
	return nil
}

// Validate checks the constituent list and recursively validates every
// resolved constituent.
func (c *CompositeCurve) Validate() *ValidationResult {
	res := &ValidationResult{}

	if len(c.constituents) == 0 {
		res.Addf("EMPTY_COMPOSITE", c.id, c.typ, "composite curve has no constituents")
	}
	for i, ref := range c.constituents {
		if ref.NeedsResolution() {
			res.Addf("UNRESOLVED_REFERENCE", c.id, c.typ,
				"constituent %d targets unlinked entity %d", i, ref.TargetID())
			continue
		}
		if cv, ok := ref.Get(); ok {
			if child, ok := cv.(Entity); ok {
				res.Merge(child.Validate())
			}
		}
	}

	c.validateCore(res)
	return res
}
