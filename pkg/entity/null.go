package entity

import "github.com/chazu/goiges/pkg/param"

// Null is the type 0 entity: a placeholder whose parameter data is
// ignored. Files use it to void entries without renumbering sections.
type Null struct {
	Core
}

func init() {
	Register(TypeNull, func(de *RawEntityDE, pd *RawEntityPD, de2id DEMap) (Entity, error) {
		return NewNull(de, pd, de2id)
	})
}

// NewNull constructs a Null entity from its raw record pair.
func NewNull(de *RawEntityDE, pd *RawEntityPD, de2id DEMap) (*Null, error) {
	n := &Null{}
	if err := n.init(TypeNull, de, de2id); err != nil {
		return nil, err
	}
	if pd != nil {
		consumed, err := n.SetMainParameters(pd.Data, de2id)
		if err != nil {
			return nil, err
		}
		if err := n.parseTail(pd.Data[consumed:], de2id); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// SetMainParameters consumes nothing: the Null entity has no fields.
func (n *Null) SetMainParameters(params param.Vector, de2id DEMap) (int, error) {
	return 0, nil
}

// MainParameters emits the empty vector.
func (n *Null) MainParameters() param.Vector { return nil }

// UnresolvedReferences lists outstanding shared references.
func (n *Null) UnresolvedReferences() []ObjectID { return n.coreUnresolved() }

// OfferResolution resolves shared references only.
func (n *Null) OfferResolution(candidate Entity) bool { return n.offerCore(candidate) }

// ChildIDs lists shared reference targets.
func (n *Null) ChildIDs() []ObjectID { return n.coreChildIDs() }

// Child returns a resolved shared reference by ID.
func (n *Null) Child(id ObjectID) Entity { return n.coreChild(id) }

// Validate always passes for the entity's own fields.
func (n *Null) Validate() *ValidationResult {
	res := &ValidationResult{}
	n.validateCore(res)
	return res
}
