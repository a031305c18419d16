package entity

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/goiges/pkg/nurbs"
	"github.com/chazu/goiges/pkg/param"
)

// weightTolerance decides when a rational denominator counts as zero
// and when two weights of a polynomial-form spline count as equal.
const weightTolerance = 1e-12

// RationalBSplineCurve is the type 126 entity: a NURBS curve defined by
// degree, knot vector, weights, control points and a parameter range.
type RationalBSplineCurve struct {
	Core

	Degree  int
	Planar  bool
	Closed  bool
	// Polynomial marks the curve as non-rational: all weights equal.
	Polynomial bool
	Periodic   bool

	Knots   []float64
	Weights []float64
	Points  []v3.Vec
	Range   [2]float64

	// Normal is the unit normal of the curve's plane; meaningful only
	// when HasNormal is set, which in turn requires Planar.
	Normal    v3.Vec
	HasNormal bool
}

var _ CurveEvaluator = (*RationalBSplineCurve)(nil)

func init() {
	Register(TypeRationalBSplineCurve, func(de *RawEntityDE, pd *RawEntityPD, de2id DEMap) (Entity, error) {
		return NewRationalBSplineCurve(de, pd, de2id)
	})
}

// NewRationalBSplineCurve constructs a type 126 entity from its raw
// record pair.
func NewRationalBSplineCurve(de *RawEntityDE, pd *RawEntityPD, de2id DEMap) (*RationalBSplineCurve, error) {
	c := &RationalBSplineCurve{}
	if err := c.init(TypeRationalBSplineCurve, de, de2id); err != nil {
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

// NewCurve programmatically constructs a curve. It synthesizes the
// minimal parameter vector and feeds it through the same parsing path
// as file construction, so the two routes cannot diverge.
func NewCurve(degree int, knots, weights []float64, points []v3.Vec, rng [2]float64) (*RationalBSplineCurve, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: curve needs at least one control point", ErrFormat)
	}
	k := len(points) - 1
	params := make(param.Vector, 0, 6+len(knots)+len(weights)+3*len(points)+5)
	params = append(params,
		param.Integer(int64(k)), param.Integer(int64(degree)),
		param.Integer(0), param.Integer(0), param.Integer(0), param.Integer(0))
	for _, v := range knots {
		params = append(params, param.Real(v))
	}
	for _, w := range weights {
		params = append(params, param.Real(w))
	}
	for _, p := range points {
		params = append(params, param.Real(p.X), param.Real(p.Y), param.Real(p.Z))
	}
	params = append(params, param.Real(rng[0]), param.Real(rng[1]),
		param.Real(0), param.Real(0), param.Real(0))

	c := &RationalBSplineCurve{}
	if err := c.init(TypeRationalBSplineCurve, nil, nil); err != nil {
		return nil, err
	}
	if _, err := c.SetMainParameters(params, nil); err != nil {
		return nil, err
	}
	return c, nil
}

// SetMainParameters reads, in strict order: the upper control-point
// index K, degree M, four property flags, K+M+2 knots, K+1 weights,
// K+1 control points of 3 coordinates each, the 2-value parameter
// range, and the 3-value plane normal (all zero means absent).
func (c *RationalBSplineCurve) SetMainParameters(params param.Vector, de2id DEMap) (int, error) {
	k64, err := params.Int(0)
	if err != nil {
		return 0, err
	}
	m64, err := params.Int(1)
	if err != nil {
		return 0, err
	}
	k, m := int(k64), int(m64)
	if k < 0 || m < 0 {
		return 0, fmt.Errorf("%w: curve declares K=%d, M=%d", ErrFormat, k, m)
	}

	nKnots := k + m + 2
	nPoints := k + 1
	expected := 6 + nKnots + nPoints + 3*nPoints + 2 + 3
	if len(params) < expected {
		return 0, fmt.Errorf("%w: curve with K=%d, M=%d expects %d parameters, record has %d",
			ErrFormat, k, m, expected, len(params))
	}

	c.Degree = m
	if c.Planar, err = params.Logical(2); err != nil {
		return 0, err
	}
	if c.Closed, err = params.Logical(3); err != nil {
		return 0, err
	}
	if c.Polynomial, err = params.Logical(4); err != nil {
		return 0, err
	}
	if c.Periodic, err = params.Logical(5); err != nil {
		return 0, err
	}

	idx := 6
	if c.Knots, err = params.Reals(idx, nKnots); err != nil {
		return 0, err
	}
	idx += nKnots
	if c.Weights, err = params.Reals(idx, nPoints); err != nil {
		return 0, err
	}
	idx += nPoints
	c.Points = make([]v3.Vec, nPoints)
	for i := range c.Points {
		xyz, err := params.Reals(idx, 3)
		if err != nil {
			return 0, err
		}
		c.Points[i] = v3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}
		idx += 3
	}
	rng, err := params.Reals(idx, 2)
	if err != nil {
		return 0, err
	}
	c.Range = [2]float64{rng[0], rng[1]}
	idx += 2
	normal, err := params.Reals(idx, 3)
	if err != nil {
		return 0, err
	}
	idx += 3
	c.Normal = v3.Vec{X: normal[0], Y: normal[1], Z: normal[2]}
	c.HasNormal = normal[0] != 0 || normal[1] != 0 || normal[2] != 0
	if c.HasNormal {
		c.Planar = true
	}

	c.rememberOriginal(params[:idx])
	return idx, nil
}

// MainParameters emits the fields in parse order.
func (c *RationalBSplineCurve) MainParameters() param.Vector {
	out := make(param.Vector, 0, 6+len(c.Knots)+4*len(c.Points)+5)
	out = append(out,
		param.Integer(int64(len(c.Points)-1)), param.Integer(int64(c.Degree)),
		flagParam(c.Planar), flagParam(c.Closed), flagParam(c.Polynomial), flagParam(c.Periodic))
	for _, v := range c.Knots {
		out = append(out, param.Real(v))
	}
	for _, w := range c.Weights {
		out = append(out, param.Real(w))
	}
	for _, p := range c.Points {
		out = append(out, param.Real(p.X), param.Real(p.Y), param.Real(p.Z))
	}
	out = append(out, param.Real(c.Range[0]), param.Real(c.Range[1]))
	if c.HasNormal {
		out = append(out, param.Real(c.Normal.X), param.Real(c.Normal.Y), param.Real(c.Normal.Z))
	} else {
		out = append(out, param.Real(0), param.Real(0), param.Real(0))
	}
	return c.applyOriginalFormats(out)
}

func flagParam(b bool) param.Parameter {
	if b {
		return param.Integer(1)
	}
	return param.Integer(0)
}

// ParameterRange returns the curve's parameter domain.
func (c *RationalBSplineCurve) ParameterRange() [2]float64 { return c.Range }

// Point evaluates the curve at t.
func (c *RationalBSplineCurve) Point(t float64) (v3.Vec, bool) {
	d, ok := c.Derivatives(t, 0)
	if !ok {
		return v3.Vec{}, false
	}
	return d[0], true
}

// Derivatives evaluates the curve point and its derivatives up to
// order n at t. It returns false when t is out of range or the point
// is degenerate (the weighted denominator vanishes).
//
// The rational derivatives follow the quotient-rule recurrence
//
//	C⁽ᵈ⁾ = ( A⁽ᵈ⁾ − Σₖ C(d,k)·w⁽ᵈ⁻ᵏ⁾·C⁽ᵏ⁾ ) / w⁽⁰⁾,  k = 0..d-1
//
// evaluated in increasing d so every lower order is already known.
func (c *RationalBSplineCurve) Derivatives(t float64, n int) ([]v3.Vec, bool) {
	b, ok := nurbs.Basis(t, n, c.Degree, c.Knots, c.Range)
	if !ok {
		return nil, false
	}

	// Weighted numerators A⁽ᵈ⁾ and denominators w⁽ᵈ⁾ over the
	// degree+1 basis functions active at t's knot span.
	numer := make([]v3.Vec, n+1)
	denom := make([]float64, n+1)
	for i := 0; i <= c.Degree; i++ {
		idx := b.Span - c.Degree + i
		w := c.Weights[idx]
		p := c.Points[idx]
		for d := 0; d <= n; d++ {
			bd := b.Values[i]
			if d > 0 {
				bd = b.Derivatives[d-1][i]
			}
			numer[d] = numer[d].Add(p.MulScalar(w * bd))
			denom[d] += w * bd
		}
	}
	if math.Abs(denom[0]) < weightTolerance {
		return nil, false
	}

	out := make([]v3.Vec, n+1)
	for d := 0; d <= n; d++ {
		v := numer[d]
		for k := 0; k < d; k++ {
			bin, err := nurbs.Binomial(d, k)
			if err != nil {
				return nil, false
			}
			v = v.Sub(out[k].MulScalar(float64(bin) * denom[d-k]))
		}
		out[d] = v.DivScalar(denom[0])
	}
	return out, true
}

// BoundingBox returns the axis-aligned box of the control-point hull, a
// safe superset of the curve, which lies in its control polygon's
// convex hull.
func (c *RationalBSplineCurve) BoundingBox() sdf.Box3 {
	if len(c.Points) == 0 {
		return sdf.Box3{}
	}
	box := sdf.Box3{Min: c.Points[0], Max: c.Points[0]}
	for _, p := range c.Points[1:] {
		box.Min = box.Min.Min(p)
		box.Max = box.Max.Max(p)
	}
	return box
}

// UnresolvedReferences lists outstanding shared references.
func (c *RationalBSplineCurve) UnresolvedReferences() []ObjectID { return c.coreUnresolved() }

// OfferResolution resolves shared references only; the curve's own
// parameters carry no pointers.
func (c *RationalBSplineCurve) OfferResolution(candidate Entity) bool {
	return c.offerCore(candidate)
}

// ChildIDs lists shared reference targets.
func (c *RationalBSplineCurve) ChildIDs() []ObjectID { return c.coreChildIDs() }

// Child returns a resolved shared reference by ID.
func (c *RationalBSplineCurve) Child(id ObjectID) Entity { return c.coreChild(id) }

// Validate checks every field-level invariant, aggregating all
// failures rather than stopping at the first.
func (c *RationalBSplineCurve) Validate() *ValidationResult {
	res := &ValidationResult{}
	id, typ := c.id, c.typ

	if c.Degree < 1 {
		res.Addf("DEGREE", id, typ, "degree %d, want at least 1", c.Degree)
	}
	if len(c.Points) == 0 {
		res.Addf("POINT_COUNT", id, typ, "curve has no control points")
	}
	if want := len(c.Points) + c.Degree + 1; len(c.Knots) != want {
		res.Addf("KNOT_COUNT", id, typ, "%d knots, want %d for %d control points of degree %d",
			len(c.Knots), want, len(c.Points), c.Degree)
	}
	validateKnotOrder(res, id, typ, "", c.Knots)
	if len(c.Weights) != len(c.Points) {
		res.Addf("WEIGHT_COUNT", id, typ, "%d weights, want %d", len(c.Weights), len(c.Points))
	}
	validateWeights(res, id, typ, "", c.Weights, c.Polynomial)

	if c.Range[0] >= c.Range[1] {
		res.Addf("RANGE", id, typ, "parameter range [%g, %g] is not increasing", c.Range[0], c.Range[1])
	} else if len(c.Knots) == len(c.Points)+c.Degree+1 && c.Degree >= 1 {
		lo, hi := c.Knots[c.Degree], c.Knots[len(c.Knots)-c.Degree-1]
		if c.Range[0] < lo || c.Range[1] > hi {
			res.Addf("RANGE", id, typ, "parameter range [%g, %g] outside knot domain [%g, %g]",
				c.Range[0], c.Range[1], lo, hi)
		}
	}

	if c.Planar && !c.HasNormal {
		res.Addf("NORMAL_MISSING", id, typ, "planar curve carries no plane normal")
	}

	c.validateCore(res)
	return res
}

// validateKnotOrder checks a knot vector for non-decreasing order.
// axis qualifies the message for surfaces ("u ", "v ").
func validateKnotOrder(res *ValidationResult, id ObjectID, typ EntityType, axis string, knots []float64) {
	for i := 1; i < len(knots); i++ {
		if knots[i] < knots[i-1] {
			res.Addf("KNOT_ORDER", id, typ, "%sknot %d (%g) less than knot %d (%g)",
				axis, i, knots[i], i-1, knots[i-1])
			return
		}
	}
}

// validateWeights checks positivity, and mutual equality when the
// spline declares the polynomial property.
func validateWeights(res *ValidationResult, id ObjectID, typ EntityType, axis string, weights []float64, polynomial bool) {
	for i, w := range weights {
		if w <= 0 {
			res.Addf("WEIGHT_SIGN", id, typ, "%sweight %d is %g, want positive", axis, i, w)
		}
	}
	if polynomial && len(weights) > 1 {
		for i := 1; i < len(weights); i++ {
			if math.Abs(weights[i]-weights[0]) > weightTolerance {
				res.Addf("WEIGHT_UNIFORM", id, typ,
					"%spolynomial form requires equal weights; weight %d is %g, weight 0 is %g",
					axis, i, weights[i], weights[0])
				return
			}
		}
	}
}
