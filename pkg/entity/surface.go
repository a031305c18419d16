package entity

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/goiges/pkg/nurbs"
	"github.com/chazu/goiges/pkg/param"
)

// RationalBSplineSurface is the type 128 entity: a NURBS surface, the
// bivariate extension of the type 126 curve. Control points and
// weights form a (K1+1)x(K2+1) net indexed [u][v].
type RationalBSplineSurface struct {
	Core

	DegreeU int
	DegreeV int

	ClosedU    bool
	ClosedV    bool
	Polynomial bool
	PeriodicU  bool
	PeriodicV  bool

	UKnots  []float64
	VKnots  []float64
	Weights [][]float64
	Points  [][]v3.Vec
	Range   [4]float64 // U0, U1, V0, V1
}

func init() {
	Register(TypeRationalBSplineSurface, func(de *RawEntityDE, pd *RawEntityPD, de2id DEMap) (Entity, error) {
		return NewRationalBSplineSurface(de, pd, de2id)
	})
}

// NewRationalBSplineSurface constructs a type 128 entity from its raw
// record pair.
func NewRationalBSplineSurface(de *RawEntityDE, pd *RawEntityPD, de2id DEMap) (*RationalBSplineSurface, error) {
	s := &RationalBSplineSurface{}
	if err := s.init(TypeRationalBSplineSurface, de, de2id); err != nil {
		return nil, err
	}
	if pd != nil {
		consumed, err := s.SetMainParameters(pd.Data, de2id)
		if err != nil {
			return nil, err
		}
		if err := s.parseTail(pd.Data[consumed:], de2id); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// NewSurface programmatically constructs a surface from a control net
// indexed [u][v]. It synthesizes the minimal parameter vector and runs
// it through the same parsing path as file construction.
func NewSurface(degreeU, degreeV int, uKnots, vKnots []float64, weights [][]float64, points [][]v3.Vec, rng [4]float64) (*RationalBSplineSurface, error) {
	if len(points) == 0 || len(points[0]) == 0 {
		return nil, fmt.Errorf("%w: surface needs a non-empty control net", ErrFormat)
	}
	k1, k2 := len(points)-1, len(points[0])-1
	params := make(param.Vector, 0, 9+len(uKnots)+len(vKnots)+4*(k1+1)*(k2+1)+4)
	params = append(params,
		param.Integer(int64(k1)), param.Integer(int64(k2)),
		param.Integer(int64(degreeU)), param.Integer(int64(degreeV)),
		param.Integer(0), param.Integer(0), param.Integer(0), param.Integer(0), param.Integer(0))
	for _, v := range uKnots {
		params = append(params, param.Real(v))
	}
	for _, v := range vKnots {
		params = append(params, param.Real(v))
	}
	for q := 0; q <= k2; q++ {
		for p := 0; p <= k1; p++ {
			params = append(params, param.Real(weights[p][q]))
		}
	}
	for q := 0; q <= k2; q++ {
		for p := 0; p <= k1; p++ {
			pt := points[p][q]
			params = append(params, param.Real(pt.X), param.Real(pt.Y), param.Real(pt.Z))
		}
	}
	params = append(params, param.Real(rng[0]), param.Real(rng[1]), param.Real(rng[2]), param.Real(rng[3]))

	s := &RationalBSplineSurface{}
	if err := s.init(TypeRationalBSplineSurface, nil, nil); err != nil {
		return nil, err
	}
	if _, err := s.SetMainParameters(params, nil); err != nil {
		return nil, err
	}
	return s, nil
}

// SetMainParameters reads, in strict order: upper indices K1 and K2,
// degrees M1 and M2, five property flags, the u and v knot vectors,
// the weight net, the control-point net (both row-major with u varying
// fastest), and the 4-value parameter range U0, U1, V0, V1.
func (s *RationalBSplineSurface) SetMainParameters(params param.Vector, de2id DEMap) (int, error) {
	var ints [4]int
	for i := range ints {
		n, err := params.Int(i)
		if err != nil {
			return 0, err
		}
		ints[i] = int(n)
	}
	k1, k2, m1, m2 := ints[0], ints[1], ints[2], ints[3]
	if k1 < 0 || k2 < 0 || m1 < 0 || m2 < 0 {
		return 0, fmt.Errorf("%w: surface declares K1=%d, K2=%d, M1=%d, M2=%d", ErrFormat, k1, k2, m1, m2)
	}

	nu, nv := k1+1, k2+1
	nUKnots := k1 + m1 + 2
	nVKnots := k2 + m2 + 2
	net := nu * nv
	expected := 9 + nUKnots + nVKnots + 4*net + 4
	if len(params) < expected {
		return 0, fmt.Errorf("%w: surface with K1=%d, K2=%d, M1=%d, M2=%d expects %d parameters, record has %d",
			ErrFormat, k1, k2, m1, m2, expected, len(params))
	}

	s.DegreeU, s.DegreeV = m1, m2
	var err error
	if s.ClosedU, err = params.Logical(4); err != nil {
		return 0, err
	}
	if s.ClosedV, err = params.Logical(5); err != nil {
		return 0, err
	}
	if s.Polynomial, err = params.Logical(6); err != nil {
		return 0, err
	}
	if s.PeriodicU, err = params.Logical(7); err != nil {
		return 0, err
	}
	if s.PeriodicV, err = params.Logical(8); err != nil {
		return 0, err
	}

	idx := 9
	if s.UKnots, err = params.Reals(idx, nUKnots); err != nil {
		return 0, err
	}
	idx += nUKnots
	if s.VKnots, err = params.Reals(idx, nVKnots); err != nil {
		return 0, err
	}
	idx += nVKnots

	s.Weights = make([][]float64, nu)
	for p := range s.Weights {
		s.Weights[p] = make([]float64, nv)
	}
	for q := 0; q < nv; q++ {
		for p := 0; p < nu; p++ {
			w, err := params.Real(idx)
			if err != nil {
				return 0, err
			}
			s.Weights[p][q] = w
			idx++
		}
	}

	s.Points = make([][]v3.Vec, nu)
	for p := range s.Points {
		s.Points[p] = make([]v3.Vec, nv)
	}
	for q := 0; q < nv; q++ {
		for p := 0; p < nu; p++ {
			xyz, err := params.Reals(idx, 3)
			if err != nil {
				return 0, err
			}
			s.Points[p][q] = v3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}
			idx += 3
		}
	}

	rng, err := params.Reals(idx, 4)
	if err != nil {
		return 0, err
	}
	copy(s.Range[:], rng)
	idx += 4

	s.rememberOriginal(params[:idx])
	return idx, nil
}

// MainParameters emits the fields in parse order.
func (s *RationalBSplineSurface) MainParameters() param.Vector {
	nu, nv := len(s.Points), 0
	if nu > 0 {
		nv = len(s.Points[0])
	}
	out := make(param.Vector, 0, 9+len(s.UKnots)+len(s.VKnots)+4*nu*nv+4)
	out = append(out,
		param.Integer(int64(nu-1)), param.Integer(int64(nv-1)),
		param.Integer(int64(s.DegreeU)), param.Integer(int64(s.DegreeV)),
		flagParam(s.ClosedU), flagParam(s.ClosedV), flagParam(s.Polynomial),
		flagParam(s.PeriodicU), flagParam(s.PeriodicV))
	for _, v := range s.UKnots {
		out = append(out, param.Real(v))
	}
	for _, v := range s.VKnots {
		out = append(out, param.Real(v))
	}
	for q := 0; q < nv; q++ {
		for p := 0; p < nu; p++ {
			out = append(out, param.Real(s.Weights[p][q]))
		}
	}
	for q := 0; q < nv; q++ {
		for p := 0; p < nu; p++ {
			pt := s.Points[p][q]
			out = append(out, param.Real(pt.X), param.Real(pt.Y), param.Real(pt.Z))
		}
	}
	out = append(out, param.Real(s.Range[0]), param.Real(s.Range[1]),
		param.Real(s.Range[2]), param.Real(s.Range[3]))
	return s.applyOriginalFormats(out)
}

// ParameterRange returns the surface domain as U0, U1, V0, V1.
func (s *RationalBSplineSurface) ParameterRange() [4]float64 { return s.Range }

// SurfaceDerivatives holds one surface evaluation: partial derivatives
// S⁽ⁿᵘ,ⁿᵛ⁾ for every nu+nv <= Order.
type SurfaceDerivatives struct {
	Order int
	vecs  [][]v3.Vec
}

// At returns the partial derivative of order nu in u and nv in v.
func (d *SurfaceDerivatives) At(nu, nv int) v3.Vec {
	return d.vecs[nu][nv]
}

// Point returns the evaluated surface point S⁽⁰,⁰⁾.
func (d *SurfaceDerivatives) Point() v3.Vec { return d.vecs[0][0] }

// Point evaluates the surface at (u, v).
func (s *RationalBSplineSurface) Point(u, v float64) (v3.Vec, bool) {
	d, ok := s.Derivatives(u, v, 0)
	if !ok {
		return v3.Vec{}, false
	}
	return d.Point(), true
}

// Derivatives evaluates the surface point and all partial derivatives
// with nu+nv <= order at (u, v). It returns false when (u, v) is out
// of range or the weighted denominator vanishes.
func (s *RationalBSplineSurface) Derivatives(u, v float64, order int) (*SurfaceDerivatives, bool) {
	bu, ok := nurbs.Basis(u, order, s.DegreeU, s.UKnots, [2]float64{s.Range[0], s.Range[1]})
	if !ok {
		return nil, false
	}
	bv, ok := nurbs.Basis(v, order, s.DegreeV, s.VKnots, [2]float64{s.Range[2], s.Range[3]})
	if !ok {
		return nil, false
	}

	grid := func() [][]v3.Vec {
		g := make([][]v3.Vec, order+1)
		for i := range g {
			g[i] = make([]v3.Vec, order+1)
		}
		return g
	}
	numer := grid()
	denom := make([][]float64, order+1)
	for i := range denom {
		denom[i] = make([]float64, order+1)
	}

	basisAt := func(b *nurbs.BasisResult, d, i int) float64 {
		if d == 0 {
			return b.Values[i]
		}
		return b.Derivatives[d-1][i]
	}

	// Accumulate A⁽ⁿᵘ,ⁿᵛ⁾ and w⁽ⁿᵘ,ⁿᵛ⁾ over the active
	// (degreeU+1)x(degreeV+1) control window.
	for i := 0; i <= s.DegreeU; i++ {
		p := bu.Span - s.DegreeU + i
		for j := 0; j <= s.DegreeV; j++ {
			q := bv.Span - s.DegreeV + j
			w := s.Weights[p][q]
			pt := s.Points[p][q]
			for du := 0; du <= order; du++ {
				fu := basisAt(bu, du, i)
				for dv := 0; dv <= order-du; dv++ {
					f := w * fu * basisAt(bv, dv, j)
					numer[du][dv] = numer[du][dv].Add(pt.MulScalar(f))
					denom[du][dv] += f
				}
			}
		}
	}
	if math.Abs(denom[0][0]) < weightTolerance {
		return nil, false
	}

	// Bivariate quotient-rule recurrence, in increasing total order so
	// every lower-order S is already known.
	out := &SurfaceDerivatives{Order: order, vecs: grid()}
	for k := 0; k <= order; k++ {
		for du := 0; du <= k; du++ {
			dv := k - du
			val := numer[du][dv]
			for i := 0; i <= du; i++ {
				ci, err := nurbs.Binomial(du, i)
				if err != nil {
					return nil, false
				}
				for j := 0; j <= dv; j++ {
					if i == du && j == dv {
						continue
					}
					cj, err := nurbs.Binomial(dv, j)
					if err != nil {
						return nil, false
					}
					val = val.Sub(out.vecs[i][j].MulScalar(float64(ci*cj) * denom[du-i][dv-j]))
				}
			}
			out.vecs[du][dv] = val.DivScalar(denom[0][0])
		}
	}
	return out, true
}

// BoundingBox returns the axis-aligned box of the control net, a safe
// superset of the surface by the convex-hull property.
func (s *RationalBSplineSurface) BoundingBox() sdf.Box3 {
	if len(s.Points) == 0 || len(s.Points[0]) == 0 {
		return sdf.Box3{}
	}
	box := sdf.Box3{Min: s.Points[0][0], Max: s.Points[0][0]}
	for _, row := range s.Points {
		for _, p := range row {
			box.Min = box.Min.Min(p)
			box.Max = box.Max.Max(p)
		}
	}
	return box
}

// UnresolvedReferences lists outstanding shared references.
func (s *RationalBSplineSurface) UnresolvedReferences() []ObjectID { return s.coreUnresolved() }

// OfferResolution resolves shared references only; the surface's own
// parameters carry no pointers.
func (s *RationalBSplineSurface) OfferResolution(candidate Entity) bool {
	return s.offerCore(candidate)
}

// ChildIDs lists shared reference targets.
func (s *RationalBSplineSurface) ChildIDs() []ObjectID { return s.coreChildIDs() }

// Child returns a resolved shared reference by ID.
func (s *RationalBSplineSurface) Child(id ObjectID) Entity { return s.coreChild(id) }

// Validate mirrors the curve rules independently per axis and checks
// the weight net, aggregating all failures.
func (s *RationalBSplineSurface) Validate() *ValidationResult {
	res := &ValidationResult{}
	id, typ := s.id, s.typ

	nu := len(s.Points)
	nv := 0
	if nu > 0 {
		nv = len(s.Points[0])
	}
	if nu == 0 || nv == 0 {
		res.Addf("POINT_COUNT", id, typ, "surface has an empty control net")
	}
	if s.DegreeU < 1 {
		res.Addf("DEGREE", id, typ, "u degree %d, want at least 1", s.DegreeU)
	}
	if s.DegreeV < 1 {
		res.Addf("DEGREE", id, typ, "v degree %d, want at least 1", s.DegreeV)
	}
	if want := nu + s.DegreeU + 1; len(s.UKnots) != want {
		res.Addf("KNOT_COUNT", id, typ, "%d u knots, want %d", len(s.UKnots), want)
	}
	if want := nv + s.DegreeV + 1; len(s.VKnots) != want {
		res.Addf("KNOT_COUNT", id, typ, "%d v knots, want %d", len(s.VKnots), want)
	}
	validateKnotOrder(res, id, typ, "u ", s.UKnots)
	validateKnotOrder(res, id, typ, "v ", s.VKnots)

	s.validateAxisRange(res, "u", s.Range[0], s.Range[1], s.DegreeU, s.UKnots)
	s.validateAxisRange(res, "v", s.Range[2], s.Range[3], s.DegreeV, s.VKnots)

	var first float64
	haveFirst := false
	uniformReported := false
	for p, row := range s.Weights {
		for q, w := range row {
			if w <= 0 {
				res.Addf("WEIGHT_SIGN", id, typ, "weight (%d, %d) is %g, want positive", p, q, w)
			}
			if !haveFirst {
				first, haveFirst = w, true
			} else if s.Polynomial && !uniformReported && math.Abs(w-first) > weightTolerance {
				res.Addf("WEIGHT_UNIFORM", id, typ,
					"polynomial form requires equal weights; weight (%d, %d) is %g, weight (0, 0) is %g",
					p, q, w, first)
				uniformReported = true
			}
		}
	}

	s.validateCore(res)
	return res
}

func (s *RationalBSplineSurface) validateAxisRange(res *ValidationResult, axis string, lo, hi float64, degree int, knots []float64) {
	if lo >= hi {
		res.Addf("RANGE", s.id, s.typ, "%s parameter range [%g, %g] is not increasing", axis, lo, hi)
		return
	}
	if degree >= 1 && len(knots) > 2*degree+1 {
		klo, khi := knots[degree], knots[len(knots)-degree-1]
		if lo < klo || hi > khi {
			res.Addf("RANGE", s.id, s.typ, "%s parameter range [%g, %g] outside knot domain [%g, %g]",
				axis, lo, hi, klo, khi)
		}
	}
}
