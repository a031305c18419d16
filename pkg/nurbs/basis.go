// Package nurbs is the shared numeric engine for rational B-spline
// evaluation: B-spline basis functions and their derivatives at a
// parameter value, given a knot vector and degree.
package nurbs

// ParameterTolerance absorbs floating rounding when a query parameter
// sits on a range boundary.
const ParameterTolerance = 1e-8

// BasisResult holds one basis evaluation: the knot span index, the
// degree+1 nonzero basis values for control points span-degree..span,
// and one row of derivatives per requested order. It is scoped to a
// single evaluation call and never persisted.
type BasisResult struct {
	Span        int
	Values      []float64
	Derivatives [][]float64
}

// Basis evaluates the nonzero B-spline basis functions and their
// derivatives up to the given order at t.
//
// It returns false if t lies outside rng beyond ParameterTolerance;
// a t within tolerance of a boundary is clamped into range. Requesting
// an order greater than the degree yields all-zero rows for the orders
// beyond it, since a polynomial's derivative vanishes past its degree.
func Basis(t float64, order, degree int, knots []float64, rng [2]float64) (*BasisResult, bool) {
	if degree < 0 || len(knots) < 2*degree+2 {
		return nil, false
	}
	if t < rng[0]-ParameterTolerance || t > rng[1]+ParameterTolerance {
		return nil, false
	}
	if t < rng[0] {
		t = rng[0]
	}
	if t > rng[1] {
		t = rng[1]
	}

	span := findSpan(t, degree, knots)
	ndu := basisTable(t, degree, span, knots)

	res := &BasisResult{
		Span:   span,
		Values: make([]float64, degree+1),
	}
	for i := 0; i <= degree; i++ {
		res.Values[i] = ndu[i][degree]
	}
	if order > 0 {
		res.Derivatives = derivativeRows(order, degree, span, ndu)
	}
	return res, true
}

// findSpan locates j with t in [knots[j], knots[j+1]) by binary search.
// The domain's right endpoint maps to the last valid span; the
// half-open convention would otherwise exclude it.
func findSpan(t float64, degree int, knots []float64) int {
	n := len(knots) - degree - 2 // index of the last control point
	if t >= knots[n+1] {
		return n
	}
	if t <= knots[degree] {
		return degree
	}
	low, high := degree, n+1
	mid := (low + high) / 2
	for t < knots[mid] || t >= knots[mid+1] {
		if t < knots[mid] {
			high = mid
		} else {
			low = mid
		}
		mid = (low + high) / 2
	}
	return mid
}

// basisTable builds the full triangular table of the Cox-de Boor
// recurrence. ndu[i][j] for i<=j is the degree-j basis value of
// function span-j+i; ndu[j][r] for r<j stores the knot difference used
// by the derivative algorithm. Equal knots follow the 0/0 := 0
// convention, so no division by a zero span occurs.
func basisTable(t float64, degree, span int, knots []float64) [][]float64 {
	ndu := make([][]float64, degree+1)
	for i := range ndu {
		ndu[i] = make([]float64, degree+1)
	}
	left := make([]float64, degree+1)
	right := make([]float64, degree+1)

	ndu[0][0] = 1
	for j := 1; j <= degree; j++ {
		left[j] = t - knots[span+1-j]
		right[j] = knots[span+j] - t
		saved := 0.0
		for r := 0; r < j; r++ {
			ndu[j][r] = right[r+1] + left[j-r]
			temp := 0.0
			if ndu[j][r] != 0 {
				temp = ndu[r][j-1] / ndu[j][r]
			}
			ndu[r][j] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		ndu[j][j] = saved
	}
	return ndu
}

// derivativeRows computes all derivative orders 1..order from the
// triangular table of partial products, then rescales by falling
// factorials of the degree. This yields exact derivatives in
// O(degree²·order) without re-running the value recurrence per order.
func derivativeRows(order, degree, span int, ndu [][]float64) [][]float64 {
	ders := make([][]float64, order)
	for k := range ders {
		ders[k] = make([]float64, degree+1)
	}
	top := min(order, degree)

	var a [2][]float64
	a[0] = make([]float64, degree+1)
	a[1] = make([]float64, degree+1)

	for r := 0; r <= degree; r++ {
		s1, s2 := 0, 1
		a[0][0] = 1
		for k := 1; k <= top; k++ {
			d := 0.0
			rk := r - k
			pk := degree - k
			if r >= k {
				a[s2][0] = safeDiv(a[s1][0], ndu[pk+1][rk])
				d = a[s2][0] * ndu[rk][pk]
			}
			j1 := 1
			if rk < -1 {
				j1 = -rk
			}
			j2 := k - 1
			if r-1 > pk {
				j2 = degree - r
			}
			for j := j1; j <= j2; j++ {
				a[s2][j] = safeDiv(a[s1][j]-a[s1][j-1], ndu[pk+1][rk+j])
				d += a[s2][j] * ndu[rk+j][pk]
			}
			if r <= pk {
				a[s2][k] = safeDiv(-a[s1][k-1], ndu[pk+1][r])
				d += a[s2][k] * ndu[r][pk]
			}
			ders[k-1][r] = d
			s1, s2 = s2, s1
		}
	}

	factor := float64(degree)
	for k := 1; k <= top; k++ {
		for j := 0; j <= degree; j++ {
			ders[k-1][j] *= factor
		}
		factor *= float64(degree - k)
	}
	return ders
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
