package nurbs

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// evalAll sums the nonzero basis values back onto the full function
// index range so tests can compare evaluations at different spans.
func evalAll(t *testing.T, u float64, degree int, knots []float64, rng [2]float64) []float64 {
	t.Helper()
	res, ok := Basis(u, 0, degree, knots, rng)
	require.True(t, ok, "Basis(%g)", u)
	full := make([]float64, len(knots)-degree-1)
	for i, v := range res.Values {
		full[res.Span-degree+i] = v
	}
	return full
}

func TestBasisPartitionOfUnity(t *testing.T) {
	degree := 2
	knots := []float64{0, 0, 0, 1, 2, 3, 4, 4, 5, 5, 5}
	rng := [2]float64{0, 5}

	for _, u := range []float64{0, 0.3, 1, 1.7, 2.5, 3.99, 4, 4.2, 5} {
		res, ok := Basis(u, 2, degree, knots, rng)
		require.True(t, ok, "Basis(%g)", u)
		require.Len(t, res.Values, degree+1)

		sum := 0.0
		for _, v := range res.Values {
			assert.GreaterOrEqual(t, v, 0.0, "basis value at u=%g", u)
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-12, "partition of unity at u=%g", u)

		// Derivatives of a partition of unity sum to zero.
		for d, row := range res.Derivatives {
			dsum := 0.0
			for _, v := range row {
				dsum += v
			}
			assert.InDelta(t, 0.0, dsum, 1e-9, "order-%d derivative sum at u=%g", d+1, u)
		}
	}
}

func TestBasisSpanBoundaries(t *testing.T) {
	degree := 2
	knots := []float64{0, 0, 0, 1, 2, 2, 2}
	rng := [2]float64{0, 2}

	left, ok := Basis(0, 0, degree, knots, rng)
	require.True(t, ok)
	assert.Equal(t, degree, left.Span)
	assert.InDelta(t, 1.0, left.Values[0], 1e-15, "clamped left end concentrates on the first function")

	// The right endpoint of the domain belongs to the last span despite
	// the half-open span convention.
	right, ok := Basis(2, 0, degree, knots, rng)
	require.True(t, ok)
	assert.Equal(t, len(knots)-degree-2, right.Span)
	assert.InDelta(t, 1.0, right.Values[degree], 1e-15, "clamped right end concentrates on the last function")
}

func TestBasisRangeClamping(t *testing.T) {
	degree := 1
	knots := []float64{0, 0, 1, 1}
	rng := [2]float64{0, 1}

	if _, ok := Basis(-0.5, 0, degree, knots, rng); ok {
		t.Error("Basis accepted a parameter far below range")
	}
	if _, ok := Basis(1.5, 0, degree, knots, rng); ok {
		t.Error("Basis accepted a parameter far above range")
	}

	// Within tolerance of a boundary the parameter clamps in.
	res, ok := Basis(1+0.5*ParameterTolerance, 0, degree, knots, rng)
	require.True(t, ok)
	assert.InDelta(t, 1.0, res.Values[degree], 1e-12)

	res, ok = Basis(-0.5*ParameterTolerance, 0, degree, knots, rng)
	require.True(t, ok)
	assert.InDelta(t, 1.0, res.Values[0], 1e-12)
}

func TestBasisOrderBeyondDegree(t *testing.T) {
	degree := 1
	knots := []float64{0, 0, 1, 1}
	res, ok := Basis(0.5, 3, degree, knots, [2]float64{0, 1})
	require.True(t, ok)
	require.Len(t, res.Derivatives, 3)

	// First derivative of the two linear hat functions.
	assert.InDelta(t, -1.0, res.Derivatives[0][0], 1e-15)
	assert.InDelta(t, 1.0, res.Derivatives[0][1], 1e-15)

	// Orders past the degree vanish identically.
	for _, row := range res.Derivatives[1:] {
		for _, v := range row {
			assert.Zero(t, v)
		}
	}
}

// bernstein is the closed form the clamped Bezier knot vector must
// reproduce.
func bernstein(n, i int, u float64) float64 {
	c, _ := Binomial(n, i)
	return float64(c) * math.Pow(u, float64(i)) * math.Pow(1-u, float64(n-i))
}

func TestBasisMatchesBernstein(t *testing.T) {
	degree := 3
	knots := []float64{0, 0, 0, 0, 1, 1, 1, 1}
	rng := [2]float64{0, 1}

	for _, u := range []float64{0, 0.2, 0.37, 0.5, 0.81, 1} {
		res, ok := Basis(u, 0, degree, knots, rng)
		require.True(t, ok)
		for i := 0; i <= degree; i++ {
			assert.InDelta(t, bernstein(degree, i, u), res.Values[i], 1e-13,
				"B(%d,%d) at u=%g", degree, i, u)
		}
	}
}

func TestBasisDerivativeMatchesFiniteDifference(t *testing.T) {
	degree := 3
	knots := []float64{0, 0, 0, 0, 0.7, 2, 2, 2, 2}
	rng := [2]float64{0, 2}
	const h = 1e-6

	for _, u := range []float64{0.25, 0.7, 1.1, 1.65} {
		res, ok := Basis(u, 1, degree, knots, rng)
		require.True(t, ok)

		lo := evalAll(t, u-h, degree, knots, rng)
		hi := evalAll(t, u+h, degree, knots, rng)
		for i := 0; i <= degree; i++ {
			idx := res.Span - degree + i
			fd := (hi[idx] - lo[idx]) / (2 * h)
			assert.InDelta(t, fd, res.Derivatives[0][i], 1e-5,
				"derivative of function %d at u=%g", idx, u)
		}
	}
}

func TestBasisDegenerateInput(t *testing.T) {
	if _, ok := Basis(0, 0, -1, nil, [2]float64{0, 1}); ok {
		t.Error("Basis accepted a negative degree")
	}
	if _, ok := Basis(0, 0, 2, []float64{0, 1, 2}, [2]float64{0, 1}); ok {
		t.Error("Basis accepted a knot vector shorter than 2*degree+2")
	}
}
