package nurbs

import (
	"errors"
	"fmt"
	"math"
)

// ErrOverflow reports a binomial coefficient that does not fit in an
// int64. Silent wraparound would corrupt derivative results, so the
// condition is surfaced as an invalid argument.
var ErrOverflow = errors.New("binomial coefficient overflows int64")

// Binomial returns the binomial coefficient C(n, k).
func Binomial(n, k int) (int64, error) {
	if n < 0 || k < 0 || k > n {
		return 0, fmt.Errorf("invalid binomial arguments C(%d, %d)", n, k)
	}
	if k > n-k {
		k = n - k
	}
	c := int64(1)
	for i := 1; i <= k; i++ {
		f := int64(n - k + i)
		d := int64(i)
		// Reduce before multiplying so the overflow check fires only when
		// the coefficient itself does not fit, never on an intermediate
		// product. After both reductions d is 1: c*f/i is the exact
		// integer C(n-k+i, i), and what remains of i is coprime to both
		// factors.
		if g := gcd(c, d); g > 1 {
			c /= g
			d /= g
		}
		if g := gcd(f, d); g > 1 {
			f /= g
			d /= g
		}
		if c > math.MaxInt64/f {
			return 0, fmt.Errorf("C(%d, %d): %w", n, k, ErrOverflow)
		}
		c *= f
	}
	return c, nil
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
