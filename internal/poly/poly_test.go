package poly

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sorted(roots []float64) []float64 {
	sort.Float64s(roots)
	return roots
}

func TestSolveLinear(t *testing.T) {
	roots := SolveLinear(nil, -6, 2)
	require.Len(t, roots, 1)
	assert.InDelta(t, 3.0, roots[0], 1e-12)

	// no slope, non-zero constant: no roots
	assert.Empty(t, SolveLinear(nil, 1, 0))

	// fully degenerate: single root at zero
	roots = SolveLinear(nil, 0, 0)
	require.Len(t, roots, 1)
	assert.Equal(t, 0.0, roots[0])
}

func TestSolveQuadratic(t *testing.T) {
	// (t-1)(t-3) = 3 - 4t + t²
	roots := sorted(SolveQuadratic(nil, 3, -4, 1))
	require.Len(t, roots, 2)
	assert.InDelta(t, 1.0, roots[0], 1e-9)
	assert.InDelta(t, 3.0, roots[1], 1e-9)

	// negative discriminant
	assert.Empty(t, SolveQuadratic(nil, 1, 0, 1))

	// negative leading coefficient is normalized, same roots
	roots = sorted(SolveQuadratic(nil, -3, 4, -1))
	require.Len(t, roots, 2)
	assert.InDelta(t, 1.0, roots[0], 1e-9)
	assert.InDelta(t, 3.0, roots[1], 1e-9)
}

func TestSolveQuadraticDegradesToLinear(t *testing.T) {
	roots := SolveQuadratic(nil, -4, 2, 1e-6)
	require.Len(t, roots, 1)
	assert.InDelta(t, 2.0, roots[0], 1e-9)
}

func TestSolveCubicThreeRealRoots(t *testing.T) {
	// (t-1)(t-2)(t-3) = -6 + 11t - 6t² + t³
	roots := sorted(SolveCubic(nil, -6, 11, -6, 1))
	require.Len(t, roots, 3)
	assert.InDelta(t, 1.0, roots[0], 1e-6)
	assert.InDelta(t, 2.0, roots[1], 1e-6)
	assert.InDelta(t, 3.0, roots[2], 1e-6)
}

func TestSolveCubicSingleRealRoot(t *testing.T) {
	// t³ + t + 1 has one real root near -0.6823
	roots := SolveCubic(nil, 1, 1, 0, 1)
	require.Len(t, roots, 1)
	assert.InDelta(t, -0.6823278, roots[0], 1e-5)
}

func TestSolveCubicDegradesToQuadratic(t *testing.T) {
	roots := sorted(SolveCubic(nil, 3, -4, 1, 1e-7))
	require.Len(t, roots, 2)
	assert.InDelta(t, 1.0, roots[0], 1e-9)
	assert.InDelta(t, 3.0, roots[1], 1e-9)
}

func TestRootsSatisfyPolynomial(t *testing.T) {
	cases := [][4]float64{
		{-6, 11, -6, 1},
		{2, -3, 0, 1},
		{0, -1, 0, 1},
	}
	for _, c := range cases {
		for _, r := range SolveCubic(nil, c[0], c[1], c[2], c[3]) {
			v := c[0] + c[1]*r + c[2]*r*r + c[3]*r*r*r
			assert.Less(t, math.Abs(v), 1e-4, "coeffs %v root %v", c, r)
		}
	}
}
