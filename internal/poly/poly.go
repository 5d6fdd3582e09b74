// Package poly solves low-degree polynomials for real roots.
//
// The solvers are tiered: each degrades to the next lower degree when its
// leading coefficient is negligible, so callers never divide by a
// near-zero coefficient. Coefficients are ordered constant-first:
// SolveQuadratic(c0, c1, c2) finds t with c0 + c1·t + c2·t² = 0.
package poly

import "math"

// Eps is the magnitude below which a coefficient is treated as zero.
const Eps = 1e-4

// SolveLinear appends the root of c0 + c1·t to dst. A degenerate
// all-zero polynomial reports the single root t=0; a non-zero constant
// has no roots.
func SolveLinear(dst []float64, c0, c1 float64) []float64 {
	if math.Abs(c1) < Eps {
		if math.Abs(c0) < Eps {
			return append(dst, 0)
		}
		return dst
	}
	return append(dst, -c0/c1)
}

// SolveQuadratic appends the real roots of c0 + c1·t + c2·t² to dst.
func SolveQuadratic(dst []float64, c0, c1, c2 float64) []float64 {
	if math.Abs(c2) < Eps {
		return SolveLinear(dst, c0, c1)
	}
	disc := c1*c1 - 4*c2*c0
	if disc < 0 {
		return dst
	}
	if c2 < 0 {
		c0, c1, c2 = -c0, -c1, -c2
	}
	s := math.Sqrt(disc)
	return append(dst, (-c1-s)/(2*c2), (-c1+s)/(2*c2))
}

// SolveCubic appends the real roots of c0 + c1·t + c2·t² + c3·t³ to dst,
// using the trigonometric method when all three roots are real and
// Cardano's formula otherwise.
func SolveCubic(dst []float64, c0, c1, c2, c3 float64) []float64 {
	if math.Abs(c3) < Eps {
		return SolveQuadratic(dst, c0, c1, c2)
	}
	c0 /= c3
	c1 /= c3
	c2 /= c3
	q := (c2*c2 - 3*c1) / 9
	r := (2*c2*c2*c2 - 9*c2*c1 + 27*c0) / 54
	r2 := r * r
	q3 := q * q * q
	if r2 < q3 {
		theta := math.Acos(r / math.Sqrt(q3))
		sq := math.Sqrt(q)
		return append(dst,
			-2*sq*math.Cos(theta/3)-c2/3,
			-2*sq*math.Cos((theta+2*math.Pi)/3)-c2/3,
			-2*sq*math.Cos((theta-2*math.Pi)/3)-c2/3,
		)
	}
	a := -math.Cbrt(math.Abs(r) + math.Sqrt(r2-q3))
	if r < 0 {
		a = -a
	}
	b := 0.0
	if a != 0 {
		b = q / a
	}
	return append(dst, a+b-c2/3)
}
