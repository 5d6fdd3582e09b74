// Package vec provides the small 3D algebra the physics core consumes:
// plain vectors, dimension-tagged positions, and the gravity constant.
package vec

import "math"

// Gravity is the world acceleration applied to falling bodies, in m/s².
var Gravity = Vec{0, -9.8, 0}

type Vec struct {
	X, Y, Z float64
}

func (v Vec) Add(o Vec) Vec {
	return Vec{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec) Sub(o Vec) Vec {
	return Vec{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec) Scale(f float64) Vec {
	return Vec{v.X * f, v.Y * f, v.Z * f}
}

func (v Vec) Dot(o Vec) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Abs returns the component-wise absolute value.
func (v Vec) Abs() Vec {
	return Vec{math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)}
}

func (v Vec) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize returns the unit vector in v's direction, or the zero
// vector when v has no length.
func (v Vec) Normalize() Vec {
	l := v.Length()
	if l == 0 {
		return Vec{}
	}
	return v.Scale(1 / l)
}

func (v Vec) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Pos is a position in a specific world partition. Bodies whose
// positions carry different Dim values never interact.
type Pos struct {
	Vec
	Dim int
}

func NewPos(x, y, z float64, dim int) Pos {
	return Pos{Vec: Vec{x, y, z}, Dim: dim}
}

// Offset translates the position without changing its partition.
func (p Pos) Offset(v Vec) Pos {
	return Pos{Vec: p.Vec.Add(v), Dim: p.Dim}
}

// Sgn returns -1, 0 or 1 matching the sign of x.
func Sgn(x float64) float64 {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	}
	return 0
}
