package vec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVecOps(t *testing.T) {
	a := Vec{1, 2, 3}
	b := Vec{4, -5, 6}

	assert.Equal(t, Vec{5, -3, 9}, a.Add(b))
	assert.Equal(t, Vec{-3, 7, -3}, a.Sub(b))
	assert.Equal(t, Vec{2, 4, 6}, a.Scale(2))
	assert.Equal(t, 12.0, a.Dot(b))
	assert.Equal(t, Vec{4, 5, 6}, b.Abs())
}

func TestNormalize(t *testing.T) {
	v := Vec{3, 0, 4}
	n := v.Normalize()
	assert.InDelta(t, 1.0, n.Length(), 1e-12)
	assert.InDelta(t, 0.6, n.X, 1e-12)

	assert.Equal(t, Vec{}, Vec{}.Normalize())
}

func TestIsFinite(t *testing.T) {
	assert.True(t, Vec{1, 2, 3}.IsFinite())
	assert.False(t, Vec{math.NaN(), 0, 0}.IsFinite())
	assert.False(t, Vec{0, math.Inf(1), 0}.IsFinite())
}

func TestPosOffset(t *testing.T) {
	p := NewPos(1, 2, 3, 1)
	q := p.Offset(Vec{0, -1, 0})
	assert.Equal(t, 1.0, q.Y)
	assert.Equal(t, 1, q.Dim)
}

func TestSgn(t *testing.T) {
	assert.Equal(t, -1.0, Sgn(-0.5))
	assert.Equal(t, 0.0, Sgn(0))
	assert.Equal(t, 1.0, Sgn(2))
}
