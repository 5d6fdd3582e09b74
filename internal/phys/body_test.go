package phys

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/boxsim/internal/vec"
)

func mustBody(t *testing.T, w *World, cfg BodyConfig) *Body {
	t.Helper()
	b, err := NewBody(w, cfg)
	require.NoError(t, err)
	return b
}

func dynamicBox(pos vec.Pos, ext vec.Vec) BodyConfig {
	return BodyConfig{Position: pos, Extents: ext, Gravity: true}
}

func TestNewBodyValidation(t *testing.T) {
	w := NewWorld()
	ext := vec.Vec{X: 1, Y: 1, Z: 1}

	_, err := NewBody(w, BodyConfig{Extents: vec.Vec{X: -1, Y: 1, Z: 1}})
	assert.ErrorIs(t, err, ErrInvalidExtents)

	_, err = NewBody(w, BodyConfig{Extents: vec.Vec{}})
	assert.ErrorIs(t, err, ErrInvalidExtents)

	_, err = NewBody(w, BodyConfig{
		Position: vec.NewPos(math.NaN(), 0, 0, 0),
		Extents:  ext,
	})
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = NewBody(w, BodyConfig{
		Velocity: vec.Vec{Y: math.Inf(-1)},
		Extents:  ext,
	})
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = NewBody(w, BodyConfig{Extents: ext, Props: Properties{Bounce: 1.5}})
	assert.ErrorIs(t, err, ErrInvalidProperties)

	_, err = NewBody(w, BodyConfig{Extents: ext, Props: Properties{Slide: -0.1}})
	assert.ErrorIs(t, err, ErrInvalidProperties)

	w.Close()
	_, err = NewBody(w, BodyConfig{Extents: ext})
	assert.ErrorIs(t, err, ErrWorldClosed)
}

func TestFallingExtrapolation(t *testing.T) {
	w := NewWorld()
	b := mustBody(t, w, dynamicBox(vec.NewPos(0, 10, 0, 0), vec.Vec{X: 0.1, Y: 0.1, Z: 0.1}))

	p := b.Position(2)
	assert.InDelta(t, 10-0.5*9.8*4, p.Y, 1e-9)
	v := b.Velocity(2)
	assert.InDelta(t, -9.8*2, v.Y, 1e-9)
}

func TestSupportedSuppressesGravity(t *testing.T) {
	w := NewWorld()
	b := mustBody(t, w, dynamicBox(vec.NewPos(0, 10, 0, 0), vec.Vec{X: 0.1, Y: 0.1, Z: 0.1}))
	b.supported = true

	assert.InDelta(t, 10.0, b.Position(2).Y, 1e-9)
	assert.InDelta(t, 0.0, b.Velocity(2).Y, 1e-9)
}

func TestGravityExemptCoastsLinearly(t *testing.T) {
	w := NewWorld()
	b := mustBody(t, w, BodyConfig{
		Position: vec.NewPos(0, 0, 0, 0),
		Velocity: vec.Vec{X: 3},
		Extents:  vec.Vec{X: 1, Y: 1, Z: 1},
	})

	assert.InDelta(t, 6.0, b.Position(2).X, 1e-9)
	assert.Equal(t, vec.Vec{X: 3}, b.Velocity(2))
}

func TestSetNewStateAverages(t *testing.T) {
	w := NewWorld()
	b := mustBody(t, w, dynamicBox(vec.NewPos(0, 0, 0, 0), vec.Vec{X: 1, Y: 1, Z: 1}))
	b.advanceSlot()

	b.setNewState(vec.NewPos(2, 0, 0, 0), vec.Vec{X: 2})
	b.setNewState(vec.NewPos(4, 0, 0, 0), vec.Vec{X: 4})
	b.setNewState(vec.NewPos(6, 0, 0, 0), vec.Vec{X: 0})

	next := 1 - w.slot
	assert.InDelta(t, 4.0, b.position[next].X, 1e-9)
	assert.InDelta(t, 2.0, b.velocity[next].X, 1e-9)
	assert.Equal(t, 3, b.newStateCount)
}

func TestAdvanceSlotResetsProposals(t *testing.T) {
	w := NewWorld()
	b := mustBody(t, w, dynamicBox(vec.NewPos(1, 2, 3, 0), vec.Vec{X: 1, Y: 1, Z: 1}))
	b.advanceSlot()
	b.setNewState(vec.NewPos(9, 9, 9, 0), vec.Vec{})

	b.advanceSlot()
	next := 1 - w.slot
	assert.Equal(t, b.position[w.slot], b.position[next])
	assert.Equal(t, 0, b.newStateCount)
}

func TestStaticBodyDropsVelocity(t *testing.T) {
	w := NewWorld()
	b := mustBody(t, w, BodyConfig{
		Position: vec.NewPos(0, 0, 0, 0),
		Velocity: vec.Vec{X: 5, Y: 5},
		Extents:  vec.Vec{X: 1, Y: 1, Z: 1},
		Static:   true,
	})

	assert.True(t, b.Supported())
	assert.Equal(t, vec.Vec{}, b.Velocity(10))
	assert.Equal(t, 0.0, b.Position(10).X)
}

func TestDetachedBodyAnswersFrozenState(t *testing.T) {
	w := NewWorld()
	b := mustBody(t, w, dynamicBox(vec.NewPos(0, 7, 0, 0), vec.Vec{X: 0.5, Y: 0.5, Z: 0.5}))
	w.Close()

	// No extrapolation once the world is gone.
	assert.InDelta(t, 7.0, b.Position(100).Y, 1e-9)
	assert.Equal(t, vec.Vec{}, b.Velocity(100))
}

func TestIsSupportedBy(t *testing.T) {
	w := NewWorld()
	ext := vec.Vec{X: 0.5, Y: 0.5, Z: 0.5}
	platform := mustBody(t, w, BodyConfig{
		Position: vec.NewPos(0, 0, 0, 0),
		Extents:  vec.Vec{X: 5, Y: 0.5, Z: 5},
		Static:   true,
	})

	resting := mustBody(t, w, dynamicBox(vec.NewPos(0, 1.0005, 0, 0), ext))
	assert.True(t, resting.isSupportedBy(platform))

	// Too far above the top face.
	floating := mustBody(t, w, dynamicBox(vec.NewPos(0, 1.5, 0, 0), ext))
	assert.False(t, floating.isSupportedBy(platform))

	// No horizontal footprint overlap.
	beside := mustBody(t, w, dynamicBox(vec.NewPos(7, 1.0005, 0, 0), ext))
	assert.False(t, beside.isSupportedBy(platform))

	// Rising away from the surface.
	rising := mustBody(t, w, BodyConfig{
		Position: vec.NewPos(0, 1.0005, 0, 0),
		Velocity: vec.Vec{Y: 2},
		Extents:  ext,
		Gravity:  true,
	})
	assert.False(t, rising.isSupportedBy(platform))

	// Support propagates only from supported or static bodies.
	unsupported := mustBody(t, w, dynamicBox(vec.NewPos(0, 3, 0, 0), ext))
	above := mustBody(t, w, dynamicBox(vec.NewPos(0, 4.0005, 0, 0), ext))
	assert.False(t, above.isSupportedBy(unsupported))
	unsupported.supported = true
	assert.True(t, above.isSupportedBy(unsupported))
}
