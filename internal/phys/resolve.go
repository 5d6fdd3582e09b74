package phys

import "github.com/san-kum/boxsim/internal/vec"

// clampTiny replaces exact zeros so axis sign selection stays defined.
func clampTiny(x float64) float64 {
	if x == 0 {
		return DistanceEPS
	}
	return x
}

// adjustPosition proposes a corrected state for b after contact with
// other. Displacement happens along the axis of least overlap. The
// correction is split 50/50 between the pair, except a static other
// absorbs nothing and a vertically supported other leaves the whole
// vertical correction to the falling side. Velocity response: an
// approaching pair gets the normal component replaced by a bounce term
// and its tangential component damped by the combined slide factors; a
// separating pair settles by averaging.
func (b *Body) adjustPosition(other *Body) {
	if b.static || b.destroyed {
		return
	}
	w := b.world
	now := w.now
	ap := b.Position(now)
	bp := other.Position(now)
	av := b.Velocity(now)
	bv := other.Velocity(now)

	dp := ap.Vec.Sub(bp.Vec)
	extSum := b.extents.Add(other.extents)
	// Overlap depth per axis, padded so the pair separates past the
	// contact tolerance instead of re-colliding next pass.
	surface := extSum.Sub(dp.Abs()).Add(vec.Vec{
		X: DistanceEPS * 2, Y: DistanceEPS * 2, Z: DistanceEPS * 2,
	})
	dv := av.Sub(bv)

	interp := 0.5
	if other.static {
		interp = 1.0
	}
	interpY := interp
	if other.supported {
		interpY = 1.0
	}

	dp.X = clampTiny(dp.X)
	dp.Y = clampTiny(dp.Y)
	dp.Z = clampTiny(dp.Z)

	var normal vec.Vec
	switch {
	case surface.X < surface.Y && surface.X < surface.Z:
		normal.X = vec.Sgn(dp.X)
		ap.X += interp * normal.X * surface.X
	case surface.Y < surface.Z:
		normal.Y = vec.Sgn(dp.Y)
		ap.Y += interpY * normal.Y * surface.Y
	default:
		normal.Z = vec.Sgn(dp.Z)
		ap.Z += interp * normal.Z * surface.Z
	}

	if approach := dv.Dot(normal); approach < 0 {
		restitution := 1 + b.props.Bounce*other.props.Bounce
		av = av.Sub(normal.Scale(restitution * approach * interp))
		tangential := dv.Sub(normal.Scale(approach))
		damp := (1 - b.props.Slide) * (1 - other.props.Slide)
		av = av.Sub(tangential.Scale(damp * interp))
	} else {
		av = av.Add(bv).Scale(0.5)
	}

	b.setNewState(ap, av)
}
