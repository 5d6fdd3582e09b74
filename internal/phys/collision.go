package phys

import (
	"sort"

	"github.com/san-kum/boxsim/internal/poly"
	"github.com/san-kum/boxsim/internal/vec"
)

// Collides reports present-time AABB overlap between a and b, with
// DistanceEPS of slack so touching boxes keep counting as contact
// instead of jittering in and out.
func (w *World) Collides(a, b *Body) bool {
	ap := a.Position(w.now)
	bp := b.Position(w.now)
	if ap.Dim != bp.Dim {
		return false
	}
	ae, be := a.extents, b.extents
	if ap.X-ae.X-DistanceEPS > bp.X+be.X || bp.X-be.X-DistanceEPS > ap.X+ae.X {
		return false
	}
	if ap.Y-ae.Y-DistanceEPS > bp.Y+be.Y || bp.Y-be.Y-DistanceEPS > ap.Y+ae.Y {
		return false
	}
	if ap.Z-ae.Z-DistanceEPS > bp.Z+be.Z || bp.Z-be.Z-DistanceEPS > ap.Z+ae.Z {
		return false
	}
	return true
}

// NextCollisionTime predicts the earliest absolute time at which a and
// b come into contact, assuming both keep their current trajectories.
// Bodies already in contact collide now. The second return is false
// when no future contact exists.
//
// Per axis, the signed gap polynomials
//
//	c1 = Δp − Σextent + Δv·t + ½Δa·t²
//	c2 = Δp + Σextent + Δv·t + ½Δa·t²
//
// cross zero exactly when the boxes start or stop overlapping on that
// axis; the first positive root at which every c1 is ≤ ε and every c2
// is ≥ −ε is the contact time.
func (w *World) NextCollisionTime(a, b *Body) (float64, bool) {
	ap := a.Position(w.now)
	bp := b.Position(w.now)
	if ap.Dim != bp.Dim {
		return 0, false
	}
	if w.Collides(a, b) {
		return w.now, true
	}

	var accel vec.Vec
	if a.falling() {
		accel = accel.Add(w.gravity)
	}
	if b.falling() {
		accel = accel.Sub(w.gravity)
	}
	quadratic := accel.Scale(0.5)
	linear := a.Velocity(w.now).Sub(b.Velocity(w.now))
	extSum := a.extents.Add(b.extents)
	dp := ap.Vec.Sub(bp.Vec)
	c1 := dp.Sub(extSum)
	c2 := dp.Add(extSum)

	roots := w.roots[:0]
	roots = poly.SolveQuadratic(roots, c1.X, linear.X, quadratic.X)
	roots = poly.SolveQuadratic(roots, c1.Y, linear.Y, quadratic.Y)
	roots = poly.SolveQuadratic(roots, c1.Z, linear.Z, quadratic.Z)
	roots = poly.SolveQuadratic(roots, c2.X, linear.X, quadratic.X)
	roots = poly.SolveQuadratic(roots, c2.Y, linear.Y, quadratic.Y)
	roots = poly.SolveQuadratic(roots, c2.Z, linear.Z, quadratic.Z)
	sort.Float64s(roots)
	w.roots = roots

	for _, t := range roots {
		if t < TimeEPS {
			continue
		}
		v1 := linear.Scale(t).Add(quadratic.Scale(t * t)).Add(c1)
		v2 := linear.Scale(t).Add(quadratic.Scale(t * t)).Add(c2)
		if v1.X < DistanceEPS && v1.Y < DistanceEPS && v1.Z < DistanceEPS &&
			v2.X > -DistanceEPS && v2.Y > -DistanceEPS && v2.Z > -DistanceEPS {
			return w.now + t, true
		}
	}
	return 0, false
}
