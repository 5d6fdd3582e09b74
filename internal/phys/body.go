package phys

import (
	"fmt"

	"github.com/san-kum/boxsim/internal/vec"
)

// Properties tunes a body's collision response. Bounce is restitution
// along the contact normal; Slide controls how much tangential velocity
// survives a contact (1 = frictionless). Both are in [0,1].
type Properties struct {
	Bounce float64
	Slide  float64
}

// Constraint overrides a body's proposed position and velocity at the
// end of every sub-step. Constraints run in registration order and may
// mutate both values arbitrarily.
type Constraint func(p *vec.Pos, v *vec.Vec)

// BodyConfig describes a body at creation time. Extents are
// half-extents per axis.
type BodyConfig struct {
	Position vec.Pos
	Velocity vec.Vec
	Extents  vec.Vec
	Gravity  bool
	Static   bool
	Props    Properties
}

// Body is a non-rotating axis-aligned box. Kinematic state is double
// buffered: the world's active slot is read during a pass while the
// other slot collects proposed updates, so per-pass writes never
// observe each other.
type Body struct {
	id    uint64
	world *World

	position [2]vec.Pos
	velocity [2]vec.Vec
	slotTime [2]float64

	extents   vec.Vec
	props     Properties
	gravity   bool
	static    bool
	supported bool
	destroyed bool

	constraints   []Constraint
	newStateCount int
}

// NewBody creates a body attached to w. Construction fails fast on
// invalid extents, non-finite state, or out-of-range properties.
func NewBody(w *World, cfg BodyConfig) (*Body, error) {
	if w == nil || w.closed {
		return nil, ErrWorldClosed
	}
	if !cfg.Extents.IsFinite() || cfg.Extents.X <= 0 || cfg.Extents.Y <= 0 || cfg.Extents.Z <= 0 {
		return nil, fmt.Errorf("%w: got %+v", ErrInvalidExtents, cfg.Extents)
	}
	if !cfg.Position.IsFinite() || !cfg.Velocity.IsFinite() {
		return nil, ErrInvalidState
	}
	if cfg.Props.Bounce < 0 || cfg.Props.Bounce > 1 || cfg.Props.Slide < 0 || cfg.Props.Slide > 1 {
		return nil, fmt.Errorf("%w: got %+v", ErrInvalidProperties, cfg.Props)
	}

	vel := cfg.Velocity
	if cfg.Static {
		// Static bodies never move; a creation-time velocity would
		// leak into position extrapolation.
		vel = vec.Vec{}
	}

	w.nextID++
	b := &Body{
		id:       w.nextID,
		world:    w,
		position: [2]vec.Pos{cfg.Position, cfg.Position},
		velocity: [2]vec.Vec{vel, vel},
		slotTime: [2]float64{w.now, w.now},
		extents:  cfg.Extents,
		props:    cfg.Props,
		gravity:  cfg.Gravity,
		static:   cfg.Static,
	}
	if b.static {
		b.supported = true
	}
	w.bodies = append(w.bodies, b)
	return b, nil
}

func (b *Body) ID() uint64              { return b.id }
func (b *Body) Extents() vec.Vec        { return b.extents }
func (b *Body) Props() Properties       { return b.props }
func (b *Body) Static() bool            { return b.static }
func (b *Body) Supported() bool         { return b.supported }
func (b *Body) Destroyed() bool         { return b.destroyed }
func (b *Body) AffectedByGravity() bool { return b.gravity }

// Destroy marks the body for removal. The world prunes destroyed
// bodies lazily; in-flight references keep treating them as inert.
func (b *Body) Destroy() { b.destroyed = true }

// SetConstraints replaces the body's constraint list.
func (b *Body) SetConstraints(cs []Constraint) {
	b.constraints = cs
}

// Position extrapolates the current-slot position to the given time.
// A falling, unsupported body follows the ballistic arc; a supported or
// gravity-exempt body coasts linearly. A detached body answers its
// frozen state without extrapolation.
func (b *Body) Position(now float64) vec.Pos {
	w := b.world
	if w == nil {
		return b.position[0]
	}
	s := w.slot
	dt := now - b.slotTime[s]
	p := b.position[s].Offset(b.velocity[s].Scale(dt))
	if b.falling() {
		p = p.Offset(w.gravity.Scale(0.5 * dt * dt))
	}
	return p
}

// Velocity extrapolates the current-slot velocity to the given time.
func (b *Body) Velocity(now float64) vec.Vec {
	w := b.world
	if w == nil {
		return b.velocity[0]
	}
	s := w.slot
	if !b.falling() {
		return b.velocity[s]
	}
	dt := now - b.slotTime[s]
	return b.velocity[s].Add(w.gravity.Scale(dt))
}

func (b *Body) falling() bool {
	return b.gravity && !b.supported
}

// Bottom returns the body's lowest AABB face at the given time; the
// support pass orders bodies by it.
func (b *Body) Bottom(now float64) float64 {
	return b.Position(now).Y - b.extents.Y
}

// setNewState proposes a state for the next slot. Multiple proposals
// within one sub-step are averaged so simultaneous contacts each
// contribute without overwriting one another.
func (b *Body) setNewState(p vec.Pos, v vec.Vec) {
	w := b.world
	s := 1 - w.slot
	b.slotTime[s] = w.now
	n := float64(b.newStateCount)
	p.Vec = p.Vec.Add(b.position[s].Vec.Scale(n)).Scale(1 / (n + 1))
	v = v.Add(b.velocity[s].Scale(n)).Scale(1 / (n + 1))
	b.newStateCount++
	b.position[s] = p
	b.velocity[s] = v
	w.traceState(b, p, v)
}

// advanceSlot carries the current slot into the next slot unchanged and
// resets the proposal counter. Called once per body per sub-step before
// new contributions are collected.
func (b *Body) advanceSlot() {
	w := b.world
	cur, next := w.slot, 1-w.slot
	b.slotTime[next] = b.slotTime[cur]
	b.position[next] = b.position[cur]
	b.velocity[next] = b.velocity[cur]
	b.newStateCount = 0
}

// applyConstraints runs the constraint list against the next-slot state.
func (b *Body) applyConstraints() {
	if len(b.constraints) == 0 {
		return
	}
	w := b.world
	s := 1 - w.slot
	p, v := b.position[s], b.velocity[s]
	for _, c := range b.constraints {
		c(&p, &v)
	}
	b.position[s] = p
	b.velocity[s] = v
	b.slotTime[s] = w.now
}

// detach freezes the body's state so queries stay defined after its
// world is closed.
func (b *Body) detach() {
	w := b.world
	if w == nil {
		return
	}
	s := w.slot
	b.position[0] = b.position[s]
	b.velocity[0] = b.velocity[s]
	b.position[1] = b.position[0]
	b.velocity[1] = b.velocity[0]
	b.slotTime = [2]float64{w.now, w.now}
	b.world = nil
}

// isSupportedBy reports whether b rests on other this sub-step. Support
// propagates upward: other must be static or already classified as
// supported, the horizontal footprints must overlap, other's top face
// must sit just below b's bottom face, and b must not be rising away
// from other.
func (b *Body) isSupportedBy(other *Body) bool {
	if b.static {
		return true
	}
	if !other.supported && !other.static {
		return false
	}
	now := b.world.now
	ap := b.Position(now)
	bp := other.Position(now)
	if ap.Dim != bp.Dim {
		return false
	}
	extSum := b.extents.Add(other.extents)
	dp := ap.Vec.Sub(bp.Vec)
	if dp.X+DistanceEPS <= -extSum.X || dp.X-DistanceEPS >= extSum.X {
		return false
	}
	if dp.Z+DistanceEPS <= -extSum.Z || dp.Z-DistanceEPS >= extSum.Z {
		return false
	}
	if dp.Y <= 0 || dp.Y >= DistanceEPS*4+extSum.Y {
		return false
	}
	return b.Velocity(now).Y-DistanceEPS < other.Velocity(now).Y
}
