// Package phys implements a fixed-timestep rigid-body simulator for
// non-rotating axis-aligned boxes: double-buffered kinematics, a
// bucketed (x,z) spatial hash broad phase, a polynomial
// continuous-collision-time predicate, and an iterative relaxation
// solver with bottom-up support ordering for stable stacking.
package phys

import (
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/boxsim/internal/poly"
	"github.com/san-kum/boxsim/internal/vec"
)

const (
	// DistanceEPS is the contact tolerance; gaps smaller than this
	// count as touching.
	DistanceEPS = 10 * poly.Eps

	// TimeEPS is the smallest meaningful time interval.
	TimeEPS = poly.Eps

	// DefaultStep is the fixed sub-step duration.
	DefaultStep = 1.0 / 30

	// DefaultRelaxationCap bounds the per-sub-step relaxation loop.
	DefaultRelaxationCap = 10
)

// World owns a body set and advances it through time. A world is
// single-threaded: no method may be called concurrently with another.
type World struct {
	now      float64
	slot     int
	bodies   []*Body
	grid     *grid
	step     float64
	relaxCap int
	gravity  vec.Vec
	log      *zap.Logger
	nextID   uint64
	closed   bool

	roots   []float64
	ordered []*Body
}

// Option configures a World.
type Option func(*World)

// WithLogger enables debug tracing of sub-steps and state proposals.
func WithLogger(log *zap.Logger) Option {
	return func(w *World) { w.log = log }
}

// WithStep overrides the fixed sub-step duration.
func WithStep(step float64) Option {
	return func(w *World) {
		if step > TimeEPS {
			w.step = step
		}
	}
}

// WithRelaxationCap overrides the relaxation iteration bound.
func WithRelaxationCap(n int) Option {
	return func(w *World) {
		if n > 0 {
			w.relaxCap = n
		}
	}
}

// WithGravity overrides the world acceleration.
func WithGravity(g vec.Vec) Option {
	return func(w *World) { w.gravity = g }
}

func NewWorld(opts ...Option) *World {
	w := &World{
		grid:     newGrid(),
		step:     DefaultStep,
		relaxCap: DefaultRelaxationCap,
		gravity:  vec.Gravity,
		log:      zap.NewNop(),
		roots:    make([]float64, 0, 12),
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Now returns the current simulation time.
func (w *World) Now() float64 { return w.now }

// Step returns the fixed sub-step duration.
func (w *World) Step() float64 { return w.step }

// Gravity returns the world acceleration.
func (w *World) Gravity() vec.Vec { return w.gravity }

// Bodies returns the live body slice. Callers must not mutate it.
func (w *World) Bodies() []*Body { return w.bodies }

// StepTime advances the simulation by delta seconds.
func (w *World) StepTime(delta float64) {
	w.RunToTime(w.now + delta)
}

// RunToTime advances the simulation to the given absolute time in
// fixed sub-steps, rounding the final sub-step to land exactly on stop.
// A sub-step is cut short when a pair's predicted contact falls inside
// it, so a body crossing more than its own extent per sub-step still
// meets whatever is in its path. A step always runs to completion;
// there is no cancellation.
func (w *World) RunToTime(stop float64) {
	if w.closed {
		return
	}
	for stop-w.now > TimeEPS {
		next := w.now + w.step
		if next > stop {
			next = stop
		}
		if t, ok := w.nextContact(next); ok {
			next = t
		}
		w.subStep(next)
	}
	w.now = stop
}

// nextContact predicts the earliest pair contact strictly inside
// (now, limit), scanning the same candidate pairs as collisionPass.
// Pairs already touching are left to the relaxation loop.
func (w *World) nextContact(limit float64) (float64, bool) {
	w.grid.rebuild(w.bodies, w.now)
	earliest, found := limit, false
	for _, a := range w.bodies {
		if a.destroyed || a.static {
			continue
		}
		for _, b := range w.grid.query(a, w.now) {
			if !b.static && b.id < a.id {
				continue
			}
			if w.Collides(a, b) {
				continue
			}
			if t, ok := w.NextCollisionTime(a, b); ok && t < earliest {
				earliest = t
				found = true
			}
		}
	}
	return earliest, found
}

// Close detaches every body and rejects further stepping. Detached
// bodies keep answering queries from their frozen state.
func (w *World) Close() {
	if w.closed {
		return
	}
	for _, b := range w.bodies {
		b.detach()
	}
	w.bodies = nil
	w.closed = true
}

// subStep advances time to target and relaxes contacts: each iteration
// snapshots state, classifies support bottom-up, resolves every
// overlapping pair into the next state buffer, applies constraints,
// and commits by flipping the buffer. Iteration stops when a pass
// finds no contact or the cap is reached, letting chained contacts
// (a stack of boxes) settle within one sub-step.
func (w *World) subStep(target float64) {
	w.now = target
	w.prune()

	iters := 0
	for i := 0; i < w.relaxCap; i++ {
		iters++
		w.supportPass()
		for _, b := range w.bodies {
			b.advanceSlot()
		}
		collided := w.collisionPass()
		w.constraintPass()
		w.slot = 1 - w.slot
		if !collided {
			break
		}
	}
	w.log.Debug("substep",
		zap.Float64("t", w.now),
		zap.Int("iterations", iters),
		zap.Int("bodies", len(w.bodies)))
}

// supportPass freezes every body's state as of now and recomputes the
// supported flags. Bodies are processed in ascending bottom-face order
// so support propagates upward through a stack in a single pass.
//
// Known limitation: a body resting on a neighbor that sorts later
// (equal or higher bottom face) can miss support for one sub-step.
func (w *World) supportPass() {
	w.ordered = w.ordered[:0]
	for _, b := range w.bodies {
		if !b.destroyed {
			w.ordered = append(w.ordered, b)
		}
	}
	sort.Slice(w.ordered, func(i, j int) bool {
		return w.ordered[i].Bottom(w.now) < w.ordered[j].Bottom(w.now)
	})

	s := w.slot
	for i, a := range w.ordered {
		a.position[s] = a.Position(w.now)
		a.velocity[s] = a.Velocity(w.now)
		a.slotTime[s] = w.now
		a.supported = a.static
		if a.static {
			continue
		}
		for _, b := range w.ordered[:i] {
			if a.isSupportedBy(b) {
				a.supported = true
				break
			}
		}
	}
}

// collisionPass rebuilds the spatial index and resolves every
// overlapping candidate pair. Returns whether any contact was found.
func (w *World) collisionPass() bool {
	w.grid.rebuild(w.bodies, w.now)
	hit := false
	for _, a := range w.bodies {
		if a.destroyed || a.static {
			continue
		}
		for _, b := range w.grid.query(a, w.now) {
			// Dynamic pairs are resolved once, from the lower id side.
			if !b.static && b.id < a.id {
				continue
			}
			if !w.Collides(a, b) {
				continue
			}
			hit = true
			a.adjustPosition(b)
			b.adjustPosition(a)
		}
	}
	return hit
}

func (w *World) constraintPass() {
	for _, b := range w.bodies {
		if !b.destroyed {
			b.applyConstraints()
		}
	}
}

// prune drops destroyed bodies from the live set. Runs between
// sub-steps only, never during a pass.
func (w *World) prune() {
	live := w.bodies[:0]
	for _, b := range w.bodies {
		if b.destroyed {
			continue
		}
		live = append(live, b)
	}
	for i := len(live); i < len(w.bodies); i++ {
		w.bodies[i] = nil
	}
	w.bodies = live
}

func (w *World) traceState(b *Body, p vec.Pos, v vec.Vec) {
	if ce := w.log.Check(zapcore.DebugLevel, "state proposal"); ce != nil {
		ce.Write(
			zap.Uint64("body", b.id),
			zap.Float64("px", p.X), zap.Float64("py", p.Y), zap.Float64("pz", p.Z),
			zap.Float64("vx", v.X), zap.Float64("vy", v.Y), zap.Float64("vz", v.Z),
		)
	}
}
