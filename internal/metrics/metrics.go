// Package metrics provides simulation observers sampled once per
// recorded frame.
package metrics

import (
	"math"

	"github.com/san-kum/boxsim/internal/phys"
)

type Metric interface {
	Name() string
	Observe(w *phys.World, t float64)
	Value() float64
	Reset()
}

// Energy tracks the mean total mechanical energy (unit mass per body):
// kinetic plus gravitational potential of every dynamic body.
type Energy struct {
	total   float64
	samples int
}

func NewEnergy() *Energy { return &Energy{} }

func (e *Energy) Name() string { return "energy" }

func (e *Energy) Observe(w *phys.World, t float64) {
	g := -w.Gravity().Y
	sum := 0.0
	for _, b := range w.Bodies() {
		if b.Static() {
			continue
		}
		v := b.Velocity(t)
		sum += 0.5 * v.Dot(v)
		if b.AffectedByGravity() {
			sum += g * b.Position(t).Y
		}
	}
	e.total += sum
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// SupportedCount tracks the mean number of supported dynamic bodies.
type SupportedCount struct {
	total   float64
	samples int
}

func NewSupportedCount() *SupportedCount { return &SupportedCount{} }

func (s *SupportedCount) Name() string { return "supported" }

func (s *SupportedCount) Observe(w *phys.World, t float64) {
	n := 0
	for _, b := range w.Bodies() {
		if !b.Static() && b.Supported() {
			n++
		}
	}
	s.total += float64(n)
	s.samples++
}

func (s *SupportedCount) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.total / float64(s.samples)
}

func (s *SupportedCount) Reset() {
	s.total = 0
	s.samples = 0
}

// MaxPenetration tracks the deepest pairwise AABB overlap seen across
// all samples. A well-behaved run stays near the contact tolerance.
type MaxPenetration struct {
	max float64
}

func NewMaxPenetration() *MaxPenetration { return &MaxPenetration{} }

func (m *MaxPenetration) Name() string { return "max_penetration" }

func (m *MaxPenetration) Observe(w *phys.World, t float64) {
	bodies := w.Bodies()
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			if d := overlapDepth(bodies[i], bodies[j], t); d > m.max {
				m.max = d
			}
		}
	}
}

func (m *MaxPenetration) Value() float64 { return m.max }

func (m *MaxPenetration) Reset() { m.max = 0 }

func overlapDepth(a, b *phys.Body, t float64) float64 {
	ap := a.Position(t)
	bp := b.Position(t)
	if ap.Dim != bp.Dim {
		return 0
	}
	ext := a.Extents().Add(b.Extents())
	dp := ap.Vec.Sub(bp.Vec).Abs()
	dx := ext.X - dp.X
	dy := ext.Y - dp.Y
	dz := ext.Z - dp.Z
	if dx <= 0 || dy <= 0 || dz <= 0 {
		return 0
	}
	return math.Min(dx, math.Min(dy, dz))
}
