package phys

import (
	"testing"

	"github.com/san-kum/boxsim/internal/vec"
)

func buildPile(b *testing.B, n int) *World {
	b.Helper()
	w := NewWorld()
	if _, err := NewBody(w, BodyConfig{
		Position: vec.NewPos(0, -1, 0, 0),
		Extents:  vec.Vec{X: 100, Y: 1, Z: 100},
		Static:   true,
	}); err != nil {
		b.Fatal(err)
	}
	for i := 0; i < n; i++ {
		cfg := BodyConfig{
			Position: vec.NewPos(float64(i%10)*1.5-7, 1+float64(i/10)*1.5, float64(i%7)*1.5-5, 0),
			Extents:  vec.Vec{X: 0.5, Y: 0.5, Z: 0.5},
			Gravity:  true,
		}
		if _, err := NewBody(w, cfg); err != nil {
			b.Fatal(err)
		}
	}
	return w
}

func BenchmarkWorldStep100(b *testing.B) {
	w := buildPile(b, 100)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.StepTime(DefaultStep)
	}
}

func BenchmarkWorldStep500(b *testing.B) {
	w := buildPile(b, 500)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.StepTime(DefaultStep)
	}
}

func BenchmarkGridRebuild(b *testing.B) {
	w := buildPile(b, 500)
	g := newGrid()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.rebuild(w.bodies, w.Now())
	}
}
