package viz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/boxsim/internal/phys"
	"github.com/san-kum/boxsim/internal/vec"
)

func TestCanvasSetAndClear(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(0, 0)
	assert.Equal(t, rune(0x2801), c.Grid[0][0])

	c.Set(1, 0)
	assert.Equal(t, rune(0x2809), c.Grid[0][0])

	// Out of range is ignored.
	c.Set(-1, 0)
	c.Set(100, 100)

	c.Clear()
	assert.Equal(t, rune(0x2800), c.Grid[0][0])
}

func TestCanvasStringShape(t *testing.T) {
	c := NewCanvas(3, 2)
	lines := strings.Split(strings.TrimRight(c.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Len(t, []rune(lines[0]), 3)
}

func TestDrawBoxMarksCorners(t *testing.T) {
	c := NewCanvas(10, 10)
	c.DrawBox(0, 0, 19, 39)
	assert.NotEqual(t, rune(0x2800), c.Grid[0][0])
	assert.NotEqual(t, rune(0x2800), c.Grid[9][9])
}

func TestFitBodiesFramesWorld(t *testing.T) {
	w := phys.NewWorld()
	_, err := phys.NewBody(w, phys.BodyConfig{
		Position: vec.NewPos(0, 5, 0, 0),
		Extents:  vec.Vec{X: 1, Y: 1, Z: 1},
	})
	require.NoError(t, err)
	_, err = phys.NewBody(w, phys.BodyConfig{
		Position: vec.NewPos(10, -5, 0, 0),
		Extents:  vec.Vec{X: 1, Y: 1, Z: 1},
		Static:   true,
	})
	require.NoError(t, err)

	v := FitBodies(w.Bodies(), w.Now())
	assert.Less(t, v.MinX, -1.0)
	assert.Greater(t, v.MaxX, 11.0)
	assert.Less(t, v.MinY, -6.0)
	assert.Greater(t, v.MaxY, 6.0)
}

func TestRenderWorldDrawsSomething(t *testing.T) {
	w := phys.NewWorld()
	_, err := phys.NewBody(w, phys.BodyConfig{
		Position: vec.NewPos(0, 0, 0, 0),
		Extents:  vec.Vec{X: 1, Y: 1, Z: 1},
	})
	require.NoError(t, err)

	c := NewCanvas(20, 10)
	RenderWorld(c, FitBodies(w.Bodies(), 0), w.Bodies(), 0)

	marked := 0
	for _, row := range c.Grid {
		for _, r := range row {
			if r != 0x2800 {
				marked++
			}
		}
	}
	assert.Greater(t, marked, 4, "box outline should mark several cells")
}
