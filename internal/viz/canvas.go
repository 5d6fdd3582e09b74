// Package viz renders worlds to the terminal: a braille-cell canvas
// for side-view frames and a bubbletea live view.
package viz

import (
	"strings"

	"github.com/san-kum/boxsim/internal/phys"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800 // Empty braille char
		}
	}
	return c
}

// Set marks a pixel at (x, y) in sub-pixel coordinates. The canvas
// size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawBox draws an axis-aligned rectangle outline in sub-pixel space.
func (c *Canvas) DrawBox(x0, y0, x1, y1 int) {
	c.DrawLine(x0, y0, x1, y0)
	c.DrawLine(x1, y0, x1, y1)
	c.DrawLine(x1, y1, x0, y1)
	c.DrawLine(x0, y1, x0, y0)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// View maps a world-space window onto a canvas's sub-pixel raster.
// World y grows upward; raster y grows downward.
type View struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// FitBodies returns a view framing every live body's (x,y) extent with
// ten percent padding, keeping a sane window for empty worlds.
func FitBodies(bodies []*phys.Body, now float64) View {
	v := View{MinX: -1, MaxX: 1, MinY: -1, MaxY: 1}
	first := true
	for _, b := range bodies {
		p := b.Position(now)
		e := b.Extents()
		if first {
			v = View{MinX: p.X - e.X, MaxX: p.X + e.X, MinY: p.Y - e.Y, MaxY: p.Y + e.Y}
			first = false
			continue
		}
		v.MinX = min(v.MinX, p.X-e.X)
		v.MaxX = max(v.MaxX, p.X+e.X)
		v.MinY = min(v.MinY, p.Y-e.Y)
		v.MaxY = max(v.MaxY, p.Y+e.Y)
	}
	padX := (v.MaxX - v.MinX) * 0.1
	padY := (v.MaxY - v.MinY) * 0.1
	if padX == 0 {
		padX = 1
	}
	if padY == 0 {
		padY = 1
	}
	v.MinX -= padX
	v.MaxX += padX
	v.MinY -= padY
	v.MaxY += padY
	return v
}

func (v View) project(c *Canvas, wx, wy float64) (int, int) {
	sx := (wx - v.MinX) / (v.MaxX - v.MinX) * float64(c.Width*2-1)
	sy := (1 - (wy-v.MinY)/(v.MaxY-v.MinY)) * float64(c.Height*4-1)
	return int(sx), int(sy)
}

// RenderWorld clears the canvas and draws every live body's (x,y) AABB
// outline as seen from the front.
func RenderWorld(c *Canvas, v View, bodies []*phys.Body, now float64) {
	c.Clear()
	for _, b := range bodies {
		if b.Destroyed() {
			continue
		}
		p := b.Position(now)
		e := b.Extents()
		x0, y0 := v.project(c, p.X-e.X, p.Y+e.Y)
		x1, y1 := v.project(c, p.X+e.X, p.Y-e.Y)
		c.DrawBox(x0, y0, x1, y1)
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
