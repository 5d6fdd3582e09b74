package phys

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

const (
	// gridCellSize is the broad-phase cell edge on the x and z axes.
	// Coarser than one world unit so small bodies rarely span cells.
	gridCellSize = 4.0

	// gridBuckets is the fixed bucket count; must be a power of two.
	gridBuckets = 1024

	// gridOverflowCells is the footprint size above which a body skips
	// the grid and is brute-force tested against every other body.
	gridOverflowCells = 64
)

// gridNode is one chain link in a bucket. Nodes live in a slab and
// link by index so the freelist never recycles raw pointers.
type gridNode struct {
	body *Body
	next int32
}

// grid is the broad-phase spatial index. Only the (x,z) footprint is
// hashed; vertical stacking is handled by the ordered support pass.
// The grid is rebuilt from scratch every sub-step.
type grid struct {
	buckets  [gridBuckets]int32
	nodes    []gridNode
	free     int32
	touched  []int32
	overflow []*Body
	all      []*Body

	seen    map[uint64]struct{}
	results []*Body
	key     [12]byte
}

func newGrid() *grid {
	g := &grid{
		free: -1,
		seen: make(map[uint64]struct{}, 16),
	}
	for i := range g.buckets {
		g.buckets[i] = -1
	}
	return g
}

func (g *grid) alloc(b *Body, next int32) int32 {
	if g.free >= 0 {
		idx := g.free
		g.free = g.nodes[idx].next
		g.nodes[idx] = gridNode{body: b, next: next}
		return idx
	}
	g.nodes = append(g.nodes, gridNode{body: b, next: next})
	return int32(len(g.nodes) - 1)
}

// reset returns every chained node to the freelist and empties the
// touched buckets, keeping the slab for the next rebuild.
func (g *grid) reset() {
	for _, bi := range g.touched {
		n := g.buckets[bi]
		for n >= 0 {
			next := g.nodes[n].next
			g.nodes[n].body = nil
			g.nodes[n].next = g.free
			g.free = n
			n = next
		}
		g.buckets[bi] = -1
	}
	g.touched = g.touched[:0]
	g.overflow = g.overflow[:0]
	g.all = g.all[:0]
}

func cellRange(center, extent float64) (int32, int32) {
	lo := int32(math.Floor((center - extent) / gridCellSize))
	hi := int32(math.Floor((center + extent) / gridCellSize))
	return lo, hi
}

func (g *grid) bucketFor(cx, cz int32, dim int) uint32 {
	binary.LittleEndian.PutUint32(g.key[0:], uint32(cx))
	binary.LittleEndian.PutUint32(g.key[4:], uint32(cz))
	binary.LittleEndian.PutUint32(g.key[8:], uint32(dim))
	return uint32(xxhash.Sum64(g.key[:])) & (gridBuckets - 1)
}

// rebuild indexes every live body's horizontal footprint as of now.
func (g *grid) rebuild(bodies []*Body, now float64) {
	g.reset()
	for _, b := range bodies {
		if b.destroyed {
			continue
		}
		g.all = append(g.all, b)
		p := b.Position(now)
		x0, x1 := cellRange(p.X, b.extents.X)
		z0, z1 := cellRange(p.Z, b.extents.Z)
		cells := int64(x1-x0+1) * int64(z1-z0+1)
		if cells > gridOverflowCells {
			g.overflow = append(g.overflow, b)
			continue
		}
		for cx := x0; cx <= x1; cx++ {
			for cz := z0; cz <= z1; cz++ {
				bi := g.bucketFor(cx, cz, p.Dim)
				if g.buckets[bi] < 0 {
					g.touched = append(g.touched, int32(bi))
				}
				g.buckets[bi] = g.alloc(b, g.buckets[bi])
			}
		}
	}
}

// query gathers the distinct candidate set for b: bodies sharing any of
// its cells plus everything on the overflow list. An overflow body is
// itself tested against the full live set. The returned slice is reused
// by the next query.
func (g *grid) query(b *Body, now float64) []*Body {
	clear(g.seen)
	g.results = g.results[:0]

	p := b.Position(now)
	x0, x1 := cellRange(p.X, b.extents.X)
	z0, z1 := cellRange(p.Z, b.extents.Z)
	if int64(x1-x0+1)*int64(z1-z0+1) > gridOverflowCells {
		for _, o := range g.all {
			g.add(b, o)
		}
		return g.results
	}

	for cx := x0; cx <= x1; cx++ {
		for cz := z0; cz <= z1; cz++ {
			n := g.buckets[g.bucketFor(cx, cz, p.Dim)]
			for n >= 0 {
				g.add(b, g.nodes[n].body)
				n = g.nodes[n].next
			}
		}
	}
	for _, o := range g.overflow {
		g.add(b, o)
	}
	return g.results
}

func (g *grid) add(self, other *Body) {
	if other == self || other.destroyed {
		return
	}
	if _, dup := g.seen[other.id]; dup {
		return
	}
	g.seen[other.id] = struct{}{}
	g.results = append(g.results, other)
}
